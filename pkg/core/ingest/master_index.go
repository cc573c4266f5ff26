package ingest

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// QuarterIndex maps "{cik}_{form}" to the submission URLs filed in one
// quarter, in master index order.
type QuarterIndex map[string][]string

// IndexKey builds the QuarterIndex key of a company and form type.
func IndexKey(cik, form string) string {
	return cik + "_" + form
}

// Filings returns the submissions of cik for form.
func (idx QuarterIndex) Filings(cik, form string) []string {
	return idx[IndexKey(cik, form)]
}

var indexedForms = map[string]bool{"10-Q": true, "10-K": true}

// ParseMasterIndex reads an EDGAR master.idx:
//
//	CIK|Company Name|Form Type|Date Filed|Filename
//	--------------------------------------------------
//	320193|APPLE COMPUTER INC|10-Q|1994-08-12|edgar/data/320193/0000320193-94-000016.txt
//
// Rows before the column header line are preamble. Only 10-Q and 10-K
// rows pointing at .txt submissions are kept, with Filename resolved
// against archives.
func ParseMasterIndex(r io.Reader, archives string) (QuarterIndex, error) {
	idx := make(QuarterIndex)
	archives = strings.TrimSuffix(archives, "/")

	var cols map[string]int
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if cols == nil {
			if strings.HasPrefix(line, "CIK|") {
				cols = make(map[string]int)
				for i, name := range strings.Split(line, "|") {
					cols[strings.TrimSpace(name)] = i
				}
				for _, name := range []string{"CIK", "Form Type", "Filename"} {
					if _, ok := cols[name]; !ok {
						return nil, fmt.Errorf("master index header lacks %q column", name)
					}
				}
			}
			continue
		}
		if !strings.HasSuffix(line, ".txt") {
			continue
		}
		fields := strings.Split(line, "|")
		if len(fields) < len(cols) {
			continue
		}
		form := strings.TrimSpace(fields[cols["Form Type"]])
		if !indexedForms[form] {
			continue
		}
		key := IndexKey(strings.TrimSpace(fields[cols["CIK"]]), form)
		idx[key] = append(idx[key], archives+"/"+strings.TrimSpace(fields[cols["Filename"]]))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read master index: %w", err)
	}
	if cols == nil {
		return nil, fmt.Errorf("master index has no column header")
	}
	return idx, nil
}
