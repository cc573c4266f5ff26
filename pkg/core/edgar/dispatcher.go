package edgar

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"finstatements/pkg/core/doctree"

	"github.com/PuerkitoBio/goquery"
)

// Dispatcher extracts one statement kind from a document, routing to the
// structured or plain-text path by the document's representation.
type Dispatcher struct {
	rules KindRules
	th    Thresholds
}

// NewDispatcher creates the dispatcher for kind.
func NewDispatcher(kind StatementKind, cfg Config) *Dispatcher {
	return &Dispatcher{rules: cfg.Rules(kind), th: cfg.Thresholds}
}

// Kind returns the statement kind handled.
func (d *Dispatcher) Kind() StatementKind { return d.rules.Kind }

// Parse extracts the statement. Failures are *ExtractionError values
// wrapping one of the Err* categories.
func (d *Dispatcher) Parse(doc Document) (*ParseOutcome, error) {
	if d.rules.Kind == SharesOutstanding {
		return d.parseShares(doc)
	}
	switch doc.Representation {
	case StructuredMarkup:
		return d.parseMarkup(doc.Content)
	case PlainText:
		return d.parseText(doc.Content)
	}
	return nil, fmt.Errorf("unsupported representation %q", doc.Representation)
}

func (d *Dispatcher) parseMarkup(content string) (*ParseOutcome, error) {
	tree, gdoc, err := doctree.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse markup: %w", err)
	}

	table, err := d.structuredTable(tree)
	if err == nil {
		return &ParseOutcome{Kind: d.rules.Kind, Path: PathStructuredTabular, Table: table}, nil
	}

	// some markup filings are plain text wrapped in <pre>
	if errors.Is(err, ErrBoundaryNotFound) || errors.Is(err, ErrEmptyTable) {
		if pre := preformatted(gdoc); pre != "" {
			if out, textErr := d.parseText(pre); textErr == nil {
				return out, nil
			}
		}
	}
	return nil, fail(d.rules.Kind, PathStructuredTabular, err)
}

// structuredTable tries each candidate region until one yields a table.
func (d *Dispatcher) structuredTable(tree *doctree.Tree) (*Table, error) {
	regions, err := LocateStructured(tree, d.rules, d.th)
	if err != nil {
		return nil, err
	}

	var firstErr error
	for _, region := range regions {
		sec := CollectTables(tree, region, d.rules.MaxTables)
		if len(sec.Tables) == 0 {
			if firstErr == nil {
				firstErr = ErrEmptyTable
			}
			continue
		}
		table, err := d.assembleSection(sec)
		if err == nil {
			return table, nil
		}
		if firstErr == nil || errors.Is(firstErr, ErrEmptyTable) {
			firstErr = err
		}
	}
	return nil, firstErr
}

// assembleSection assembles each table of a section and concatenates the
// successes. The first table's failure is reported when none succeeds.
func (d *Dispatcher) assembleSection(sec Section) (*Table, error) {
	var result *Table
	var firstErr error
	for i, grid := range sec.Tables {
		rec, err := ReconcileColumns(grid, d.th)
		if err == nil {
			var t *Table
			if t, err = AssembleStructured(rec, sec, d.rules, d.th); err == nil {
				if result == nil {
					result = t
				} else {
					result = concatTables(result, t)
				}
				continue
			}
		}
		log.Printf("[Dispatcher] %s: table %d rejected: %v", d.rules.Kind, i, err)
		if firstErr == nil {
			firstErr = err
		}
	}
	if result == nil {
		return nil, firstErr
	}
	return result, nil
}

func (d *Dispatcher) parseText(content string) (*ParseOutcome, error) {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	regions, err := LocateLines(lines, d.rules, d.th)
	if err != nil {
		return nil, fail(d.rules.Kind, PathPlainText, err)
	}

	var firstErr error
	for _, region := range regions {
		table, err := d.lineTable(lines[region.Start+1 : region.End])
		if err == nil {
			return &ParseOutcome{Kind: d.rules.Kind, Path: PathPlainText, Table: table}, nil
		}
		log.Printf("[Dispatcher] %s: region at line %d rejected: %v", d.rules.Kind, region.Start, err)
		if firstErr == nil || errors.Is(firstErr, ErrEmptyTable) {
			firstErr = err
		}
	}
	return nil, fail(d.rules.Kind, PathPlainText, firstErr)
}

// lineTable segments, combines and assembles the lines of one region.
func (d *Dispatcher) lineTable(lines []string) (*Table, error) {
	hdr, raw, err := SegmentLines(lines, d.rules)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, ErrEmptyTable
	}
	return AssembleLines(hdr, CombineRows(raw, len(hdr.Columns)), d.rules, d.th)
}

func preformatted(doc *goquery.Document) string {
	var sb strings.Builder
	doc.Find("pre").Each(func(_ int, s *goquery.Selection) {
		sb.WriteString(s.Text())
		sb.WriteString("\n")
	})
	return sb.String()
}
