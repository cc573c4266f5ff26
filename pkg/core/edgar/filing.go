package edgar

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Filing is the primary document of an EDGAR submission plus the header
// fields the engine needs.
type Filing struct {
	Form           string
	PeriodOfReport time.Time
	Document       Document
}

var (
	periodOfReport = regexp.MustCompile(`CONFORMED PERIOD OF REPORT:\s*(\d{8})`)
	submissionType = regexp.MustCompile(`CONFORMED SUBMISSION TYPE:\s*(\S+)`)
	documentBlock  = regexp.MustCompile(`(?is)<DOCUMENT>(.*?)</DOCUMENT>`)
	typeTag        = regexp.MustCompile(`(?im)^\s*<TYPE>\s*(\S+)`)
	textBlock      = regexp.MustCompile(`(?is)<TEXT>(.*?)(?:</TEXT>|$)`)
	markupProbe    = regexp.MustCompile(`(?i)<html|<xbrl>|<body`)
	bodyBlock      = regexp.MustCompile(`(?is)<body[^>]*>(.*)</body>`)
)

// SplitFiling extracts the primary 10-Q/10-K document from a full EDGAR
// submission text. A submission without <DOCUMENT> sections is taken as
// the document itself.
func SplitFiling(raw string) (*Filing, error) {
	f := &Filing{}
	if m := submissionType.FindStringSubmatch(raw); m != nil {
		f.Form = strings.ToUpper(m[1])
	}
	if m := periodOfReport.FindStringSubmatch(raw); m != nil {
		t, err := time.Parse("20060102", m[1])
		if err != nil {
			return nil, fmt.Errorf("invalid period of report %q: %w", m[1], err)
		}
		f.PeriodOfReport = t
	}

	content := raw
	blocks := documentBlock.FindAllStringSubmatch(raw, -1)
	if len(blocks) > 0 {
		content = blocks[0][1]
		for _, b := range blocks {
			t := typeTag.FindStringSubmatch(b[1])
			if t != nil && isPeriodicForm(t[1], f.Form) {
				content = b[1]
				if f.Form == "" {
					f.Form = strings.ToUpper(t[1])
				}
				break
			}
		}
		if m := textBlock.FindStringSubmatch(content); m != nil {
			content = m[1]
		}
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("submission has no document text")
	}

	if markupProbe.MatchString(content) {
		if m := bodyBlock.FindStringSubmatch(content); m != nil {
			content = "<html><body>" + m[1] + "</body></html>"
		}
		f.Document = Document{Content: content, Representation: StructuredMarkup}
	} else {
		f.Document = Document{Content: content, Representation: PlainText}
	}
	return f, nil
}

func isPeriodicForm(docType, form string) bool {
	docType = strings.ToUpper(docType)
	if form != "" && docType == form {
		return true
	}
	return strings.HasPrefix(docType, "10-Q") || strings.HasPrefix(docType, "10-K")
}

// DetectRepresentation guesses the representation of bare content.
func DetectRepresentation(content string) Representation {
	if markupProbe.MatchString(content) {
		return StructuredMarkup
	}
	return PlainText
}
