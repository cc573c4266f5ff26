package edgar

import (
	"strings"
	"testing"
	"time"
)

func TestSplitFiling(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantForm string
		wantRep  Representation
		wantText string
		period   time.Time
	}{
		{
			name: "Picks the periodic report among exhibits",
			raw: `CONFORMED SUBMISSION TYPE:	10-Q
CONFORMED PERIOD OF REPORT:	19940630
<DOCUMENT>
<TYPE>EX-27
<TEXT>financial data schedule</TEXT>
</DOCUMENT>
<DOCUMENT>
<TYPE>10-Q
<TEXT>
quarterly report body
</TEXT>
</DOCUMENT>`,
			wantForm: "10-Q",
			wantRep:  PlainText,
			wantText: "quarterly report body",
			period:   time.Date(1994, 6, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "Markup body is unwrapped",
			raw: `<DOCUMENT>
<TYPE>10-K
<TEXT>
<html><head><title>x</title></head><body><p>annual</p></body></html>
</TEXT>
</DOCUMENT>`,
			wantForm: "10-K",
			wantRep:  StructuredMarkup,
			wantText: "<p>annual</p>",
		},
		{
			name:     "Bare document",
			raw:      "just some text",
			wantRep:  PlainText,
			wantText: "just some text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := SplitFiling(tt.raw)
			if err != nil {
				t.Fatalf("SplitFiling() error = %v", err)
			}
			if f.Form != tt.wantForm {
				t.Errorf("form = %q, want %q", f.Form, tt.wantForm)
			}
			if f.Document.Representation != tt.wantRep {
				t.Errorf("representation = %s, want %s", f.Document.Representation, tt.wantRep)
			}
			if !strings.Contains(f.Document.Content, tt.wantText) {
				t.Errorf("content = %q, want it to contain %q", f.Document.Content, tt.wantText)
			}
			if !f.PeriodOfReport.Equal(tt.period) {
				t.Errorf("period = %v, want %v", f.PeriodOfReport, tt.period)
			}
		})
	}
}

func TestSplitFiling_Errors(t *testing.T) {
	tests := []string{
		"CONFORMED PERIOD OF REPORT: 19941399\nbody",
		"<DOCUMENT><TYPE>10-Q\n<TEXT>   </TEXT></DOCUMENT>",
	}
	for _, raw := range tests {
		if _, err := SplitFiling(raw); err == nil {
			t.Errorf("SplitFiling(%q) expected error", raw)
		}
	}
}

func TestDetectRepresentation(t *testing.T) {
	tests := []struct {
		content string
		want    Representation
	}{
		{"<HTML><BODY>x</BODY></HTML>", StructuredMarkup},
		{"<XBRL>data", StructuredMarkup},
		{"   CONSOLIDATED BALANCE SHEETS\n  1994  1993", PlainText},
	}
	for _, tt := range tests {
		if got := DetectRepresentation(tt.content); got != tt.want {
			t.Errorf("DetectRepresentation(%q) = %s, want %s", tt.content, got, tt.want)
		}
	}
}
