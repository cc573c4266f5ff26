package edgar

import (
	"errors"
	"strings"
	"testing"
)

const legacyFiling = `                             ACME CORPORATION

                  CONSOLIDATED STATEMENTS OF OPERATIONS
` + legacyIncome + `
                       CONSOLIDATED BALANCE SHEETS
`

func TestDispatcher_PlainTextSkipsContentsPage(t *testing.T) {
	content := `                         TABLE OF CONTENTS
  CONSOLIDATED STATEMENTS OF OPERATIONS ..................... 3
  CONSOLIDATED BALANCE SHEETS ............................... 4
<PAGE>
` + legacyFiling

	d := NewDispatcher(IncomeStatement, DefaultConfig())
	out, err := d.Parse(Document{Content: content, Representation: PlainText})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	got, ok := out.Table.Lookup("Net sales", "period: 3, 1994")
	if !ok || got != Int(2876) {
		t.Errorf("Lookup(Net sales) = %v, %v, want 2876", got, ok)
	}
}

func TestDispatcher_PlainText(t *testing.T) {
	d := NewDispatcher(IncomeStatement, DefaultConfig())
	out, err := d.Parse(Document{Content: legacyFiling, Representation: PlainText})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if out.Path != PathPlainText {
		t.Errorf("path = %s, want %s", out.Path, PathPlainText)
	}

	tests := []struct {
		label, column string
		want          Value
	}{
		{"Net sales", "period: 3, 1994", Int(2876)},
		{"Net loss", "period: 3, 1994", Int(-45)},
		{"Net loss", "period: 3, 1993", Int(120)},
		{"Income (loss) before income taxes", "period: 3, 1993", Int(120)},
	}
	for _, tt := range tests {
		got, ok := out.Table.Lookup(tt.label, tt.column)
		if !ok || got != tt.want {
			t.Errorf("Lookup(%q, %q) = %v, %v, want %v", tt.label, tt.column, got, ok, tt.want)
		}
	}
	for _, r := range out.Table.Rows {
		if strings.Contains(strings.ToLower(r.Label), "dividends") || strings.Contains(r.Label, "Weighted") {
			t.Errorf("row %q should have been cut by the stop sentinel", r.Label)
		}
	}
}

func TestDispatcher_NotFound(t *testing.T) {
	d := NewDispatcher(CashFlow, DefaultConfig())
	_, err := d.Parse(Document{Content: legacyFiling, Representation: PlainText})

	var extErr *ExtractionError
	if !errors.As(err, &extErr) {
		t.Fatalf("Parse() error = %v, want *ExtractionError", err)
	}
	if extErr.Kind != CashFlow || extErr.Path != PathPlainText {
		t.Errorf("error kind/path = %s/%s", extErr.Kind, extErr.Path)
	}
	if !errors.Is(err, ErrBoundaryNotFound) {
		t.Errorf("Parse() error = %v, want ErrBoundaryNotFound", err)
	}
}

func TestDispatcher_PreformattedMarkup(t *testing.T) {
	doc := Document{
		Content:        "<html><body><pre>" + legacyFiling + "</pre></body></html>",
		Representation: StructuredMarkup,
	}
	out, err := NewDispatcher(IncomeStatement, DefaultConfig()).Parse(doc)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if out.Path != PathPlainText {
		t.Errorf("path = %s, want %s", out.Path, PathPlainText)
	}
	if v, _ := out.Table.Lookup("Net sales", "period: 3, 1993"); v != Int(3121) {
		t.Errorf("Net sales 1993 = %v, want 3121", v)
	}
}

func TestReportParser_Structured(t *testing.T) {
	rep := NewReportParser(DefaultConfig()).Parse(Document{Content: quarterlyHTML, Representation: StructuredMarkup})

	tests := []struct {
		kind          StatementKind
		label, column string
		want          Value
	}{
		{IncomeStatement, "Net sales", "period: 3, June 30, 1994", Int(2876)},
		{IncomeStatement, "Net loss", "period: 3, June 30, 1994", Int(-45)},
		{IncomeStatement, "Cost of sales", "period: 3, June 30, 1993", Int(2000)},
		{BalanceSheet, "Cash", "June 30, 1994", Int(100)},
		{BalanceSheet, "Receivables", "December 31, 1993", Int(40)},
		{CashFlow, "Depreciation", "period: 6, June 30, 1994", Int(30)},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String()+"/"+tt.label, func(t *testing.T) {
			out, ok := rep.Results[tt.kind]
			if !ok {
				t.Fatalf("%s missing: %v", tt.kind, rep.Failures[tt.kind])
			}
			if out.Path != PathStructuredTabular {
				t.Errorf("path = %s, want %s", out.Path, PathStructuredTabular)
			}
			got, ok := out.Table.Lookup(tt.label, tt.column)
			if !ok || got != tt.want {
				t.Errorf("Lookup(%q, %q) = %v, want %v (columns %q)", tt.label, tt.column, got, tt.want, out.Table.ColumnNames())
			}
		})
	}

	if _, ok := rep.Results[SharesOutstanding]; ok {
		t.Errorf("shares outstanding should have failed")
	}
	if !errors.Is(rep.Failures[SharesOutstanding], ErrValueNotFound) {
		t.Errorf("shares failure = %v, want ErrValueNotFound", rep.Failures[SharesOutstanding])
	}
	if len(rep.Results)+len(rep.Failures) != len(AllKinds) {
		t.Errorf("report covers %d kinds, want %d", len(rep.Results)+len(rep.Failures), len(AllKinds))
	}
	if _, ok := rep.Tables()["income_statement"]; !ok {
		t.Errorf("Tables() missing income_statement")
	}
	if _, ok := rep.FailureMessages()["shares_outstanding"]; !ok {
		t.Errorf("FailureMessages() missing shares_outstanding")
	}
}

func TestReportParser_ParseFiling(t *testing.T) {
	raw := `<SEC-HEADER>
CONFORMED SUBMISSION TYPE:	10-Q
CONFORMED PERIOD OF REPORT:	19940630
</SEC-HEADER>
<DOCUMENT>
<TYPE>10-Q
<TEXT>
` + legacyFiling + `
</TEXT>
</DOCUMENT>`

	f, rep, err := NewReportParser(DefaultConfig(), IncomeStatement).ParseFiling(raw)
	if err != nil {
		t.Fatalf("ParseFiling() error = %v", err)
	}
	if f.Form != "10-Q" || f.PeriodOfReport.Year() != 1994 {
		t.Errorf("filing = %s %v", f.Form, f.PeriodOfReport)
	}
	if _, ok := rep.Results[IncomeStatement]; !ok {
		t.Errorf("income statement failed: %v", rep.Failures[IncomeStatement])
	}
}
