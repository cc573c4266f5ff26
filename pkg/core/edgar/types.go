// Package edgar locates financial statements inside SEC periodic filings and
// normalizes them into clean numeric tables.
//
// Two document representations are supported: structured markup (HTML, with
// real table elements) and plain text (pre-2001 filings where tables are laid
// out with whitespace). Each statement kind is described by a declarative
// rule table (see rules.go) and driven by a Dispatcher.
package edgar

import (
	"fmt"
	"strings"
)

// =============================================================================
// DOCUMENT REPRESENTATION
// =============================================================================

// Representation identifies how a filing's content is encoded.
type Representation string

const (
	StructuredMarkup Representation = "structured-markup"
	PlainText        Representation = "plain-text"
)

// ExtractionPath tags which code path produced a result.
type ExtractionPath string

const (
	PathStructuredNative  ExtractionPath = "structured-native"  // named data element lookup
	PathStructuredTabular ExtractionPath = "structured-tabular" // markup table parsing
	PathPlainText         ExtractionPath = "plain-text"         // whitespace-aligned text
)

// Document is one filing's primary content.
type Document struct {
	Content        string
	Representation Representation
}

// =============================================================================
// STATEMENT KINDS
// =============================================================================

// StatementKind selects a statement's rule table.
type StatementKind int

const (
	IncomeStatement StatementKind = iota
	BalanceSheet
	CashFlow
	SharesOutstanding
)

// AllKinds lists every kind in the order the composite runs them.
var AllKinds = []StatementKind{IncomeStatement, BalanceSheet, CashFlow, SharesOutstanding}

// String returns the kind's result key.
func (k StatementKind) String() string {
	switch k {
	case IncomeStatement:
		return "income_statement"
	case BalanceSheet:
		return "balance_sheet"
	case CashFlow:
		return "cash_flow"
	case SharesOutstanding:
		return "shares_outstanding"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind maps a result key back to its kind.
func ParseKind(s string) (StatementKind, error) {
	for _, k := range AllKinds {
		if k.String() == strings.ToLower(strings.TrimSpace(s)) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown statement kind %q", s)
}

// =============================================================================
// RESULT TABLES
// =============================================================================

// PeriodSpec is the reporting period length inferred from "N months ended".
type PeriodSpec struct {
	Months int `json:"months"`
}

// ColumnLabel is the canonical name of a data column.
type ColumnLabel struct {
	Period int    `json:"period,omitempty"` // months; 0 when unknown
	Date   string `json:"date,omitempty"`   // "June 30"
	Year   string `json:"year,omitempty"`   // "1994"
	Raw    string `json:"raw,omitempty"`    // header text the label was derived from
}

// String renders the canonical form, e.g. "period: 3, 1994".
func (c ColumnLabel) String() string {
	var parts []string
	if c.Period > 0 {
		parts = append(parts, fmt.Sprintf("period: %d", c.Period))
	}
	if c.Date != "" {
		parts = append(parts, c.Date)
	}
	if c.Year != "" {
		parts = append(parts, c.Year)
	}
	if len(parts) == 0 {
		return c.Raw
	}
	return strings.Join(parts, ", ")
}

// Row is one line item. Values has one entry per table column; an empty
// Value means the cell was absent.
type Row struct {
	Label  string  `json:"label"`
	Values []Value `json:"values"`
}

// Table is a normalized financial statement: labelled rows by column.
type Table struct {
	Columns []ColumnLabel `json:"columns"`
	Rows    []Row         `json:"rows"`
}

// ColumnNames returns the canonical column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.String()
	}
	return names
}

// Lookup returns the value at (label, column), matching the label
// case-insensitively.
func (t *Table) Lookup(label, column string) (Value, bool) {
	col := -1
	for i, c := range t.Columns {
		if c.String() == column {
			col = i
			break
		}
	}
	if col < 0 {
		return Value{}, false
	}
	for _, r := range t.Rows {
		if strings.EqualFold(r.Label, label) && col < len(r.Values) {
			return r.Values[col], !r.Values[col].IsEmpty()
		}
	}
	return Value{}, false
}

// RawTable is a grid of cell strings straight out of a document.
type RawTable [][]string

// ParseOutcome is a dispatcher's successful result.
type ParseOutcome struct {
	Kind  StatementKind  `json:"-"`
	Path  ExtractionPath `json:"path"`
	Table *Table         `json:"table"`
}
