package edgar

import (
	"fmt"
	"strings"
)

// =============================================================================
// TABLE ASSEMBLER
// =============================================================================

// AssembleStructured names the reconciled columns of a markup table and
// assembles the result. Period and end date from the section fill in what
// a column header leaves out.
func AssembleStructured(rec *Reconciled, sec Section, rules KindRules, th Thresholds) (*Table, error) {
	cols := make([]ColumnLabel, len(rec.Headers))
	for i, h := range rec.Headers {
		cols[i] = completeLabel(parseColumnHeader(h), sec.Period, sec.EndDate, rules.NeedsPeriod)
	}
	return assemble(cols, rec.Rows, rules, th)
}

// AssembleLines assembles the combined rows of a plain-text statement.
func AssembleLines(hdr TextHeader, rows [][]string, rules KindRules, th Thresholds) (*Table, error) {
	return assemble(hdr.ColumnLabels(rules.NeedsPeriod), rows, rules, th)
}

type column struct {
	label ColumnLabel
	cells []string
}

// assemble builds a Table from [label, v1..vN] rows. It cleans labels,
// drops footer boilerplate and sentinel-delimited trailing rows, removes empty,
// low-variety and duplicate columns, and normalizes every value.
func assemble(labels []ColumnLabel, rows [][]string, rules KindRules, th Thresholds) (*Table, error) {
	n := len(labels)
	if n == 0 {
		return nil, fmt.Errorf("%w: no columns", ErrAmbiguousColumns)
	}

	var names []string
	var cells [][]string
	for _, r := range rows {
		if len(r) == 0 {
			continue
		}
		r = shape(r, n)
		label := normalizeText(r[0])
		vals := make([]string, n)
		if len(r) == n+1 {
			for i, v := range r[1:] {
				vals[i] = normalizeText(v)
			}
		}
		if label == "" || isFooter(label, rules.Footers) {
			continue
		}
		if notesMarker.MatchString(label) {
			break
		}
		if labelHasAny(label, rules.StopLabels) || labelHasAny(label, rules.DiscardFrom) {
			break
		}
		if endsWithColon(label) {
			label = strings.TrimSpace(strings.TrimSuffix(label, ":"))
			vals = make([]string, n)
		}
		names = append(names, label)
		cells = append(cells, vals)
	}
	names, cells = applyJoins(names, cells, rules.Joins)
	if len(names) == 0 {
		return nil, ErrEmptyTable
	}

	cols := make([]column, n)
	for c := range cols {
		cols[c].label = labels[c]
		cols[c].cells = make([]string, len(cells))
		for r := range cells {
			cols[c].cells[r] = cells[r][c]
		}
	}
	cols = dropEmptyColumns(cols)
	cols = dropLowVariety(cols, len(names), th.MinDistinctRatio)
	cols = dropDuplicateColumns(cols)
	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: no data column survived", ErrAmbiguousColumns)
	}

	seen := map[string]bool{}
	t := &Table{}
	for _, c := range cols {
		name := c.label.String()
		if seen[name] {
			return nil, fmt.Errorf("%w: two columns named %q", ErrAmbiguousColumns, name)
		}
		seen[name] = true
		t.Columns = append(t.Columns, c.label)
	}
	for r, label := range names {
		row := Row{Label: label, Values: make([]Value, len(cols))}
		for c := range cols {
			row.Values[c] = NormalizeValue(cols[c].cells[r])
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// applyJoins merges a known label fragment that carries no values into
// the label of the row below it.
func applyJoins(names []string, cells [][]string, joins []string) ([]string, [][]string) {
	if len(joins) == 0 {
		return names, cells
	}
	var outNames []string
	var outCells [][]string
	for i := 0; i < len(names); i++ {
		if i+1 < len(names) && allEmpty(cells[i]) && isJoinFragment(names[i], joins) {
			names[i+1] = names[i] + " " + names[i+1]
			continue
		}
		outNames = append(outNames, names[i])
		outCells = append(outCells, cells[i])
	}
	return outNames, outCells
}

func isJoinFragment(label string, joins []string) bool {
	l := strings.ToLower(strings.TrimSpace(label))
	for _, j := range joins {
		if j != "" && strings.HasPrefix(l, strings.ToLower(j)) {
			return true
		}
	}
	return false
}

func dropEmptyColumns(cols []column) []column {
	var out []column
	for _, c := range cols {
		if !allEmpty(c.cells) {
			out = append(out, c)
		}
	}
	return out
}

// dropLowVariety removes columns whose distinct values are fewer than
// ratio times the row count, such as columns of "$" or ")" that escaped
// reconciliation.
func dropLowVariety(cols []column, rows int, ratio float64) []column {
	var out []column
	for _, c := range cols {
		distinct := map[string]bool{}
		for _, v := range c.cells {
			distinct[v] = true
		}
		if float64(len(distinct)) < ratio*float64(rows) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// dropDuplicateColumns collapses columns with identical normalized cells,
// keeping the more descriptive header in the first one's position.
func dropDuplicateColumns(cols []column) []column {
	var out []column
	var sigs []string
	for _, c := range cols {
		sig := signature(c.cells)
		dup := -1
		for i, s := range sigs {
			if s == sig {
				dup = i
				break
			}
		}
		if dup < 0 {
			out = append(out, c)
			sigs = append(sigs, sig)
			continue
		}
		if len(c.label.String()) > len(out[dup].label.String()) {
			out[dup].label = c.label
		}
	}
	return out
}

func signature(cells []string) string {
	parts := make([]string, len(cells))
	for i, v := range cells {
		parts[i] = NormalizeValue(v).String()
	}
	return strings.Join(parts, "\x1f")
}

// concatTables appends the rows of b to a, matching columns by name.
// Columns only b has are added at the end.
func concatTables(a, b *Table) *Table {
	out := &Table{Columns: append([]ColumnLabel(nil), a.Columns...)}
	index := map[string]int{}
	for i, c := range out.Columns {
		index[c.String()] = i
	}
	for _, c := range b.Columns {
		if _, ok := index[c.String()]; !ok {
			index[c.String()] = len(out.Columns)
			out.Columns = append(out.Columns, c)
		}
	}
	widen := func(r Row, cols []ColumnLabel) Row {
		vals := make([]Value, len(out.Columns))
		for i, c := range cols {
			vals[index[c.String()]] = r.Values[i]
		}
		return Row{Label: r.Label, Values: vals}
	}
	for _, r := range a.Rows {
		out.Rows = append(out.Rows, widen(r, a.Columns))
	}
	for _, r := range b.Rows {
		out.Rows = append(out.Rows, widen(r, b.Columns))
	}
	return out
}
