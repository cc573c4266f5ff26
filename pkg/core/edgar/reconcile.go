package edgar

import (
	"fmt"
	"strings"
)

// =============================================================================
// COLUMN RECONCILER
// =============================================================================

// Reconciled is a structured table after its physical columns have been
// merged into logical ones: Headers has one entry per data column and each
// row is [label, v1..vN].
type Reconciled struct {
	Headers []string
	Rows    [][]string
}

const labelGroup = "\x00label"

// ReconcileColumns merges the physical columns of a markup table into
// logical columns.
//
// Filings split one logical column into several cells ("$", the amount, a
// closing parenthesis) under a header that spans them all. Columns are
// grouped by their flattened header text; within a group the distinct
// non-empty cells of a row are concatenated left to right. Header rows are
// the leading rows without amounts in them.
func ReconcileColumns(grid RawTable, th Thresholds) (*Reconciled, error) {
	rows := cleanGrid(grid)
	if len(rows) == 0 {
		return nil, ErrEmptyTable
	}

	// leading banner rows: one text repeated across the whole row
	for len(rows) > 0 && rows[0][0] != "" && isBanner(rows[0]) {
		rows = rows[1:]
	}
	nHeader := 0
	for nHeader < len(rows) && isHeaderRow(rows[nHeader]) {
		nHeader++
	}
	if nHeader > th.MaxHeaderRows {
		return nil, fmt.Errorf("%w: %d header rows", ErrMultilevelTableUnsupported, nHeader)
	}
	if nHeader == len(rows) {
		return nil, ErrEmptyTable
	}
	header, body := dropHeaderOnlyColumns(rows[:nHeader], rows[nHeader:])

	width := len(body[0])
	keys := make([]string, width)
	keys[0] = labelGroup
	for c := 1; c < width; c++ {
		keys[c] = flattenHeader(header, c)
	}
	attachOrphans(keys, body)

	groups, err := groupColumns(keys)
	if err != nil {
		return nil, err
	}

	out := &Reconciled{}
	for _, g := range groups[1:] {
		out.Headers = append(out.Headers, keys[g[0]])
	}
	for _, row := range body {
		merged := make([]string, 0, len(groups))
		for gi, g := range groups {
			cell, err := mergeCells(row, g, gi == 0)
			if err != nil {
				return nil, err
			}
			merged = append(merged, cell)
		}
		if !allEmpty(merged) {
			out.Rows = append(out.Rows, merged)
		}
	}
	if len(out.Rows) == 0 {
		return nil, ErrEmptyTable
	}
	return out, nil
}

// cleanGrid normalizes cell text and drops empty rows and columns.
func cleanGrid(grid RawTable) [][]string {
	var rows [][]string
	for _, r := range grid {
		row := make([]string, len(r))
		for i, cell := range r {
			row[i] = normalizeText(cell)
		}
		if !allEmpty(row) {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return nil
	}
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	var keep []int
	for c := 0; c < width; c++ {
		for _, r := range rows {
			if c < len(r) && r[c] != "" {
				keep = append(keep, c)
				break
			}
		}
	}
	out := make([][]string, len(rows))
	for i, r := range rows {
		row := make([]string, len(keep))
		for j, c := range keep {
			if c < len(r) {
				row[j] = r[c]
			}
		}
		out[i] = row
	}
	return out
}

// dropHeaderOnlyColumns removes data columns with no body cells, such as
// spacers under a period header spanning two date columns.
func dropHeaderOnlyColumns(header, body [][]string) ([][]string, [][]string) {
	keep := []int{0}
	for c := 1; c < len(body[0]); c++ {
		for _, r := range body {
			if r[c] != "" {
				keep = append(keep, c)
				break
			}
		}
	}
	if len(keep) == len(body[0]) {
		return header, body
	}
	pick := func(rows [][]string) [][]string {
		out := make([][]string, len(rows))
		for i, r := range rows {
			out[i] = make([]string, len(keep))
			for j, c := range keep {
				out[i][j] = r[c]
			}
		}
		return out
	}
	return pick(header), pick(body)
}

func isBanner(row []string) bool {
	first := ""
	for _, cell := range row {
		if cell == "" {
			continue
		}
		if first == "" {
			first = cell
		} else if cell != first {
			return false
		}
	}
	return first != ""
}

// isHeaderRow reports whether a row has data cells and none of them is an
// amount. Bare years count as header text.
func isHeaderRow(row []string) bool {
	seen := false
	for _, cell := range row[1:] {
		if cell == "" {
			continue
		}
		if looksNumeric(cell) && !(len(cell) == 4 && yearToken.MatchString(cell)) {
			return false
		}
		seen = true
	}
	return seen
}

// flattenHeader joins the distinct header cells of column c, top down.
func flattenHeader(header [][]string, c int) string {
	var parts []string
	for _, row := range header {
		cell := row[c]
		if cell == "" || (len(parts) > 0 && parts[len(parts)-1] == cell) {
			continue
		}
		parts = append(parts, cell)
	}
	return strings.Join(parts, " ")
}

// attachOrphans gives headerless columns a key. Closing parentheses and
// percent signs bind left, text continuing the label joins the label,
// numbers get a positional key and currency symbols bind right.
func attachOrphans(keys []string, body [][]string) {
	for c := 1; c < len(keys); c++ {
		if keys[c] != "" || onlyCells(body, c, currencies) {
			continue
		}
		switch left := keys[c-1]; {
		case onlyCells(body, c, closers) && left != "" && left != labelGroup:
			keys[c] = left
		case left == labelGroup && !hasNumbers(body, c):
			keys[c] = labelGroup
		case hasNumbers(body, c):
			keys[c] = fmt.Sprintf("column %d", c)
		case left != labelGroup:
			keys[c] = left
		}
	}
	for c := len(keys) - 1; c >= 1; c-- {
		if keys[c] == "" && c+1 < len(keys) && keys[c+1] != labelGroup {
			keys[c] = keys[c+1]
		}
	}
}

var (
	currencies = map[string]bool{"$": true, "US$": true, "€": true, "£": true}
	closers    = map[string]bool{")": true, "%": true, ")%": true, "*": true}
)

// onlyCells reports whether column c holds nothing but cells from set.
func onlyCells(body [][]string, c int, set map[string]bool) bool {
	seen := false
	for _, row := range body {
		if row[c] == "" {
			continue
		}
		if !set[row[c]] {
			return false
		}
		seen = true
	}
	return seen
}

func hasNumbers(body [][]string, c int) bool {
	for _, row := range body {
		if looksNumeric(row[c]) && !isPlaceholder(row[c]) {
			return true
		}
	}
	return false
}

// groupColumns returns the contiguous runs of equal keys. A key that
// reappears after another key would merge unrelated columns.
func groupColumns(keys []string) ([][]int, error) {
	var groups [][]int
	seen := map[string]bool{}
	for c, k := range keys {
		if k == "" {
			continue
		}
		if len(groups) > 0 && keys[groups[len(groups)-1][0]] == k {
			groups[len(groups)-1] = append(groups[len(groups)-1], c)
			continue
		}
		if seen[k] {
			return nil, fmt.Errorf("%w: header %q repeats in separate column groups", ErrInconsistentColumns, k)
		}
		seen[k] = true
		groups = append(groups, []int{c})
	}
	if len(groups) < 2 {
		return nil, fmt.Errorf("%w: no data columns", ErrAmbiguousColumns)
	}
	return groups, nil
}

// mergeCells concatenates the distinct cells of one row in a group. Label
// cells are joined with spaces; value cells are glued ("$" + "1,234").
func mergeCells(row []string, group []int, label bool) (string, error) {
	var parts []string
	numbers := 0
	for _, c := range group {
		cell := row[c]
		if cell == "" || contains(parts, cell) {
			continue
		}
		if !label && looksNumeric(cell) && !isPlaceholder(cell) {
			numbers++
		}
		parts = append(parts, cell)
	}
	if numbers > 1 {
		return "", fmt.Errorf("%w: cells %q share one column", ErrInconsistentColumns, parts)
	}
	if label {
		return strings.Join(parts, " "), nil
	}
	return strings.Join(parts, ""), nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func allEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
