package edgar

import (
	"strings"
)

// CombineRows merges the line fragments of a plain-text statement into
// logical rows. A row is either a single label or a label followed by
// exactly numColumns values.
//
//   - A bare label fragment not ending in ":" absorbs following label
//     fragments until one ending in ":" or a row with values is absorbed.
//   - A values row whose last value still holds letters absorbs one more
//     row, unless that value ends in ":".
//   - A row longer than numColumns+1 keeps its last numColumns entries as
//     values; everything before them becomes the label.
//   - A values row whose label ends in "and" takes the next bare label
//     fragment as the rest of its label.
func CombineRows(rows [][]string, numColumns int) [][]string {
	if numColumns < 1 {
		numColumns = 1
	}
	var out [][]string
	i := 0
	for i < len(rows) {
		cur := append([]string(nil), rows[i]...)
		i++
		if len(cur) == 0 {
			continue
		}

		if len(cur) == 1 && !endsWithColon(cur[0]) {
			for i < len(rows) {
				next := rows[i]
				i++
				cur = append(cur, next...)
				if len(next) != 1 || endsWithColon(next[0]) {
					break
				}
			}
			if allLabels(cur, numColumns) {
				cur = []string{joinLabel(cur)}
			}
		}

		last := cur[len(cur)-1]
		if len(cur) > 1 && hasLetter(last) && !endsWithColon(last) && i < len(rows) {
			cur = append(cur, rows[i]...)
			i++
		}

		if len(cur) > numColumns+1 {
			cur = resplit(cur, numColumns)
		}

		if len(cur) == numColumns+1 && endsWithAnd(cur[0]) && i < len(rows) &&
			len(rows[i]) == 1 && !endsWithColon(rows[i][0]) {
			cur[0] = joinLabel([]string{cur[0], rows[i][0]})
			i++
		}

		out = append(out, shape(cur, numColumns))
	}
	return out
}

// allLabels reports whether a merged row has no value-like entry.
func allLabels(row []string, numColumns int) bool {
	if len(row) == numColumns+1 && !hasLetter(row[len(row)-1]) {
		return false
	}
	for _, cell := range row {
		if cell == "" || looksNumeric(cell) {
			return false
		}
	}
	return true
}

// resplit keeps the last n entries as values and joins the rest as label.
func resplit(row []string, n int) []string {
	cut := len(row) - n
	out := make([]string, 0, n+1)
	out = append(out, joinLabel(row[:cut]))
	return append(out, row[cut:]...)
}

// shape forces a row to one label or a label plus n values.
func shape(row []string, n int) []string {
	switch {
	case len(row) == 1 || len(row) == n+1:
		return row
	case len(row) > n+1:
		return resplit(row, n)
	}
	out := []string{row[0]}
	for k := len(row) - 1; k < n; k++ {
		out = append(out, "")
	}
	return append(out, row[1:]...)
}

func joinLabel(parts []string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

func endsWithColon(s string) bool {
	return strings.HasSuffix(strings.TrimSpace(s), ":")
}

func endsWithAnd(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "and" || strings.HasSuffix(s, " and")
}
