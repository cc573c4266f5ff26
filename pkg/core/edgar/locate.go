package edgar

import (
	"log"
	"strings"

	"finstatements/pkg/core/doctree"
	"finstatements/pkg/core/edgar/converter"
)

// =============================================================================
// STRUCTURED LOCATOR
// =============================================================================

// Region is the located extent of a statement in a structured document.
// End is doctree.None when the statement runs to the end of the document.
type Region struct {
	Start doctree.NodeID
	End   doctree.NodeID
}

// headingText returns the normalized own text of id when id can serve as
// a heading: an element of an allowed role, outside any table, and short.
func headingText(tree *doctree.Tree, id doctree.NodeID, roles map[string]bool, th Thresholds) (string, bool) {
	n := tree.Node(id)
	if n.IsText() || !roles[n.Tag] {
		return "", false
	}
	// raw length includes whitespace that normalization collapses
	if tree.OwnTextLen(id) > th.MaxHeadingLength*4 {
		return "", false
	}
	if tree.HasAncestor(id, "table") {
		return "", false
	}
	text := normalizeText(tree.OwnText(id))
	if text == "" || len(text) > th.MaxHeadingLength {
		return "", false
	}
	return text, true
}

func findHeading(tree *doctree.Tree, from, to doctree.NodeID, rules []TitleRule, roles map[string]bool, th Thresholds) doctree.NodeID {
	if len(rules) == 0 {
		return doctree.None
	}
	return tree.Find(from, to, func(id doctree.NodeID) bool {
		text, ok := headingText(tree, id, roles, th)
		return ok && matchAny(rules, text)
	})
}

// LocateStructured returns the candidate regions of a statement in
// document order. The first candidate starts at the first heading matching
// the kind's title rules; later candidates start at later matches, for
// documents whose first match is a table of contents entry.
func LocateStructured(tree *doctree.Tree, rules KindRules, th Thresholds) ([]Region, error) {
	var regions []Region
	from := doctree.NodeID(0)
	for len(regions) < th.MaxStartCandidates {
		start := findHeading(tree, from, doctree.None, rules.Title, rules.Roles, th)
		if start == doctree.None {
			break
		}
		regions = append(regions, Region{Start: start, End: locateEnd(tree, start, rules, th)})
		from = tree.Next(start)
		if from == doctree.None {
			break
		}
	}
	if len(regions) == 0 {
		return nil, ErrBoundaryNotFound
	}
	return regions, nil
}

// locateEnd finds the heading that closes the statement starting at start.
// The end rules are first matched across the whole document; a match that
// precedes the start (a table of contents, or statements in an unexpected
// order) falls back to the nearest end or fallback heading after start.
func locateEnd(tree *doctree.Tree, start doctree.NodeID, rules KindRules, th Thresholds) doctree.NodeID {
	end := findHeading(tree, 0, doctree.None, rules.End, rules.Roles, th)
	if end == start {
		end = findHeading(tree, start+1, doctree.None, rules.End, rules.Roles, th)
	}
	if end == doctree.None || !tree.Before(end, start) {
		return end
	}
	all := append(append([]TitleRule{}, rules.End...), rules.Fallback...)
	end = findHeading(tree, start+1, doctree.None, all, rules.Roles, th)
	if end != doctree.None && tree.Before(end, start) {
		return doctree.None
	}
	return end
}

// =============================================================================
// TABLE SEGMENTER
// =============================================================================

// Section is what a region yields: its tables in document order plus the
// period and end date stated between the heading and the first table.
type Section struct {
	Tables  []RawTable
	Period  PeriodSpec
	EndDate string
}

// CollectTables walks the region in document order and converts the
// tables that hold statement data, stopping after max tables. Tables
// nested inside a collected table are not visited separately.
func CollectTables(tree *doctree.Tree, region Region, max int) Section {
	conv := converter.NewTableConverter()
	var sec Section
	first := doctree.None

	end := region.End
	if end == doctree.None {
		end = doctree.NodeID(tree.Len())
	}
	for id := region.Start + 1; id < end; {
		if tree.Node(id).Tag != "table" {
			id++
			continue
		}
		grid := RawTable(conv.Grid(tree.Selection(id)))
		if hasDataRow(grid) {
			if first == doctree.None {
				first = id
			}
			sec.Tables = append(sec.Tables, grid)
			if max > 0 && len(sec.Tables) >= max {
				break
			}
		}
		next := tree.Next(id)
		if next == doctree.None {
			break
		}
		id = next
	}

	// narrative between the heading and the first table
	context := tree.OwnText(region.Start)
	if first != doctree.None {
		context += " " + tree.TextBetween(tree.Node(region.Start).Last, first, true)
	}
	context = normalizeText(context)
	if p := findPeriods(context); len(p) > 0 {
		sec.Period = p[0]
	}
	sec.EndDate = findEndDate(context)
	return sec
}

// hasDataRow reports whether a grid has a labelled row with a number in it.
// Layout tables and header-only tables fail this test.
func hasDataRow(grid RawTable) bool {
	for _, row := range grid {
		label := ""
		for i, cell := range row {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			if label == "" {
				if !hasLetter(cell) {
					break
				}
				label = cell
				continue
			}
			if i > 0 && cell != label && looksNumeric(normalizeText(cell)) {
				return true
			}
		}
	}
	return false
}

// =============================================================================
// PLAIN-TEXT LOCATOR
// =============================================================================

// LineRegion is the located extent of a statement in plain text:
// lines[Start] is the heading, lines[End] the first line after the statement.
type LineRegion struct {
	Start int
	End   int
}

func isPageBreak(raw string) bool {
	return strings.Contains(raw, "\f") || strings.EqualFold(strings.TrimSpace(raw), "<PAGE>")
}

func isIndexMarker(line string) bool {
	up := strings.ToUpper(line)
	return up == "INDEX" || (strings.HasPrefix(up, "INDEX ") && len(up) <= 40)
}

// LocateLines returns the candidate regions of a statement in plain text,
// in line order. Lines inside a table of contents (an INDEX marker shortly
// after a page break, up to the next page break) are never taken as a
// heading; later candidates cover a contents page without such a marker.
func LocateLines(lines []string, rules KindRules, th Thresholds) ([]LineRegion, error) {
	if rules.TextTitle == nil {
		return nil, ErrBoundaryNotFound
	}
	var regions []LineRegion
	from := 0
	for len(regions) < th.MaxStartCandidates {
		start := findTextHeading(lines, from, rules, th)
		if start < 0 {
			break
		}
		log.Printf("[Locator] %s heading at line %d: %q", rules.Kind, start, strings.TrimSpace(lines[start]))
		regions = append(regions, LineRegion{Start: start, End: findTextEnd(lines, start, rules, th)})
		from = start + 1
	}
	if len(regions) == 0 {
		return nil, ErrBoundaryNotFound
	}
	return regions, nil
}

// findTextHeading returns the first heading line at or after from, or -1.
// Contents pages are tracked from the top of the document.
func findTextHeading(lines []string, from int, rules KindRules, th Thresholds) int {
	inIndex := false
	sincePage := -1
	for i, raw := range lines {
		if isPageBreak(raw) {
			inIndex = false
			sincePage = 0
			continue
		}
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if sincePage >= 0 {
			sincePage++
		}
		if sincePage > 0 && sincePage <= th.IndexWindow && isIndexMarker(line) {
			inIndex = true
			continue
		}
		if inIndex || i < from {
			continue
		}
		if len(line) <= th.MaxHeadingLength && rules.TextTitle.MatchString(line) &&
			(rules.TextExclude == nil || !rules.TextExclude.MatchString(line)) {
			return i
		}
	}
	return -1
}

// findTextEnd returns the first end line after start, or len(lines).
func findTextEnd(lines []string, start int, rules KindRules, th Thresholds) int {
	for i := start + 1; i < len(lines); i++ {
		if isPageBreak(lines[i]) {
			continue
		}
		line := strings.TrimSpace(lines[i])
		if line == "" || len(line) > th.MaxHeadingLength {
			continue
		}
		for _, re := range rules.TextEnd {
			if re.MatchString(line) {
				return i
			}
		}
	}
	return len(lines)
}
