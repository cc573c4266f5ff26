package edgar

import (
	"regexp"
	"strings"
)

// =============================================================================
// LINE SEGMENTER
// =============================================================================

// LineClass is the classification of one plain-text line.
type LineClass int

const (
	LineNoise LineClass = iota
	LineLabel
	LineValues
	LineSentinel
)

func (c LineClass) String() string {
	switch c {
	case LineLabel:
		return "label"
	case LineValues:
		return "label-with-values"
	case LineSentinel:
		return "sentinel"
	}
	return "noise"
}

// TextHeader describes the columns of a plain-text statement.
type TextHeader struct {
	Columns []ColumnLabel
	Periods []PeriodSpec
	EndDate string
}

var (
	dotLeader   = regexp.MustCompile(`(?:\s*\.){2,}\s*`)
	noiseLines  = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^</?(S|C|CAPTION|FN|TABLE|PAGE|F\d+)>`),
		regexp.MustCompile(`^-\s?\d+\s?-$`),
		regexp.MustCompile(`(?i)^page\s+\d+$`),
		regexp.MustCompile(`(?i)^F-\d+$`),
		regexp.MustCompile(`^[-=_\s$]+$`),
		regexp.MustCompile(`(?i)^\(\s*(in|dollars|amounts)\b.*\)$`),
		regexp.MustCompile(`(?i)^\(?(unaudited|restated|audited|continued)\)?$`),
		regexp.MustCompile(`(?i)^(PART|ITEM)\s+[IVX0-9]+\b`),
		regexp.MustCompile(`^\(([a-z]|\d{1,2})\)\s`),
	}
	headerFiller = map[string]bool{
		"unaudited": true, "restated": true, "audited": true, "note": true, "notes": true,
		"fiscal": true, "year": true, "years": true, "ended": true, "ending": true,
		"months": true, "month": true, "weeks": true, "week": true, "and": true,
	}
	headerStrip = regexp.MustCompile(`(?i)\b(19|20)\d{2}\b|\b\d{1,2}/\d{1,2}/(\d{2}|\d{4})\b|` + monthPattern + `|\b\d{1,2}\b|[,.()*\-]`)
)

// yearHeader recognises a column header line: year or date tokens and
// nothing else but month names, day numbers and filler words. It returns
// one label per column.
func yearHeader(line string) []ColumnLabel {
	if !yearToken.MatchString(line) && !slashDate.MatchString(line) {
		return nil
	}
	rest := headerStrip.ReplaceAllString(line, " ")
	for _, w := range strings.Fields(rest) {
		w = strings.ToLower(w)
		if !headerFiller[w] && numberWords[w] == 0 {
			return nil
		}
	}

	var cols []ColumnLabel
	dates := monthDay.FindAllString(line, -1)
	for _, y := range yearToken.FindAllString(line, -1) {
		cols = append(cols, ColumnLabel{Year: y, Raw: y})
	}
	if len(cols) == 0 {
		for _, m := range slashDate.FindAllStringSubmatch(line, -1) {
			cols = append(cols, parseColumnHeader(m[0]))
		}
		return cols
	}
	if len(dates) == len(cols) {
		for i := range cols {
			cols[i].Date = canonicalMonthDay(dates[i])
			cols[i].Raw = dates[i] + ", " + cols[i].Year
		}
	}
	return cols
}

// dateOnlyLine returns the month-day tokens of a line like
// "June 30,   September 30," that carries the dates of a header whose
// years follow on the next line.
func dateOnlyLine(line string) []string {
	dates := monthDay.FindAllString(line, -1)
	if len(dates) == 0 || yearToken.MatchString(line) {
		return nil
	}
	rest := monthDay.ReplaceAllString(line, " ")
	rest = strings.NewReplacer(",", " ", "(", " ", ")", " ").Replace(rest)
	for _, w := range strings.Fields(rest) {
		if !headerFiller[strings.ToLower(w)] {
			return nil
		}
	}
	return dates
}

// cleanLine normalizes characters, drops dot leaders and stray leading
// asterisks.
func cleanLine(line string) string {
	s := normalizeText(line)
	s = dotLeader.ReplaceAllString(s, " ")
	s = strings.TrimLeft(s, "* ")
	return strings.TrimSpace(s)
}

func isNoise(line string) bool {
	for _, re := range noiseLines {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// valueTokens rejoins the tokens of a line so that each value is one token:
// a standalone "$" is dropped and split parentheses are reattached.
func valueTokens(line string) []string {
	var out []string
	for _, f := range strings.Fields(line) {
		switch {
		case f == "$":
			continue
		case f == ")" && len(out) > 0:
			out[len(out)-1] += f
		case len(out) > 0 && (out[len(out)-1] == "(" || out[len(out)-1] == "$("):
			out[len(out)-1] += f
		default:
			out = append(out, f)
		}
	}
	return out
}

func isValueToken(tok string) bool {
	return looksNumeric(tok)
}

// ClassifyLine classifies one statement line given the column count.
// The returned row is [label] for labels and [label, v1..vN] for values.
// Lines are tried against, in order: noise patterns, stop sentinels, pure
// label forms, and finally a right-anchored split of the value run.
func ClassifyLine(line string, numColumns int, rules KindRules) (LineClass, []string) {
	s := cleanLine(line)
	if s == "" || isNoise(s) {
		return LineNoise, nil
	}
	if yearHeader(s) != nil || dateOnlyLine(s) != nil {
		return LineNoise, nil
	}

	tokens := valueTokens(s)
	k := 0
	for k < len(tokens) && k < numColumns {
		tok := tokens[len(tokens)-1-k]
		if !isValueToken(tok) || strings.HasSuffix(tok, ",") {
			break
		}
		k++
	}
	// "Balance at June 30, 1994" ends in a year, not a value
	if k > 0 && k < len(tokens) {
		first := tokens[len(tokens)-k]
		if yearToken.MatchString(first) && len(first) == 4 && strings.HasSuffix(tokens[len(tokens)-k-1], ",") {
			k = 0
		}
	}
	label := strings.Join(tokens[:len(tokens)-k], " ")

	if labelHasAny(label, rules.StopLabels) || labelHasAny(label, rules.DiscardFrom) {
		return LineSentinel, nil
	}
	if k == 0 && len(findPeriods(s)) > 0 {
		return LineNoise, nil
	}
	if k == 0 && isAllCaps(s) && !endsWithColon(s) && !strings.ContainsAny(s, "0123456789") {
		return LineNoise, nil
	}

	if k == 0 || strings.Count(label, "(") > strings.Count(label, ")") {
		if isCategory(s, rules.Categories) && !endsWithColon(s) {
			s += ":"
		}
		return LineLabel, []string{s}
	}

	row := make([]string, 0, numColumns+1)
	row = append(row, label)
	for j := k; j < numColumns; j++ {
		row = append(row, "")
	}
	row = append(row, tokens[len(tokens)-k:]...)
	return LineValues, row
}

// SegmentLines turns the lines of a located statement (heading excluded)
// into a column header and raw rows. The header is the first line of year
// or date tokens; a later header line before the first row replaces it.
// Segmentation stops at a sentinel row, which is discarded with
// everything after it.
func SegmentLines(lines []string, rules KindRules) (TextHeader, [][]string, error) {
	var hdr TextHeader
	var pendingDates []string
	var rows [][]string
	var context []string

	for _, raw := range lines {
		line := cleanLine(raw)
		if line == "" {
			continue
		}
		if cols := yearHeader(line); cols != nil && len(rows) == 0 {
			if len(pendingDates) == len(cols) {
				for i := range cols {
					if cols[i].Date == "" {
						cols[i].Date = canonicalMonthDay(pendingDates[i])
						cols[i].Raw = pendingDates[i] + ", " + cols[i].Year
					}
				}
			}
			hdr.Columns = cols
			continue
		}
		if hdr.Columns == nil {
			if d := dateOnlyLine(line); d != nil {
				pendingDates = d
				continue
			}
			context = append(context, line)
			continue
		}

		class, row := ClassifyLine(line, len(hdr.Columns), rules)
		switch class {
		case LineNoise:
			if len(rows) == 0 {
				context = append(context, line)
			}
			continue
		case LineSentinel:
			return finishHeader(hdr, context), rows, nil
		}
		rows = append(rows, row)
	}

	if hdr.Columns == nil {
		return hdr, nil, ErrAmbiguousColumns
	}
	return finishHeader(hdr, context), rows, nil
}

func finishHeader(hdr TextHeader, context []string) TextHeader {
	text := strings.Join(context, " ")
	hdr.Periods = findPeriods(text)
	hdr.EndDate = findEndDate(text)
	return hdr
}

// ColumnLabels names the text columns. Periods are assigned block-wise
// when the column count is a multiple of the period count ("Three Months
// Ended  Nine Months Ended" over four years), otherwise the first period
// applies to all columns.
func (h TextHeader) ColumnLabels(needsPeriod bool) []ColumnLabel {
	out := make([]ColumnLabel, len(h.Columns))
	n := len(h.Columns)
	for i, c := range h.Columns {
		var period PeriodSpec
		if p := len(h.Periods); p > 0 {
			period = h.Periods[0]
			if n%p == 0 {
				period = h.Periods[i/(n/p)]
			}
		}
		out[i] = completeLabel(c, period, h.EndDate, needsPeriod)
	}
	return out
}
