package edgar

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// legacy filings are often cp1252; stray bytes that are not valid UTF-8
// are mapped by their cp1252 meaning
var cp1252 = map[byte]string{
	0x91: "'", 0x92: "'", 0x93: `"`, 0x94: `"`,
	0x96: "-", 0x97: "-", 0xa0: " ",
}

var charReplacer = strings.NewReplacer(
	"\u2018", "'", "\u2019", "'", "\u201c", `"`, "\u201d", `"`,
	"\u2013", "-", "\u2014", "-", "\u2212", "-",
	"\u00a0", " ", "\u200b", "", "\ufeff", "",
	"Thre e", "Three",
)

// normalizeText maps special characters to plain equivalents, folds
// compatibility forms, and collapses whitespace.
func normalizeText(s string) string {
	if s == "" {
		return s
	}
	if !utf8.ValidString(s) {
		var sb strings.Builder
		for i := 0; i < len(s); {
			r, size := utf8.DecodeRuneInString(s[i:])
			if r == utf8.RuneError && size == 1 {
				if rep, ok := cp1252[s[i]]; ok {
					sb.WriteString(rep)
				}
				i++
				continue
			}
			sb.WriteString(s[i : i+size])
			i += size
		}
		s = sb.String()
	}
	s = norm.NFKC.String(charReplacer.Replace(s))
	return strings.Join(strings.Fields(s), " ")
}

// =============================================================================
// PERIODS AND DATES
// =============================================================================

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6,
	"seven": 7, "eight": 8, "nine": 9, "ten": 10, "eleven": 11, "twelve": 12,
	"thirteen": 13, "twenty-six": 26, "thirty-nine": 39, "fifty-two": 52,
}

var months = []string{
	"january", "february", "march", "april", "may", "june", "july",
	"august", "september", "october", "november", "december",
}

const monthPattern = `(?:Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|June?|July?|Aug(?:ust)?|Sep(?:t(?:ember)?)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)\.?`

var (
	periodPhrase = regexp.MustCompile(`(?i)\b(?:([a-z]+(?:-[a-z]+)?|\d{1,2})\s+and\s+)?([a-z]+(?:-[a-z]+)?|\d{1,2})\s+months?\s+ended`)
	monthDay     = regexp.MustCompile(`(?i)\b(` + monthPattern + `\s+\d{1,2})\b`)
	asOfDate     = regexp.MustCompile(`(?i)\bas\s+of\s+(` + monthPattern + `\s+\d{1,2})\b`)
	endedDate    = regexp.MustCompile(`(?i)\bended\s+(` + monthPattern + `\s+\d{1,2})\b`)
	yearToken    = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	slashDate    = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{2}|\d{4})\b`)
)

// periodMonths converts the count word of "three months ended" to 3.
func periodMonths(word string) int {
	w := strings.ToLower(word)
	if n, ok := numberWords[w]; ok {
		return n
	}
	if n, err := strconv.Atoi(w); err == nil {
		return n
	}
	return 0
}

// findPeriods returns every "N months ended" period in text, in order.
// "Three and six months ended" yields both periods.
func findPeriods(text string) []PeriodSpec {
	var out []PeriodSpec
	for _, m := range periodPhrase.FindAllStringSubmatch(text, -1) {
		// "June 30 and nine months ended": 30 is a day, not a period
		if n := periodMonths(m[1]); n > 0 && n <= 12 {
			out = append(out, PeriodSpec{Months: n})
		}
		if n := periodMonths(m[2]); n > 0 {
			out = append(out, PeriodSpec{Months: n})
		}
	}
	return out
}

// findEndDate returns the first "as of June 30" or "ended June 30" date.
func findEndDate(text string) string {
	if m := asOfDate.FindStringSubmatch(text); m != nil {
		return canonicalMonthDay(m[1])
	}
	if m := endedDate.FindStringSubmatch(text); m != nil {
		return canonicalMonthDay(m[1])
	}
	return ""
}

// canonicalMonthDay rewrites "jun. 30" as "June 30".
func canonicalMonthDay(s string) string {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return s
	}
	prefix := strings.ToLower(strings.TrimSuffix(fields[0], "."))
	for _, m := range months {
		if len(prefix) >= 3 && strings.HasPrefix(m, prefix) {
			return strings.ToUpper(m[:1]) + m[1:] + " " + fields[1]
		}
	}
	return s
}

// yearFromSlashDate expands the year of "6/30/94".
func yearFromSlashDate(m []string) string {
	y := m[3]
	if len(y) == 4 {
		return y
	}
	n, _ := strconv.Atoi(y)
	if n >= 50 {
		return "19" + y
	}
	return "20" + y
}

// parseColumnHeader extracts what a column's own header text says about
// its period, date and year.
func parseColumnHeader(text string) ColumnLabel {
	label := ColumnLabel{Raw: text}
	if p := findPeriods(text); len(p) > 0 {
		label.Period = p[0].Months
	}
	if m := monthDay.FindStringSubmatch(text); m != nil {
		label.Date = canonicalMonthDay(m[1])
	}
	if ys := yearToken.FindAllString(text, -1); len(ys) > 0 {
		label.Year = ys[len(ys)-1]
	} else if m := slashDate.FindStringSubmatch(text); m != nil {
		label.Year = yearFromSlashDate(m)
		if mo, _ := strconv.Atoi(m[1]); mo >= 1 && mo <= 12 && label.Date == "" {
			name := months[mo-1]
			label.Date = strings.ToUpper(name[:1]) + name[1:] + " " + strings.TrimLeft(m[2], "0")
		}
	}
	return label
}

// completeLabel fills in period and date from document context when the
// column header did not carry them.
func completeLabel(label ColumnLabel, period PeriodSpec, endDate string, needsPeriod bool) ColumnLabel {
	if label.Period == 0 && needsPeriod && period.Months > 0 {
		label.Period = period.Months
	}
	if label.Date == "" && endDate != "" {
		label.Date = endDate
	}
	return label
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// isAllCaps reports whether s has at least two letters, all upper case.
func isAllCaps(s string) bool {
	letters := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			if !unicode.IsUpper(r) {
				return false
			}
			letters++
		}
	}
	return letters >= 2
}
