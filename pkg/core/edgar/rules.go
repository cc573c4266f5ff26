package edgar

import (
	"regexp"
	"strings"
)

// TitleRule matches a statement heading by words. All Required words must
// be present, at least one AnyOf word when AnyOf is set, and none of the
// Excluded words. Matching is case-insensitive substring matching on the
// whitespace-collapsed heading text.
type TitleRule struct {
	Required []string `yaml:"required"`
	AnyOf    []string `yaml:"any_of"`
	Excluded []string `yaml:"excluded"`
}

// Match reports whether text satisfies the rule.
func (r TitleRule) Match(text string) bool {
	up := strings.ToUpper(text)
	for _, w := range r.Required {
		if !strings.Contains(up, w) {
			return false
		}
	}
	for _, w := range r.Excluded {
		if strings.Contains(up, w) {
			return false
		}
	}
	if len(r.AnyOf) == 0 {
		return true
	}
	for _, w := range r.AnyOf {
		if strings.Contains(up, w) {
			return true
		}
	}
	return false
}

func matchAny(rules []TitleRule, text string) bool {
	for _, r := range rules {
		if r.Match(text) {
			return true
		}
	}
	return false
}

// KindRules is the declarative description of one statement kind.
type KindRules struct {
	Kind StatementKind

	// structured markup
	Title     []TitleRule
	End       []TitleRule
	Fallback  []TitleRule
	Roles     map[string]bool
	MaxTables int

	// plain text
	TextTitle   *regexp.Regexp
	TextExclude *regexp.Regexp
	TextEnd     []*regexp.Regexp

	// row handling, shared by both paths
	StopLabels  []string // a row whose label contains one of these ends the statement
	DiscardFrom []string // a section heading that starts trailing material to drop
	Joins       []string // label fragments that always continue on the next row
	Categories  []string // bare category headings that never carry values
	Footers     []string // boilerplate rows removed wherever they appear, by exact text
	NeedsPeriod bool     // columns are durations ("three months ended")
}

var (
	headingRoles = map[string]bool{"p": true, "b": true, "strong": true}
	wideRoles    = map[string]bool{
		"p": true, "b": true, "strong": true, "font": true, "div": true, "span": true,
		"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true, "center": true,
	}
)

var (
	incomeTitle = TitleRule{
		Required: []string{"CONSOLIDATED", "STATEMENT"},
		AnyOf:    []string{"INCOME", "EARNINGS", "OPERATIONS"},
		Excluded: []string{"COMPREHENSIVE", "CONTINUED", "ACCOMPANYING", "INTEGRAL"},
	}
	balanceTitle = TitleRule{
		Required: []string{"CONSOLIDATED", "BALANCE SHEET"},
		Excluded: []string{"CONTINUED", "PARENTHETICAL", "ACCOMPANYING", "INTEGRAL"},
	}
	positionTitle = TitleRule{
		Required: []string{"CONSOLIDATED", "STATEMENT", "FINANCIAL POSITION"},
		Excluded: []string{"CONTINUED", "ACCOMPANYING", "INTEGRAL"},
	}
	cashTitle = TitleRule{
		Required: []string{"CONSOLIDATED", "STATEMENT", "CASH FLOW"},
		Excluded: []string{"CONTINUED", "ACCOMPANYING", "INTEGRAL"},
	}
	equityTitle = TitleRule{
		Required: []string{"CONSOLIDATED", "STATEMENT"},
		AnyOf:    []string{"STOCKHOLDERS", "SHAREHOLDERS", "CHANGES IN EQUITY", "OF EQUITY"},
		Excluded: []string{"CONTINUED", "ACCOMPANYING", "INTEGRAL"},
	}
	comprehensiveTitle = TitleRule{
		Required: []string{"CONSOLIDATED", "STATEMENT", "COMPREHENSIVE"},
		Excluded: []string{"ACCOMPANYING", "INTEGRAL"},
	}
	notesTitle = TitleRule{
		Required: []string{"NOTES TO", "FINANCIAL STATEMENTS"},
		Excluded: []string{"ACCOMPANYING", "INTEGRAL"},
	}
)

// Plain-text headings are matched case-sensitively: statement titles in
// legacy filings are upper case, narrative mentions are not.
var (
	incomeText   = regexp.MustCompile(`STATEMENTS?\s+(OF\s+)?(CONSOLIDATED\s+)?(EARNINGS|OPERATIONS|INCOME)\b`)
	balanceText  = regexp.MustCompile(`BALANCE\s+SHEETS?|STATEMENTS?\s+OF\s+(CONSOLIDATED\s+)?FINANCIAL\s+POSITION`)
	cashText     = regexp.MustCompile(`(CONSOLIDATED\s+STATEMENTS?\s+(OF\s+)?)?CASH\s+FLOWS?|CONSOLIDATED\s+STATEMENTS?\s+(OF\s+)?CASH`)
	equityText   = regexp.MustCompile(`STATEMENTS?\s+OF\s+(CONSOLIDATED\s+)?(STOCKHOLDERS|SHAREHOLDERS|CHANGES\s+IN)`)
	notesMarker  = regexp.MustCompile(`(?i)^\s*(see\s+)?(the\s+)?accompanying\s+notes`)
	tableClose   = regexp.MustCompile(`(?i)^\s*</TABLE>`)
	pageNumber   = regexp.MustCompile(`^\s*-\s?[0-9]+\s?-\s*$`)
	textExcluded = regexp.MustCompile(`COMPREHENSIVE|\(CONTINUED\)|CONTINUED`)
)

var footers = []string{
	"Amounts may not add due to rounding.",
	"Certain amounts may not add due to rounding.",
	"Totals may not add due to rounding.",
	"Per share amounts may not add due to rounding.",
	"(Unaudited)",
}

// rulesFor returns the built-in rule table for kind.
func rulesFor(kind StatementKind) KindRules {
	switch kind {
	case IncomeStatement:
		return KindRules{
			Kind:        kind,
			Footers:     footers,
			Title:       []TitleRule{incomeTitle},
			End:         []TitleRule{balanceTitle, positionTitle, comprehensiveTitle},
			Fallback:    []TitleRule{cashTitle, equityTitle},
			Roles:       headingRoles,
			MaxTables:   2,
			TextTitle:   incomeText,
			TextExclude: textExcluded,
			TextEnd:     []*regexp.Regexp{balanceText, cashText, equityText, notesMarker, tableClose},
			StopLabels:  []string{"cash dividends per common share", "cash dividends declared per common share"},
			DiscardFrom: []string{"pro forma"},
			Joins: []string{
				"income tax (expense)/benefit related to items of",
				"intellectual property and custom",
			},
			Categories: []string{
				"revenues", "net revenues", "costs and expenses", "operating expenses",
				"other income (expense)", "earnings per share", "net income per share",
			},
			NeedsPeriod: true,
		}
	case BalanceSheet:
		return KindRules{
			Kind:        kind,
			Footers:     footers,
			Title:       []TitleRule{balanceTitle, positionTitle},
			End:         []TitleRule{incomeTitle, cashTitle, equityTitle},
			Fallback:    []TitleRule{cashTitle, equityTitle},
			Roles:       headingRoles,
			MaxTables:   2,
			TextTitle:   balanceText,
			TextExclude: textExcluded,
			TextEnd:     []*regexp.Regexp{incomeText, cashText, equityText, notesMarker},
			Categories: []string{
				"assets", "current assets", "liabilities", "current liabilities",
				"liabilities and shareholders' equity", "liabilities and stockholders' equity",
				"shareholders' equity", "stockholders' equity", "commitments and contingencies",
			},
		}
	case CashFlow:
		return KindRules{
			Kind:        kind,
			Footers:     footers,
			Title:       []TitleRule{cashTitle},
			End:         []TitleRule{equityTitle, notesTitle},
			Fallback:    []TitleRule{equityTitle, notesTitle},
			Roles:       wideRoles,
			MaxTables:   1,
			TextTitle:   cashText,
			TextExclude: textExcluded,
			TextEnd:     []*regexp.Regexp{equityText, notesMarker, tableClose, pageNumber},
			Categories: []string{
				"operating activities", "investing activities", "financing activities",
				"cash flows from operating activities", "cash flows from investing activities",
				"cash flows from financing activities", "supplemental disclosures",
			},
			NeedsPeriod: true,
		}
	}
	return KindRules{Kind: kind}
}

func labelHasAny(label string, phrases []string) bool {
	l := strings.ToLower(label)
	for _, p := range phrases {
		if p != "" && strings.Contains(l, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

func isFooter(label string, footers []string) bool {
	for _, f := range footers {
		if strings.EqualFold(label, normalizeText(f)) {
			return true
		}
	}
	return false
}

func isCategory(label string, categories []string) bool {
	l := strings.ToLower(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(label), ":")))
	for _, c := range categories {
		if l == strings.ToLower(c) {
			return true
		}
	}
	return false
}
