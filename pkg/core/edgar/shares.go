package edgar

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// SharesElement is the inline XBRL concept carrying the cover-page count
// of common shares outstanding.
const SharesElement = "dei:EntityCommonStockSharesOutstanding"

var (
	registrantShares = regexp.MustCompile(`(?i)the\s+registrant\s+had\s+(\d[\d,]*)\s+shares\s+of\s+(?:its\s+)?common\s+stock[^.]{0,80}?\s+outstanding`)
	looseShares      = regexp.MustCompile(`(?i)(\d[\d,]*)\s+shares\s+of\s+(?:its\s+)?common\s+stock`)
)

// sharesTable wraps a share count as a one-cell table.
func sharesTable(n Value) *Table {
	return &Table{
		Columns: []ColumnLabel{{Raw: "value"}},
		Rows:    []Row{{Label: "shares outstanding", Values: []Value{n}}},
	}
}

func (d *Dispatcher) parseShares(doc Document) (*ParseOutcome, error) {
	text := doc.Content
	failPath := PathPlainText
	if doc.Representation == StructuredMarkup {
		failPath = PathStructuredNative
		gdoc, err := goquery.NewDocumentFromReader(strings.NewReader(doc.Content))
		if err != nil {
			return nil, fmt.Errorf("failed to parse markup: %w", err)
		}
		if v, ok := namedElementValue(gdoc, SharesElement); ok {
			return &ParseOutcome{Kind: SharesOutstanding, Path: PathStructuredNative, Table: sharesTable(v)}, nil
		}
		text = gdoc.Text()
	}

	v, err := SharesFromText(text)
	if err != nil {
		return nil, fail(SharesOutstanding, failPath, err)
	}
	return &ParseOutcome{Kind: SharesOutstanding, Path: PathPlainText, Table: sharesTable(v)}, nil
}

// SharesFromText finds the cover-page share count in narrative text:
// "the registrant had N shares of common stock outstanding", or failing
// that the first "N shares of common stock".
func SharesFromText(text string) (Value, error) {
	text = normalizeText(text)
	for _, re := range []*regexp.Regexp{registrantShares, looseShares} {
		if m := re.FindStringSubmatch(text); m != nil {
			if v := NormalizeValue(m[1]); v.IsNumber() {
				return v, nil
			}
		}
	}
	return Value{}, ErrValueNotFound
}

// namedElementValue reads the first element whose name attribute is name,
// applying its scale (a power of ten) and sign attributes.
func namedElementValue(doc *goquery.Document, name string) (Value, bool) {
	sel := doc.Find(fmt.Sprintf(`[name=%q]`, name)).First()
	if sel.Length() == 0 {
		return Value{}, false
	}
	v := NormalizeValue(normalizeText(sel.Text()))
	if !v.IsNumber() {
		return Value{}, false
	}
	if s, ok := sel.Attr("scale"); ok {
		if exp, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && exp != 0 {
			f, _ := v.Number()
			scaled := f * math.Pow10(exp)
			if scaled == math.Trunc(scaled) && math.Abs(scaled) < 1<<62 {
				v = Int(int64(scaled))
			} else {
				v = Float(scaled)
			}
		}
	}
	if sel.AttrOr("sign", "") == "-" {
		switch v.Kind {
		case IntValue:
			v.Int = -v.Int
		case FloatValue:
			v.Float = -v.Float
		}
	}
	return v, true
}
