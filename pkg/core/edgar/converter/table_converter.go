package converter

import (
	"strconv"

	"finstatements/pkg/core/doctree"

	"github.com/PuerkitoBio/goquery"
)

// maxSpan caps colspan/rowspan values; broken filings carry spans in the
// thousands.
const maxSpan = 64

// TableConverter lays an HTML table out on a "Virtual Grid" so that every
// row has the same number of columns whatever its colspan and rowspan.
// A spanned cell repeats its text into each slot it covers, which keeps a
// header that spans several physical columns attached to all of them.
type TableConverter struct{}

// NewTableConverter creates a converter.
func NewTableConverter() *TableConverter {
	return &TableConverter{}
}

// Grid converts the table's own rows (not those of nested tables) into a
// rectangular grid of cell text.
func (tc *TableConverter) Grid(table *goquery.Selection) [][]string {
	rows := table.Find("tr").FilterFunction(func(_ int, tr *goquery.Selection) bool {
		return tr.Closest("table").IsSelection(table)
	})
	rowCount := rows.Length()
	if rowCount == 0 {
		return nil
	}

	grid := make([][]string, rowCount)
	taken := make([][]bool, rowCount)
	place := func(r, c int, text string) {
		for len(grid[r]) <= c {
			grid[r] = append(grid[r], "")
			taken[r] = append(taken[r], false)
		}
		grid[r][c] = text
		taken[r][c] = true
	}

	rows.Each(func(r int, tr *goquery.Selection) {
		col := 0
		tr.ChildrenFiltered("td, th").Each(func(_ int, cell *goquery.Selection) {
			// skip slots filled by rowspans from above
			for col < len(taken[r]) && taken[r][col] {
				col++
			}
			colspan := span(cell, "colspan")
			rowspan := span(cell, "rowspan")
			text := cellText(cell)

			for dr := 0; dr < rowspan && r+dr < rowCount; dr++ {
				for dc := 0; dc < colspan; dc++ {
					place(r+dr, col+dc, text)
				}
			}
			col += colspan
		})
	})

	width := 0
	for _, row := range grid {
		if len(row) > width {
			width = len(row)
		}
	}
	for i := range grid {
		for len(grid[i]) < width {
			grid[i] = append(grid[i], "")
		}
	}
	return grid
}

func span(cell *goquery.Selection, attr string) int {
	n, err := strconv.Atoi(cell.AttrOr(attr, "1"))
	if err != nil || n < 1 {
		return 1
	}
	if n > maxSpan {
		return maxSpan
	}
	return n
}

// cellText keeps words separated across <br> and block children, which
// goquery's Text() would glue together.
func cellText(cell *goquery.Selection) string {
	if len(cell.Nodes) == 0 {
		return ""
	}
	return doctree.FromNode(cell.Nodes[0]).Text(0)
}
