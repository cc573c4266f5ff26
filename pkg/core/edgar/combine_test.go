package edgar

import (
	"math/rand"
	"reflect"
	"testing"
)

func TestCombineRows(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		n    int
		want [][]string
	}{
		{
			name: "Label wrapped before values",
			rows: [][]string{{"Total current"}, {"liabilities", "1,000", "900"}},
			n:    2,
			want: [][]string{{"Total current liabilities", "1,000", "900"}},
		},
		{
			name: "Fragments closed by colon",
			rows: [][]string{{"Cash flows from"}, {"operating activities:"}, {"Net income", "10", "9"}},
			n:    2,
			want: [][]string{{"Cash flows from operating activities:"}, {"Net income", "10", "9"}},
		},
		{
			name: "Colon label stands alone",
			rows: [][]string{{"Current assets:"}, {"Cash", "5", "4"}},
			n:    2,
			want: [][]string{{"Current assets:"}, {"Cash", "5", "4"}},
		},
		{
			name: "Label ending in and takes next fragment",
			rows: [][]string{{"Accounts payable and", "100", "200"}, {"accrued expenses"}, {"Debt", "1", "2"}},
			n:    2,
			want: [][]string{{"Accounts payable and accrued expenses", "100", "200"}, {"Debt", "1", "2"}},
		},
		{
			name: "Alphabetic last value absorbs one more row",
			rows: [][]string{{"Interest", "12", "net of"}, {"amounts capitalized", "3", "4"}},
			n:    2,
			want: [][]string{{"Interest 12 net of amounts capitalized", "3", "4"}},
		},
		{
			name: "Trailing fragments join into one label",
			rows: [][]string{{"Net sales", "1", "2"}, {"Commitments and"}, {"contingencies"}},
			n:    2,
			want: [][]string{{"Net sales", "1", "2"}, {"Commitments and contingencies"}},
		},
		{
			name: "Short values row is padded on the left",
			rows: [][]string{{"Other", "7"}},
			n:    3,
			want: [][]string{{"Other", "", "", "7"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CombineRows(tt.rows, tt.n)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("CombineRows() = %q, want %q", got, tt.want)
			}
		})
	}
}

// Every combined row is a bare label or a label with exactly n values,
// whatever fragments go in.
func TestCombineRows_RowShape(t *testing.T) {
	words := []string{"Net", "sales", "and", "Total:", "assets", "1,234", "(45)", "-", "taxes"}
	rng := rand.New(rand.NewSource(1))

	for trial := 0; trial < 500; trial++ {
		n := 1 + rng.Intn(4)
		var rows [][]string
		for r := 0; r < 1+rng.Intn(8); r++ {
			row := make([]string, 1+rng.Intn(n+3))
			for i := range row {
				row[i] = words[rng.Intn(len(words))]
			}
			rows = append(rows, row)
		}
		for _, row := range CombineRows(rows, n) {
			if len(row) != 1 && len(row) != n+1 {
				t.Fatalf("CombineRows(%q, %d) produced row %q of length %d", rows, n, row, len(row))
			}
		}
	}
}
