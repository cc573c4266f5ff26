package edgar

import (
	"errors"
	"reflect"
	"testing"
)

func TestAssemble(t *testing.T) {
	th := DefaultThresholds()
	income := DefaultConfig().Rules(IncomeStatement)
	y94 := ColumnLabel{Year: "1994", Raw: "1994"}
	y93 := ColumnLabel{Year: "1993", Raw: "1993"}

	tests := []struct {
		name       string
		labels     []ColumnLabel
		rows       [][]string
		wantCols   []string
		wantLabels []string
	}{
		{
			name:   "Rows after a stop sentinel are dropped",
			labels: []ColumnLabel{y94, y93},
			rows: [][]string{
				{"Net sales", "2,876", "3,121"},
				{"Net loss", "(45)", "120"},
				{"Cash dividends per common share", ".10", ".10"},
				{"Weighted average shares", "1,000", "1,000"},
			},
			wantCols:   []string{"1994", "1993"},
			wantLabels: []string{"Net sales", "Net loss"},
		},
		{
			name:   "Colon rows lose their colon and values",
			labels: []ColumnLabel{y94, y93},
			rows: [][]string{
				{"Costs and expenses:"},
				{"Cost of sales", "1,900", "2,000"},
				{"Selling", "300", "280"},
			},
			wantCols:   []string{"1994", "1993"},
			wantLabels: []string{"Costs and expenses", "Cost of sales", "Selling"},
		},
		{
			name:   "Duplicate columns keep the longer header",
			labels: []ColumnLabel{y94, {Date: "June 30", Year: "1994"}},
			rows: [][]string{
				{"Cash", "100", "100"},
				{"Receivables", "50", "50"},
			},
			wantCols:   []string{"June 30, 1994"},
			wantLabels: []string{"Cash", "Receivables"},
		},
		{
			name:   "Low variety column is dropped",
			labels: []ColumnLabel{y94, {Raw: "note"}},
			rows: [][]string{
				{"Cash", "100", "*"},
				{"Receivables", "50", "*"},
				{"Inventory", "20", "*"},
				{"Prepaid", "5", "*"},
			},
			wantCols:   []string{"1994"},
			wantLabels: []string{"Cash", "Receivables", "Inventory", "Prepaid"},
		},
		{
			name:   "Rounding disclaimer is removed",
			labels: []ColumnLabel{y94, y93},
			rows: [][]string{
				{"Net sales", "2,876", "3,121"},
				{"Net loss", "(45)", "120"},
				{"Amounts may not add due to rounding."},
			},
			wantCols:   []string{"1994", "1993"},
			wantLabels: []string{"Net sales", "Net loss"},
		},
		{
			name:   "Accompanying notes end the table",
			labels: []ColumnLabel{y94},
			rows: [][]string{
				{"Revenue", "10"},
				{"See accompanying notes to financial statements."},
				{"Revenue", "99"},
			},
			wantCols:   []string{"1994"},
			wantLabels: []string{"Revenue"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := assemble(tt.labels, tt.rows, income, th)
			if err != nil {
				t.Fatalf("assemble() error = %v", err)
			}
			if got := table.ColumnNames(); !reflect.DeepEqual(got, tt.wantCols) {
				t.Errorf("columns = %q, want %q", got, tt.wantCols)
			}
			var labels []string
			for _, r := range table.Rows {
				labels = append(labels, r.Label)
				if len(r.Values) != len(table.Columns) {
					t.Errorf("row %q has %d values for %d columns", r.Label, len(r.Values), len(table.Columns))
				}
			}
			if !reflect.DeepEqual(labels, tt.wantLabels) {
				t.Errorf("labels = %q, want %q", labels, tt.wantLabels)
			}
		})
	}
}

func TestAssemble_Values(t *testing.T) {
	labels := []ColumnLabel{{Year: "1994"}, {Year: "1993"}}
	rows := [][]string{
		{"Net sales", "$2,876", "$3,121"},
		{"Net loss", "$(45)", "120"},
		{"Other", "\x97", "1.5"},
	}
	table, err := assemble(labels, rows, DefaultConfig().Rules(IncomeStatement), DefaultThresholds())
	if err != nil {
		t.Fatalf("assemble() error = %v", err)
	}

	tests := []struct {
		label, column string
		want          Value
	}{
		{"Net sales", "1994", Int(2876)},
		{"Net loss", "1994", Int(-45)},
		{"Net loss", "1993", Int(120)},
		{"Other", "1994", Int(0)},
		{"Other", "1993", Float(1.5)},
	}
	for _, tt := range tests {
		got, ok := table.Lookup(tt.label, tt.column)
		if !ok {
			t.Errorf("Lookup(%q, %q) not found", tt.label, tt.column)
			continue
		}
		if got != tt.want {
			t.Errorf("Lookup(%q, %q) = %v, want %v", tt.label, tt.column, got, tt.want)
		}
	}
}

func TestAssemble_Errors(t *testing.T) {
	th := DefaultThresholds()
	rules := DefaultConfig().Rules(BalanceSheet)

	tests := []struct {
		name   string
		labels []ColumnLabel
		rows   [][]string
		want   error
	}{
		{
			name:   "Two distinct columns share a name",
			labels: []ColumnLabel{{Year: "1994"}, {Year: "1994"}},
			rows:   [][]string{{"Cash", "1", "2"}, {"Debt", "3", "4"}},
			want:   ErrAmbiguousColumns,
		},
		{
			name:   "No columns",
			labels: nil,
			rows:   [][]string{{"Cash"}},
			want:   ErrAmbiguousColumns,
		},
		{
			name:   "Every column empty",
			labels: []ColumnLabel{{Year: "1994"}},
			rows:   [][]string{{"Assets:"}, {"Cash", ""}},
			want:   ErrAmbiguousColumns,
		},
		{
			name:   "No rows",
			labels: []ColumnLabel{{Year: "1994"}},
			rows:   [][]string{{""}},
			want:   ErrEmptyTable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := assemble(tt.labels, tt.rows, rules, th)
			if !errors.Is(err, tt.want) {
				t.Errorf("assemble() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestConcatTables(t *testing.T) {
	a := &Table{
		Columns: []ColumnLabel{{Year: "1994"}, {Year: "1993"}},
		Rows:    []Row{{Label: "Sales", Values: []Value{Int(1), Int(2)}}},
	}
	b := &Table{
		Columns: []ColumnLabel{{Year: "1993"}, {Year: "1992"}},
		Rows:    []Row{{Label: "Net income", Values: []Value{Int(3), Int(4)}}},
	}
	got := concatTables(a, b)

	if names := got.ColumnNames(); !reflect.DeepEqual(names, []string{"1994", "1993", "1992"}) {
		t.Fatalf("columns = %q", names)
	}
	want := []Value{{}, Int(3), Int(4)}
	if !reflect.DeepEqual(got.Rows[1].Values, want) {
		t.Errorf("second row = %v, want %v", got.Rows[1].Values, want)
	}
}
