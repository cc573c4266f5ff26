package edgar

import (
	"errors"
	"reflect"
	"testing"
)

func TestReconcileColumns(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		name        string
		grid        RawTable
		wantHeaders []string
		wantRows    [][]string
	}{
		{
			name: "Spanned header groups currency and amount cells",
			grid: RawTable{
				{"", "Three Months Ended", "Three Months Ended", "Three Months Ended", "Three Months Ended"},
				{"", "1994", "1994", "1993", "1993"},
				{"Net sales", "$", "2,876", "$", "3,121"},
				{"Net loss", "", "(45", "", "120"},
			},
			wantHeaders: []string{"Three Months Ended 1994", "Three Months Ended 1993"},
			wantRows: [][]string{
				{"Net sales", "$2,876", "$3,121"},
				{"Net loss", "(45", "120"},
			},
		},
		{
			name: "Headerless currency and paren columns attach to their neighbours",
			grid: RawTable{
				{"", "", "1994", "", "", "1993", ""},
				{"Net loss", "$", "(45", ")", "$", "120", ""},
				{"Net sales", "", "2,876", "", "", "3,121", ""},
			},
			wantHeaders: []string{"1994", "1993"},
			wantRows: [][]string{
				{"Net loss", "$(45)", "$120"},
				{"Net sales", "2,876", "3,121"},
			},
		},
		{
			name: "Banner row and amounts note are not headers",
			grid: RawTable{
				{"STATEMENTS OF OPERATIONS", "STATEMENTS OF OPERATIONS", "STATEMENTS OF OPERATIONS"},
				{"(In thousands)", "1994", "1993"},
				{"Revenue", "10", "9"},
			},
			wantHeaders: []string{"1994", "1993"},
			wantRows:    [][]string{{"Revenue", "10", "9"}},
		},
		{
			name: "Spacer columns under a spanning period header are dropped",
			grid: RawTable{
				{"", "Three Months Ended", "Three Months Ended", "Three Months Ended", "Three Months Ended", "Three Months Ended", "Three Months Ended",
					"Nine Months Ended", "Nine Months Ended", "Nine Months Ended", "Nine Months Ended", "Nine Months Ended"},
				{"", "June 27, 2020", "June 27, 2020", "", "June 29, 2019", "June 29, 2019", "",
					"June 27, 2020", "June 27, 2020", "", "June 29, 2019", "June 29, 2019"},
				{"Net sales", "$", "59,685", "", "$", "53,809", "", "$", "209,817", "", "$", "213,883"},
				{"Net income", "", "11,253", "", "", "10,044", "", "", "46,855", "", "", "43,731"},
			},
			wantHeaders: []string{
				"Three Months Ended June 27, 2020", "Three Months Ended June 29, 2019",
				"Nine Months Ended June 27, 2020", "Nine Months Ended June 29, 2019",
			},
			wantRows: [][]string{
				{"Net sales", "$59,685", "$53,809", "$209,817", "$213,883"},
				{"Net income", "11,253", "10,044", "46,855", "43,731"},
			},
		},
		{
			name: "Label spread over two cells",
			grid: RawTable{
				{"", "", "1994"},
				{"Income taxes", "(note 4)", "12"},
			},
			wantHeaders: []string{"1994"},
			wantRows:    [][]string{{"Income taxes (note 4)", "12"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReconcileColumns(tt.grid, th)
			if err != nil {
				t.Fatalf("ReconcileColumns() error = %v", err)
			}
			if !reflect.DeepEqual(got.Headers, tt.wantHeaders) {
				t.Errorf("headers = %q, want %q", got.Headers, tt.wantHeaders)
			}
			if !reflect.DeepEqual(got.Rows, tt.wantRows) {
				t.Errorf("rows = %q, want %q", got.Rows, tt.wantRows)
			}
		})
	}
}

func TestReconcileColumns_Errors(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		name string
		grid RawTable
		want error
	}{
		{
			name: "Header text repeats in separate groups",
			grid: RawTable{
				{"", "Three Months", "", "Six Months", ""},
				{"", "1994", "1993", "1994", "1993"},
				{"Sales", "1", "2", "3", "4"},
			},
			want: ErrInconsistentColumns,
		},
		{
			name: "Two amounts under one header",
			grid: RawTable{
				{"", "1994", "1994"},
				{"Sales", "10", "20"},
			},
			want: ErrInconsistentColumns,
		},
		{
			name: "Header deeper than supported",
			grid: RawTable{
				{"", "a"}, {"", "b"}, {"", "c"}, {"", "d"},
				{"Sales", "1"},
			},
			want: ErrMultilevelTableUnsupported,
		},
		{
			name: "Only a header",
			grid: RawTable{{"", "1994"}},
			want: ErrEmptyTable,
		},
		{
			name: "Nothing at all",
			grid: RawTable{{"", ""}},
			want: ErrEmptyTable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReconcileColumns(tt.grid, th)
			if !errors.Is(err, tt.want) {
				t.Errorf("ReconcileColumns() error = %v, want %v", err, tt.want)
			}
		})
	}
}
