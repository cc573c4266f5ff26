package ingest

import (
	"reflect"
	"testing"
	"time"
)

func TestQuarters(t *testing.T) {
	now := time.Date(1995, 5, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		from, to Quarter
		want     []Quarter
		wantErr  bool
	}{
		{
			name: "Across a year boundary",
			from: Quarter{1994, 3}, to: Quarter{1995, 1},
			want: []Quarter{{1994, 3}, {1994, 4}, {1995, 1}},
		},
		{
			name: "Clamped to last complete quarter",
			from: Quarter{1994, 4}, to: Quarter{1996, 2},
			want: []Quarter{{1994, 4}, {1995, 1}},
		},
		{
			name: "Single quarter",
			from: Quarter{1994, 1}, to: Quarter{1994, 1},
			want: []Quarter{{1994, 1}},
		},
		{
			name: "Empty when from is after to",
			from: Quarter{1995, 1}, to: Quarter{1994, 4},
			want: nil,
		},
		{name: "Before the first index", from: Quarter{1993, 4}, to: Quarter{1994, 1}, wantErr: true},
		{name: "Bad quarter", from: Quarter{1994, 5}, to: Quarter{1994, 1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Quarters(tt.from, tt.to, now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Quarters() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Quarters() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLastComplete(t *testing.T) {
	tests := []struct {
		now  time.Time
		want Quarter
	}{
		{time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), Quarter{2023, 4}},
		{time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), Quarter{2024, 1}},
		{time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), Quarter{2024, 3}},
	}
	for _, tt := range tests {
		if got := LastComplete(tt.now); got != tt.want {
			t.Errorf("LastComplete(%v) = %v, want %v", tt.now, got, tt.want)
		}
	}
}
