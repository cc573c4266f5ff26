package ingest

import (
	"fmt"
	"time"
)

// FirstIndexYear is the earliest year EDGAR publishes a full index for.
const FirstIndexYear = 1994

// Quarter is a calendar quarter, Q in 1..4.
type Quarter struct {
	Year int
	Q    int
}

func (q Quarter) String() string { return fmt.Sprintf("%d Q%d", q.Year, q.Q) }

// Next returns the following quarter.
func (q Quarter) Next() Quarter {
	if q.Q == 4 {
		return Quarter{Year: q.Year + 1, Q: 1}
	}
	return Quarter{Year: q.Year, Q: q.Q + 1}
}

// Before reports whether q precedes o.
func (q Quarter) Before(o Quarter) bool {
	return q.Year < o.Year || (q.Year == o.Year && q.Q < o.Q)
}

// Validate rejects quarters EDGAR has no index for.
func (q Quarter) Validate() error {
	if q.Q < 1 || q.Q > 4 {
		return fmt.Errorf("invalid quarter %d", q.Q)
	}
	if q.Year < FirstIndexYear {
		return fmt.Errorf("the earliest year accessible is %d, got %d", FirstIndexYear, q.Year)
	}
	return nil
}

// LastComplete returns the last quarter that ended before now.
func LastComplete(now time.Time) Quarter {
	cur := Quarter{Year: now.Year(), Q: (int(now.Month())-1)/3 + 1}
	if cur.Q == 1 {
		return Quarter{Year: cur.Year - 1, Q: 4}
	}
	return Quarter{Year: cur.Year, Q: cur.Q - 1}
}

// Quarters lists the quarters from..to inclusive, with to clamped to the
// last complete quarter as of now.
func Quarters(from, to Quarter, now time.Time) ([]Quarter, error) {
	if err := from.Validate(); err != nil {
		return nil, err
	}
	if to.Q < 1 || to.Q > 4 {
		return nil, fmt.Errorf("invalid quarter %d", to.Q)
	}
	if last := LastComplete(now); last.Before(to) {
		to = last
	}

	var out []Quarter
	for q := from; !to.Before(q); q = q.Next() {
		out = append(out, q)
	}
	return out, nil
}
