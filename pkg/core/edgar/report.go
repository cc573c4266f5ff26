package edgar

import (
	"fmt"
	"log"
)

// Report collects the outcome of every dispatcher run on one document.
// A kind appears in exactly one of Results and Failures.
type Report struct {
	Results  map[StatementKind]*ParseOutcome
	Failures map[StatementKind]error
}

// Tables maps each successful kind's name to its table.
func (r *Report) Tables() map[string]*Table {
	out := make(map[string]*Table, len(r.Results))
	for k, o := range r.Results {
		out[k.String()] = o.Table
	}
	return out
}

// FailureMessages maps each failed kind's name to its error text.
func (r *Report) FailureMessages() map[string]string {
	out := make(map[string]string, len(r.Failures))
	for k, err := range r.Failures {
		out[k.String()] = err.Error()
	}
	return out
}

// ReportParser runs a fixed set of dispatchers over a document. One
// dispatcher failing never affects the others.
type ReportParser struct {
	dispatchers []*Dispatcher
}

// NewReportParser creates a parser for kinds, or for AllKinds when none
// are given.
func NewReportParser(cfg Config, kinds ...StatementKind) *ReportParser {
	if len(kinds) == 0 {
		kinds = AllKinds
	}
	p := &ReportParser{}
	for _, k := range kinds {
		p.dispatchers = append(p.dispatchers, NewDispatcher(k, cfg))
	}
	return p
}

// Parse runs every dispatcher. Failed kinds are logged and left out of
// Results.
func (p *ReportParser) Parse(doc Document) *Report {
	rep := &Report{
		Results:  make(map[StatementKind]*ParseOutcome),
		Failures: make(map[StatementKind]error),
	}
	for _, d := range p.dispatchers {
		out, err := p.run(d, doc)
		if err != nil {
			log.Printf("[ReportParser] %s failed: %v", d.Kind(), err)
			rep.Failures[d.Kind()] = err
			continue
		}
		rep.Results[d.Kind()] = out
	}
	return rep
}

// run isolates a dispatcher so that a panic on a malformed document is
// reported as that kind's failure.
func (p *ReportParser) run(d *Dispatcher, doc Document) (out *ParseOutcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fail(d.Kind(), "", panicError{r})
		}
	}()
	return d.Parse(doc)
}

type panicError struct{ v interface{} }

func (e panicError) Error() string { return fmt.Sprintf("panic: %v", e.v) }

// ParseFiling splits a full submission and parses its primary document.
func (p *ReportParser) ParseFiling(raw string) (*Filing, *Report, error) {
	f, err := SplitFiling(raw)
	if err != nil {
		return nil, nil, err
	}
	return f, p.Parse(f.Document), nil
}
