package edgar

import (
	"errors"
	"fmt"
)

// Failure categories. Match them with errors.Is.
var (
	// ErrBoundaryNotFound: no start anchor matched, or start/end were unusable.
	ErrBoundaryNotFound = errors.New("statement boundary not found")
	// ErrEmptyTable: the region between the anchors held no usable table.
	ErrEmptyTable = errors.New("empty table")
	// ErrAmbiguousColumns: too few data columns survived, or columns could not be named.
	ErrAmbiguousColumns = errors.New("ambiguous columns")
	// ErrInconsistentColumns: grouped header columns could not be merged safely.
	ErrInconsistentColumns = errors.New("inconsistent columns")
	// ErrValueNotFound: a scalar lookup matched nothing.
	ErrValueNotFound = errors.New("value not found")
	// ErrMultilevelTableUnsupported: the header is nested deeper than can be flattened.
	ErrMultilevelTableUnsupported = errors.New("multilevel table unsupported")
)

// ExtractionError carries the kind and path a failure happened on.
type ExtractionError struct {
	Kind StatementKind
	Path ExtractionPath
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Kind, e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

func fail(kind StatementKind, path ExtractionPath, err error) error {
	return &ExtractionError{Kind: kind, Path: path, Err: err}
}
