package retriever

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports that nothing matched a lookup.
	ErrNotFound = errors.New("not found")
	// ErrTooManyResults reports that a name matched more entities than allowed.
	ErrTooManyResults = errors.New("too many results")
)

// LookupError describes a failed lookup. It matches ErrNotFound or
// ErrTooManyResults via errors.Is.
type LookupError struct {
	Kind  string
	Query string
	Count int
	Limit int
	Err   error
}

func (e *LookupError) Error() string {
	if errors.Is(e.Err, ErrTooManyResults) {
		return fmt.Sprintf("%d %s entries match %q, refine the search (limit %d)", e.Count, e.Kind, e.Query, e.Limit)
	}
	return fmt.Sprintf("no %s found matching %q", e.Kind, e.Query)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}
