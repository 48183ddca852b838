package details

import "errors"

// Configuration errors. They signal property sets that were wired incorrectly
// and are not meant to be handled at runtime.
var (
	ErrConflictingTargets = errors.New("property cannot be both embed-only and text-only")
	ErrMissingLong        = errors.New("long property is required")
	ErrInvalidGranularity = errors.New("invalid granularity")
	ErrNoEmbedList        = errors.New("list property sets have no embed variant")
	ErrNoTarget           = errors.New("either a granularity or structured output is required")
	ErrEmbedText          = errors.New("embed granularity cannot be rendered as text")
)
