package details

import (
	"fmt"
	"strings"
)

// Granularity selects how much detail is rendered for an entity.
type Granularity int

const (
	// Unspecified is the zero value. It is only meaningful for FullDetails
	// together with structured output.
	Unspecified Granularity = iota
	// Long is the full multi-line rendering.
	Long
	// Short is a single line with the title and parenthesized properties.
	Short
	// Mini is a single ultra compact line.
	Mini
	// Embed requests structured display. For properties it means structured
	// output at Long detail.
	Embed

	granularityCount = int(Embed) + 1
)

func (g Granularity) String() string {
	switch g {
	case Unspecified:
		return "unspecified"
	case Long:
		return "long"
	case Short:
		return "short"
	case Mini:
		return "mini"
	case Embed:
		return "embed"
	default:
		return fmt.Sprintf("granularity(%d)", int(g))
	}
}

// Valid reports whether g is one of Long, Short, Mini or Embed.
func (g Granularity) Valid() bool {
	return g >= Long && g <= Embed
}

// ParseGranularity maps a case-insensitive name to a Granularity.
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "long":
		return Long, nil
	case "short":
		return Short, nil
	case "mini":
		return Mini, nil
	case "embed":
		return Embed, nil
	default:
		return Unspecified, fmt.Errorf("%w: %q", ErrInvalidGranularity, s)
	}
}
