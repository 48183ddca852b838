package details

const (
	// NoneValue stands in for an absent value.
	NoneValue = "-"

	LongSeparator  = " = "
	ShortSeparator = ": "
	ListSeparator  = " | "
	MiniSeparator  = ", "

	// ZeroWidthSpace fills embed field names and values that must not be empty.
	ZeroWidthSpace = "\u200b"
)

// Calculated is the result of evaluating a Property against one record. An
// empty Value means the value is absent.
type Calculated struct {
	Name       string
	Value      string
	ForceName  bool
	OmitIfNone bool
	Inline     *bool
}

// HasValue reports whether the value is present.
func (c Calculated) HasValue() bool {
	return c.Value != ""
}

// LineOptions controls how a Calculated renders as text.
type LineOptions struct {
	Separator    string
	Prefix       string
	SuppressName bool
	// ForceValue renders absent values even when OmitIfNone is set.
	ForceValue bool
	// SuppressNone renders absent values as "" instead of NoneValue.
	SuppressNone bool
}

// Text renders the property. The second result is false when the property is
// omitted entirely.
func (c Calculated) Text(opts LineOptions) (string, bool) {
	if !c.HasValue() && c.OmitIfNone && !opts.ForceValue {
		return "", false
	}

	value := c.Value
	if !c.HasValue() {
		value = NoneValue
		if opts.SuppressNone {
			value = ""
		}
	}

	if c.Name == "" || !c.ForceName || opts.SuppressName {
		return opts.Prefix + value, true
	}
	return opts.Prefix + c.Name + opts.Separator + value, true
}

// names returns the distinct display names of props in order.
func names(props []Calculated) []string {
	seen := make(map[string]struct{}, len(props))
	var out []string
	for _, p := range props {
		if p.Name == "" {
			continue
		}
		if _, ok := seen[p.Name]; ok {
			continue
		}
		seen[p.Name] = struct{}{}
		out = append(out, p.Name)
	}
	return out
}
