package details

import (
	"fmt"
)

// PropertySet holds one property per granularity. Short falls back to Long,
// Mini to Short and Embed to Long; the fallbacks are fixed at construction.
type PropertySet[C any] struct {
	long  *Property[C]
	short *Property[C]
	mini  *Property[C]
	embed *Property[C]
	none  bool
}

// NewPropertySet builds a set. Only long is required.
func NewPropertySet[C any](long, short, mini, embed *Property[C]) (*PropertySet[C], error) {
	if long == nil {
		return nil, ErrMissingLong
	}
	if short == nil {
		short = long
	}
	if mini == nil {
		mini = short
	}
	if embed == nil {
		embed = long
	}
	return &PropertySet[C]{long: long, short: short, mini: mini, embed: embed}, nil
}

// MustPropertySet panics where NewPropertySet would fail.
func MustPropertySet[C any](long, short, mini, embed *Property[C]) *PropertySet[C] {
	s, err := NewPropertySet(long, short, mini, embed)
	if err != nil {
		panic(fmt.Sprintf("details: %v", err))
	}
	return s
}

// SingleProperty is a set using p for every granularity.
func SingleProperty[C any](p *Property[C]) *PropertySet[C] {
	return MustPropertySet[C](p, nil, nil, nil)
}

// NoProperty returns the sentinel set that always yields an absent value
// without evaluating anything. A nil *PropertySet behaves the same.
func NoProperty[C any]() *PropertySet[C] {
	return &PropertySet[C]{none: true}
}

// IsNone reports whether s is the NoProperty sentinel or nil.
func (s *PropertySet[C]) IsNone() bool {
	return s == nil || s.none
}

func (s *PropertySet[C]) Long() *Property[C]  { return s.long }
func (s *PropertySet[C]) Short() *Property[C] { return s.short }
func (s *PropertySet[C]) Mini() *Property[C]  { return s.mini }
func (s *PropertySet[C]) Embed() *Property[C] { return s.embed }

// Get returns the property for g.
func (s *PropertySet[C]) Get(g Granularity) (*Property[C], error) {
	switch g {
	case Long:
		return s.long, nil
	case Short:
		return s.short, nil
	case Mini:
		return s.mini, nil
	case Embed:
		return s.embed, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidGranularity, g)
	}
}

// ListPropertySet holds a list of properties per granularity. A nil short list
// falls back to long and a nil mini list to short. A non-nil empty list is an
// explicit "no properties" and is kept.
type ListPropertySet[C any] struct {
	long  []*Property[C]
	short []*Property[C]
	mini  []*Property[C]
}

// NewListPropertySet builds a list set. A nil long list is treated as empty.
func NewListPropertySet[C any](long, short, mini []*Property[C]) *ListPropertySet[C] {
	if long == nil {
		long = []*Property[C]{}
	}
	if short == nil {
		short = long
	}
	if mini == nil {
		mini = short
	}
	return &ListPropertySet[C]{long: long, short: short, mini: mini}
}

func (s *ListPropertySet[C]) Long() []*Property[C]  { return s.long }
func (s *ListPropertySet[C]) Short() []*Property[C] { return s.short }
func (s *ListPropertySet[C]) Mini() []*Property[C]  { return s.mini }

// Get returns the list for g. There is no embed list.
func (s *ListPropertySet[C]) Get(g Granularity) ([]*Property[C], error) {
	switch g {
	case Long:
		return s.long, nil
	case Short:
		return s.short, nil
	case Mini:
		return s.mini, nil
	case Embed:
		return nil, ErrNoEmbedList
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidGranularity, g)
	}
}
