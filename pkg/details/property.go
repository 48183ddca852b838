package details

import (
	"context"
	"fmt"
	"strings"

	"github.com/PieInTheSky-Inc/yadc/pkg/entity"
)

// Input is everything a display-name function or transform gets to see.
type Input[C any] struct {
	Record  entity.Record
	Tables  []entity.Table
	Context C
	// ForEmbed is set when the result is meant for structured display.
	ForEmbed bool
	// Field holds the looked up value of the property's field when the
	// property has both a field and a transform.
	Field  any
	Params map[string]string
}

// Table returns the i-th auxiliary table or nil.
func (in Input[C]) Table(i int) entity.Table {
	if i < 0 || i >= len(in.Tables) {
		return nil
	}
	return in.Tables[i]
}

// FieldString returns Field as text.
func (in Input[C]) FieldString() string {
	return valueString(in.Field)
}

// Param returns a string parameter set on the property or by the caller.
func (in Input[C]) Param(key string) string {
	return in.Params[key]
}

// Transform computes a property value. Every transform may block and must
// honor ctx; a synchronous transform simply never does.
type Transform[C any] func(ctx context.Context, in Input[C]) (string, error)

// Sync adapts a plain function into a Transform.
func Sync[C any](fn func(in Input[C]) string) Transform[C] {
	return func(ctx context.Context, in Input[C]) (string, error) {
		return fn(in), nil
	}
}

// DisplayName is the source of a property's label. It is implemented by
// Literal, Computed and Derived only.
type DisplayName[C any] interface {
	resolveName(ctx context.Context, in Input[C]) (string, error)
}

// Literal is a fixed label.
type Literal[C any] string

func (l Literal[C]) resolveName(context.Context, Input[C]) (string, error) {
	return string(l), nil
}

// Computed derives the label from the record.
type Computed[C any] func(in Input[C]) string

func (f Computed[C]) resolveName(_ context.Context, in Input[C]) (string, error) {
	if f == nil {
		return "", nil
	}
	return f(in), nil
}

// Derived uses the value of another property as the label.
type Derived[C any] struct {
	Property *Property[C]
}

func (d Derived[C]) resolveName(ctx context.Context, in Input[C]) (string, error) {
	if d.Property == nil {
		return "", nil
	}
	calc, err := d.Property.Evaluate(ctx, in)
	if err != nil {
		return "", err
	}
	return calc.Value, nil
}

// PropertyConfig describes how to compute one named value from a record.
type PropertyConfig[C any] struct {
	Name DisplayName[C]
	// ForceName renders the name even in compact output.
	ForceName  bool
	OmitIfNone bool
	// Field is a dot separated path looked up with entity.Lookup.
	Field     string
	Transform Transform[C]
	EmbedOnly bool
	TextOnly  bool
	// Inline is the embed field inline hint.
	Inline *bool
	Params map[string]string
}

// Property is a validated, immutable property descriptor.
type Property[C any] struct {
	name       DisplayName[C]
	forceName  bool
	omitIfNone bool
	field      string
	transform  Transform[C]
	embedOnly  bool
	textOnly   bool
	inline     *bool
	params     map[string]string
}

// NewProperty validates cfg and returns the descriptor.
func NewProperty[C any](cfg PropertyConfig[C]) (*Property[C], error) {
	if cfg.EmbedOnly && cfg.TextOnly {
		return nil, ErrConflictingTargets
	}
	var params map[string]string
	if len(cfg.Params) > 0 {
		params = make(map[string]string, len(cfg.Params))
		for k, v := range cfg.Params {
			params[k] = v
		}
	}
	var inline *bool
	if cfg.Inline != nil {
		v := *cfg.Inline
		inline = &v
	}
	return &Property[C]{
		name:       cfg.Name,
		forceName:  cfg.ForceName,
		omitIfNone: cfg.OmitIfNone,
		field:      cfg.Field,
		transform:  cfg.Transform,
		embedOnly:  cfg.EmbedOnly,
		textOnly:   cfg.TextOnly,
		inline:     inline,
		params:     params,
	}, nil
}

// MustProperty is NewProperty for package level definitions. It panics on an
// invalid configuration.
func MustProperty[C any](cfg PropertyConfig[C]) *Property[C] {
	p, err := NewProperty(cfg)
	if err != nil {
		panic(fmt.Sprintf("details: %v", err))
	}
	return p
}

func (p *Property[C]) EmbedOnly() bool { return p.embedOnly }
func (p *Property[C]) TextOnly() bool  { return p.textOnly }

// Evaluate resolves the property against in. Parameters passed in by the
// caller take precedence over the property's own.
func (p *Property[C]) Evaluate(ctx context.Context, in Input[C]) (Calculated, error) {
	in.Params = mergeParams(p.params, in.Params)
	in.Field = nil

	var name string
	if p.name != nil {
		var err error
		name, err = p.name.resolveName(ctx, in)
		if err != nil {
			return Calculated{}, fmt.Errorf("resolving display name: %w", err)
		}
	}

	var value string
	switch {
	case p.transform != nil:
		if p.field != "" {
			in.Field = entity.Lookup(in.Record, p.field)
		}
		v, err := p.transform(ctx, in)
		if err != nil {
			if name != "" {
				return Calculated{}, fmt.Errorf("computing %s: %w", name, err)
			}
			return Calculated{}, err
		}
		value = v
	case p.field != "":
		value = valueString(entity.Lookup(in.Record, p.field))
	}

	return Calculated{
		Name:       name,
		Value:      value,
		ForceName:  p.forceName,
		OmitIfNone: p.omitIfNone,
		Inline:     p.inline,
	}, nil
}

func mergeParams(own, override map[string]string) map[string]string {
	if len(override) == 0 {
		return own
	}
	if len(own) == 0 {
		return override
	}
	merged := make(map[string]string, len(own)+len(override))
	for k, v := range own {
		merged[k] = v
	}
	for k, v := range override {
		merged[k] = v
	}
	return merged
}

func valueString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := valueString(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case fmt.Stringer:
		return val.String()
	case entity.Record, map[string]any:
		return ""
	default:
		return fmt.Sprint(val)
	}
}
