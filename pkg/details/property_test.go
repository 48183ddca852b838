package details

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PieInTheSky-Inc/yadc/pkg/entity"
)

type testContext struct {
	Unit string
}

func lit(s string) DisplayName[testContext] {
	return Literal[testContext](s)
}

func field(name, path string) *Property[testContext] {
	return MustProperty(PropertyConfig[testContext]{Name: lit(name), ForceName: true, OmitIfNone: true, Field: path})
}

func TestNewProperty_MutualExclusion(t *testing.T) {
	_, err := NewProperty(PropertyConfig[testContext]{Name: lit("Cost"), EmbedOnly: true, TextOnly: true})
	require.ErrorIs(t, err, ErrConflictingTargets)

	assert.Panics(t, func() {
		MustProperty(PropertyConfig[testContext]{EmbedOnly: true, TextOnly: true})
	})

	p, err := NewProperty(PropertyConfig[testContext]{EmbedOnly: true})
	require.NoError(t, err)
	assert.True(t, p.EmbedOnly())
	assert.False(t, p.TextOnly())
}

func TestProperty_Evaluate(t *testing.T) {
	ctx := context.Background()
	rec := entity.Record{
		"Name":    "Laser",
		"Cost":    "150",
		"Missing": "0",
		"MissileDesign": entity.Record{
			"Volley": "3",
		},
	}
	in := Input[testContext]{Record: rec, Context: testContext{Unit: "bux"}}

	tests := []struct {
		name      string
		cfg       PropertyConfig[testContext]
		wantName  string
		wantValue string
	}{
		{
			name:      "literal name and field",
			cfg:       PropertyConfig[testContext]{Name: lit("Cost"), Field: "Cost"},
			wantName:  "Cost",
			wantValue: "150",
		},
		{
			name:      "nested field",
			cfg:       PropertyConfig[testContext]{Name: lit("Volley"), Field: "MissileDesign.Volley"},
			wantName:  "Volley",
			wantValue: "3",
		},
		{
			name:      "absent field",
			cfg:       PropertyConfig[testContext]{Name: lit("Missing"), Field: "Missing"},
			wantName:  "Missing",
			wantValue: "",
		},
		{
			name: "computed name",
			cfg: PropertyConfig[testContext]{
				Name:  Computed[testContext](func(in Input[testContext]) string { return "Price in " + in.Context.Unit }),
				Field: "Cost",
			},
			wantName:  "Price in bux",
			wantValue: "150",
		},
		{
			name: "derived name uses the nested value",
			cfg: PropertyConfig[testContext]{
				Name:  Derived[testContext]{Property: field("ignored", "Name")},
				Field: "Cost",
			},
			wantName:  "Laser",
			wantValue: "150",
		},
		{
			name: "transform receives field",
			cfg: PropertyConfig[testContext]{
				Name:  lit("Cost"),
				Field: "Cost",
				Transform: Sync(func(in Input[testContext]) string {
					return in.FieldString() + " " + in.Context.Unit
				}),
			},
			wantName:  "Cost",
			wantValue: "150 bux",
		},
		{
			name:      "no value source",
			cfg:       PropertyConfig[testContext]{Name: lit("Nothing")},
			wantName:  "Nothing",
			wantValue: "",
		},
		{
			name:      "no name source",
			cfg:       PropertyConfig[testContext]{Field: "Name"},
			wantName:  "",
			wantValue: "Laser",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := MustProperty(tt.cfg)
			calc, err := p.Evaluate(ctx, in)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, calc.Name)
			assert.Equal(t, tt.wantValue, calc.Value)
		})
	}
}

func TestProperty_Params(t *testing.T) {
	p := MustProperty(PropertyConfig[testContext]{
		Params: map[string]string{"stat": "Attack", "unit": "%"},
		Transform: Sync(func(in Input[testContext]) string {
			return in.Param("stat") + in.Param("unit")
		}),
	})

	calc, err := p.Evaluate(context.Background(), Input[testContext]{})
	require.NoError(t, err)
	assert.Equal(t, "Attack%", calc.Value)

	calc, err = p.Evaluate(context.Background(), Input[testContext]{Params: map[string]string{"unit": "pt"}})
	require.NoError(t, err)
	assert.Equal(t, "Attackpt", calc.Value, "caller parameters win")
}

func TestProperty_TransformError(t *testing.T) {
	boom := errors.New("boom")
	p := MustProperty(PropertyConfig[testContext]{
		Name: lit("Link"),
		Transform: func(ctx context.Context, in Input[testContext]) (string, error) {
			return "", boom
		},
	})
	_, err := p.Evaluate(context.Background(), Input[testContext]{})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "Link")
}

func TestCalculated_Text(t *testing.T) {
	tests := []struct {
		name   string
		calc   Calculated
		opts   LineOptions
		want   string
		wantOK bool
	}{
		{"forced name", Calculated{Name: "Cost", Value: "10", ForceName: true}, LineOptions{Separator: ": "}, "Cost: 10", true},
		{"name not forced", Calculated{Name: "Cost", Value: "10"}, LineOptions{Separator: ": "}, "10", true},
		{"suppressed name", Calculated{Name: "Cost", Value: "10", ForceName: true}, LineOptions{Separator: ": ", SuppressName: true}, "10", true},
		{"prefix", Calculated{Name: "Cost", Value: "10", ForceName: true}, LineOptions{Separator: " = ", Prefix: "> "}, "> Cost = 10", true},
		{"omitted", Calculated{Name: "Cost", ForceName: true, OmitIfNone: true}, LineOptions{Separator: ": "}, "", false},
		{"forced value", Calculated{Name: "Cost", ForceName: true, OmitIfNone: true}, LineOptions{Separator: ": ", ForceValue: true}, "Cost: -", true},
		{"placeholder", Calculated{Name: "Cost", ForceName: true}, LineOptions{Separator: ": "}, "Cost: -", true},
		{"suppressed placeholder", Calculated{Name: "Cost", ForceName: true}, LineOptions{Separator: ": ", SuppressNone: true}, "Cost: ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.calc.Text(tt.opts)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPropertySet_Fallback(t *testing.T) {
	long := field("Long", "A")
	set, err := NewPropertySet[testContext](long, nil, nil, nil)
	require.NoError(t, err)
	assert.Same(t, long, set.Short())
	assert.Same(t, long, set.Mini())
	assert.Same(t, long, set.Embed())

	short := field("Short", "B")
	mini := field("Mini", "C")
	embedProp := field("Embed", "D")

	set = MustPropertySet(long, short, nil, nil)
	assert.Same(t, short, set.Short())
	assert.Same(t, short, set.Mini(), "mini falls back to short")
	assert.Same(t, long, set.Embed(), "embed falls back to long")

	set = MustPropertySet(long, nil, mini, embedProp)
	assert.Same(t, long, set.Short())
	assert.Same(t, mini, set.Mini())
	assert.Same(t, embedProp, set.Embed())

	for g, want := range map[Granularity]*Property[testContext]{Long: long, Short: long, Mini: mini, Embed: embedProp} {
		got, err := set.Get(g)
		require.NoError(t, err)
		assert.Same(t, want, got, g.String())
	}

	_, err = set.Get(Granularity(42))
	assert.ErrorIs(t, err, ErrInvalidGranularity)
	_, err = set.Get(Unspecified)
	assert.ErrorIs(t, err, ErrInvalidGranularity)

	_, err = NewPropertySet[testContext](nil, short, nil, nil)
	assert.ErrorIs(t, err, ErrMissingLong)
}

func TestListPropertySet_EmptyVersusNil(t *testing.T) {
	long := []*Property[testContext]{field("A", "A"), field("B", "B")}

	set := NewListPropertySet(long, []*Property[testContext]{}, nil)
	assert.Empty(t, set.Short(), "explicit empty short list is kept")
	assert.NotNil(t, set.Short())
	assert.Empty(t, set.Mini(), "mini falls back to the explicit empty short list")

	set = NewListPropertySet[testContext](long, nil, nil)
	assert.Equal(t, long, set.Short())
	assert.Equal(t, long, set.Mini())

	mini := []*Property[testContext]{field("C", "C")}
	set = NewListPropertySet(long, nil, mini)
	assert.Equal(t, mini, set.Mini())

	_, err := set.Get(Embed)
	assert.ErrorIs(t, err, ErrNoEmbedList)
	_, err = set.Get(Granularity(-1))
	assert.ErrorIs(t, err, ErrInvalidGranularity)

	set = NewListPropertySet[testContext](nil, nil, nil)
	list, err := set.Get(Long)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestParseGranularity(t *testing.T) {
	for s, want := range map[string]Granularity{"long": Long, "SHORT": Short, " mini ": Mini, "Embed": Embed} {
		got, err := ParseGranularity(s)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseGranularity("huge")
	assert.ErrorIs(t, err, ErrInvalidGranularity)
	assert.True(t, strings.HasPrefix(Granularity(9).String(), "granularity("))
}
