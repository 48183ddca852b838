package details

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PieInTheSky-Inc/yadc/pkg/entity"
)

func widgetConfig(props ...*Property[testContext]) Config[testContext] {
	return Config[testContext]{
		Title:       SingleProperty(MustProperty(PropertyConfig[testContext]{Field: "Name"})),
		Description: SingleProperty(MustProperty(PropertyConfig[testContext]{Field: "Description"})),
		Properties:  NewListPropertySet(props, nil, nil),
	}
}

func TestEntity_ShortText(t *testing.T) {
	cfg := widgetConfig(field("Cost", "Cost"))
	cfg.Description = NoProperty[testContext]()
	e := New(entity.Record{"Name": "Widget", "Cost": "10 bux"}, cfg)

	lines, err := e.Text(context.Background(), Short, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Widget (Cost: 10 bux)"}, lines)
}

func TestEntity_TextGranularities(t *testing.T) {
	rec := entity.Record{
		"Name":        "Widget",
		"Description": "A small thing",
		"Cost":        "10 bux",
		"Rarity":      "Rare",
		"Weight":      "0",
	}
	cfg := widgetConfig(field("Cost", "Cost"), field("Rarity", "Rarity"), field("Weight", "Weight"))
	e := New(rec, cfg)
	ctx := context.Background()

	long, err := e.Text(ctx, Long, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"**Widget**", "_A small thing_", "Cost = 10 bux", "Rarity = Rare"}, long)

	short, err := e.Text(ctx, Short, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Widget (A small thing) (Cost: 10 bux | Rarity: Rare)"}, short)

	mini, err := e.Text(ctx, Mini, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Widget (A small thing, 10 bux, Rare)"}, mini)

	_, err = e.Text(ctx, Embed, false)
	assert.ErrorIs(t, err, ErrEmbedText)
	_, err = e.Text(ctx, Unspecified, false)
	assert.ErrorIs(t, err, ErrInvalidGranularity)
}

func TestEntity_Prefix(t *testing.T) {
	cfg := widgetConfig(field("Cost", "Cost"))
	cfg.Prefix = "> "
	e := New(entity.Record{"Name": "Widget", "Cost": "10"}, cfg)

	long, err := e.Text(context.Background(), Long, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"**Widget**", "> Cost = 10"}, long)

	mini, err := e.Text(context.Background(), Mini, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"> Widget (10)"}, mini)
}

func TestEntity_Memoization(t *testing.T) {
	var calls atomic.Int32
	counted := MustProperty(PropertyConfig[testContext]{
		Name:      lit("Counted"),
		ForceName: true,
		Transform: Sync(func(in Input[testContext]) string {
			calls.Add(1)
			return "x"
		}),
	})
	e := New(entity.Record{"Name": "Widget"}, widgetConfig(counted))
	ctx := context.Background()

	first, err := e.Details(ctx, false, Long)
	require.NoError(t, err)
	second, err := e.Details(ctx, false, Long)
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, first, second)

	_, err = e.Text(ctx, Long, false)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load(), "text rendering reuses the cached cell")

	_, err = e.Details(ctx, true, Long)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load(), "structured output is a separate cell")

	_, err = e.Details(ctx, false, Embed)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load(), "embed maps onto structured long")
}

func TestEntity_MemoizationConcurrent(t *testing.T) {
	var calls atomic.Int32
	counted := MustProperty(PropertyConfig[testContext]{
		Transform: Sync(func(in Input[testContext]) string {
			calls.Add(1)
			return "x"
		}),
	})
	e := New(entity.Record{}, widgetConfig(counted))

	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.Details(context.Background(), false, Short)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), calls.Load())
}

func TestEntity_CancelledEvaluationIsNotCached(t *testing.T) {
	var calls atomic.Int32
	counted := MustProperty(PropertyConfig[testContext]{
		Transform: func(ctx context.Context, in Input[testContext]) (string, error) {
			if err := ctx.Err(); err != nil {
				return "", err
			}
			calls.Add(1)
			return "x", nil
		},
	})
	e := New(entity.Record{}, widgetConfig(counted))

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.Details(cancelled, false, Long)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), calls.Load())

	props, err := e.Details(context.Background(), false, Long)
	require.NoError(t, err)
	require.Len(t, props, 1)
	assert.Equal(t, "x", props[0].Value)
	assert.Equal(t, int32(1), calls.Load())
}

func TestEntity_WaitingCallerHonorsCancellation(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	slow := MustProperty(PropertyConfig[testContext]{
		Transform: Sync(func(in Input[testContext]) string {
			if calls.Add(1) == 1 {
				close(started)
			}
			<-release
			return "x"
		}),
	})
	e := New(entity.Record{}, widgetConfig(slow))

	firstErr := make(chan error, 1)
	go func() {
		_, err := e.Details(context.Background(), false, Long)
		firstErr <- err
	}()
	<-started

	waiting, cancel := context.WithCancel(context.Background())
	secondErr := make(chan error, 1)
	go func() {
		_, err := e.Details(waiting, false, Long)
		secondErr <- err
	}()
	cancel()

	select {
	case err := <-secondErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("waiting caller ignored its cancellation")
	}

	close(release)
	require.NoError(t, <-firstErr)
	props, err := e.Details(context.Background(), false, Long)
	require.NoError(t, err)
	assert.Equal(t, "x", props[0].Value)
	assert.Equal(t, int32(1), calls.Load())
}

func TestEntity_TextOnlyAndEmbedOnly(t *testing.T) {
	textOnly := MustProperty(PropertyConfig[testContext]{Name: lit("Text"), ForceName: true, Field: "A", TextOnly: true})
	embedOnly := MustProperty(PropertyConfig[testContext]{Name: lit("Embed"), ForceName: true, Field: "B", EmbedOnly: true})
	both := MustProperty(PropertyConfig[testContext]{Name: lit("Both"), ForceName: true, Field: "C"})
	e := New(entity.Record{"A": "a", "B": "b", "C": "c"}, widgetConfig(textOnly, embedOnly, both))
	ctx := context.Background()

	text, err := e.Details(ctx, false, Long)
	require.NoError(t, err)
	assert.Equal(t, []string{"Text", "Both"}, []string{text[0].Name, text[1].Name})

	structured, err := e.Details(ctx, true, Long)
	require.NoError(t, err)
	assert.Equal(t, []string{"Embed", "Both"}, []string{structured[0].Name, structured[1].Name})
}

func TestEntity_FullDetails(t *testing.T) {
	cfg := widgetConfig(field("Cost", "Cost"))
	cfg.Title = MustPropertySet(
		MustProperty(PropertyConfig[testContext]{Field: "Name"}),
		nil,
		nil,
		MustProperty(PropertyConfig[testContext]{Transform: Sync(func(in Input[testContext]) string {
			return "[" + entity.LookupString(in.Record, "Name") + "]"
		})}),
	)
	e := New(entity.Record{"Name": "Widget", "Cost": "10"}, cfg)
	ctx := context.Background()

	_, err := e.FullDetails(ctx, false, Unspecified)
	assert.ErrorIs(t, err, ErrNoTarget)

	full, err := e.FullDetails(ctx, true, Unspecified)
	require.NoError(t, err)
	assert.Equal(t, "[Widget]", full.Title)
	require.Len(t, full.Properties, 1)

	full, err = e.FullDetails(ctx, false, Embed)
	require.NoError(t, err)
	assert.Equal(t, "[Widget]", full.Title)

	full, err = e.FullDetails(ctx, false, Short)
	require.NoError(t, err)
	assert.Equal(t, "Widget", full.Title)
	assert.Empty(t, full.Description)
}

func TestEntity_NoPropertyNeverEvaluates(t *testing.T) {
	e := New(entity.Record{"Name": "Widget"}, Config[testContext]{})
	title, err := e.Title(context.Background(), Long)
	require.NoError(t, err)
	assert.Empty(t, title)

	lines, err := e.Text(context.Background(), Long, false)
	require.NoError(t, err)
	assert.Empty(t, lines)

	_, err = e.Title(context.Background(), Unspecified)
	assert.ErrorIs(t, err, ErrInvalidGranularity)
}

func TestEntity_Embed(t *testing.T) {
	notInline := false
	cfg := widgetConfig(
		field("Cost", "Cost"),
		MustProperty(PropertyConfig[testContext]{Name: lit("**Rarity**"), Field: "Rarity", Inline: &notInline}),
		field("Weight", "Weight"),
	)
	cfg.EmbedSettings = map[EmbedSetting]*Property[testContext]{
		SettingColor:        MustProperty(PropertyConfig[testContext]{Transform: Sync(func(Input[testContext]) string { return "#ff0000" })}),
		SettingThumbnailURL: MustProperty(PropertyConfig[testContext]{Field: "Sprite"}),
		SettingFooter:       MustProperty(PropertyConfig[testContext]{Transform: Sync(func(Input[testContext]) string { return "Pixel Starships" })}),
		SettingTimestamp:    MustProperty(PropertyConfig[testContext]{Field: "Updated"}),
		SettingImageURL:     MustProperty(PropertyConfig[testContext]{Field: "Missing"}),
	}
	rec := entity.Record{
		"Name":        "Widget",
		"Description": "A small thing",
		"Cost":        "10",
		"Rarity":      "Rare",
		"Sprite":      "https://example.com/1.png",
		"Updated":     "2024-05-01T12:00:00",
	}
	e := New(rec, cfg)

	em, err := e.Embed(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "Widget", em.Title)
	assert.Equal(t, "A small thing", em.Description)
	assert.Equal(t, 0xff0000, em.Color)
	require.NotNil(t, em.Thumbnail)
	assert.Equal(t, "https://example.com/1.png", em.Thumbnail.URL)
	assert.Nil(t, em.Image)
	assert.Equal(t, "Pixel Starships", em.FooterText())
	require.NotNil(t, em.Timestamp)
	assert.Equal(t, 2024, em.Timestamp.Year())

	require.Len(t, em.Fields, 2, "omitted weight has no field")
	assert.Equal(t, "**Cost**", em.Fields[0].Name)
	assert.Equal(t, "10", em.Fields[0].Value)
	assert.True(t, em.Fields[0].Inline)
	assert.Equal(t, "**Rarity**", em.Fields[1].Name)
	assert.False(t, em.Fields[1].Inline, "descriptor hint applies")

	override := true
	em, err = e.Embed(context.Background(), &override)
	require.NoError(t, err)
	assert.True(t, em.Fields[1].Inline, "explicit override wins")
}

func TestEscaped_AlwaysLong(t *testing.T) {
	rec := entity.Record{"Name": "*Widget*", "Description": "_odd_", "Cost": "10"}
	e := NewEscaped(rec, widgetConfig(field("Cost", "Cost")))
	ctx := context.Background()

	long, err := e.Text(ctx, Long, false)
	require.NoError(t, err)
	short, err := e.Text(ctx, Short, false)
	require.NoError(t, err)
	mini, err := e.Text(ctx, Mini, false)
	require.NoError(t, err)

	assert.Equal(t, long, short)
	assert.Equal(t, long, mini)
	assert.Equal(t, []string{CodeBlock, "*Widget*", "_odd_", "Cost = 10", CodeBlock}, long)
	for _, lines := range [][]string{long, short, mini} {
		assert.True(t, strings.HasPrefix(strings.Join(lines, "\n"), CodeBlock))
	}
}

func TestParseColor(t *testing.T) {
	assert.Equal(t, 255, parseColor("255"))
	assert.Equal(t, 0xabcdef, parseColor("#abcdef"))
	assert.Equal(t, 0x10, parseColor("0x10"))
	assert.Equal(t, 0, parseColor("red"))
}
