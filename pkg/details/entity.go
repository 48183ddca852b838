package details

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/PieInTheSky-Inc/yadc/pkg/embed"
	"github.com/PieInTheSky-Inc/yadc/pkg/entity"
)

// EmbedSetting names a piece of embed metadata computed from the record.
type EmbedSetting string

const (
	SettingColor        EmbedSetting = "color"
	SettingFooter       EmbedSetting = "footer"
	SettingThumbnailURL EmbedSetting = "thumbnail_url"
	SettingImageURL     EmbedSetting = "image_url"
	SettingIconURL      EmbedSetting = "icon_url"
	SettingAuthorURL    EmbedSetting = "author_url"
	SettingTimestamp    EmbedSetting = "timestamp"
)

// Config wires property sets and context into an Entity.
type Config[C any] struct {
	Title         *PropertySet[C]
	Description   *PropertySet[C]
	Properties    *ListPropertySet[C]
	EmbedSettings map[EmbedSetting]*Property[C]
	// Prefix is prepended to rendered property lines.
	Prefix  string
	Context C
	Params  map[string]string
}

// Full is the title, description and evaluated properties for one target.
type Full struct {
	Title       string
	Description string
	Properties  []Calculated
}

// cell computes its value at most once. A failed computation leaves the cell
// empty so a later call can retry. Callers waiting on another caller's
// computation give up when their own ctx is done.
type cell[T any] struct {
	once  sync.Once
	sem   chan struct{}
	done  bool
	value T
}

func (c *cell[T]) get(ctx context.Context, compute func() (T, error)) (T, error) {
	var zero T
	c.once.Do(func() { c.sem = make(chan struct{}, 1) })
	select {
	case c.sem <- struct{}{}:
	case <-ctx.Done():
		return zero, ctx.Err()
	}
	defer func() { <-c.sem }()

	if c.done {
		return c.value, nil
	}
	v, err := compute()
	if err != nil {
		return zero, err
	}
	c.value = v
	c.done = true
	return v, nil
}

// Entity binds one record and its auxiliary tables to the property sets that
// describe how to render it. Evaluated values are cached for the lifetime of
// the Entity; it is safe for concurrent use.
type Entity[C any] struct {
	record        entity.Record
	tables        []entity.Table
	title         *PropertySet[C]
	description   *PropertySet[C]
	properties    *ListPropertySet[C]
	embedSettings map[EmbedSetting]*Property[C]
	prefix        string
	rc            C
	params        map[string]string
	escaped       bool

	// indexed by [structured][granularity]
	filtered    [2][granularityCount][]*Property[C]
	detailCells [2][granularityCount]cell[[]Calculated]

	titleCells       [granularityCount]cell[string]
	descriptionCells [granularityCount]cell[string]
}

// New creates an Entity for rec. Tables are handed to transforms in order.
func New[C any](rec entity.Record, cfg Config[C], tables ...entity.Table) *Entity[C] {
	props := cfg.Properties
	if props == nil {
		props = NewListPropertySet[C](nil, nil, nil)
	}
	e := &Entity[C]{
		record:        rec,
		tables:        tables,
		title:         cfg.Title,
		description:   cfg.Description,
		properties:    props,
		embedSettings: cfg.EmbedSettings,
		prefix:        cfg.Prefix,
		rc:            cfg.Context,
		params:        cfg.Params,
	}

	for _, g := range []Granularity{Long, Short, Mini} {
		list, _ := props.Get(g)
		for _, p := range list {
			if !p.TextOnly() {
				e.filtered[1][g] = append(e.filtered[1][g], p)
			}
			if !p.EmbedOnly() {
				e.filtered[0][g] = append(e.filtered[0][g], p)
			}
		}
	}
	return e
}

func (e *Entity[C]) input(forEmbed bool) Input[C] {
	return Input[C]{
		Record:   e.record,
		Tables:   e.tables,
		Context:  e.rc,
		ForEmbed: forEmbed,
		Params:   e.params,
	}
}

func structuredIndex(structured bool) int {
	if structured {
		return 1
	}
	return 0
}

// Details returns the evaluated properties for (structured, g). Embed is the
// same as structured Long. Each combination is evaluated once.
func (e *Entity[C]) Details(ctx context.Context, structured bool, g Granularity) ([]Calculated, error) {
	if g == Embed {
		structured, g = true, Long
	}
	if !g.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidGranularity, g)
	}

	idx := structuredIndex(structured)
	return e.detailCells[idx][g].get(ctx, func() ([]Calculated, error) {
		list := e.filtered[idx][g]
		result := make([]Calculated, 0, len(list))
		in := e.input(structured)
		for _, p := range list {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			calc, err := p.Evaluate(ctx, in)
			if err != nil {
				return nil, err
			}
			result = append(result, calc)
		}
		return result, nil
	})
}

// Title returns the title for g, or "" when there is none.
func (e *Entity[C]) Title(ctx context.Context, g Granularity) (string, error) {
	return e.single(ctx, e.title, &e.titleCells, g)
}

// Description returns the description for g, or "" when there is none.
func (e *Entity[C]) Description(ctx context.Context, g Granularity) (string, error) {
	return e.single(ctx, e.description, &e.descriptionCells, g)
}

func (e *Entity[C]) single(ctx context.Context, set *PropertySet[C], cells *[granularityCount]cell[string], g Granularity) (string, error) {
	if !g.Valid() {
		return "", fmt.Errorf("%w: %s", ErrInvalidGranularity, g)
	}
	if set.IsNone() {
		return "", nil
	}
	return cells[g].get(ctx, func() (string, error) {
		p, err := set.Get(g)
		if err != nil {
			return "", err
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		calc, err := p.Evaluate(ctx, e.input(g == Embed))
		if err != nil {
			return "", err
		}
		return calc.Value, nil
	})
}

// FullDetails assembles title, description and properties. Embed, or
// structured output without a granularity, selects the embed variant.
func (e *Entity[C]) FullDetails(ctx context.Context, structured bool, g Granularity) (Full, error) {
	if g == Unspecified {
		if !structured {
			return Full{}, ErrNoTarget
		}
		g = Embed
	}
	if g == Embed {
		structured = true
	}

	title, err := e.Title(ctx, g)
	if err != nil {
		return Full{}, err
	}
	description, err := e.Description(ctx, g)
	if err != nil {
		return Full{}, err
	}
	props, err := e.Details(ctx, structured, g)
	if err != nil {
		return Full{}, err
	}
	return Full{Title: title, Description: description, Properties: props}, nil
}

// Text renders the entity as plain lines. forEmbed selects the structured
// property list, for text that ends up inside an embed.
func (e *Entity[C]) Text(ctx context.Context, g Granularity, forEmbed bool) ([]string, error) {
	if e.escaped {
		return e.escapedText(ctx, forEmbed)
	}
	switch g {
	case Long, Short, Mini:
	case Embed:
		return nil, ErrEmbedText
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidGranularity, g)
	}

	full, err := e.FullDetails(ctx, forEmbed, g)
	if err != nil {
		return nil, err
	}

	switch g {
	case Long:
		return e.longText(full), nil
	case Short:
		return []string{e.shortText(full)}, nil
	default:
		return []string{e.miniText(full)}, nil
	}
}

func (e *Entity[C]) longText(full Full) []string {
	var lines []string
	if full.Title != "" {
		lines = append(lines, "**"+full.Title+"**")
	}
	if full.Description != "" {
		lines = append(lines, "_"+full.Description+"_")
	}
	for _, p := range full.Properties {
		if line, ok := p.Text(LineOptions{Separator: LongSeparator, Prefix: e.prefix}); ok {
			lines = append(lines, line)
		}
	}
	return lines
}

func (e *Entity[C]) shortText(full Full) string {
	var sb strings.Builder
	sb.WriteString(e.prefix)
	sb.WriteString(full.Title)
	if full.Description != "" {
		sb.WriteString(" (" + full.Description + ")")
	}
	var parts []string
	for _, p := range full.Properties {
		if text, ok := p.Text(LineOptions{Separator: ShortSeparator}); ok {
			parts = append(parts, text)
		}
	}
	if len(parts) > 0 {
		sb.WriteString(" (" + strings.Join(parts, ListSeparator) + ")")
	}
	return sb.String()
}

func (e *Entity[C]) miniText(full Full) string {
	var parts []string
	if full.Description != "" {
		parts = append(parts, full.Description)
	}
	for _, p := range full.Properties {
		if text, ok := p.Text(LineOptions{SuppressName: true}); ok {
			parts = append(parts, text)
		}
	}
	line := e.prefix + full.Title
	if len(parts) > 0 {
		line += " (" + strings.Join(parts, MiniSeparator) + ")"
	}
	return line
}

// Embed renders the entity as a structured container. inline overrides the
// inline flag of every field when set.
func (e *Entity[C]) Embed(ctx context.Context, inline *bool) (*embed.Embed, error) {
	full, err := e.FullDetails(ctx, true, Embed)
	if err != nil {
		return nil, err
	}

	var fields []embed.Field
	for _, p := range full.Properties {
		value, ok := p.Text(LineOptions{SuppressName: true})
		if !ok {
			continue
		}
		name := embed.Bold(p.Name)
		if name == "" {
			name = ZeroWidthSpace
		}
		if value == "" {
			value = ZeroWidthSpace
		}
		fields = append(fields, embed.Field{
			Name:   name,
			Value:  value,
			Inline: resolveInline(inline, p.Inline),
		})
	}

	opts, err := e.embedOptions(ctx)
	if err != nil {
		return nil, err
	}
	return embed.New(full.Title, full.Description, fields, opts), nil
}

func resolveInline(override, hint *bool) bool {
	if override != nil {
		return *override
	}
	if hint != nil {
		return *hint
	}
	return true
}

func (e *Entity[C]) embedOptions(ctx context.Context) (embed.Options, error) {
	var opts embed.Options
	in := e.input(true)
	for setting, p := range e.embedSettings {
		if p == nil {
			continue
		}
		calc, err := p.Evaluate(ctx, in)
		if err != nil {
			return embed.Options{}, fmt.Errorf("embed setting %s: %w", setting, err)
		}
		if !calc.HasValue() {
			continue
		}
		switch setting {
		case SettingColor:
			opts.Color = parseColor(calc.Value)
		case SettingFooter:
			opts.Footer = calc.Value
		case SettingThumbnailURL:
			opts.ThumbnailURL = calc.Value
		case SettingImageURL:
			opts.ImageURL = calc.Value
		case SettingIconURL:
			opts.IconURL = calc.Value
		case SettingAuthorURL:
			opts.AuthorURL = calc.Value
		case SettingTimestamp:
			opts.Timestamp = parseTimestamp(calc.Value)
		}
	}
	return opts, nil
}

// parseColor accepts decimal, "#rrggbb" and "0xrrggbb". Unparseable input is 0.
func parseColor(s string) int {
	s = strings.TrimSpace(s)
	base := 10
	switch {
	case strings.HasPrefix(s, "#"):
		s, base = s[1:], 16
	case strings.HasPrefix(strings.ToLower(s), "0x"):
		s, base = s[2:], 16
	}
	n, err := strconv.ParseInt(s, base, 32)
	if err != nil {
		return 0
	}
	return int(n)
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimestamp(s string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
