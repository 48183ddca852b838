package gamedata

import (
	"context"
	"fmt"

	"github.com/PieInTheSky-Inc/yadc/pkg/details"
	"github.com/PieInTheSky-Inc/yadc/pkg/embed"
	"github.com/PieInTheSky-Inc/yadc/pkg/entity"
)

// LookupOptions controls how lookup results are rendered.
type LookupOptions struct {
	// Granularity picks the output shape. Unspecified lets the collection
	// decide between full details and a compact big set. Embed produces
	// structured containers instead of lines.
	Granularity details.Granularity
	// Escaped renders text inside a literal block.
	Escaped bool
}

// Result is a rendered lookup.
type Result struct {
	Kind   Kind           `json:"kind"`
	Query  string         `json:"query"`
	Count  int            `json:"count"`
	Lines  []string       `json:"lines,omitempty"`
	Embeds []*embed.Embed `json:"embeds,omitempty"`
}

type renderer interface {
	render(ctx context.Context, query string, records []entity.Record, opts LookupOptions) (*Result, error)
}

// kindRenderer renders records of one kind with a fixed set of property
// definitions and render context.
type kindRenderer[C any] struct {
	kind      Kind
	cfg       details.Config[C]
	tables    func(ctx context.Context) ([]entity.Table, error)
	threshold int
}

func (k *kindRenderer[C]) entities(ctx context.Context, records []entity.Record, escaped bool) ([]*details.Entity[C], error) {
	tables, err := k.tables(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading %s tables: %w", k.kind, err)
	}
	items := make([]*details.Entity[C], len(records))
	for i, rec := range records {
		if escaped {
			items[i] = details.NewEscaped(rec, k.cfg, tables...)
		} else {
			items[i] = details.New(rec, k.cfg, tables...)
		}
	}
	return items, nil
}

func (k *kindRenderer[C]) render(ctx context.Context, query string, records []entity.Record, opts LookupOptions) (*Result, error) {
	items, err := k.entities(ctx, records, opts.Escaped)
	if err != nil {
		return nil, err
	}
	coll := details.NewCollection(items, k.threshold, true)
	res := &Result{Kind: k.kind, Query: query, Count: len(items)}

	var title, footer string
	if coll.IsBigSet() {
		title = fmt.Sprintf("%d %s entries matching %q", len(items), k.kind, query)
		footer = "Search for a more specific name to see full details."
	}

	switch opts.Granularity {
	case details.Embed:
		res.Embeds, err = coll.Embeds(ctx, details.EmbedOptions{Title: title, Footer: footer})
	case details.Unspecified:
		res.Lines, err = coll.Text(ctx, details.TextOptions{Title: embed.Bold(title), Footer: footer})
	case details.Long:
		never := 0
		res.Lines, err = coll.Text(ctx, details.TextOptions{Threshold: &never})
	case details.Short, details.Mini:
		always := 1
		res.Lines, err = coll.Text(ctx, details.TextOptions{Granularity: opts.Granularity, Threshold: &always})
	default:
		return nil, details.ErrInvalidGranularity
	}
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", k.kind, err)
	}
	return res, nil
}
