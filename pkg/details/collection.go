package details

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/PieInTheSky-Inc/yadc/pkg/embed"
)

// LegendPrefix introduces the list of property names in a big set footer.
const LegendPrefix = "Properties displayed: "

// Collection renders an ordered list of entities. Once it holds at least
// threshold members it switches to a compact "big set" rendering.
type Collection[C any] struct {
	items         []*Entity[C]
	threshold     int
	addEmptyLines bool
}

// NewCollection creates a collection. A threshold of 0 never compacts.
func NewCollection[C any](items []*Entity[C], threshold int, addEmptyLines bool) *Collection[C] {
	return &Collection[C]{items: items, threshold: threshold, addEmptyLines: addEmptyLines}
}

// IsBigSet reports whether the collection renders compacted. An explicit
// threshold replaces the collection's own.
func (c *Collection[C]) IsBigSet(threshold ...int) bool {
	t := c.threshold
	if len(threshold) > 0 {
		t = threshold[0]
	}
	return t > 0 && len(c.items) >= t
}

func (c *Collection[C]) isBigSet(threshold *int) bool {
	if threshold != nil {
		return c.IsBigSet(*threshold)
	}
	return c.IsBigSet()
}

// TextOptions controls Collection.Text.
type TextOptions struct {
	// Granularity used for big sets. Defaults to Short.
	Granularity Granularity
	Title       string
	Footer      string
	ForEmbed    bool
	Threshold   *int
}

// Text renders every member as plain lines.
func (c *Collection[C]) Text(ctx context.Context, opts TextOptions) ([]string, error) {
	if !c.isBigSet(opts.Threshold) {
		blocks, err := c.memberText(ctx, Long, opts.ForEmbed)
		if err != nil {
			return nil, err
		}
		var lines []string
		for _, block := range blocks {
			lines = append(lines, block...)
			if c.addEmptyLines {
				lines = append(lines, "")
			}
		}
		if c.addEmptyLines && len(lines) > 0 {
			lines = lines[:len(lines)-1]
		}
		return lines, nil
	}

	g := opts.Granularity
	if g == Unspecified {
		g = Short
	}
	blocks, err := c.memberText(ctx, g, opts.ForEmbed)
	if err != nil {
		return nil, err
	}
	var lines []string
	if opts.Title != "" {
		lines = append(lines, opts.Title)
	}
	for _, block := range blocks {
		lines = append(lines, block...)
	}
	if opts.Footer != "" {
		lines = append(lines, "", opts.Footer)
	}
	return lines, nil
}

func (c *Collection[C]) memberText(ctx context.Context, g Granularity, forEmbed bool) ([][]string, error) {
	blocks := make([][]string, len(c.items))
	eg, ctx := errgroup.WithContext(ctx)
	for i, item := range c.items {
		eg.Go(func() error {
			lines, err := item.Text(ctx, g, forEmbed)
			if err != nil {
				return err
			}
			blocks[i] = lines
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return blocks, nil
}

// EmbedOptions controls Collection.Embeds.
type EmbedOptions struct {
	Title        string
	Footer       string
	ThumbnailURL string
	Color        int
	// Inline overrides every field's inline flag.
	Inline *bool
	// Separator joins property values in big set fields. Defaults to "\n".
	Separator string
	Threshold *int
}

// Embeds renders the collection as structured containers: one per member, or
// for big sets one field per member paginated across as many containers as
// the platform limits require.
func (c *Collection[C]) Embeds(ctx context.Context, opts EmbedOptions) ([]*embed.Embed, error) {
	if !c.isBigSet(opts.Threshold) {
		embeds := make([]*embed.Embed, len(c.items))
		eg, ctx := errgroup.WithContext(ctx)
		for i, item := range c.items {
			eg.Go(func() error {
				e, err := item.Embed(ctx, opts.Inline)
				if err != nil {
					return err
				}
				if opts.Footer != "" {
					e.SetFooter(opts.Footer, "")
				}
				embeds[i] = e
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
		return embeds, nil
	}

	separator := opts.Separator
	if separator == "" {
		separator = "\n"
	}

	type member struct {
		title string
		props []Calculated
	}
	members := make([]member, len(c.items))
	eg, gctx := errgroup.WithContext(ctx)
	for i, item := range c.items {
		eg.Go(func() error {
			title, err := item.Title(gctx, Short)
			if err != nil {
				return err
			}
			props, err := item.Details(gctx, true, Short)
			if err != nil {
				return err
			}
			members[i] = member{title: title, props: props}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var all []Calculated
	fields := make([]embed.Field, 0, len(members))
	for _, m := range members {
		all = append(all, m.props...)
		var values []string
		for _, p := range m.props {
			if text, ok := p.Text(LineOptions{SuppressName: true, ForceValue: true}); ok {
				values = append(values, text)
			}
		}
		name := m.title
		if name == "" {
			name = ZeroWidthSpace
		}
		value := strings.Join(values, separator)
		if value == "" {
			value = ZeroWidthSpace
		}
		fields = append(fields, embed.Field{
			Name:   name,
			Value:  value,
			Inline: resolveInline(opts.Inline, nil),
		})
	}

	footer := opts.Footer
	if legend := names(all); len(legend) > 0 {
		if footer != "" {
			footer += "\n"
		}
		footer += LegendPrefix + strings.Join(legend, ", ")
	}

	pages := Paginate(opts.Title, footer, fields)
	embeds := make([]*embed.Embed, 0, len(pages))
	for i, page := range pages {
		eo := embed.Options{Color: opts.Color, Footer: footer}
		if i == 0 {
			eo.ThumbnailURL = opts.ThumbnailURL
		}
		embeds = append(embeds, embed.New(opts.Title, "", page, eo))
	}
	return embeds, nil
}

// Paginate splits fields greedily into pages of at most embed.MaxFields
// fields whose title, footer and field text stay within
// embed.MaxTotalLength characters. A single field that exceeds the limit on
// its own still gets a page.
func Paginate(title, footer string, fields []embed.Field) [][]embed.Field {
	var pages [][]embed.Field
	base := embed.Len(title) + embed.Len(footer)
	for len(fields) > 0 {
		total := base
		n := 0
		for n < len(fields) && n < embed.MaxFields {
			size := embed.Len(fields[n].Name) + embed.Len(fields[n].Value)
			if n > 0 && total+size > embed.MaxTotalLength {
				break
			}
			total += size
			n++
		}
		pages = append(pages, fields[:n:n])
		fields = fields[n:]
	}
	return pages
}
