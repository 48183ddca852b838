package details

import (
	"context"

	"github.com/PieInTheSky-Inc/yadc/pkg/entity"
)

// CodeBlock delimits a literal block in chat markdown.
const CodeBlock = "```"

// NewEscaped creates an Entity whose text output is always the Long form,
// wrapped in a literal block instead of using markdown emphasis. Use it for
// content that may contain markdown control characters.
func NewEscaped[C any](rec entity.Record, cfg Config[C], tables ...entity.Table) *Entity[C] {
	e := New(rec, cfg, tables...)
	e.escaped = true
	return e
}

func (e *Entity[C]) escapedText(ctx context.Context, forEmbed bool) ([]string, error) {
	full, err := e.FullDetails(ctx, forEmbed, Long)
	if err != nil {
		return nil, err
	}

	lines := []string{CodeBlock}
	if full.Title != "" {
		lines = append(lines, full.Title)
	}
	if full.Description != "" {
		lines = append(lines, full.Description)
	}
	for _, p := range full.Properties {
		if line, ok := p.Text(LineOptions{Separator: LongSeparator, Prefix: e.prefix}); ok {
			lines = append(lines, line)
		}
	}
	return append(lines, CodeBlock), nil
}
