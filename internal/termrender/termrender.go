// Package termrender prints rendered lookups to a terminal.
package termrender

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/PieInTheSky-Inc/yadc/pkg/details"
	"github.com/PieInTheSky-Inc/yadc/pkg/embed"
)

const DefaultWidth = 80

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")) // pink

	descriptionStyle = lipgloss.NewStyle().
				Italic(true).
				Foreground(lipgloss.Color("250"))

	fieldNameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")) // teal

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	codeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green
)

// Renderer formats lines and embeds for a terminal of the given width.
type Renderer struct {
	Width int
}

func New(width int) *Renderer {
	if width <= 0 {
		width = DefaultWidth
	}
	return &Renderer{Width: width}
}

// Lines styles markdown-ish text lines. Fully bold lines become titles and
// fully underscored lines descriptions. Code blocks are printed verbatim.
func (r *Renderer) Lines(lines []string) string {
	var b strings.Builder
	inCode := false
	for _, line := range lines {
		if line == details.CodeBlock {
			inCode = !inCode
			continue
		}
		switch {
		case inCode:
			b.WriteString(codeStyle.Render(line))
		case isWrapped(line, "**"):
			b.WriteString(titleStyle.Render(strings.Trim(line, "*")))
		case isWrapped(line, "_"):
			b.WriteString(descriptionStyle.Render(wordwrap.String(strings.Trim(line, "_"), r.Width)))
		default:
			b.WriteString(wordwrap.String(line, r.Width))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func isWrapped(line, marker string) bool {
	return len(line) > 2*len(marker) && strings.HasPrefix(line, marker) && strings.HasSuffix(line, marker)
}

// Embeds draws each embed as a bordered box tinted with its color.
func (r *Renderer) Embeds(embeds []*embed.Embed) string {
	boxes := make([]string, 0, len(embeds))
	for _, e := range embeds {
		boxes = append(boxes, r.box(e))
	}
	return strings.Join(boxes, "\n")
}

func (r *Renderer) box(e *embed.Embed) string {
	inner := r.Width - 4
	var b strings.Builder
	if e.Title != "" {
		b.WriteString(titleStyle.Render(wordwrap.String(e.Title, inner)))
		b.WriteString("\n")
	}
	if e.Description != "" {
		b.WriteString(descriptionStyle.Render(wordwrap.String(e.Description, inner)))
		b.WriteString("\n")
	}
	for _, f := range e.Fields {
		name := strings.Trim(f.Name, "*")
		if f.Inline {
			b.WriteString(fieldNameStyle.Render(name+":") + " " + wordwrap.String(f.Value, inner-len(name)-2))
		} else {
			b.WriteString(fieldNameStyle.Render(name) + "\n" + wordwrap.String(f.Value, inner))
		}
		b.WriteString("\n")
	}
	if e.Thumbnail != nil {
		b.WriteString(footerStyle.Render(e.Thumbnail.URL))
		b.WriteString("\n")
	}
	if footer := e.FooterText(); footer != "" {
		b.WriteString(footerStyle.Render(wordwrap.String(footer, inner)))
	}

	border := lipgloss.Color("62")
	if e.Color != 0 {
		border = lipgloss.Color(fmt.Sprintf("#%06x", e.Color))
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Render(strings.TrimRight(b.String(), "\n"))
}
