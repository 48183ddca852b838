package termrender

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/PieInTheSky-Inc/yadc/pkg/details"
	"github.com/PieInTheSky-Inc/yadc/pkg/embed"
)

func TestNew_DefaultWidth(t *testing.T) {
	assert.Equal(t, DefaultWidth, New(0).Width)
	assert.Equal(t, 40, New(40).Width)
}

func TestLines(t *testing.T) {
	out := New(80).Lines([]string{"**Laser**", "_Shoots things_", "Volley = 3"})
	assert.Contains(t, out, "Laser")
	assert.NotContains(t, out, "**")
	assert.Contains(t, out, "Shoots things")
	assert.NotContains(t, out, "_Shoots")
	assert.Contains(t, out, "Volley = 3")
}

func TestLines_Wraps(t *testing.T) {
	long := strings.Repeat("word ", 20)
	out := New(20).Lines([]string{long})
	assert.Greater(t, strings.Count(out, "\n"), 1)
}

func TestLines_CodeBlockVerbatim(t *testing.T) {
	out := New(80).Lines([]string{details.CodeBlock, "**Laser**", details.CodeBlock})
	assert.Contains(t, out, "**Laser**")
	assert.NotContains(t, out, details.CodeBlock)
}

func TestIsWrapped(t *testing.T) {
	assert.True(t, isWrapped("**a**", "**"))
	assert.False(t, isWrapped("****", "**"))
	assert.False(t, isWrapped("**a", "**"))
	assert.True(t, isWrapped("_a_", "_"))
}

func TestEmbeds(t *testing.T) {
	e := embed.New("Laser", "Shoots things", []embed.Field{
		{Name: "**Volley**", Value: "3", Inline: true},
		{Name: "Ingredients", Value: "2x Scrap"},
	}, embed.Options{Color: 0xff0000, Footer: "Pixel Starships"})

	out := New(60).Embeds([]*embed.Embed{e, e})
	assert.Contains(t, out, "Laser")
	assert.Contains(t, out, "Volley: 3")
	assert.Contains(t, out, "2x Scrap")
	assert.Contains(t, out, "Pixel Starships")
	assert.Equal(t, 2, strings.Count(out, "Shoots things"))
}
