package embed

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	e := New("Laser", "Pew", []Field{{Name: "**Cost**", Value: "10", Inline: true}}, Options{
		Color:        0xff0000,
		Footer:       "Pixel Starships",
		ThumbnailURL: "https://example.com/t.png",
		Timestamp:    ts,
	})

	assert.Equal(t, "Laser", e.Title)
	assert.Equal(t, 0xff0000, e.Color)
	require.NotNil(t, e.Footer)
	assert.Equal(t, "Pixel Starships", e.FooterText())
	require.NotNil(t, e.Thumbnail)
	assert.Nil(t, e.Image)
	assert.Nil(t, e.Author)
	require.NotNil(t, e.Timestamp)
	assert.True(t, ts.Equal(*e.Timestamp))

	data, err := json.Marshal(e)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"thumbnail":{"url":"https://example.com/t.png"}`)
	assert.NotContains(t, string(data), `"image"`)
}

func TestLength(t *testing.T) {
	e := New("ab", "cd", []Field{{Name: "ef", Value: "gh"}, {Name: "é", Value: "ü"}}, Options{Footer: "ij"})
	assert.Equal(t, 12, e.Length())

	e.SetFooter("", "")
	assert.Nil(t, e.Footer)
	assert.Equal(t, 10, e.Length())
}

func TestBold(t *testing.T) {
	assert.Equal(t, "**Cost**", Bold("Cost"))
	assert.Equal(t, "**Cost**", Bold("**Cost**"))
	assert.Equal(t, "", Bold(""))
	assert.Equal(t, "****", Bold("****"))
}
