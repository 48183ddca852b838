// Package embed models the structured rich-display container used by chat
// platforms. The JSON shape follows the Discord embed object so a bot layer
// can post it unchanged.
package embed

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// MaxFields is the most fields a single embed may carry.
	MaxFields = 25
	// MaxTotalLength is the platform ceiling on the summed text of one embed.
	MaxTotalLength = 6000
)

// Field is a single name/value pair shown inside an embed.
type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type Footer struct {
	Text    string `json:"text"`
	IconURL string `json:"icon_url,omitempty"`
}

type Image struct {
	URL string `json:"url"`
}

type Author struct {
	Name    string `json:"name,omitempty"`
	URL     string `json:"url,omitempty"`
	IconURL string `json:"icon_url,omitempty"`
}

// Embed is the opaque renderable container. Paginated output is a []*Embed.
type Embed struct {
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	Color       int        `json:"color,omitempty"`
	Fields      []Field    `json:"fields,omitempty"`
	Footer      *Footer    `json:"footer,omitempty"`
	Thumbnail   *Image     `json:"thumbnail,omitempty"`
	Image       *Image     `json:"image,omitempty"`
	Author      *Author    `json:"author,omitempty"`
	Timestamp   *time.Time `json:"timestamp,omitempty"`
}

// Options collects the metadata accepted by New. Empty values are left unset.
type Options struct {
	Color        int
	Footer       string
	FooterIcon   string
	ThumbnailURL string
	ImageURL     string
	IconURL      string
	AuthorURL    string
	Timestamp    time.Time
}

// New builds an embed from a title, description, fields and metadata.
func New(title, description string, fields []Field, opts Options) *Embed {
	e := &Embed{
		Title:       title,
		Description: description,
		Color:       opts.Color,
		Fields:      fields,
	}
	e.SetFooter(opts.Footer, opts.FooterIcon)
	if opts.ThumbnailURL != "" {
		e.Thumbnail = &Image{URL: opts.ThumbnailURL}
	}
	if opts.ImageURL != "" {
		e.Image = &Image{URL: opts.ImageURL}
	}
	if opts.AuthorURL != "" || opts.IconURL != "" {
		e.Author = &Author{Name: title, URL: opts.AuthorURL, IconURL: opts.IconURL}
	}
	if !opts.Timestamp.IsZero() {
		ts := opts.Timestamp
		e.Timestamp = &ts
	}
	return e
}

// SetFooter replaces the footer. An empty text removes it.
func (e *Embed) SetFooter(text, iconURL string) {
	if text == "" {
		e.Footer = nil
		return
	}
	e.Footer = &Footer{Text: text, IconURL: iconURL}
}

// FooterText returns the footer text or "".
func (e *Embed) FooterText() string {
	if e.Footer == nil {
		return ""
	}
	return e.Footer.Text
}

// Length is the character count the platform checks against MaxTotalLength.
func (e *Embed) Length() int {
	n := Len(e.Title) + Len(e.Description) + Len(e.FooterText())
	if e.Author != nil {
		n += Len(e.Author.Name)
	}
	for _, f := range e.Fields {
		n += Len(f.Name) + Len(f.Value)
	}
	return n
}

// Len counts characters, not bytes.
func Len(s string) int {
	return utf8.RuneCountInString(s)
}

// Bold wraps s in markdown bold markers unless it already carries them.
func Bold(s string) string {
	if s == "" || (strings.HasPrefix(s, "**") && strings.HasSuffix(s, "**") && len(s) >= 4) {
		return s
	}
	return "**" + s + "**"
}
