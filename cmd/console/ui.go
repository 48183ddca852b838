package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/PieInTheSky-Inc/yadc/internal/gamedata"
	"github.com/PieInTheSky-Inc/yadc/internal/termrender"
	"github.com/PieInTheSky-Inc/yadc/pkg/embed"
)

const PlaceHolderText = "Search by name..."

// granularities cycles with ctrl+g. The empty value lets the API decide.
var granularities = []string{"", "long", "short", "mini", "embed"}

var (
	clipboardWriteAll = clipboard.WriteAll
	copyToClipboard   = clipboardWriteAll
)

// ConsoleUI is the BubbleTea model that runs the lookup browser.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config      *ConsoleConfig
	client      *http.Client
	input       textinput.Model
	results     viewport.Model
	ready       bool
	width       int
	height      int
	loading     bool
	kind        int
	granularity int
	result      *gamedata.Result
	err         error
	status      string
}

type lookupMsg struct {
	result *gamedata.Result
	err    error
}

type copiedMsg struct {
	err error
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")) // pink

	modeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey
)

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client) ConsoleUI {
	ti := textinput.New()
	ti.Placeholder = PlaceHolderText
	ti.Prompt = promptStyle.Render(":: ")
	ti.CharLimit = 100
	ti.Focus()

	vp := viewport.New(termrender.DefaultWidth, 20)
	vp.MouseWheelEnabled = true

	return ConsoleUI{
		config:  cfg,
		client:  client,
		input:   ti,
		results: vp,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return textinput.Blink
}

func (m ConsoleUI) currentKind() gamedata.Kind {
	return gamedata.Kinds[m.kind]
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.results.Width = msg.Width
		m.results.Height = max(msg.Height-4, 1)
		m.input.Width = max(msg.Width-4, 10)
		m.ready = true
		m.writeResults()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyTab:
			m.kind = (m.kind + 1) % len(gamedata.Kinds)
			return m, nil
		case tea.KeyCtrlG:
			m.granularity = (m.granularity + 1) % len(granularities)
			return m, nil
		case tea.KeyCtrlY:
			if m.result == nil {
				return m, nil
			}
			return m, copyResult(plainText(m.result))
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}
			name := strings.TrimSpace(m.input.Value())
			if name == "" {
				return m, nil
			}
			m.loading = true
			m.status = fmt.Sprintf("Looking up %s %q...", m.currentKind(), name)
			return m, m.lookup(m.currentKind(), name, granularities[m.granularity])
		}

	case lookupMsg:
		m.loading = false
		m.status = ""
		m.result, m.err = msg.result, msg.err
		m.writeResults()
		m.results.GotoTop()
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.status = errorStyle.Render("Copy failed: " + msg.err.Error())
		} else {
			m.status = "Copied to clipboard"
		}
		return m, nil
	}

	m.input, tiCmd = m.input.Update(msg)
	m.results, vpCmd = m.results.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd)
}

func (m ConsoleUI) lookup(kind gamedata.Kind, name, granularity string) tea.Cmd {
	return func() tea.Msg {
		res, err := lookup(m.client, m.config.APIBaseURL, kind, name, granularity)
		return lookupMsg{result: res, err: err}
	}
}

func copyResult(text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{err: copyToClipboard(text)}
	}
}

// writeResults renders the current result or error at the viewport width.
func (m *ConsoleUI) writeResults() {
	r := termrender.New(m.results.Width)
	var apiErr *apiError
	switch {
	case errors.As(m.err, &apiErr) && apiErr.notice():
		m.results.SetContent(noticeStyle.Render(apiErr.Message))
	case m.err != nil:
		m.results.SetContent(errorStyle.Render("Error: " + m.err.Error()))
	case m.result == nil:
		m.results.SetContent(helpStyle.Render("Type a name and press Enter."))
	case len(m.result.Embeds) > 0:
		m.results.SetContent(r.Embeds(m.result.Embeds))
	default:
		m.results.SetContent(r.Lines(m.result.Lines))
	}
}

// plainText is the unstyled form of a result, for the clipboard.
func plainText(res *gamedata.Result) string {
	if len(res.Embeds) == 0 {
		return strings.Join(res.Lines, "\n")
	}
	parts := make([]string, 0, len(res.Embeds))
	for _, e := range res.Embeds {
		parts = append(parts, embedText(e))
	}
	return strings.Join(parts, "\n\n")
}

func embedText(e *embed.Embed) string {
	var b strings.Builder
	if e.Title != "" {
		b.WriteString(e.Title + "\n")
	}
	if e.Description != "" {
		b.WriteString(e.Description + "\n")
	}
	for _, f := range e.Fields {
		b.WriteString(f.Name + ": " + f.Value + "\n")
	}
	if footer := e.FooterText(); footer != "" {
		b.WriteString(footer + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m ConsoleUI) View() string {
	if !m.ready {
		return "Initializing..."
	}

	granularity := granularities[m.granularity]
	if granularity == "" {
		granularity = "auto"
	}
	header := titleStyle.Render("YADC") + "  " +
		modeStyle.Render(fmt.Sprintf("[%s] [%s]", m.currentKind(), granularity))

	help := m.status
	if help == "" {
		help = helpStyle.Render("enter: search • tab: kind • ctrl+g: granularity • ctrl+y: copy • esc: quit")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.input.View(),
		m.results.View(),
		help,
	)
}
