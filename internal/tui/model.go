package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ytchat/internal/domain"
)

const (
	focusURL = iota
	focusQuestion
)

type loadedMsg struct {
	result *domain.LoadResult
	err    error
}

type answeredMsg struct {
	text string
	err  error
}

// Model is the Bubble Tea model for the interactive session. One
// action is in flight at a time: while working, input is ignored and a
// spinner runs in the status line.
type Model struct {
	service  domain.SessionService
	url      textinput.Model
	question textinput.Model
	viewport viewport.Model
	spin     spinner.Model

	focus   int
	working bool
	waitMsg string
	status  string
	body    string
	ready   bool
}

// New creates a new TUI model around a session service.
func New(service domain.SessionService) Model {
	url := textinput.New()
	url.Prompt = "> "
	url.Placeholder = "Paste a YouTube URL or video ID and press Enter"
	url.Focus()
	url.CharLimit = 0

	question := textinput.New()
	question.Prompt = "? "
	question.Placeholder = "Ask a question about the video"
	question.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		service:  service,
		url:      url,
		question: question,
		viewport: viewport.New(0, 0),
		spin:     sp,
		focus:    focusURL,
		status:   "Load a video to start asking questions.",
		body:     "No video loaded.",
	}
}

// Init starts the text input cursor blink.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window, and work-completion events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, bh := bodyBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 2 + 2*ih + 1 + 1 // header + both inputs + status + spacer
		vh := msg.Height - reserved - bh
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = maxInt(20, msg.Width)
		m.viewport.Height = vh
		m.viewport.SetContent(m.body)
		return m, nil

	case spinner.TickMsg:
		if !m.working {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case loadedMsg:
		m.working = false
		if msg.err != nil {
			m.status = errorLine(msg.err)
			m.body = "No video loaded."
			m.viewport.SetContent(m.body)
			return m, nil
		}
		r := msg.result
		m.status = fmt.Sprintf("Ready to answer questions about: %s", m.service.Label())
		m.body = fmt.Sprintf("Transcript fetched: %d characters, %d chunks.\n\n%s", r.Characters, r.ChunkCount, r.Overview)
		m.viewport.SetContent(m.body)
		m.focus = focusQuestion
		m.url.Blur()
		m.question.Focus()
		return m, nil

	case answeredMsg:
		m.working = false
		if msg.err != nil {
			m.status = errorLine(msg.err)
			return m, nil
		}
		m.status = fmt.Sprintf("Answered. %s", m.service.Label())
		m.body = msg.text
		m.viewport.SetContent(m.body)
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if m.working {
			return m, nil
		}
		switch msg.String() {
		case "enter":
			return m.submit()
		case "tab":
			if m.service.Ready() {
				m.toggleFocus()
			}
			return m, nil
		case "ctrl+l":
			m.service.Clear()
			m.question.Reset()
			m.url.Reset()
			m.focus = focusURL
			m.url.Focus()
			m.question.Blur()
			m.body = "No video loaded."
			m.viewport.SetContent(m.body)
			m.status = "Session cleared. Load a video to start asking questions."
			return m, nil
		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	if m.focus == focusURL {
		m.url, cmd = m.url.Update(msg)
	} else {
		m.question, cmd = m.question.Update(msg)
	}
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.focus == focusURL {
		input := strings.TrimSpace(m.url.Value())
		if input == "" {
			return m, nil
		}
		m.working = true
		m.waitMsg = "Fetching and processing transcript..."
		svc := m.service
		return m, tea.Batch(m.spin.Tick, func() tea.Msg {
			res, err := svc.LoadVideo(input)
			return loadedMsg{result: res, err: err}
		})
	}
	q := strings.TrimSpace(m.question.Value())
	if q == "" {
		return m, nil
	}
	if !m.service.Ready() {
		m.status = "Please fetch a video transcript first."
		return m, nil
	}
	m.working = true
	m.waitMsg = "Thinking..."
	svc := m.service
	return m, tea.Batch(m.spin.Tick, func() tea.Msg {
		text, err := svc.Ask(q)
		return answeredMsg{text: text, err: err}
	})
}

func (m *Model) toggleFocus() {
	if m.focus == focusURL {
		m.focus = focusQuestion
		m.url.Blur()
		m.question.Focus()
	} else {
		m.focus = focusURL
		m.question.Blur()
		m.url.Focus()
	}
}

// View renders the layout: header, result viewport, both inputs, and
// the status line.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("YouTube Transcript Chat")
	body := bodyBoxStyle.Render(m.viewport.View())
	urlBox := inputBoxStyle.Render(m.url.View())
	questionBox := inputBoxStyle.Render(m.question.View())
	status := m.status
	if m.working {
		status = m.spin.View() + " " + m.waitMsg
	}
	return header + "\n" + body + "\n" + urlBox + "\n" + questionBox + "\n" + statusStyle.Render(status)
}

func errorLine(err error) string {
	line := "Error: " + err.Error()
	if hint := domain.HintOf(err); hint != "" {
		line += " (" + hint + ")"
	}
	return line
}

var (
	headerStyle   = lipgloss.NewStyle().Bold(true)
	bodyBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
