// Package ui renders the current terminal orientation as a bubbletea program.
package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/orient/pkg/orientation"
	"github.com/Dicklesworthstone/orient/pkg/window"
)

// ChangedMsg carries a new orientation from the observer into the program.
type ChangedMsg struct {
	Result orientation.Result
}

// copiedMsg reports the outcome of a clipboard write.
type copiedMsg struct {
	err error
}

// Model is the bubbletea model. Every tea.WindowSizeMsg is fed into a
// window.Manual that an orientation.Observer follows.
type Model struct {
	win      *window.Manual
	observer *orientation.Observer
	changes  chan orientation.Result

	result orientation.Result
	width  int
	height int
	status string

	keys keyMap
	help help.Model

	// copyFn writes to the system clipboard; replaced in tests.
	copyFn func(string) error
}

// NewModel validates opts and starts an observer on the program's window.
// Call Close once the program has exited.
func NewModel(opts orientation.Options) (Model, error) {
	win := &window.Manual{}
	obs, err := orientation.NewObserver(win, opts)
	if err != nil {
		return Model{}, err
	}

	changes := make(chan orientation.Result, 1)
	obs.Subscribe(func(r orientation.Result) {
		// Keep only the newest result if the program has not caught up.
		select {
		case changes <- r:
		default:
			select {
			case <-changes:
			default:
			}
			select {
			case changes <- r:
			default:
			}
		}
	})
	obs.Start()

	return Model{
		win:      win,
		observer: obs,
		changes:  changes,
		result:   obs.Result(),
		keys:     defaultKeyMap(),
		help:     help.New(),
		copyFn:   clipboard.WriteAll,
	}, nil
}

// Close stops the observer.
func (m Model) Close() {
	if m.observer != nil {
		m.observer.Stop()
	}
}

// Result returns the orientation currently displayed.
func (m Model) Result() orientation.Result {
	return m.result
}

func waitForChange(ch <-chan orientation.Result) tea.Cmd {
	return func() tea.Msg {
		return ChangedMsg{Result: <-ch}
	}
}

// Init starts listening for orientation changes.
func (m Model) Init() tea.Cmd {
	return waitForChange(m.changes)
}

// Update handles input, resizes and orientation changes.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.win.Resize(msg.Width, msg.Height)
		return m, nil

	case ChangedMsg:
		m.result = msg.Result
		m.status = ""
		return m, waitForChange(m.changes)

	case copiedMsg:
		if msg.err != nil {
			m.status = ErrorStyle.Render("copy failed: " + msg.err.Error())
		} else {
			m.status = StatusStyle.Render("copied " + m.result.String())
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.Close()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Copy):
			text, copyFn := m.result.String(), m.copyFn
			return m, func() tea.Msg {
				return copiedMsg{err: copyFn(text)}
			}
		}
	}
	return m, nil
}

// View lays the panels out in a column when portrait and in a row when landscape.
func (m Model) View() string {
	orientPanel := FocusedPanelStyle.Render(m.renderOrientation())

	var body string
	switch {
	case m.width > 0 && m.width < BreakpointNarrow:
		body = orientPanel
	case m.result.Landscape:
		body = lipgloss.JoinHorizontal(lipgloss.Top, orientPanel, " ", PanelStyle.Render(m.renderSize()))
	default:
		body = lipgloss.JoinVertical(lipgloss.Left, orientPanel, PanelStyle.Render(m.renderSize()))
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("orient"))
	b.WriteString("\n")
	b.WriteString(RenderDivider(max(MinPanelWidth, lipgloss.Width(body))))
	b.WriteString("\n")
	b.WriteString(body)
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))

	if m.width == 0 || m.height == 0 {
		return b.String()
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, b.String())
}

func (m Model) renderOrientation() string {
	lines := []string{
		RenderOrientationBadge(m.result.Orientation),
		"",
		RenderFlag("portrait", m.result.Portrait),
		RenderFlag("landscape", m.result.Landscape),
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderSize() string {
	size := "unknown"
	if w, h, ok := m.win.Size(); ok {
		size = fmt.Sprintf("%d × %d", w, h)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Foreground(ColorInfo).Render("window"),
		LabelStyle.Render("cols × rows ")+ValueStyle.Render(size),
	)
}
