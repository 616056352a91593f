package tui

import (
	"sync/atomic"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Tracker exposes model progress to goroutines outside the program.
type Tracker struct {
	ready    atomic.Bool
	rendered atomic.Uint64
}

// Ready reports whether the program knows the window size.
func (t *Tracker) Ready() bool { return t.ready.Load() }

// Rendered returns the Seq of the last frame produced by View.
func (t *Tracker) Rendered() uint64 { return t.rendered.Load() }

// Model is a full-screen overlay rendered by bubbletea.
type Model struct {
	keys      KeyMap
	tracker   *Tracker
	interrupt func()

	width  int
	height int

	hidden bool
	fill   string
	bold   bool
	seq    uint64
}

// New creates the overlay model. interrupt is called when an interrupt key
// is pressed; it must only set a flag.
func New(tracker *Tracker, interrupt func()) Model {
	if tracker == nil {
		tracker = &Tracker{}
	}
	return Model{
		keys:      DefaultKeyMap(),
		tracker:   tracker,
		interrupt: interrupt,
		hidden:    true,
	}
}

// Init has nothing to start; frames arrive through Program.Send.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles all incoming bubbletea messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.tracker.ready.Store(msg.Width > 0 && msg.Height > 0)
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Interrupt) && m.interrupt != nil {
			m.interrupt()
		}
	case HiddenMsg:
		m.hidden = msg.Hidden
	case PresentMsg:
		m.fill = msg.Fill
		m.bold = msg.Bold
		m.seq = msg.Seq
	}
	return m, nil
}

// View renders the overlay and records which frame it drew.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	style := lipgloss.NewStyle().Width(m.width).Height(m.height)
	if !m.hidden && m.fill != "" {
		style = style.Background(lipgloss.Color(m.fill)).Bold(m.bold)
	}
	out := style.Render("")
	if m.seq > m.tracker.Rendered() {
		m.tracker.rendered.Store(m.seq)
	}
	return out
}
