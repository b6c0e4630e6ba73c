// Package logpane provides a live tail of the debug log, shown below the
// main view when toggled.
package logpane

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/kcal/internal/log"
	"github.com/zjrosen/kcal/internal/ui/styles"
)

const (
	// maxEntries bounds the in-memory tail.
	maxEntries = 500
	// Height is the number of log lines shown, excluding the border.
	Height = 8
)

// Model accumulates log entries delivered through a log.LogListener.
type Model struct {
	listener *log.LogListener
	entries  []string
	visible  bool
	width    int
	viewport viewport.Model
}

// New subscribes to the global logger for the lifetime of ctx. When logging
// is not initialized the pane stays empty and Listen returns nil.
func New(ctx context.Context) Model {
	return Model{
		listener: log.NewListener(ctx),
		viewport: viewport.New(0, Height),
	}
}

// Listen returns the command that waits for the next entry.
func (m Model) Listen() tea.Cmd {
	if m.listener == nil {
		return nil
	}
	return m.listener.Listen()
}

// Update appends a log.LogEvent and re-arms the listener.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	event, ok := msg.(log.LogEvent)
	if !ok {
		return m, nil
	}
	m.entries = append(m.entries, event.Payload)
	if over := len(m.entries) - maxEntries; over > 0 {
		m.entries = m.entries[over:]
	}
	m.refresh()
	return m, m.Listen()
}

// Entries returns the buffered log lines, oldest first.
func (m Model) Entries() []string {
	return m.entries
}

// Toggle flips visibility.
func (m *Model) Toggle() {
	m.visible = !m.visible
	m.refresh()
}

// Visible reports whether the pane is shown.
func (m Model) Visible() bool {
	return m.visible
}

// SetWidth sets the outer width including the border.
func (m *Model) SetWidth(width int) {
	m.width = width
	m.refresh()
}

func (m *Model) refresh() {
	inner := max(m.width-2, 1)
	m.viewport.Width = inner
	m.viewport.Height = Height

	if len(m.entries) == 0 {
		m.viewport.SetContent(styles.EmptyStateStyle.Render("No logs yet"))
		return
	}
	lines := make([]string, len(m.entries))
	for i, entry := range m.entries {
		lines[i] = colorize(entry, inner)
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
	m.viewport.GotoBottom()
}

// View renders the pane, or "" when hidden.
func (m Model) View() string {
	if !m.visible {
		return ""
	}
	return styles.RenderPanel(m.viewport.View(), "Logs", m.width, Height+2, false)
}

func colorize(entry string, maxWidth int) string {
	entry = strings.TrimSuffix(entry, "\n")
	if ansi.StringWidth(entry) > maxWidth {
		entry = ansi.Truncate(entry, maxWidth, "…")
	}

	var color lipgloss.TerminalColor
	switch {
	case strings.Contains(entry, "[ERROR]"):
		color = styles.StatusErrorColor
	case strings.Contains(entry, "[WARN]"):
		color = styles.StatusWarningColor
	case strings.Contains(entry, "[INFO]"):
		color = styles.ToastBorderInfoColor
	default:
		color = styles.TextMutedColor
	}
	return lipgloss.NewStyle().Foreground(color).Render(entry)
}
