// Package app contains the root application model: a Bubble Tea program
// that renders the item list and forwards user actions to the coordinator.
package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/kcal/internal/coordinator"
	"github.com/zjrosen/kcal/internal/log"
	"github.com/zjrosen/kcal/internal/registry"
	"github.com/zjrosen/kcal/internal/ui/logpane"
	"github.com/zjrosen/kcal/internal/ui/styles"
	"github.com/zjrosen/kcal/internal/ui/toaster"
)

const (
	defaultWidth = 80
	editMarker   = "[edit]"
	labelWidth   = 10
	progressBar  = 20
)

// Options tunes the model.
type Options struct {
	// DailyGoal shows progress against a calorie target when positive.
	DailyGoal int
	// ShowIDs prefixes each row with its item id.
	ShowIDs bool
	// DebugMode enables the log pane (ctrl+o).
	DebugMode bool
	// HideProgress drops the goal progress bar, keeping the " / goal" text.
	HideProgress bool
}

// loadMsg triggers the initial coordinator.Init on the update goroutine.
type loadMsg struct{}

// Model is the root application state.
type Model struct {
	ctx   context.Context
	coord *coordinator.Coordinator
	s     *screen
	opts  Options

	help    help.Model
	logPane logpane.Model
	zones   string

	width  int
	height int
}

// New builds the model and its coordinator over reg and store. Nothing is
// loaded until the program runs Init.
func New(ctx context.Context, reg *registry.Registry, store coordinator.Persister, opts Options, coordOpts ...coordinator.Option) Model {
	s := newScreen()
	m := Model{
		ctx:     ctx,
		coord:   coordinator.New(reg, store, s, coordOpts...),
		s:       s,
		opts:    opts,
		help:    help.New(),
		logPane: logpane.New(ctx),
		zones:   zone.NewPrefix(),
		width:   defaultWidth,
	}
	m.logPane.SetWidth(m.width)
	return m
}

// Coordinator returns the coordinator driving this model.
func (m Model) Coordinator() *coordinator.Coordinator {
	return m.coord
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textinput.Blink,
		func() tea.Msg { return loadMsg{} },
	}
	if m.opts.DebugMode {
		cmds = append(cmds, m.logPane.Listen())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case loadMsg:
		if err := m.coord.Init(m.ctx); err != nil {
			log.Warn(log.CatUI, "Starting with an empty list", "error", err)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.logPane.SetWidth(msg.Width)

	case log.LogEvent:
		m.logPane, cmd = m.logPane.Update(msg)

	case toaster.DismissMsg:
		m.s.toast = m.s.toast.Update(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.KeyMsg:
		var quit bool
		cmd, quit = m.handleKey(msg)
		if quit {
			return m, tea.Quit
		}

	default:
		cmd = m.updateFocusedInput(msg)
	}

	return m, tea.Batch(append(m.s.drain(), cmd)...)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	km := m.s.keys

	switch {
	case key.Matches(msg, km.Quit):
		return nil, true

	case key.Matches(msg, km.ToggleLog):
		if m.opts.DebugMode {
			m.logPane.Toggle()
		}

	case key.Matches(msg, km.Submit):
		m.submit()

	case key.Matches(msg, km.NextField):
		m.s.focusField(m.s.focus + 1)

	case key.Matches(msg, km.PrevField):
		m.s.focusField(m.s.focus - 1)

	case key.Matches(msg, km.Up):
		if m.s.cursor > 0 {
			m.s.cursor--
		}

	case key.Matches(msg, km.Down):
		if m.s.cursor < len(m.s.rows)-1 {
			m.s.cursor++
		}

	case key.Matches(msg, km.Edit):
		if item, ok := m.s.selected(); ok {
			m.edit(item.ID)
		}

	case key.Matches(msg, km.Delete):
		if _, err := m.coord.DeleteSubmit(m.ctx); err != nil {
			log.Debug(log.CatUI, "Delete ignored", "error", err)
		}

	case key.Matches(msg, km.Escape):
		if m.s.editing {
			m.coord.CancelEdit(m.ctx)
		}

	case key.Matches(msg, km.ClearAll):
		if err := m.coord.ClearAll(m.ctx); err == nil {
			m.s.toastMessage("Cleared all items", toaster.StyleSuccess)
		}

	default:
		return m.updateFocusedInput(msg), false
	}
	return nil, false
}

func (m *Model) submit() {
	name := m.s.inputs[fieldName].Value()
	calories := m.s.inputs[fieldCalories].Value()

	var err error
	if m.s.editing {
		_, err = m.coord.UpdateSubmit(m.ctx, name, calories)
	} else {
		_, err = m.coord.AddSubmit(m.ctx, name, calories)
	}
	if err != nil {
		log.Debug(log.CatUI, "Submit rejected", "editing", m.s.editing, "error", err)
	}
}

func (m *Model) edit(id int) {
	if _, err := m.coord.EditItem(m.ctx, id); err != nil {
		log.Warn(log.CatUI, "Edit failed", "id", id, "error", err)
	}
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionRelease {
		return
	}
	for i, item := range m.s.rows {
		if z := zone.Get(m.rowZone(item.ID)); z != nil && z.InBounds(msg) {
			m.s.cursor = i
			m.edit(item.ID)
			return
		}
	}
}

func (m *Model) updateFocusedInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.s.inputs[m.s.focus], cmd = m.s.inputs[m.s.focus].Update(msg)
	return cmd
}

func (m Model) rowZone(id int) string {
	return fmt.Sprintf("%sedit-%d", m.zones, id)
}

// View implements tea.Model.
func (m Model) View() string {
	sections := []string{
		m.renderForm(),
		m.renderList(),
		m.renderTotal(),
		styles.HelpStyle.Render(m.help.View(m.s.keys)),
	}
	if pane := m.logPane.View(); pane != "" {
		sections = append(sections, pane)
	}
	view := lipgloss.JoinVertical(lipgloss.Left, sections...)

	height := m.height
	if height == 0 {
		height = lipgloss.Height(view)
	}
	view = m.s.toast.Overlay(view, m.width, height)
	return zone.Scan(view)
}

func (m Model) renderForm() string {
	title := "Add item"
	if m.s.editing {
		title = fmt.Sprintf("Edit item #%d", m.s.editID)
	}

	labels := [fieldCount]string{"Name", "Calories"}
	inputWidth := max(m.width-2-labelWidth-1, 1)

	lines := make([]string, 0, fieldCount)
	for i := range m.s.inputs {
		labelStyle := styles.FormLabelStyle
		if i == m.s.focus {
			labelStyle = styles.FormFocusedLabelStyle
		}
		input := m.s.inputs[i]
		input.Width = inputWidth
		label := labelStyle.Width(labelWidth).Render(labels[i])
		lines = append(lines, label+" "+input.View())
	}
	return styles.RenderPanel(strings.Join(lines, "\n"), title, m.width, 0, m.s.editing)
}

func (m Model) renderList() string {
	if m.s.listHidden || len(m.s.rows) == 0 {
		return styles.EmptyStateStyle.Render("No items yet. Add one above.")
	}

	inner := max(m.width-2, 1)
	calWidth := 0
	for _, item := range m.s.rows {
		calWidth = max(calWidth, ansi.StringWidth(styles.FormatCalories(item.Calories)))
	}

	lines := make([]string, len(m.s.rows))
	for i, item := range m.s.rows {
		lines[i] = m.renderRow(i, item, inner, calWidth)
	}
	return styles.RenderPanel(strings.Join(lines, "\n"), fmt.Sprintf("Items (%d)", len(m.s.rows)), m.width, 0, false)
}

func (m Model) renderRow(index int, item registry.Item, width, calWidth int) string {
	prefix := "  "
	if index == m.s.cursor {
		prefix = styles.SelectionIndicatorStyle.Render(">") + " "
	}
	if m.opts.ShowIDs {
		prefix += styles.ItemIDStyle.Render(fmt.Sprintf("#%-3d", item.ID)) + " "
	}

	calories := styles.FormatCalories(item.Calories)
	calories = strings.Repeat(" ", calWidth-ansi.StringWidth(calories)) + calories
	marker := zone.Mark(m.rowZone(item.ID), styles.EditMarkerStyle.Render(editMarker))

	fixed := ansi.StringWidth(prefix) + 1 + calWidth + 1 + len(editMarker)
	nameWidth := max(width-fixed, 1)
	name := styles.Truncate(item.Name, nameWidth)
	name += strings.Repeat(" ", max(nameWidth-ansi.StringWidth(name), 0))

	return prefix + styles.ItemNameStyle.Render(name) + " " +
		styles.ItemCaloriesStyle.Render(calories) + " " + marker
}

func (m Model) renderTotal() string {
	line := styles.TotalStyle.Render("Total: " + styles.FormatCalories(m.s.total))
	if m.opts.DailyGoal > 0 {
		line += styles.HelpStyle.Render(fmt.Sprintf(" / %d", m.opts.DailyGoal))
		if m.opts.HideProgress {
			return line
		}
		if bar := styles.ProgressBar(m.s.total, m.opts.DailyGoal, progressBar); bar != "" {
			line += "  " + bar
		}
	}
	return line
}
