package app

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/kcal/internal/coordinator"
	"github.com/zjrosen/kcal/internal/keys"
	"github.com/zjrosen/kcal/internal/log"
	"github.com/zjrosen/kcal/internal/registry"
	"github.com/zjrosen/kcal/internal/ui/toaster"
)

// Form fields, in tab order.
const (
	fieldName = iota
	fieldCalories
	fieldCount
)

var _ coordinator.Presenter = (*screen)(nil)

// screen is the presenter state the coordinator writes to. Model holds it by
// pointer so coordinator calls made during Update land in the next View.
type screen struct {
	keys keys.KeyMap

	inputs [fieldCount]textinput.Model
	focus  int

	rows       []registry.Item
	cursor     int
	listHidden bool
	total      registry.Calories

	editing bool
	editID  int

	toast toaster.Model
	// pending holds commands produced by presenter calls (toast timers)
	// until Update returns them to the runtime.
	pending []tea.Cmd
}

func newScreen() *screen {
	name := textinput.New()
	name.Placeholder = "Food"
	name.Prompt = ""
	name.CharLimit = 120

	calories := textinput.New()
	calories.Placeholder = "Calories"
	calories.Prompt = ""
	calories.CharLimit = 12

	s := &screen{
		keys:       keys.DefaultKeyMap().AddMode(),
		inputs:     [fieldCount]textinput.Model{name, calories},
		listHidden: true,
		total:      registry.CaloriesOf(0),
		toast:      toaster.New(),
	}
	s.focusField(fieldName)
	return s
}

func (s *screen) focusField(field int) {
	s.focus = (field + fieldCount) % fieldCount
	for i := range s.inputs {
		if i == s.focus {
			s.inputs[i].Focus()
		} else {
			s.inputs[i].Blur()
		}
	}
}

func (s *screen) clampCursor() {
	s.cursor = min(max(s.cursor, 0), max(len(s.rows)-1, 0))
}

func (s *screen) selected() (registry.Item, bool) {
	if s.listHidden || len(s.rows) == 0 {
		return registry.Item{}, false
	}
	return s.rows[s.cursor], true
}

func (s *screen) toastMessage(msg string, style toaster.Style) {
	var cmd tea.Cmd
	s.toast, cmd = s.toast.Show(msg, style, toaster.DefaultDuration)
	s.pending = append(s.pending, cmd)
}

func (s *screen) drain() []tea.Cmd {
	cmds := s.pending
	s.pending = nil
	return cmds
}

// RenderFullList replaces every row.
func (s *screen) RenderFullList(items []registry.Item) {
	s.rows = append(s.rows[:0:0], items...)
	s.listHidden = false
	s.clampCursor()
}

// AppendItem adds a row at the bottom and moves the cursor to it.
func (s *screen) AppendItem(item registry.Item) {
	s.rows = append(s.rows, item)
	s.listHidden = false
	s.cursor = len(s.rows) - 1
}

// ReplaceItem redraws the row with the same id.
func (s *screen) ReplaceItem(item registry.Item) {
	for i := range s.rows {
		if s.rows[i].ID == item.ID {
			s.rows[i] = item
			return
		}
	}
	log.Warn(log.CatUI, "Replace for unknown row", "id", item.ID)
}

// RemoveItem drops the row with id.
func (s *screen) RemoveItem(id int) {
	for i := range s.rows {
		if s.rows[i].ID == id {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			s.clampCursor()
			return
		}
	}
}

func (s *screen) SetTotal(total registry.Calories) {
	s.total = total
}

// ResetForm clears both inputs and focuses the name field.
func (s *screen) ResetForm() {
	for i := range s.inputs {
		s.inputs[i].Reset()
	}
	s.focusField(fieldName)
}

// EnterEditMode fills the form from item.
func (s *screen) EnterEditMode(item registry.Item) {
	s.editing = true
	s.editID = item.ID
	s.inputs[fieldName].SetValue(item.Name)
	s.inputs[fieldCalories].SetValue(item.Calories.String())
	s.focusField(fieldName)
	s.keys = s.keys.EditMode()
}

func (s *screen) ExitEditMode() {
	s.editing = false
	s.keys = s.keys.AddMode()
}

func (s *screen) HideList() {
	s.listHidden = true
}

// ShowError raises an error toast.
func (s *screen) ShowError(err error) {
	s.toastMessage(err.Error(), toaster.StyleError)
}
