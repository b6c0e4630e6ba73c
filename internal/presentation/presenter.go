package presentation

import (
	"fmt"
	"io"

	"github.com/zjrosen/kcal/internal/coordinator"
	"github.com/zjrosen/kcal/internal/log"
	"github.com/zjrosen/kcal/internal/registry"
)

var _ coordinator.Presenter = (*TextPresenter)(nil)

// TextPresenter reports coordinator changes as one line each, for the
// non-interactive subcommands. Form and edit-mode calls have nothing to show
// and are ignored. Errors are kept for the caller rather than printed, since
// the command returns them.
type TextPresenter struct {
	w     io.Writer
	total registry.Calories
	err   error
}

// NewTextPresenter writes change lines to w.
func NewTextPresenter(w io.Writer) *TextPresenter {
	return &TextPresenter{w: w, total: registry.CaloriesOf(0)}
}

// Total returns the last total the coordinator reported.
func (p *TextPresenter) Total() registry.Calories { return p.total }

// Err returns the last error shown, if any.
func (p *TextPresenter) Err() error { return p.err }

func (p *TextPresenter) RenderFullList([]registry.Item) {}

func (p *TextPresenter) AppendItem(item registry.Item) {
	fmt.Fprintf(p.w, "added #%d %s (%s)\n", item.ID, item.Name, item.Calories)
}

func (p *TextPresenter) ReplaceItem(item registry.Item) {
	fmt.Fprintf(p.w, "updated #%d %s (%s)\n", item.ID, item.Name, item.Calories)
}

func (p *TextPresenter) RemoveItem(id int) {
	fmt.Fprintf(p.w, "deleted #%d\n", id)
}

func (p *TextPresenter) SetTotal(total registry.Calories) {
	p.total = total
}

func (p *TextPresenter) ResetForm() {}

func (p *TextPresenter) EnterEditMode(registry.Item) {}

func (p *TextPresenter) ExitEditMode() {}

func (p *TextPresenter) HideList() {}

func (p *TextPresenter) ShowError(err error) {
	log.Debug(log.CatUI, "Command error", "error", err)
	p.err = err
}
