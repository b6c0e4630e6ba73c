package coordinator

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"pgregory.net/rapid"

	"github.com/zjrosen/kcal/internal/persistence"
	"github.com/zjrosen/kcal/internal/registry"
	"github.com/zjrosen/kcal/internal/storage/memory"
	"github.com/zjrosen/kcal/internal/testutil"
	"github.com/zjrosen/kcal/internal/tracing"
)

// recorder is a Presenter that logs every call.
type recorder struct {
	calls  []string
	errors []error
	total  registry.Calories
	list   []registry.Item
}

func (r *recorder) RenderFullList(items []registry.Item) {
	r.list = append([]registry.Item(nil), items...)
	r.calls = append(r.calls, fmt.Sprintf("render(%d)", len(items)))
}

func (r *recorder) AppendItem(item registry.Item) {
	r.list = append(r.list, item)
	r.calls = append(r.calls, fmt.Sprintf("append(%d)", item.ID))
}

func (r *recorder) ReplaceItem(item registry.Item) {
	for i := range r.list {
		if r.list[i].ID == item.ID {
			r.list[i] = item
		}
	}
	r.calls = append(r.calls, fmt.Sprintf("replace(%d)", item.ID))
}

func (r *recorder) RemoveItem(id int) {
	for i := range r.list {
		if r.list[i].ID == id {
			r.list = append(r.list[:i], r.list[i+1:]...)
			break
		}
	}
	r.calls = append(r.calls, fmt.Sprintf("remove(%d)", id))
}

func (r *recorder) SetTotal(total registry.Calories) {
	r.total = total
	r.calls = append(r.calls, "total("+total.String()+")")
}

func (r *recorder) ResetForm() { r.calls = append(r.calls, "reset") }
func (r *recorder) EnterEditMode(item registry.Item) { r.calls = append(r.calls, fmt.Sprintf("edit(%d)", item.ID)) }
func (r *recorder) ExitEditMode() { r.calls = append(r.calls, "exit") }
func (r *recorder) HideList() { r.calls = append(r.calls, "hide") }

func (r *recorder) ShowError(err error) {
	r.errors = append(r.errors, err)
	r.calls = append(r.calls, "error")
}

func (r *recorder) take() []string {
	calls := r.calls
	r.calls = nil
	return calls
}

// brokenPersister fails every call with err.
type brokenPersister struct {
	err   error
	items []registry.Item
}

func (b *brokenPersister) LoadAll(context.Context) ([]registry.Item, error) {
	return []registry.Item{}, b.err
}

func (b *brokenPersister) SaveAll(_ context.Context, items []registry.Item) error {
	b.items = items
	return b.err
}

func (b *brokenPersister) Clear(context.Context) error { return b.err }

func newCoordinator(t *testing.T, opts ...Option) (*Coordinator, *recorder, *persistence.Adapter) {
	t.Helper()
	adapter := persistence.New(memory.New(), persistence.DefaultKey)
	view := &recorder{}
	return New(registry.New(), adapter, view, opts...), view, adapter
}

func TestInit_EmptyStoreHidesList(t *testing.T) {
	c, view, _ := newCoordinator(t)

	require.NoError(t, c.Init(context.Background()))
	require.Equal(t, []string{"hide", "total(0)"}, view.take())
}

func TestInit_RendersStoredItems(t *testing.T) {
	store := memory.New()
	testutil.NewBuilder().WithSteakAndCookie().Seed(t, store, persistence.DefaultKey)

	view := &recorder{}
	c := New(registry.New(), persistence.New(store, persistence.DefaultKey), view)

	require.NoError(t, c.Init(context.Background()))
	require.Equal(t, []string{"render(2)", "total(1600)"}, view.take())
	require.Len(t, c.Items(), 2)
}

func TestInit_LoadFailureStillRenders(t *testing.T) {
	view := &recorder{}
	boom := errors.New("disk gone")
	c := New(registry.New(), &brokenPersister{err: boom}, view)

	err := c.Init(context.Background())
	require.ErrorIs(t, err, boom)
	require.Equal(t, []string{"error", "hide", "total(0)"}, view.take())
	require.Empty(t, c.Items())
}

func TestAddSubmit(t *testing.T) {
	c, view, adapter := newCoordinator(t)
	ctx := context.Background()

	item, err := c.AddSubmit(ctx, "  Steak ", "1200")
	require.NoError(t, err)
	require.Equal(t, registry.Item{ID: 0, Name: "Steak", Calories: registry.CaloriesOf(1200)}, item)
	require.Equal(t, []string{"append(0)", "total(1200)", "reset"}, view.take())

	stored, err := adapter.LoadAll(ctx)
	require.NoError(t, err)
	require.Equal(t, []registry.Item{item}, stored)
}

func TestAddSubmit_RejectsEmptyInput(t *testing.T) {
	tests := []struct {
		name, rawName, rawCalories string
	}{
		{"empty name", "", "100"},
		{"blank name", "   ", "100"},
		{"empty calories", "Apple", ""},
		{"both empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, view, adapter := newCoordinator(t)

			_, err := c.AddSubmit(context.Background(), tt.rawName, tt.rawCalories)
			require.ErrorIs(t, err, ErrEmptyInput)
			require.Equal(t, []string{"error"}, view.take())
			require.Equal(t, []error{ErrEmptyInput}, view.errors)
			require.Empty(t, c.Items())

			stored, err := adapter.LoadAll(context.Background())
			require.NoError(t, err)
			require.Empty(t, stored)
		})
	}
}

func TestAddSubmit_NonNumericCaloriesAccepted(t *testing.T) {
	c, view, _ := newCoordinator(t)

	_, err := c.AddSubmit(context.Background(), "Mystery", "lots")
	require.NoError(t, err)
	require.True(t, view.total.IsNaN())
}

func TestAddSubmit_SaveFailureKeepsItem(t *testing.T) {
	boom := errors.New("read-only")
	store := &brokenPersister{err: boom}
	view := &recorder{}
	c := New(registry.New(), store, view)

	item, err := c.AddSubmit(context.Background(), "Steak", "1200")
	require.ErrorIs(t, err, boom)
	require.Equal(t, 0, item.ID)
	require.Len(t, c.Items(), 1)
	require.Equal(t, []string{"append(0)", "total(1200)", "error", "reset"}, view.take())
	require.Len(t, store.items, 1)
}

func TestEditAndUpdate(t *testing.T) {
	c, view, adapter := newCoordinator(t)
	ctx := context.Background()

	_, err := c.AddSubmit(ctx, "Steak", "1200")
	require.NoError(t, err)
	cookie, err := c.AddSubmit(ctx, "Cookie", "400")
	require.NoError(t, err)
	view.take()

	selected, err := c.EditItem(ctx, cookie.ID)
	require.NoError(t, err)
	require.Equal(t, cookie, selected)
	require.Equal(t, []string{"edit(1)"}, view.take())

	current, ok := c.CurrentItem()
	require.True(t, ok)
	require.Equal(t, cookie, current)

	updated, err := c.UpdateSubmit(ctx, "Biscuit", "350")
	require.NoError(t, err)
	require.Equal(t, registry.Item{ID: 1, Name: "Biscuit", Calories: registry.CaloriesOf(350)}, updated)
	require.Equal(t, []string{"replace(1)", "total(1550)", "reset", "exit"}, view.take())

	_, ok = c.CurrentItem()
	require.False(t, ok)

	stored, err := adapter.LoadAll(ctx)
	require.NoError(t, err)
	require.Equal(t, "Biscuit", stored[1].Name)
	require.Equal(t, "Steak", stored[0].Name)
}

func TestEditItem_UnknownID(t *testing.T) {
	c, view, _ := newCoordinator(t)

	_, err := c.EditItem(context.Background(), 7)
	require.ErrorIs(t, err, ErrItemNotFound)
	require.Empty(t, view.take())
}

func TestUpdateSubmit_NoCurrentItem(t *testing.T) {
	c, view, _ := newCoordinator(t)
	ctx := context.Background()
	_, err := c.AddSubmit(ctx, "Steak", "1200")
	require.NoError(t, err)
	view.take()

	_, err = c.UpdateSubmit(ctx, "x", "1")
	require.ErrorIs(t, err, ErrNoCurrentItem)
	require.Empty(t, view.take())
	require.Equal(t, "Steak", c.Items()[0].Name)
}

func TestUpdateSubmit_EmptyInputStaysInEditMode(t *testing.T) {
	c, view, _ := newCoordinator(t)
	ctx := context.Background()
	item, _ := c.AddSubmit(ctx, "Steak", "1200")
	_, _ = c.EditItem(ctx, item.ID)
	view.take()

	_, err := c.UpdateSubmit(ctx, "Steak", " ")
	require.ErrorIs(t, err, ErrEmptyInput)
	require.Equal(t, []string{"error"}, view.take())

	_, ok := c.CurrentItem()
	require.True(t, ok)
}

func TestDeleteSubmit(t *testing.T) {
	c, view, adapter := newCoordinator(t)
	ctx := context.Background()

	steak, _ := c.AddSubmit(ctx, "Steak", "1200")
	_, _ = c.AddSubmit(ctx, "Cookie", "400")
	_, _ = c.EditItem(ctx, steak.ID)
	view.take()

	deleted, err := c.DeleteSubmit(ctx)
	require.NoError(t, err)
	require.Equal(t, steak, deleted)
	require.Equal(t, []string{"remove(0)", "total(400)", "reset", "exit"}, view.take())

	stored, err := adapter.LoadAll(ctx)
	require.NoError(t, err)
	require.Equal(t, []registry.Item{{ID: 1, Name: "Cookie", Calories: registry.CaloriesOf(400)}}, stored)
}

func TestDeleteSubmit_LastItemHidesList(t *testing.T) {
	c, view, _ := newCoordinator(t)
	ctx := context.Background()

	item, _ := c.AddSubmit(ctx, "Steak", "1200")
	_, _ = c.EditItem(ctx, item.ID)
	view.take()

	_, err := c.DeleteSubmit(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"remove(0)", "total(0)", "reset", "exit", "hide"}, view.take())
}

func TestDeleteSubmit_NoCurrentItem(t *testing.T) {
	c, view, _ := newCoordinator(t)
	_, _ = c.AddSubmit(context.Background(), "Steak", "1200")
	view.take()

	_, err := c.DeleteSubmit(context.Background())
	require.ErrorIs(t, err, ErrNoCurrentItem)
	require.Empty(t, view.take())
	require.Len(t, c.Items(), 1)
}

func TestClearAll(t *testing.T) {
	c, view, adapter := newCoordinator(t)
	ctx := context.Background()

	item, _ := c.AddSubmit(ctx, "Steak", "1200")
	_, _ = c.AddSubmit(ctx, "Cookie", "400")
	_, _ = c.EditItem(ctx, item.ID)
	view.take()

	require.NoError(t, c.ClearAll(ctx))
	require.Equal(t, []string{"render(0)", "total(0)", "reset", "exit", "hide"}, view.take())
	require.Empty(t, c.Items())
	_, ok := c.CurrentItem()
	require.False(t, ok)

	stored, err := adapter.LoadAll(ctx)
	require.NoError(t, err)
	require.Empty(t, stored)
}

func TestClearAll_StoreFailure(t *testing.T) {
	boom := errors.New("offline")
	view := &recorder{}
	c := New(registry.New(), &brokenPersister{err: boom}, view)

	err := c.ClearAll(context.Background())
	require.ErrorIs(t, err, boom)
	require.Contains(t, view.take(), "error")
}

func TestCancelEdit(t *testing.T) {
	c, view, _ := newCoordinator(t)
	ctx := context.Background()
	item, _ := c.AddSubmit(ctx, "Steak", "1200")
	_, _ = c.EditItem(ctx, item.ID)
	view.take()

	c.CancelEdit(ctx)
	require.Equal(t, []string{"reset", "exit"}, view.take())
	_, ok := c.CurrentItem()
	require.False(t, ok)
	require.Equal(t, "Steak", c.Items()[0].Name)
}

func TestSteakCookieScenario(t *testing.T) {
	c, view, adapter := newCoordinator(t)
	ctx := context.Background()

	steak, _ := c.AddSubmit(ctx, "Steak", "1200")
	_, _ = c.AddSubmit(ctx, "Cookie", "400")
	require.Equal(t, registry.CaloriesOf(1600), view.total)

	_, _ = c.EditItem(ctx, steak.ID)
	_, err := c.DeleteSubmit(ctx)
	require.NoError(t, err)
	require.Equal(t, registry.CaloriesOf(400), view.total)
	require.Equal(t, []registry.Item{{ID: 1, Name: "Cookie", Calories: registry.CaloriesOf(400)}}, view.list)

	require.NoError(t, c.ClearAll(ctx))
	require.Equal(t, registry.CaloriesOf(0), view.total)

	stored, err := adapter.LoadAll(ctx)
	require.NoError(t, err)
	require.Empty(t, stored)
}

func TestSessionID(t *testing.T) {
	c, _, _ := newCoordinator(t)
	require.Len(t, c.SessionID(), 36)

	c, _, _ = newCoordinator(t, WithSessionID("fixed"))
	require.Equal(t, "fixed", c.SessionID())
}

func TestSpans(t *testing.T) {
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	c, _, _ := newCoordinator(t, WithTracer(tp.Tracer("test")), WithSessionID("s1"))
	ctx := context.Background()

	_, err := c.AddSubmit(ctx, "Steak", "1200")
	require.NoError(t, err)
	_, err = c.AddSubmit(ctx, "", "")
	require.ErrorIs(t, err, ErrEmptyInput)

	ended := spans.Ended()
	require.Len(t, ended, 2)

	ok := ended[0]
	require.Equal(t, "coordinator.add_submit", ok.Name())
	require.Equal(t, codes.Ok, ok.Status().Code)
	attrs := map[string]any{}
	for _, kv := range ok.Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	require.Equal(t, "s1", attrs[tracing.AttrSessionID])
	require.Equal(t, int64(0), attrs[tracing.AttrItemID])
	require.Equal(t, int64(1), attrs[tracing.AttrItemsCount])
	require.Equal(t, "1200", attrs[tracing.AttrCaloriesTotal])

	rejected := ended[1]
	require.Equal(t, codes.Error, rejected.Status().Code)
	require.Equal(t, tracing.EventInputRejected, rejected.Events()[0].Name)
}

// The presenter's list must mirror the registry after any event sequence.
func TestPresenterMirrorsRegistry(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		adapter := persistence.New(memory.New(), persistence.DefaultKey)
		view := &recorder{}
		c := New(registry.New(), adapter, view)
		ctx := context.Background()

		steps := rapid.IntRange(1, 40).Draw(t, "steps")
		for s := 0; s < steps; s++ {
			switch rapid.IntRange(0, 4).Draw(t, "op") {
			case 0:
				cal := rapid.IntRange(0, 3000).Draw(t, "cal")
				_, _ = c.AddSubmit(ctx, "food", fmt.Sprint(cal))
			case 1, 2:
				items := c.Items()
				if len(items) == 0 {
					continue
				}
				target := rapid.SampledFrom(items).Draw(t, "target")
				_, _ = c.EditItem(ctx, target.ID)
				if rapid.Bool().Draw(t, "delete") {
					_, _ = c.DeleteSubmit(ctx)
				} else {
					_, _ = c.UpdateSubmit(ctx, "renamed", fmt.Sprint(rapid.IntRange(0, 3000).Draw(t, "newCal")))
				}
			case 3:
				_ = c.ClearAll(ctx)
			case 4:
				c.CancelEdit(ctx)
			}

			items := c.Items()
			if len(view.list) != len(items) {
				t.Fatalf("presenter has %d rows, registry %d", len(view.list), len(items))
			}
			for i := range items {
				if view.list[i] != items[i] {
					t.Fatalf("row %d: %v != %v", i, view.list[i], items[i])
				}
			}
			if view.total != c.Total() {
				t.Fatalf("presenter total %v, registry %v", view.total, c.Total())
			}
			stored, err := adapter.LoadAll(ctx)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if len(stored) != len(items) {
				t.Fatalf("stored %d items, registry %d", len(stored), len(items))
			}
		}
	})
}
