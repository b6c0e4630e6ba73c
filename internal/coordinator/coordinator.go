// Package coordinator implements the per-event pipelines that keep the item
// registry, the presenter and the persisted snapshot in step.
//
// Each event runs to completion before the next one starts: mutate the
// registry, update the presenter, persist the full list, then reset the
// form. A Coordinator is driven by one goroutine (the Bubble Tea update loop
// or a single CLI invocation) and holds no locks.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/kcal/internal/log"
	"github.com/zjrosen/kcal/internal/registry"
	"github.com/zjrosen/kcal/internal/tracing"
)

var (
	// ErrEmptyInput is returned when the name or calories field is blank.
	ErrEmptyInput = errors.New("name and calories are required")

	// ErrNoCurrentItem is returned by update and delete when no item is
	// selected for editing.
	ErrNoCurrentItem = errors.New("no item selected")

	// ErrItemNotFound is returned by EditItem for an unknown id.
	ErrItemNotFound = errors.New("item not found")
)

// Presenter renders registry state. The coordinator is its only caller.
type Presenter interface {
	RenderFullList(items []registry.Item)
	AppendItem(item registry.Item)
	ReplaceItem(item registry.Item)
	RemoveItem(id int)
	SetTotal(total registry.Calories)
	ResetForm()
	// EnterEditMode fills the form from item.
	EnterEditMode(item registry.Item)
	ExitEditMode()
	// HideList is called only when the list is empty.
	HideList()
	ShowError(err error)
}

// Persister stores the full item list. persistence.Adapter implements it.
type Persister interface {
	LoadAll(ctx context.Context) ([]registry.Item, error)
	SaveAll(ctx context.Context, items []registry.Item) error
	Clear(ctx context.Context) error
}

// Coordinator wires user events to the registry, presenter and persister.
type Coordinator struct {
	reg       *registry.Registry
	store     Persister
	view      Presenter
	tracer    trace.Tracer
	sessionID string
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithTracer sets the tracer for event spans. The default is a no-op tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Coordinator) {
		if tracer != nil {
			c.tracer = tracer
		}
	}
}

// WithSessionID overrides the generated session id attached to logs and spans.
func WithSessionID(id string) Option {
	return func(c *Coordinator) {
		if id != "" {
			c.sessionID = id
		}
	}
}

// New returns a coordinator over reg. It does not load anything; call Init
// or Load first.
func New(reg *registry.Registry, store Persister, view Presenter, opts ...Option) *Coordinator {
	c := &Coordinator{
		reg:       reg,
		store:     store,
		view:      view,
		tracer:    noop.NewTracerProvider().Tracer("noop"),
		sessionID: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SessionID identifies this process in logs and spans.
func (c *Coordinator) SessionID() string { return c.sessionID }

// Items returns a copy of the current item list.
func (c *Coordinator) Items() []registry.Item { return c.reg.Items() }

// Total returns the current calorie total.
func (c *Coordinator) Total() registry.Calories { return c.reg.TotalCalories() }

// CurrentItem returns the item being edited, if any.
func (c *Coordinator) CurrentItem() (registry.Item, bool) { return c.reg.CurrentItem() }

func (c *Coordinator) start(ctx context.Context, event string) (context.Context, trace.Span) {
	return c.tracer.Start(ctx, tracing.SpanPrefixCoordinator+event,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String(tracing.AttrSessionID, c.sessionID)),
	)
}

// finish records the post-event state and outcome on span and ends it.
func (c *Coordinator) finish(span trace.Span, err error) {
	span.SetAttributes(
		attribute.Int(tracing.AttrItemsCount, c.reg.Len()),
		attribute.String(tracing.AttrCaloriesTotal, c.reg.TotalCalories().String()),
	)
	if err != nil {
		tracing.RecordError(span, err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// validate trims the name and rejects blank fields.
func (c *Coordinator) validate(span trace.Span, rawName, rawCalories string) (string, error) {
	name := strings.TrimSpace(rawName)
	if name == "" || strings.TrimSpace(rawCalories) == "" {
		span.AddEvent(tracing.EventInputRejected)
		log.Debug(log.CatCoord, "Rejected empty input", "name", rawName, "calories", rawCalories)
		c.view.ShowError(ErrEmptyInput)
		return "", ErrEmptyInput
	}
	return name, nil
}

// save writes the full list. A failure leaves the in-memory state as is and
// is reported through the presenter.
func (c *Coordinator) save(ctx context.Context, span trace.Span) error {
	if err := c.store.SaveAll(ctx, c.reg.Items()); err != nil {
		return c.persistFailed(span, "save", err)
	}
	return nil
}

func (c *Coordinator) persistFailed(span trace.Span, op string, err error) error {
	span.AddEvent(tracing.EventPersistFailed, trace.WithAttributes(attribute.String("error", err.Error())))
	log.ErrorErr(log.CatCoord, "Persistence failed", err, "op", op, "session", c.sessionID)
	wrapped := fmt.Errorf("%s items: %w", op, err)
	c.view.ShowError(wrapped)
	return wrapped
}

func (c *Coordinator) refreshTotal() {
	c.view.SetTotal(c.reg.TotalCalories())
}

func (c *Coordinator) hideListIfEmpty() {
	if c.reg.Len() == 0 {
		c.view.HideList()
	}
}

// Load seeds the registry from the persister. A load failure leaves the
// registry empty; the error is shown and returned but never blocks startup.
func (c *Coordinator) Load(ctx context.Context) (err error) {
	ctx, span := c.start(ctx, "load")
	defer func() { c.finish(span, err) }()

	items, loadErr := c.store.LoadAll(ctx)
	c.reg.Load(items)
	if loadErr != nil {
		return c.persistFailed(span, "load", loadErr)
	}
	log.Info(log.CatCoord, "Loaded items", "count", c.reg.Len(), "session", c.sessionID)
	return nil
}

// Init loads the stored items and renders the initial view.
func (c *Coordinator) Init(ctx context.Context) error {
	err := c.Load(ctx)
	if c.reg.Len() == 0 {
		c.view.HideList()
	} else {
		c.view.RenderFullList(c.reg.Items())
	}
	c.refreshTotal()
	return err
}

// AddSubmit adds a new item from the raw form fields.
func (c *Coordinator) AddSubmit(ctx context.Context, rawName, rawCalories string) (item registry.Item, err error) {
	ctx, span := c.start(ctx, "add_submit")
	defer func() { c.finish(span, err) }()

	name, err := c.validate(span, rawName, rawCalories)
	if err != nil {
		return registry.Item{}, err
	}

	item = c.reg.AddItem(name, rawCalories)
	span.SetAttributes(attribute.Int(tracing.AttrItemID, item.ID))
	c.view.AppendItem(item)
	c.refreshTotal()

	err = c.save(ctx, span)
	c.view.ResetForm()
	return item, err
}

// EditItem selects the item with id for editing.
func (c *Coordinator) EditItem(ctx context.Context, id int) (item registry.Item, err error) {
	_, span := c.start(ctx, "edit_item")
	defer func() { c.finish(span, err) }()
	span.SetAttributes(attribute.Int(tracing.AttrItemID, id))

	item, ok := c.reg.ItemByID(id)
	if !ok {
		return registry.Item{}, fmt.Errorf("%w: id %d", ErrItemNotFound, id)
	}
	c.reg.SetCurrentItem(item)
	c.view.EnterEditMode(item)
	return item, nil
}

// UpdateSubmit overwrites the item being edited with the raw form fields.
func (c *Coordinator) UpdateSubmit(ctx context.Context, rawName, rawCalories string) (item registry.Item, err error) {
	ctx, span := c.start(ctx, "update_submit")
	defer func() { c.finish(span, err) }()

	name, err := c.validate(span, rawName, rawCalories)
	if err != nil {
		return registry.Item{}, err
	}

	item, ok := c.reg.UpdateItem(name, rawCalories)
	if !ok {
		return registry.Item{}, ErrNoCurrentItem
	}
	span.SetAttributes(attribute.Int(tracing.AttrItemID, item.ID))
	c.view.ReplaceItem(item)
	c.refreshTotal()

	err = c.save(ctx, span)
	c.endEdit()
	return item, err
}

// DeleteSubmit removes the item being edited.
func (c *Coordinator) DeleteSubmit(ctx context.Context) (item registry.Item, err error) {
	ctx, span := c.start(ctx, "delete_submit")
	defer func() { c.finish(span, err) }()

	item, ok := c.reg.CurrentItem()
	if !ok {
		return registry.Item{}, ErrNoCurrentItem
	}
	span.SetAttributes(attribute.Int(tracing.AttrItemID, item.ID))

	if c.reg.DeleteItem(item.ID) {
		c.view.RemoveItem(item.ID)
	}
	c.refreshTotal()

	err = c.save(ctx, span)
	c.endEdit()
	c.hideListIfEmpty()
	return item, err
}

// ClearAll removes every item and deletes the stored snapshot.
func (c *Coordinator) ClearAll(ctx context.Context) (err error) {
	ctx, span := c.start(ctx, "clear_all")
	defer func() { c.finish(span, err) }()

	c.reg.ClearAllItems()
	c.reg.ClearCurrentItem()
	c.view.RenderFullList(c.reg.Items())
	c.refreshTotal()

	if clearErr := c.store.Clear(ctx); clearErr != nil {
		err = c.persistFailed(span, "clear", clearErr)
	}
	c.view.ResetForm()
	c.view.ExitEditMode()
	c.view.HideList()
	return err
}

// CancelEdit leaves edit mode without changing anything.
func (c *Coordinator) CancelEdit(ctx context.Context) {
	_, span := c.start(ctx, "cancel_edit")
	defer func() { c.finish(span, nil) }()
	c.endEdit()
}

func (c *Coordinator) endEdit() {
	c.reg.ClearCurrentItem()
	c.view.ResetForm()
	c.view.ExitEditMode()
}
