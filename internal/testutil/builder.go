// Package testutil builds item fixtures and runs the shared storage.Store
// contract against each backend.
package testutil

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/kcal/internal/registry"
	"github.com/zjrosen/kcal/internal/storage"
)

// Builder accumulates items in insertion order.
type Builder struct {
	items  []registry.Item
	nextID int
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// WithItem appends an item. Ids are handed out sequentially from 0 unless
// ID overrides them.
func (b *Builder) WithItem(name string, opts ...ItemOption) *Builder {
	it := registry.Item{ID: b.nextID, Name: name}
	for _, opt := range opts {
		opt(&it)
	}
	if it.ID >= b.nextID {
		b.nextID = it.ID + 1
	}
	b.items = append(b.items, it)
	return b
}

// Build returns a copy of the accumulated items. It is never nil.
func (b *Builder) Build() []registry.Item {
	out := make([]registry.Item, len(b.items))
	copy(out, b.items)
	return out
}

// Seed writes the items as a snapshot under key.
func (b *Builder) Seed(t *testing.T, store storage.Store, key string) []registry.Item {
	t.Helper()
	items := b.Build()
	data, err := json.Marshal(items)
	require.NoError(t, err)
	require.NoError(t, store.Put(context.Background(), key, data))
	return items
}
