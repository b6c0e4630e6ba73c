// Package persistence maps the item list to and from a single JSON snapshot
// held in a storage.Store. Every save overwrites the whole snapshot.
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zjrosen/kcal/internal/log"
	"github.com/zjrosen/kcal/internal/registry"
	"github.com/zjrosen/kcal/internal/storage"
)

// DefaultKey is the snapshot key used when none is configured.
const DefaultKey = "items"

// corruptSuffix is appended to the key when an undecodable snapshot is set aside.
const corruptSuffix = ".corrupt"

// ErrCorruptSnapshot is wrapped by LoadAll when the stored bytes are not a
// valid item list.
var ErrCorruptSnapshot = errors.New("corrupt snapshot")

// Adapter reads and writes the snapshot under one key.
type Adapter struct {
	store storage.Store
	key   string
}

// New returns an adapter over store. An empty key means DefaultKey.
func New(store storage.Store, key string) *Adapter {
	if key == "" {
		key = DefaultKey
	}
	return &Adapter{store: store, key: key}
}

// Key returns the snapshot key.
func (a *Adapter) Key() string { return a.key }

// LoadAll returns the stored items, or an empty slice when nothing is stored.
// The slice is never nil, even alongside an error: a store failure or a
// corrupt snapshot degrades to an empty list. Corrupt bytes are copied to
// <key>.corrupt before returning so a later save does not destroy them.
func (a *Adapter) LoadAll(ctx context.Context) ([]registry.Item, error) {
	data, err := a.store.Get(ctx, a.key)
	if errors.Is(err, storage.ErrNotFound) {
		log.Debug(log.CatPersist, "No snapshot stored", "key", a.key)
		return []registry.Item{}, nil
	}
	if err != nil {
		log.ErrorErr(log.CatPersist, "Failed to read snapshot", err, "key", a.key)
		return []registry.Item{}, fmt.Errorf("reading snapshot %q: %w", a.key, err)
	}

	var items []registry.Item
	if err := json.Unmarshal(data, &items); err != nil {
		log.ErrorErr(log.CatPersist, "Snapshot does not decode", err, "key", a.key, "bytes", len(data))
		a.quarantine(ctx, data)
		return []registry.Item{}, fmt.Errorf("%w: key %q: %v", ErrCorruptSnapshot, a.key, err)
	}
	if items == nil {
		// A stored null is an empty list.
		items = []registry.Item{}
	}

	log.Debug(log.CatPersist, "Loaded snapshot", "key", a.key, "count", len(items))
	return items, nil
}

func (a *Adapter) quarantine(ctx context.Context, data []byte) {
	key := a.key + corruptSuffix
	if err := a.store.Put(ctx, key, data); err != nil {
		log.ErrorErr(log.CatPersist, "Failed to set aside corrupt snapshot", err, "key", key)
		return
	}
	log.Warn(log.CatPersist, "Corrupt snapshot set aside", "key", key)
}

// SaveAll overwrites the snapshot with items.
func (a *Adapter) SaveAll(ctx context.Context, items []registry.Item) error {
	if items == nil {
		items = []registry.Item{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := a.store.Put(ctx, a.key, data); err != nil {
		log.ErrorErr(log.CatPersist, "Failed to write snapshot", err, "key", a.key)
		return fmt.Errorf("writing snapshot %q: %w", a.key, err)
	}
	log.Debug(log.CatPersist, "Saved snapshot", "key", a.key, "count", len(items))
	return nil
}

// Clear removes the snapshot. Clearing an absent snapshot succeeds.
func (a *Adapter) Clear(ctx context.Context) error {
	if err := a.store.Delete(ctx, a.key); err != nil {
		log.ErrorErr(log.CatPersist, "Failed to clear snapshot", err, "key", a.key)
		return fmt.Errorf("clearing snapshot %q: %w", a.key, err)
	}
	log.Debug(log.CatPersist, "Cleared snapshot", "key", a.key)
	return nil
}
