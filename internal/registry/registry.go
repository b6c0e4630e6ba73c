// Package registry holds the in-memory item list: the authoritative set of
// food items, the item currently selected for editing, and the derived
// calorie total.
//
// A Registry is single-owner and not safe for concurrent use. The
// coordinator drives it from one goroutine.
package registry

import (
	"github.com/zjrosen/kcal/internal/log"
)

// Item is one food entry.
type Item struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Calories Calories `json:"calories"`
}

// Registry owns the item list.
//
// Items are stored by value. Items, ItemByID, CurrentItem and the mutators
// all hand out copies, so callers never alias registry state.
type Registry struct {
	items         []Item
	current       *Item
	totalCalories Calories
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{items: []Item{}}
}

// Load replaces the item list with a copy of items. Later entries whose id
// is already taken are dropped so ids stay unique. The current item is left
// alone.
func (r *Registry) Load(items []Item) {
	seen := make(map[int]struct{}, len(items))
	loaded := make([]Item, 0, len(items))
	for _, it := range items {
		if _, dup := seen[it.ID]; dup {
			log.Warn(log.CatRegistry, "Dropping duplicate id from snapshot", "id", it.ID, "name", it.Name)
			continue
		}
		seen[it.ID] = struct{}{}
		loaded = append(loaded, it)
	}
	r.items = loaded
	log.Debug(log.CatRegistry, "Loaded items", "count", len(loaded))
}

// nextID returns 0 for an empty list, otherwise one past the largest id.
// Insertion is append-only and ids only grow, so the largest id is the last
// item's id and this matches last.ID+1; taking the max also stays unique
// for snapshots whose ids arrive out of order.
func (r *Registry) nextID() int {
	if len(r.items) == 0 {
		return 0
	}
	maxID := r.items[0].ID
	for _, it := range r.items[1:] {
		if it.ID > maxID {
			maxID = it.ID
		}
	}
	return maxID + 1
}

// AddItem appends a new item and returns it. It never fails: calories that
// do not parse become NaN, and names are not checked for duplicates.
func (r *Registry) AddItem(name, caloriesRaw string) Item {
	item := Item{
		ID:       r.nextID(),
		Name:     name,
		Calories: ParseCalories(caloriesRaw),
	}
	r.items = append(r.items, item)
	log.Debug(log.CatRegistry, "Item added", "id", item.ID, "name", name, "calories", item.Calories)
	return item
}

// Items returns a copy of the item list in insertion order.
func (r *Registry) Items() []Item {
	out := make([]Item, len(r.items))
	copy(out, r.items)
	return out
}

// Len returns the number of items.
func (r *Registry) Len() int { return len(r.items) }

// ItemByID returns the first item with the given id.
func (r *Registry) ItemByID(id int) (Item, bool) {
	for _, it := range r.items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// SetCurrentItem selects item for editing. It is not checked against the list.
func (r *Registry) SetCurrentItem(item Item) {
	cp := item
	r.current = &cp
}

// ClearCurrentItem drops the selection.
func (r *Registry) ClearCurrentItem() {
	r.current = nil
}

// CurrentItem returns the selected item as it was last set or updated.
// Deleting or clearing items does not reset the selection.
func (r *Registry) CurrentItem() (Item, bool) {
	if r.current == nil {
		return Item{}, false
	}
	return *r.current, true
}

// UpdateItem overwrites the name and calories of the item whose id matches
// the current item. It returns false when nothing is selected or the
// selected id is no longer in the list.
func (r *Registry) UpdateItem(name, caloriesRaw string) (Item, bool) {
	if r.current == nil {
		return Item{}, false
	}
	calories := ParseCalories(caloriesRaw)
	for i := range r.items {
		if r.items[i].ID != r.current.ID {
			continue
		}
		r.items[i].Name = name
		r.items[i].Calories = calories
		updated := r.items[i]
		r.current = &updated
		log.Debug(log.CatRegistry, "Item updated", "id", updated.ID, "name", name, "calories", calories)
		return updated, true
	}
	return Item{}, false
}

// DeleteItem removes the item with the given id and reports whether one was
// removed. A missing id is a no-op.
func (r *Registry) DeleteItem(id int) bool {
	index := -1
	for i, it := range r.items {
		if it.ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		return false
	}

	r.items = append(r.items[:index:index], r.items[index+1:]...)
	log.Debug(log.CatRegistry, "Item deleted", "id", id)
	return true
}

// ClearAllItems empties the list. The current item is not touched.
func (r *Registry) ClearAllItems() {
	r.items = []Item{}
	log.Debug(log.CatRegistry, "All items cleared")
}

// TotalCalories sums calories over all items, caches the result and
// returns it. It is recomputed on every call.
func (r *Registry) TotalCalories() Calories {
	total := CaloriesOf(0)
	for _, it := range r.items {
		total = total.Add(it.Calories)
	}
	r.totalCalories = total
	return total
}
