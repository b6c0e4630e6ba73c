package presentation

import (
	"github.com/zjrosen/kcal/internal/registry"
)

// ItemDTO is the JSON shape of one item in `kcal list --json`.
type ItemDTO struct {
	ID       int               `json:"id"`
	Name     string            `json:"name"`
	Calories registry.Calories `json:"calories"` // null when not a number
}

// ListDTO is the JSON document printed by `kcal list --json`.
type ListDTO struct {
	Items []ItemDTO         `json:"items"`
	Count int               `json:"count"`
	Total registry.Calories `json:"total"`
	// Goal is omitted when no daily goal is configured.
	Goal      int  `json:"goal,omitempty"`
	Remaining *int `json:"remaining,omitempty"`
}

// FromItems converts registry items and their total to a ListDTO. Remaining
// is set only when goal is positive and the total is a number.
func FromItems(items []registry.Item, total registry.Calories, goal int) ListDTO {
	dtos := make([]ItemDTO, len(items))
	for i, it := range items {
		dtos[i] = ItemDTO{ID: it.ID, Name: it.Name, Calories: it.Calories}
	}

	list := ListDTO{
		Items: dtos,
		Count: len(items),
		Total: total,
	}
	if goal > 0 {
		list.Goal = goal
		if n, ok := total.Int(); ok {
			remaining := goal - n
			list.Remaining = &remaining
		}
	}
	return list
}
