package testutil

import "github.com/zjrosen/kcal/internal/registry"

// ItemOption configures an item added through Builder.WithItem.
type ItemOption func(*registry.Item)

// ID pins the item id instead of taking the next sequential one.
func ID(id int) ItemOption {
	return func(it *registry.Item) { it.ID = id }
}

// Calories sets an integer calorie count.
func Calories(n int) ItemOption {
	return func(it *registry.Item) { it.Calories = registry.CaloriesOf(n) }
}

// NaNCalories marks the item's calories as not-a-number.
func NaNCalories() ItemOption {
	return func(it *registry.Item) { it.Calories = registry.NaN() }
}
