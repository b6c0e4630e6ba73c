package testutil

// WithSteakAndCookie adds the two-item dataset used across the scenario tests:
// Steak (id 0, 1200) then Cookie (id 1, 400).
func (b *Builder) WithSteakAndCookie() *Builder {
	return b.
		WithItem("Steak", Calories(1200)).
		WithItem("Cookie", Calories(400))
}
