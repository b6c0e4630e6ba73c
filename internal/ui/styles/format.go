package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/kcal/internal/registry"
)

// Truncate shortens s to maxWidth cells with a trailing ellipsis.
func Truncate(s string, maxWidth int) string {
	if maxWidth < 1 {
		return ""
	}
	return ansi.Truncate(s, maxWidth, "…")
}

// FormatCalories renders c with its unit, e.g. "1200 kcal" or "NaN kcal".
func FormatCalories(c registry.Calories) string {
	return c.String() + " kcal"
}

// ProgressBar renders total against goal as a bar of width cells followed by
// the percentage. A non-positive goal or a NaN total renders nothing. The bar
// turns to the error color once the goal is exceeded.
func ProgressBar(total registry.Calories, goal, width int) string {
	n, ok := total.Int()
	if goal <= 0 || !ok || width < 1 {
		return ""
	}

	ratio := float64(n) / float64(goal)
	filled := int(ratio * float64(width))
	filled = min(max(filled, 0), width)

	color := StatusSuccessColor
	switch {
	case ratio > 1:
		color = StatusErrorColor
	case ratio >= 0.9:
		color = StatusWarningColor
	}

	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
		HelpStyle.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("%s %d%%", bar, int(ratio*100))
}
