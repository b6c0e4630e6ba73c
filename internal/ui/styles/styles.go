// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Semantic color names - Text hierarchy
	TextPrimaryColor     = lipgloss.AdaptiveColor{Light: "#333333", Dark: "#CCCCCC"} // Item names
	TextSecondaryColor   = lipgloss.AdaptiveColor{Light: "#777777", Dark: "#BBBBBB"} // Ids, calories
	TextMutedColor       = lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#696969"} // Hints, help text
	TextPlaceholderColor = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#777777"} // Input placeholders

	// Border
	BorderDefaultColor   = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"} // Unfocused panels
	BorderHighlightColor = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"} // Focus, cursor, edit mode

	// Status
	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}

	// Selection indicator color (">" prefix in the item list)
	SelectionIndicatorColor = lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"}

	// Form colors
	FormLabelColor        = lipgloss.AdaptiveColor{Light: "#8C8C8C", Dark: "#8C8C8C"}
	FormFocusedLabelColor = lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"}

	// Toast notification colors
	ToastBorderSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	ToastBorderErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}
	ToastBorderInfoColor    = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}
	ToastBorderWarnColor    = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}
)

// Styles derived from the palette. Call Rebuild after changing colors.
var (
	SelectionIndicatorStyle lipgloss.Style
	ItemNameStyle           lipgloss.Style
	ItemCaloriesStyle       lipgloss.Style
	ItemIDStyle             lipgloss.Style
	EditMarkerStyle         lipgloss.Style
	FormLabelStyle          lipgloss.Style
	FormFocusedLabelStyle   lipgloss.Style
	TotalStyle              lipgloss.Style
	HelpStyle               lipgloss.Style
	EmptyStateStyle         lipgloss.Style
	EditBannerStyle         lipgloss.Style
	ErrorStyle              lipgloss.Style
)

func init() {
	Rebuild()
}

// Rebuild recomputes the derived styles from the current colors.
func Rebuild() {
	SelectionIndicatorStyle = lipgloss.NewStyle().Bold(true).Foreground(SelectionIndicatorColor)
	ItemNameStyle = lipgloss.NewStyle().Foreground(TextPrimaryColor)
	ItemCaloriesStyle = lipgloss.NewStyle().Foreground(TextSecondaryColor)
	ItemIDStyle = lipgloss.NewStyle().Foreground(TextMutedColor)
	EditMarkerStyle = lipgloss.NewStyle().Foreground(BorderHighlightColor)
	FormLabelStyle = lipgloss.NewStyle().Foreground(FormLabelColor)
	FormFocusedLabelStyle = lipgloss.NewStyle().Foreground(FormFocusedLabelColor).Bold(true)
	TotalStyle = lipgloss.NewStyle().Bold(true).Foreground(TextPrimaryColor)
	HelpStyle = lipgloss.NewStyle().Foreground(TextMutedColor)
	EmptyStateStyle = lipgloss.NewStyle().Foreground(TextMutedColor).Italic(true)
	EditBannerStyle = lipgloss.NewStyle().Foreground(BorderHighlightColor).Bold(true)
	ErrorStyle = lipgloss.NewStyle().Foreground(StatusErrorColor).Bold(true)
}

// ApplyTheme applies custom theme colors from configuration.
// Empty strings are ignored, keeping the default values.
//   - highlight: BorderHighlightColor (focus, cursor, edit mode)
//   - muted: TextMutedColor + BorderDefaultColor (hints, help text, borders)
//   - errorColor: StatusErrorColor + ToastBorderErrorColor
//   - success: StatusSuccessColor + ToastBorderSuccessColor
func ApplyTheme(highlight, muted, errorColor, success string) {
	if highlight != "" {
		BorderHighlightColor = lipgloss.AdaptiveColor{Light: highlight, Dark: highlight}
	}
	if muted != "" {
		TextMutedColor = lipgloss.AdaptiveColor{Light: muted, Dark: muted}
		BorderDefaultColor = lipgloss.AdaptiveColor{Light: muted, Dark: muted}
	}
	if errorColor != "" {
		StatusErrorColor = lipgloss.AdaptiveColor{Light: errorColor, Dark: errorColor}
		ToastBorderErrorColor = StatusErrorColor
	}
	if success != "" {
		StatusSuccessColor = lipgloss.AdaptiveColor{Light: success, Dark: success}
		ToastBorderSuccessColor = StatusSuccessColor
	}
	Rebuild()
}
