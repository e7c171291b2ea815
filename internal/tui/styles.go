// Package tui is the terminal storefront: a product grid with search and
// filters, and cart, wishlist, product and checkout dialogs.
package tui

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	LightBackground = lipgloss.Color("#f7f8fa")
	LightForeground = lipgloss.Color("#1b2430")
	LightPrimary    = lipgloss.Color("#0f62fe")
	LightMuted      = lipgloss.Color("#6b7685")
	LightBorder     = lipgloss.Color("#d0d5dd")

	DarkBackground = lipgloss.Color("#121821")
	DarkForeground = lipgloss.Color("#e6e9ef")
	DarkPrimary    = lipgloss.Color("#4ea1ff")
	DarkMuted      = lipgloss.Color("#8a94a6")
	DarkBorder     = lipgloss.Color("#2c3645")

	Destructive = lipgloss.Color("#e53935")
	Success     = lipgloss.Color("#43a047")
	Highlight   = lipgloss.Color("#ffb300")
)

// Theme holds the current color scheme.
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme.
func LightTheme() Theme {
	return Theme{
		Background: LightBackground,
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Muted:      LightMuted,
		Border:     LightBorder,
	}
}

// DarkTheme returns the dark mode theme.
func DarkTheme() Theme {
	return Theme{
		Background: DarkBackground,
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		IsDark:     true,
	}
}

// ThemeFor picks the theme for the dark mode preference.
func ThemeFor(dark bool) Theme {
	if dark {
		return DarkTheme()
	}
	return LightTheme()
}

// Styles holds the styled components.
type Styles struct {
	Theme Theme

	Header   lipgloss.Style
	Title    lipgloss.Style
	Muted    lipgloss.Style
	Body     lipgloss.Style
	Price    lipgloss.Style
	Selected lipgloss.Style
	Focused  lipgloss.Style
	Dialog   lipgloss.Style
	Toast    lipgloss.Style
	Error    lipgloss.Style
	Badge    lipgloss.Style
}

// NewStyles creates the styles for theme.
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2).
			Bold(true),

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Price: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Selected: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(theme.Primary).
			PaddingLeft(1),

		Focused: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(theme.Primary).
			Padding(0, 1),

		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(1, 2),

		Toast: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(Success).
			Padding(0, 2),

		Error: lipgloss.NewStyle().
			Foreground(Destructive),

		Badge: lipgloss.NewStyle().
			Foreground(Highlight).
			Bold(true),
	}
}

// DefaultStyles returns the light styles.
func DefaultStyles() Styles {
	return NewStyles(LightTheme())
}
