package viz

import "github.com/charmbracelet/lipgloss"

// Theme colours the surface view.
type Theme struct {
	Name    string
	Water   lipgloss.Color
	Cursor  lipgloss.Color
	Marker  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Warning lipgloss.Color
}

var (
	ThemeOcean = Theme{
		Name:    "ocean",
		Water:   lipgloss.Color("#00a8cc"),
		Cursor:  lipgloss.Color("#ffd700"),
		Marker:  lipgloss.Color("#ff4444"),
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#4488aa"),
		Warning: lipgloss.Color("#ffcc00"),
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Water:   lipgloss.Color("#00ff00"),
		Cursor:  lipgloss.Color("#88ff88"),
		Marker:  lipgloss.Color("#ffff00"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Warning: lipgloss.Color("#ffff00"),
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Water:   lipgloss.Color("#ffffff"),
		Cursor:  lipgloss.Color("#0088ff"),
		Marker:  lipgloss.Color("#ff0000"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Warning: lipgloss.Color("#ffaa00"),
	}

	ThemeSunset = Theme{
		Name:    "sunset",
		Water:   lipgloss.Color("#ff6b6b"),
		Cursor:  lipgloss.Color("#feca57"),
		Marker:  lipgloss.Color("#ff9ff3"),
		Text:    lipgloss.Color("#fff5f5"),
		Muted:   lipgloss.Color("#8b6b8c"),
		Warning: lipgloss.Color("#ffc048"),
	}

	CurrentTheme = ThemeOcean

	Themes = []Theme{
		ThemeOcean,
		ThemeRetroGreen,
		ThemeMinimal,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to ocean.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeOcean
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme returns the theme after current in Themes, wrapping around.
func NextTheme(current string) string {
	for i, t := range Themes {
		if t.Name == current {
			return Themes[(i+1)%len(Themes)].Name
		}
	}
	return Themes[0].Name
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
