package viz

import "github.com/charmbracelet/lipgloss"

// Theme colours the live view.
type Theme struct {
	Name     string
	Trail    lipgloss.Color
	Accent   lipgloss.Color
	Text     lipgloss.Color
	Muted    lipgloss.Color
	Escaped  lipgloss.Color
	Captured lipgloss.Color
}

var (
	ThemeAccretion = Theme{
		Name:     "accretion",
		Trail:    lipgloss.Color("#ffb347"),
		Accent:   lipgloss.Color("#ff7f50"),
		Text:     lipgloss.Color("#fff5e6"),
		Muted:    lipgloss.Color("#806040"),
		Escaped:  lipgloss.Color("#00d7ff"),
		Captured: lipgloss.Color("#ff5555"),
	}

	ThemeRetroGreen = Theme{
		Name:     "retro",
		Trail:    lipgloss.Color("#00ff00"),
		Accent:   lipgloss.Color("#88ff88"),
		Text:     lipgloss.Color("#00ff00"),
		Muted:    lipgloss.Color("#005500"),
		Escaped:  lipgloss.Color("#88ff88"),
		Captured: lipgloss.Color("#ff0000"),
	}

	ThemeMinimal = Theme{
		Name:     "minimal",
		Trail:    lipgloss.Color("#ffffff"),
		Accent:   lipgloss.Color("#0088ff"),
		Text:     lipgloss.Color("#ffffff"),
		Muted:    lipgloss.Color("#888888"),
		Escaped:  lipgloss.Color("#00ff00"),
		Captured: lipgloss.Color("#ff0000"),
	}

	Themes = []Theme{ThemeAccretion, ThemeRetroGreen, ThemeMinimal}
)

// GetTheme returns the named theme, or the first one if unknown.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// Outcome renders the capture status in the theme's outcome colours.
func (t Theme) Outcome(captured bool) string {
	if captured {
		return lipgloss.NewStyle().Bold(true).Foreground(t.Captured).Render("CAPTURED")
	}
	return lipgloss.NewStyle().Bold(true).Foreground(t.Escaped).Render("ESCAPED")
}
