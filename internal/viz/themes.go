package viz

import "github.com/charmbracelet/lipgloss"

// Theme colours the animation player.
type Theme struct {
	Name   string
	Figure lipgloss.Color
	Header lipgloss.Color
	Label  lipgloss.Color
	Value  lipgloss.Color
	Chart  lipgloss.Color
	Border lipgloss.Color
}

var Themes = []Theme{
	{
		Name:   "phosphor",
		Figure: lipgloss.Color("#00ff00"),
		Header: lipgloss.Color("#88ff88"),
		Label:  lipgloss.Color("#00aa00"),
		Value:  lipgloss.Color("#ccffcc"),
		Chart:  lipgloss.Color("#00cc00"),
		Border: lipgloss.Color("#005500"),
	},
	{
		Name:   "cyberpunk",
		Figure: lipgloss.Color("#00ffff"),
		Header: lipgloss.Color("#ff00ff"),
		Label:  lipgloss.Color("#666666"),
		Value:  lipgloss.Color("#ffffff"),
		Chart:  lipgloss.Color("#ffff00"),
		Border: lipgloss.Color("#444444"),
	},
	{
		Name:   "ocean",
		Figure: lipgloss.Color("#00a8cc"),
		Header: lipgloss.Color("#ffd700"),
		Label:  lipgloss.Color("#4488aa"),
		Value:  lipgloss.Color("#e0f0ff"),
		Chart:  lipgloss.Color("#0077be"),
		Border: lipgloss.Color("#224466"),
	},
	{
		Name:   "minimal",
		Figure: lipgloss.Color("#ffffff"),
		Header: lipgloss.Color("#0088ff"),
		Label:  lipgloss.Color("#888888"),
		Value:  lipgloss.Color("#ffffff"),
		Chart:  lipgloss.Color("#cccccc"),
		Border: lipgloss.Color("#444444"),
	},
}

// ThemeIndex returns the position of the named theme, or 0.
func ThemeIndex(name string) int {
	for i, t := range Themes {
		if t.Name == name {
			return i
		}
	}
	return 0
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

type styles struct {
	figure, header, label, value, chart, stats, help lipgloss.Style
}

func (t Theme) styles() styles {
	return styles{
		figure: lipgloss.NewStyle().Foreground(t.Figure).Padding(1, 2),
		header: lipgloss.NewStyle().Foreground(t.Header).Bold(true).MarginBottom(1),
		label:  lipgloss.NewStyle().Foreground(t.Label).Width(12),
		value:  lipgloss.NewStyle().Foreground(t.Value),
		chart:  lipgloss.NewStyle().Foreground(t.Chart).Padding(1, 0),
		stats: lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Border).Padding(1, 2).Width(44),
		help: lipgloss.NewStyle().Foreground(t.Label).MarginTop(1),
	}
}
