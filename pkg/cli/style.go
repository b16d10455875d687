package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color scheme for terminal output.
type Theme struct {
	Primary lipgloss.Color // Main accent color
	Dim     lipgloss.Color // Dimmed/help text color
}

// DefaultTheme is the default bright green theme.
var DefaultTheme = Theme{
	Primary: lipgloss.Color("#00ff9f"),
	Dim:     lipgloss.Color("#6e7681"),
}

// Styles holds all styles derived from a theme.
type Styles struct {
	Title  lipgloss.Style
	Label  lipgloss.Style
	Border lipgloss.Style
	Help   lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Label:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Border: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Primary).Padding(0, 1),
		Help:   lipgloss.NewStyle().Foreground(t.Dim),
	}
}

// Field is one labeled line of a Panel.
type Field struct {
	Label string
	Value string
}

// Panel renders a titled box of aligned label/value lines, used for render
// summaries.
type Panel struct {
	Styles Styles
	Title  string
	Fields []Field
	Footer string

	// MaxWidth truncates values so lines fit; zero disables truncation.
	MaxWidth int
}

// Render renders the panel to a string.
func (p Panel) Render() string {
	labelWidth := 0
	for _, f := range p.Fields {
		labelWidth = max(labelWidth, lipgloss.Width(f.Label))
	}

	var lines []string
	if p.Title != "" {
		lines = append(lines, p.Styles.Title.Render(p.Title), "")
	}
	for _, f := range p.Fields {
		label := f.Label + strings.Repeat(" ", labelWidth-lipgloss.Width(f.Label))
		value := f.Value
		if room := p.MaxWidth - labelWidth - 2; p.MaxWidth > 0 && room > 1 && lipgloss.Width(value) > room {
			value = truncateString(value, room-1) + "…"
		}
		lines = append(lines, p.Styles.Label.Render(label)+"  "+value)
	}

	out := p.Styles.Border.Render(strings.Join(lines, "\n"))
	if p.Footer != "" {
		out += "\n" + p.Styles.Help.Render(p.Footer)
	}
	return out
}

// truncateString safely truncates a string to the given width,
// handling multi-byte characters correctly.
func truncateString(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	currentWidth := 0
	for i, r := range runes {
		w := lipgloss.Width(string(r))
		if currentWidth+w > width {
			return string(runes[:i])
		}
		currentWidth += w
	}
	return s
}
