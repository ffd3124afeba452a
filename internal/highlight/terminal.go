package highlight

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme is the colour palette for terminal output
type Theme struct {
	Accent    lipgloss.Color
	Highlight lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Warning   lipgloss.Color
}

// DefaultTheme returns the default palette
func DefaultTheme() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#7C3AED"), // Purple
		Highlight: lipgloss.Color("#F9E2AF"), // Yellow
		Text:      lipgloss.Color("#CDD6F4"), // Light gray
		Muted:     lipgloss.Color("#6C7086"), // Medium gray
		Warning:   lipgloss.Color("#F38BA8"), // Red
	}
}

// Styles holds the lipgloss styles used by terminal renderers
type Styles struct {
	Mark    lipgloss.Style
	Text    lipgloss.Style
	Heading lipgloss.Style
	Label   lipgloss.Style
	Muted   lipgloss.Style
	Warning lipgloss.Style
}

// NewStyles creates styles from a theme; nil selects the default theme
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		Mark: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1E1E2E")).
			Background(theme.Highlight),
		Text: lipgloss.NewStyle().
			Foreground(theme.Text),
		Heading: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Accent),
		Label: lipgloss.NewStyle().
			Foreground(theme.Muted),
		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),
		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning),
	}
}

// PlainStyles renders without colour or emphasis
func PlainStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Mark:    plain,
		Text:    plain,
		Heading: plain,
		Label:   plain,
		Muted:   plain,
		Warning: plain,
	}
}

// Terminal renders the view with marked segments styled
func (v *View) Terminal(styles *Styles) string {
	if styles == nil {
		styles = NewStyles(nil)
	}

	var b strings.Builder
	for _, seg := range v.Segments {
		if seg.Highlighted {
			b.WriteString(styles.Mark.Render(seg.Text))
			continue
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}
