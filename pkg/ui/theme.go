package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme carries the renderer and the adaptive colours every view draws with
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor // gilt accents, selection
	Secondary lipgloss.AdaptiveColor // section headers
	Subtext   lipgloss.AdaptiveColor // captions and hints
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor // selected row background
	Paper     lipgloss.AdaptiveColor // panel background
	Ink       lipgloss.AdaptiveColor // panel text
	Read      lipgloss.AdaptiveColor

	Base lipgloss.Style
}

// DefaultTheme returns the museum palette bound to r. A nil renderer uses
// lipgloss' default.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	t := Theme{
		Renderer:  r,
		Primary:   lipgloss.AdaptiveColor{Light: "#8A7448", Dark: string(ColorGold)},
		Secondary: lipgloss.AdaptiveColor{Light: string(ColorCharcoal), Dark: string(ColorGoldDim)},
		Subtext:   lipgloss.AdaptiveColor{Light: string(ColorSlate), Dark: "#94A3B8"},
		Border:    lipgloss.AdaptiveColor{Light: string(ColorGoldDim), Dark: string(ColorGold)},
		Highlight: lipgloss.AdaptiveColor{Light: "#EADFC8", Dark: string(ColorHighlight)},
		Paper:     lipgloss.AdaptiveColor{Light: string(ColorPaper), Dark: string(ColorMidnight)},
		Ink:       lipgloss.AdaptiveColor{Light: string(ColorMidnight), Dark: string(ColorPaper)},
		Read:      lipgloss.AdaptiveColor{Light: "#4D7A48", Dark: string(ColorRead)},
	}
	t.Base = r.NewStyle().Foreground(t.Ink)
	return t
}
