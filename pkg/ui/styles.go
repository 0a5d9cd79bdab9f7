package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ══════════════════════════════════════════════════════════════════════════════
// DESIGN TOKENS - Consistent spacing, colors, and visual language
// ══════════════════════════════════════════════════════════════════════════════

// Spacing constants for consistent layout (in characters)
const (
	SpaceXS = 1
	SpaceSM = 2
	SpaceMD = 3
	SpaceLG = 4
)

// ══════════════════════════════════════════════════════════════════════════════
// COLOR PALETTE - Victorian library: midnight blue, gilt, aged paper
// ══════════════════════════════════════════════════════════════════════════════

var (
	// Base colors
	ColorMidnight = lipgloss.Color("#0F172A")
	ColorPaper    = lipgloss.Color("#F4EFE6")
	ColorSlate    = lipgloss.Color("#64748B")
	ColorCharcoal = lipgloss.Color("#334155")

	// Accent colors
	ColorGold      = lipgloss.Color("#C9A96A")
	ColorGoldDim   = lipgloss.Color("#8A7448")
	ColorRead      = lipgloss.Color("#7FA37A")
	ColorHighlight = lipgloss.Color("#3B3222")
)

// ══════════════════════════════════════════════════════════════════════════════
// PANEL STYLES - Archive panel and overlays
// ══════════════════════════════════════════════════════════════════════════════

var (
	// PanelStyle frames the archive panel
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(ColorGold)

	// OverlayStyle frames centered overlays such as the user guide
	OverlayStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(ColorGold).
			Padding(1, 2)
)

// ══════════════════════════════════════════════════════════════════════════════
// METRIC VISUALIZATION - Reading progress
// ══════════════════════════════════════════════════════════════════════════════

// RenderMiniBar renders a mini horizontal bar for a value between 0 and 1
func RenderMiniBar(value float64, width int, t Theme) string {
	if width <= 0 {
		return ""
	}
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}

	filled := int(value * float64(width))
	if filled > width {
		filled = width
	}

	barColor := t.Secondary
	if value >= 1 {
		barColor = t.Read
	} else if value >= 0.5 {
		barColor = t.Primary
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return t.Renderer.NewStyle().Foreground(barColor).Render(bar)
}

// RenderReadBadge marks an entry that has been opened before
func RenderReadBadge(read bool, t Theme) string {
	if !read {
		return ""
	}
	return t.Renderer.NewStyle().
		Foreground(t.Read).
		Bold(true).
		Render("✓ read")
}

// ══════════════════════════════════════════════════════════════════════════════
// DIVIDERS AND SEPARATORS
// ══════════════════════════════════════════════════════════════════════════════

// RenderDivider renders a short gilt rule
func RenderDivider(width int, t Theme) string {
	if width <= 0 {
		return ""
	}
	return t.Renderer.NewStyle().
		Foreground(t.Primary).
		Render(strings.Repeat("━", width))
}

// RenderSubtleDivider renders a more subtle divider using dots
func RenderSubtleDivider(width int, t Theme) string {
	if width <= 0 {
		return ""
	}
	return t.Renderer.NewStyle().
		Foreground(t.Subtext).
		Render(strings.Repeat("·", width))
}
