package ui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/Dicklesworthstone/museum/pkg/model"
)

var glyphRules = []struct {
	words []string
	glyph rune
}{
	{[]string{"telescope", "metaphysics"}, '☉'},
	{[]string{"flask", "alchemy"}, '⚗'},
	{[]string{"scroll", "ancient"}, '§'},
	{[]string{"map", "influence"}, '⌖'},
	{[]string{"scale", "justice"}, '⚖'},
	{[]string{"law", "seal", "authority"}, '⚒'},
	{[]string{"diagram", "logic"}, '◈'},
	{[]string{"book", "archive", "desk", "table"}, '▤'},
}

// HotspotGlyph picks a marker from keywords in the hotspot's name and
// description. First matching rule wins.
func HotspotGlyph(h model.Hotspot) rune {
	text := strings.ToLower(h.Name + " " + h.Description)
	for _, rule := range glyphRules {
		for _, w := range rule.words {
			if strings.Contains(text, w) {
				return rule.glyph
			}
		}
	}
	return '✦'
}

// wrapLines word-wraps s to width display columns
func wrapLines(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}
	if width < 1 {
		width = 1
	}
	var lines []string
	line := ""
	for _, w := range words {
		if line == "" {
			line = runewidth.Truncate(w, width, "…")
			continue
		}
		if runewidth.StringWidth(line)+1+runewidth.StringWidth(w) > width {
			lines = append(lines, line)
			line = runewidth.Truncate(w, width, "…")
			continue
		}
		line += " " + w
	}
	return append(lines, line)
}

// formatPercent renders a fraction in [0,1] as a whole percentage
func formatPercent(f float64) string {
	return fmt.Sprintf("%3.0f%%", f*100)
}

func formatCount(n, total int) string {
	return fmt.Sprintf("%d/%d", n, total)
}

func spaces(n int) string {
	return strings.Repeat(" ", max(0, n))
}
