package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/orient/pkg/orientation"
)

// ══════════════════════════════════════════════════════════════════════════════
// COLOR PALETTE - Dracula-inspired
// ══════════════════════════════════════════════════════════════════════════════

var (
	ColorBgHighlight = lipgloss.Color("#44475A")
	ColorText        = lipgloss.Color("#F8F8F2")
	ColorMuted       = lipgloss.Color("#6272A4")

	ColorPrimary = lipgloss.Color("#BD93F9")
	ColorInfo    = lipgloss.Color("#8BE9FD")
	ColorSuccess = lipgloss.Color("#50FA7B")
	ColorWarning = lipgloss.Color("#FFB86C")

	// Orientation badge colors
	ColorPortrait    = lipgloss.Color("#8BE9FD")
	ColorPortraitBg  = lipgloss.Color("#1A3344")
	ColorLandscape   = lipgloss.Color("#FFB86C")
	ColorLandscapeBg = lipgloss.Color("#3D2A1A")
)

// ══════════════════════════════════════════════════════════════════════════════
// PANEL STYLES
// ══════════════════════════════════════════════════════════════════════════════

var (
	// PanelStyle is the default style for panels
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBgHighlight).
			Padding(0, SpaceSM)

	// FocusedPanelStyle highlights the orientation panel
	FocusedPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary).
				Padding(0, SpaceSM)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	LabelStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
	ValueStyle  = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	StatusStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	ErrorStyle  = lipgloss.NewStyle().Foreground(ColorWarning)
)

// RenderOrientationBadge returns a styled badge for o.
func RenderOrientationBadge(o orientation.Orientation) string {
	fg, bg, label := ColorPortrait, ColorPortraitBg, "PORTRAIT"
	if o == orientation.Landscape {
		fg, bg, label = ColorLandscape, ColorLandscapeBg, "LANDSCAPE"
	}
	return lipgloss.NewStyle().
		Foreground(fg).
		Background(bg).
		Bold(true).
		Padding(0, SpaceXS).
		Render(label)
}

// RenderFlag renders a boolean flag as a check or a dot.
func RenderFlag(name string, on bool) string {
	mark := lipgloss.NewStyle().Foreground(ColorMuted).Render("·")
	if on {
		mark = lipgloss.NewStyle().Foreground(ColorSuccess).Render("✓")
	}
	return fmt.Sprintf("%s %s", mark, LabelStyle.Render(name))
}

// RenderDivider renders a horizontal divider line
func RenderDivider(width int) string {
	if width <= 0 {
		return ""
	}
	return lipgloss.NewStyle().
		Foreground(ColorBgHighlight).
		Render(strings.Repeat("─", width))
}
