// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/capwire/capwire/internal/config"
)

// Palette shared by every command, tuned for dark terminals.
const (
	ColorPrimary   = lipgloss.Color("#7C3AED")
	ColorMuted     = lipgloss.Color("#6B7280")
	ColorSuccess   = lipgloss.Color("#10B981")
	ColorError     = lipgloss.Color("#EF4444")
	ColorWarning   = lipgloss.Color("#F59E0B")
	ColorHighlight = lipgloss.Color("#3B82F6")
)

var (
	TitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	SubtitleStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	SuccessStyle  = lipgloss.NewStyle().Foreground(ColorSuccess)
	ErrorStyle    = lipgloss.NewStyle().Bold(true).Foreground(ColorError)
	WarningStyle  = lipgloss.NewStyle().Foreground(ColorWarning)
	CmdStyle      = lipgloss.NewStyle().Foreground(ColorHighlight)

	contextStyle = lipgloss.NewStyle().Bold(true)
	reasonStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorWarning).Width(17)
	detailStyle  = lipgloss.NewStyle().Foreground(ColorMuted).PaddingLeft(6)

	successIcon = SuccessStyle.Render("✓")
	errorIcon   = ErrorStyle.Render("✗")
	warningIcon = WarningStyle.Render("!")
)

// applyColorMode forces or disables color. Auto leaves lipgloss's terminal
// detection in place.
func applyColorMode(mode config.ColorMode) {
	switch mode {
	case config.ColorAlways:
		lipgloss.SetColorProfile(termenv.TrueColor)
	case config.ColorNever:
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// markdownStyle picks the glamour style for explain output.
func markdownStyle(mode config.ColorMode) string {
	if mode == config.ColorNever || lipgloss.ColorProfile() == termenv.Ascii {
		return "notty"
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}
