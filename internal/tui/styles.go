// Package tui provides the bubbletea model used as a strobe surface and the
// lipgloss styles for console output.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Color palette for console output.
var (
	colorWhite  = lipgloss.Color("#FAFAFA")
	colorGray   = lipgloss.Color("#888888")
	colorYellow = lipgloss.Color("#FFD93D")
	colorRed    = lipgloss.Color("#FF6B6B")
	colorAccent = lipgloss.Color("#7D56F4")
)

var (
	bannerStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Background(colorAccent).
			Bold(true).
			Padding(0, 1)

	limitStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)
)

// RenderBanner formats the start banner.
func RenderBanner(interval time.Duration, limit string) string {
	head := bannerStyle.Render("strobe")
	body := fmt.Sprintf("Strobing every %v", interval)
	if limit != "" && limit != "none" {
		body += ", limit: " + limitStyle.Render(limit)
	}
	return head + " " + body
}

// RenderExit formats the clean-shutdown line. reason may be empty.
func RenderExit(reason string) string {
	if reason == "" {
		return "Exiting"
	}
	return "Exiting " + dimStyle.Render("("+reason+")")
}

// RenderError formats a fatal error for standard error.
func RenderError(err error) string {
	return errorStyle.Render("Error:") + " " + err.Error()
}
