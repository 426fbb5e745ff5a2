package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/kith/internal/core/domain"
)

// Palette used for status output.
var (
	colourPrimary = lipgloss.Color("#7C3AED") // Purple
	colourMuted   = lipgloss.Color("#6C7086") // Medium gray
	colourSuccess = lipgloss.Color("#A6E3A1") // Green
	colourInfo    = lipgloss.Color("#06B6D4") // Cyan
	colourWarning = lipgloss.Color("#F9E2AF") // Yellow
	colourError   = lipgloss.Color("#F38BA8") // Red
)

// styles contains pre-configured lipgloss styles for command output.
// Colour is dropped automatically when output is not a terminal.
type styles struct {
	Title   lipgloss.Style
	Muted   lipgloss.Style
	Added   lipgloss.Style
	Updated lipgloss.Style
	Skipped lipgloss.Style
	Error   lipgloss.Style
}

func newStyles() *styles {
	return &styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(colourPrimary),

		Muted: lipgloss.NewStyle().
			Foreground(colourMuted),

		Added: lipgloss.NewStyle().
			Foreground(colourSuccess),

		Updated: lipgloss.NewStyle().
			Foreground(colourInfo),

		Skipped: lipgloss.NewStyle().
			Foreground(colourWarning),

		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(colourError),
	}
}

var style = newStyles()

// status returns the style for a file status.
func (s *styles) status(status domain.FileStatus) lipgloss.Style {
	switch status {
	case domain.FileStatusAdded:
		return s.Added
	case domain.FileStatusUpdated:
		return s.Updated
	case domain.FileStatusSkipped:
		return s.Skipped
	default:
		return s.Error
	}
}
