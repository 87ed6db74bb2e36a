package output

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles holds the lipgloss styles used for text output.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style

	FilePath lipgloss.Style
	Label    lipgloss.Style
	Code     lipgloss.Style

	StatusSuccess lipgloss.Style
	StatusFailed  lipgloss.Style
	StatusSkipped lipgloss.Style
}

// NewStyles creates the style set bound to a lipgloss renderer. A renderer
// without color support yields plain text.
func NewStyles(lr *lipgloss.Renderer) *Styles {
	green := lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#81C784"}
	yellow := lipgloss.AdaptiveColor{Light: "#B26A00", Dark: "#FFD54F"}
	red := lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#E57373"}
	blue := lipgloss.AdaptiveColor{Light: "#1565C0", Dark: "#64B5F6"}
	gray := lipgloss.AdaptiveColor{Light: "#757575", Dark: "#9E9E9E"}
	purple := lipgloss.AdaptiveColor{Light: "#6A1B9A", Dark: "#CE93D8"}

	return &Styles{
		Header1: lr.NewStyle().Bold(true).Foreground(blue),
		Header2: lr.NewStyle().Bold(true),
		Bold:    lr.NewStyle().Bold(true),
		Muted:   lr.NewStyle().Foreground(gray),

		Success: lr.NewStyle().Foreground(green),
		Warning: lr.NewStyle().Foreground(yellow),
		Error:   lr.NewStyle().Foreground(red).Bold(true),
		Info:    lr.NewStyle().Foreground(blue),

		FilePath: lr.NewStyle().Foreground(blue),
		Label:    lr.NewStyle().Foreground(purple).Bold(true),
		Code:     lr.NewStyle().Foreground(purple),

		StatusSuccess: lr.NewStyle().Foreground(green).SetString("✓"),
		StatusFailed:  lr.NewStyle().Foreground(red).SetString("✗"),
		StatusSkipped: lr.NewStyle().Foreground(gray).SetString("-"),
	}
}
