package form

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette for the injections form
var (
	PrimaryColor = lipgloss.Color("#7D56F4") // Purple - headers, focused rows
	SuccessColor = lipgloss.Color("#43BF6D") // Green - saved notifications
	ErrorColor   = lipgloss.Color("#FF5555") // Red - errors
	WarningColor = lipgloss.Color("#FFA500") // Orange - dirty marker, gates
	MutedColor   = lipgloss.Color("#626262") // Gray - secondary info
	TextColor    = lipgloss.Color("#FFFFFF") // White - main content
)

// Layout constants
const (
	MinTerminalWidth = 60  // Minimum supported terminal width
	MaxContentWidth  = 100 // Maximum content width before capping
)

var (
	// TitleStyle is for the form title line
	TitleStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Bold(true)

	// HeaderStyle is for collapsed injection headers
	HeaderStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			PaddingLeft(1)

	// ActiveHeaderStyle is for the expanded injection header
	ActiveHeaderStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true).
				PaddingLeft(1)

	// FieldLabelStyle is for the "label:" / "selector:" captions
	FieldLabelStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Width(10)

	// FocusedFieldLabelStyle marks the caption of the focused input
	FocusedFieldLabelStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true).
				Width(10)

	// FieldErrorStyle is for inline validation messages
	FieldErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			PaddingLeft(12)

	// PreviewBoxStyle frames a row's rendered preview
	PreviewBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(MutedColor).
			Padding(0, 1).
			MarginLeft(4)

	// PreviewErrStyle is for preview failures inside the box
	PreviewErrStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// NoticeStyle is for the ineligibility explanation
	NoticeStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			PaddingLeft(1)

	// DirtyStyle marks unsaved changes in the status line
	DirtyStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	// SuccessNoteStyle is for success notifications
	SuccessNoteStyle = lipgloss.NewStyle().
				Foreground(SuccessColor)

	// ErrorNoteStyle is for error notifications
	ErrorNoteStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// PromptBoxStyle frames the new-injection source field prompt
	PromptBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(PrimaryColor).
			Padding(1, 2)

	// HelpStyle dims the help line
	HelpStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	// SpinnerStyle colors the save spinner
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)
)

// Accordion markers
const (
	MarkerCollapsed = "▸"
	MarkerExpanded  = "▾"
	DirtyMarker     = "●"
)

// GetTerminalWidth returns the current terminal width, with fallback
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < MinTerminalWidth {
		return MinTerminalWidth
	}
	if width > MaxContentWidth {
		return MaxContentWidth
	}
	return width
}
