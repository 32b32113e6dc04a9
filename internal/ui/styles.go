package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette for decoded frame output
var (
	PrimaryColor = lipgloss.Color("#7D56F4") // Purple - headers, borders
	SuccessColor = lipgloss.Color("#43BF6D") // Green - valid frames, responses
	ErrorColor   = lipgloss.Color("#FF5555") // Red - decode failures
	WarningColor = lipgloss.Color("#FFA500") // Orange - historical records
	MutedColor   = lipgloss.Color("#626262") // Gray - keys, reserved fields
	TextColor    = lipgloss.Color("#FFFFFF") // White - values
)

// Layout constants
const (
	MinTerminalWidth = 60  // Minimum supported terminal width
	MaxContentWidth  = 100 // Maximum content width before capping
	KeyColumnWidth   = 26  // Width of the key column in detail boxes
)

var (
	// BannerTitleStyle is for the banner title (e.g., "INVERTER DATA")
	BannerTitleStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				Bold(true).
				PaddingLeft(2)

	// BannerSubtitleStyle is for the line under the title (e.g., the logger name)
	BannerSubtitleStyle = lipgloss.NewStyle().
				Foreground(MutedColor).
				PaddingLeft(2)

	// SectionTitleStyle is for headings inside a box (e.g., "Reserved")
	SectionTitleStyle = lipgloss.NewStyle().
				Foreground(MutedColor).
				Bold(true)

	// SuccessTitleStyle is for the success result title
	SuccessTitleStyle = lipgloss.NewStyle().
				Foreground(SuccessColor).
				Bold(true)

	// ErrorTitleStyle is for the error result title
	ErrorTitleStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	// WarningTitleStyle is for the warning result title
	WarningTitleStyle = lipgloss.NewStyle().
				Foreground(WarningColor).
				Bold(true)

	// ErrorMessageStyle is for error message text
	ErrorMessageStyle = lipgloss.NewStyle().
				Foreground(ErrorColor)

	// ResultKeyStyle is for detail keys
	ResultKeyStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Width(KeyColumnWidth)

	// ResultValueStyle is for detail values
	ResultValueStyle = lipgloss.NewStyle().
				Foreground(TextColor)

	// HexStyle is for raw frame bytes
	HexStyle = lipgloss.NewStyle().
			Foreground(MutedColor)
)

// Status markers
const (
	SuccessMarker = "✓"
	FailureMarker = "✗"
	WarningMarker = "⚠"
)

// GetTerminalWidth returns the current terminal width, with fallback
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return MaxContentWidth
	}
	return clampWidth(width)
}

func clampWidth(width int) int {
	if width < MinTerminalWidth {
		return MinTerminalWidth
	}
	if width > MaxContentWidth {
		return MaxContentWidth
	}
	return width
}

// RenderHorizontalDivider creates a horizontal line of the specified width
func RenderHorizontalDivider(width int, char string) string {
	return lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Render(strings.Repeat(char, width))
}
