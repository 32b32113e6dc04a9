package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ResultType indicates success or failure
type ResultType int

const (
	ResultSuccess ResultType = iota
	ResultFailure
	ResultWarning
)

// Detail is one key/value line in a box
type Detail struct {
	Key   string
	Value string
}

func (d Detail) render() string {
	return ResultKeyStyle.Render(d.Key+":") + " " + ResultValueStyle.Render(d.Value)
}

// Section is a titled group of details inside a result box
type Section struct {
	Title   string
	Details []Detail
}

// Result represents a result box (success, failure, or warning)
type Result struct {
	Type     ResultType // Success, failure, or warning
	Title    string     // e.g., "InverterData decoded"
	Details  []Detail   // Rendered in order
	Sections []Section  // Rendered after Details
	Error    error      // Error (for failure results)
	Width    int        // Terminal width
}

// NewSuccessResult creates a success result box
func NewSuccessResult(title string, details ...Detail) *Result {
	return &Result{Type: ResultSuccess, Title: title, Details: details, Width: GetTerminalWidth()}
}

// NewFailureResult creates a failure result box
func NewFailureResult(title string, err error) *Result {
	return &Result{Type: ResultFailure, Title: title, Error: err, Width: GetTerminalWidth()}
}

// NewWarningResult creates a warning result box
func NewWarningResult(title string, details ...Detail) *Result {
	return &Result{Type: ResultWarning, Title: title, Details: details, Width: GetTerminalWidth()}
}

// SetWidth sets the terminal width for responsive rendering
func (r *Result) SetWidth(width int) *Result {
	r.Width = width
	return r
}

// AddDetail appends a detail key-value pair
func (r *Result) AddDetail(key, value string) *Result {
	r.Details = append(r.Details, Detail{Key: key, Value: value})
	return r
}

// AddSection appends a titled group of details
func (r *Result) AddSection(title string, details []Detail) *Result {
	r.Sections = append(r.Sections, Section{Title: title, Details: details})
	return r
}

// Render returns the styled result box as a string
func (r *Result) Render() string {
	width := clampWidth(r.Width)

	var (
		titleStyle lipgloss.Style
		label      string
		marker     string
		border     lipgloss.Color
	)
	switch r.Type {
	case ResultFailure:
		titleStyle, label, marker, border = ErrorTitleStyle, "FAILED", FailureMarker, ErrorColor
	case ResultWarning:
		titleStyle, label, marker, border = WarningTitleStyle, "WARNING", WarningMarker, WarningColor
	default:
		titleStyle, label, marker, border = SuccessTitleStyle, "OK", SuccessMarker, SuccessColor
	}

	lines := []string{
		"",
		titleStyle.Render(fmt.Sprintf(" %s  %s  ─  %s", marker, label, r.Title)),
		"",
	}

	if r.Error != nil {
		lines = append(lines, ErrorMessageStyle.Render(" Error: "+r.Error.Error()), "")
	}

	for _, d := range r.Details {
		lines = append(lines, " "+d.render())
	}

	for _, s := range r.Sections {
		lines = append(lines, "", " "+SectionTitleStyle.Render(s.Title))
		for _, d := range s.Details {
			lines = append(lines, "   "+d.render())
		}
	}
	lines = append(lines, "")

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(border).
		Width(width-2).
		Padding(0, 2).
		Render(strings.Join(lines, "\n"))
}

// String implements fmt.Stringer
func (r *Result) String() string {
	return r.Render()
}

// RenderFailure renders a failure box with the given title and error
func RenderFailure(title string, err error) string {
	return NewFailureResult(title, err).Render()
}
