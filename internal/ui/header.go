package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Banner is the box printed above decoded output: a title, a subtitle and
// an ordered list of parameters.
type Banner struct {
	Title    string   // e.g., "INVERTER DATA"
	Subtitle string   // e.g., "Garage Roof (1700000001)"
	Params   []Detail // Rendered in order
	Width    int      // Terminal width for responsive rendering
}

// NewBanner creates a new banner sized to the terminal
func NewBanner(title, subtitle string, params ...Detail) *Banner {
	return &Banner{
		Title:    title,
		Subtitle: subtitle,
		Params:   params,
		Width:    GetTerminalWidth(),
	}
}

// SetWidth sets the terminal width for responsive rendering
func (b *Banner) SetWidth(width int) *Banner {
	b.Width = width
	return b
}

// Render returns the styled banner as a string
func (b *Banner) Render() string {
	width := clampWidth(b.Width)

	top := BannerTitleStyle.Render(strings.ToUpper(b.Title))
	if b.Subtitle != "" {
		top = lipgloss.JoinVertical(lipgloss.Left, top, BannerSubtitleStyle.Render(b.Subtitle))
	}

	content := top
	if len(b.Params) > 0 {
		dividerWidth := width - 6
		if dividerWidth < 10 {
			dividerWidth = 10
		}
		divider := RenderHorizontalDivider(dividerWidth, "─")

		lines := make([]string, 0, len(b.Params))
		for _, p := range b.Params {
			lines = append(lines, "  "+p.render())
		}
		content = lipgloss.JoinVertical(lipgloss.Left, top, divider, strings.Join(lines, "\n"))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Width(width - 2).
		Render(content)
}

// String implements fmt.Stringer
func (b *Banner) String() string {
	return b.Render()
}
