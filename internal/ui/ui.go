package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// All human readable output goes to stderr. Stdout is reserved for the
// JSON conversion result.

var (
	// Color palette
	primaryColor   = lipgloss.Color("#7D56F4") // Purple
	secondaryColor = lipgloss.Color("#00D9FF") // Cyan
	successColor   = lipgloss.Color("#04B575") // Green
	errorColor     = lipgloss.Color("#FF5F87") // Pink/Red
	warningColor   = lipgloss.Color("#FFAF00") // Orange
	mutedColor     = lipgloss.Color("#626262") // Gray
	accentColor    = lipgloss.Color("#FFD700") // Gold

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginTop(1).
			MarginBottom(1).
			PaddingLeft(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(secondaryColor).
			MarginTop(1).
			PaddingLeft(1)

	successStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	infoStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	checkmark = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true).
			SetString("✓")

	cross = lipgloss.NewStyle().
		Foreground(errorColor).
		Bold(true).
		SetString("✗")

	arrow = lipgloss.NewStyle().
		Foreground(secondaryColor).
		SetString("→")

	dot = lipgloss.NewStyle().
		Foreground(mutedColor).
		SetString("•")

	stepStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	itemStyle = lipgloss.NewStyle().
			PaddingLeft(4).
			Foreground(lipgloss.Color("#FAFAFA"))

	highlightStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)
)

// PrintTitle prints a major title (for app name or major sections)
func PrintTitle(title string) {
	fmt.Fprintln(os.Stderr, titleStyle.Render("╭─ "+title+" ─╮"))
}

// PrintHeader prints a section header
func PrintHeader(title string) {
	fmt.Fprintln(os.Stderr, headerStyle.Render("\n▸ "+title))
}

// PrintStep prints a step with indentation
func PrintStep(step string) {
	fmt.Fprintln(os.Stderr, stepStyle.Render(arrow.String()+" "+step))
}

// PrintItem prints an item in a list
func PrintItem(item string) {
	fmt.Fprintln(os.Stderr, itemStyle.Render(dot.String()+" "+item))
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Fprintln(os.Stderr, stepStyle.Render(checkmark.String()+" "+successStyle.Render(message)))
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Fprintln(os.Stderr, stepStyle.Render(cross.String()+" "+errorStyle.Render(message)))
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Fprintln(os.Stderr, stepStyle.Render("⚠ "+warningStyle.Render(message)))
}

// PrintInfo prints an info message
func PrintInfo(message string) {
	fmt.Fprintln(os.Stderr, stepStyle.Render(infoStyle.Render(message)))
}

// PrintHighlight prints highlighted text
func PrintHighlight(message string) {
	fmt.Fprintln(os.Stderr, stepStyle.Render(highlightStyle.Render(message)))
}

// PrintKeyValue prints a key-value pair with nice formatting
func PrintKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().
		Foreground(secondaryColor).
		Bold(true)
	fmt.Fprintln(os.Stderr, stepStyle.Render(keyStyle.Render(key+":")+" "+value))
}

// PrintSeparator prints a visual separator
func PrintSeparator() {
	separator := lipgloss.NewStyle().
		Foreground(mutedColor).
		Render(strings.Repeat("─", 45))
	fmt.Fprintln(os.Stderr, separator)
}
