package cmd

import (
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
)

// exampleResult is shown in the convert help to document the stdout
// JSON contract.
const exampleResult = `{
  "success": true,
  "input": "part.stl",
  "output": "part.step",
  "input_format": "stl",
  "tolerance": 0.01,
  "is_solid": true,
  "merged_planar_faces": true,
  "repairs": ["Mesh 1: Removed 10 duplicate points", "Mesh 1: Harmonized normals"],
  "output_size": 48123
}`

// renderConvertHelp renders the help text for the convert command with
// lipgloss styling.
func renderConvertHelp() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		MarginTop(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("10"))

	commandStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("14"))

	commentStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Italic(true)

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("Examples"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Convert an STL file"))
	b.WriteString("\n")
	b.WriteString("  " + commandStyle.Render("mesh2step convert part.stl part.step"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Convert a 3MF file with a custom tolerance"))
	b.WriteString("\n")
	b.WriteString("  " + commandStyle.Render("mesh2step convert model.3mf model.step --tolerance 0.05"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Convert without repairing the mesh"))
	b.WriteString("\n")
	b.WriteString("  " + commandStyle.Render("mesh2step convert scan.stl scan.step --no-repair"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Result (single JSON document on stdout)"))
	b.WriteString("\n")
	b.WriteString(indent(highlightJSON(exampleResult), "  "))
	b.WriteString("\n")
	b.WriteString(commentStyle.Render("  Logs go to stderr, stdout carries only the JSON result."))
	b.WriteString("\n")

	return b.String()
}

// highlightJSON colorizes the example with chroma, falling back to the
// plain text when the terminal formatter fails.
func highlightJSON(src string) string {
	var b strings.Builder
	if err := quick.Highlight(&b, src, "json", "terminal256", "monokai"); err != nil {
		return src
	}
	return b.String()
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
