// internal/console/console.go
// Package console renders analysis views for the terminal.
package console

import (
	"encoding/json"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/k0kubun/pp"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by --format.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	subtleStyle  = lipgloss.NewStyle().Faint(true)

	successLine = color.New(color.FgGreen)
	warningLine = color.New(color.FgYellow)
	failureLine = color.New(color.FgRed)
	infoLine    = color.New(color.FgCyan)
)

// ValidFormat reports whether name is a supported output format.
func ValidFormat(name string) bool {
	switch name {
	case FormatTable, FormatJSON, FormatYAML:
		return true
	}
	return false
}

// PrintJSON writes data as indented JSON.
func PrintJSON(out io.Writer, data any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// PrintYAML writes data as YAML.
func PrintYAML(out io.Writer, data any) error {
	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return encoder.Close()
}

// Print writes data in the structured format, or calls table for the
// table format.
func Print(out io.Writer, format string, data any, table func()) error {
	switch format {
	case FormatJSON:
		return PrintJSON(out, data)
	case FormatYAML:
		return PrintYAML(out, data)
	default:
		table()
		return nil
	}
}

// Dump pretty-prints any value for debugging.
func Dump(out io.Writer, v any) {
	pp.Fprintln(out, v)
}

// Heading writes a styled section title.
func Heading(out io.Writer, title string) {
	fmt.Fprintln(out, headingStyle.Render(title))
}

// Note writes a faint one-line remark.
func Note(out io.Writer, format string, args ...any) {
	fmt.Fprintln(out, subtleStyle.Render(fmt.Sprintf(format, args...)))
}

// Table renders rows under headers.
func Table(out io.Writer, headers []string, rows [][]string) {
	table := tablewriter.NewWriter(out)
	table.SetHeader(headers)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	for _, row := range rows {
		table.Append(row)
	}
	table.Render()
}

// Success prints a success message.
func Success(out io.Writer, format string, args ...any) {
	successLine.Fprintf(out, "✔ "+format+"\n", args...)
}

// Warning prints a warning message.
func Warning(out io.Writer, format string, args ...any) {
	warningLine.Fprintf(out, "! "+format+"\n", args...)
}

// Failure prints an error message.
func Failure(out io.Writer, format string, args ...any) {
	failureLine.Fprintf(out, "✘ "+format+"\n", args...)
}

// Info prints an informational message.
func Info(out io.Writer, format string, args ...any) {
	infoLine.Fprintf(out, "• "+format+"\n", args...)
}

// truncate shortens text to at most max runes, ending with an ellipsis.
func truncate(text string, max int) string {
	if max <= 0 || utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return string(runes[:max-1]) + "…"
}
