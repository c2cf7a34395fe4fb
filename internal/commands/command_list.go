// internal/commands/command_list.go
package edumetrics

import (
	"fmt"
	"io"
	"strings"
)

// CommandInfo holds the path and description of a command for display.
type CommandInfo struct {
	Path        string `json:"path"`
	Description string `json:"description"`
}

// ListCommands prints the command tree in a two-column layout.
func ListCommands(out io.Writer, commands []CommandInfo) {
	width := 0
	for _, c := range commands {
		width = max(width, len(c.Path))
	}

	fmt.Fprintln(out, "Commands and Subcommands:")
	for _, c := range commands {
		fmt.Fprintf(out, "  %s%s%s\n", c.Path, strings.Repeat(" ", width-len(c.Path)+2), c.Description)
	}
}
