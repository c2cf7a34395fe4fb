// internal/commands/list_commands.go
package edumetrics

import (
	"strings"

	"github.com/mwiater/edumetrics/internal/console"
	"github.com/spf13/cobra"
)

// commandsCmd implements 'list commands', which prints the command tree
// with each path beside its short description.
var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List all commands and subcommands in two columns",
	RunE: func(cmd *cobra.Command, args []string) error {
		commands := visibleCommands(collectCommandData(rootCmd, "", ""))
		if JSONModeEnabled() {
			return console.PrintJSON(cmd.OutOrStdout(), commands)
		}
		ListCommands(cmd.OutOrStdout(), commands)
		return nil
	},
}

func init() {
	listCmd.AddCommand(commandsCmd)
}

// visibleCommands drops shell completion and help entries.
func visibleCommands(all []CommandInfo) []CommandInfo {
	filtered := make([]CommandInfo, 0, len(all))
	for _, data := range all {
		path := strings.TrimSpace(data.Path)
		if strings.Contains(path, "completion") || strings.HasSuffix(path, " help") {
			continue
		}
		filtered = append(filtered, data)
	}
	return filtered
}

// collectCommandData walks the command tree and returns a flattened slice
// of indented path/description pairs.
func collectCommandData(cmd *cobra.Command, currentPath string, indent string) []CommandInfo {
	fullPath := cmd.Name()
	if currentPath != "" {
		fullPath = currentPath + " " + cmd.Name()
	}

	all := []CommandInfo{{Path: indent + fullPath, Description: cmd.Short}}
	for _, sub := range cmd.Commands() {
		all = append(all, collectCommandData(sub, fullPath, indent+"  ")...)
	}
	return all
}
