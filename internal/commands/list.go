// internal/commands/list.go
package edumetrics

import (
	"github.com/spf13/cobra"
)

// listCmd groups listing commands.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available items",
}

func init() {
	rootCmd.AddCommand(listCmd)
}
