// internal/commands/show.go
package edumetrics

import (
	"github.com/spf13/cobra"
)

// showCmd groups read-only views over the configuration and analysis.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show configuration or a single analysis view",
}

func init() {
	rootCmd.AddCommand(showCmd)
}
