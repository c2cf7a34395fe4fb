// internal/commands/analyze.go
package edumetrics

import (
	"github.com/spf13/cobra"
)

// analyzeCmd hosts commands that run the marks analysis and write reports.
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze marks tables",
	Long: `Tools for processing marks tables. Use these commands to turn a raw CSV or
XLSX marks sheet into per-student results, subject statistics, a semester
pivot and an interactive HTML report.`,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
