// internal/commands/show_config.go
package edumetrics

import (
	"github.com/mwiater/edumetrics/internal/appconfig"
	"github.com/mwiater/edumetrics/internal/console"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var dumpConfig bool

// showConfigCmd implements the 'show config' command, which displays the current configuration settings.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the config file is loaded properly and overridden by flags and EDUMETRICS_* environment variables accordingly.`,
	Run: func(cmd *cobra.Command, args []string) {
		if dumpConfig {
			console.Dump(cmd.OutOrStdout(), GetConfig())
			return
		}
		fallback := appconfig.Config{
			Data:      viper.GetString("data"),
			OutputDir: viper.GetString("outputDir"),
			Debug:     viper.GetBool("debug"),
			JSONMode:  viper.GetBool("jsonMode"),
		}
		appconfig.ShowConfig(cmd.OutOrStdout(), viper.ConfigFileUsed(), GetConfig(), fallback)
	},
}

func init() {
	showConfigCmd.Flags().BoolVar(&dumpConfig, "dump", false, "pretty-print the raw config struct")
	showCmd.AddCommand(showConfigCmd)
}
