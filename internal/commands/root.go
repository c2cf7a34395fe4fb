// internal/commands/root.go
package edumetrics

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mwiater/edumetrics/internal/appconfig"
	"github.com/mwiater/edumetrics/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:          "edumetrics",
	Short:        "Student performance analysis for marks tables",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureConfigLoaded(); err != nil {
			return err
		}

		var cfg appconfig.Config
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
		cfg.ConfigPath = viper.ConfigFileUsed()
		if err := appconfig.Validate(cfg); err != nil {
			return err
		}
		currentConfig = &cfg

		level := cfg.LogLevelName()
		if cfg.Debug {
			level = "debug"
		}
		if err := logging.Init(cfg.LogFilePath(), level); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	err := rootCmd.Execute()
	_ = logging.Close()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (JSON or YAML)")

	flags.StringP("data", "d", "", "marks table to analyze (.csv or .xlsx)")
	flags.StringP("outputDir", "o", "", "directory for output artifacts (default \"output\")")
	flags.String("missingPolicy", "", "missing-mark policy: strict or zero-fill (default \"strict\")")
	flags.Float64("maxMarksPerSubject", 0, "maximum mark of each subject (default 100)")
	flags.String("gradingScheme", "", "grading scheme: 5-band or 6-band (default \"6-band\")")
	flags.String("pivotDuplicates", "", "duplicate student/semester policy: last, first or mean (default \"last\")")
	flags.Int("topN", 0, "number of top performers to report (default 10)")
	flags.String("idColumn", "", "student id column (default \"student_id\")")
	flags.String("nameColumn", "", "student name column (default \"name\")")
	flags.String("semesterColumn", "", "semester column (default \"semester\")")
	flags.StringSlice("extraColumns", nil, "additional non-subject columns")
	flags.Bool("htmlReport", true, "write report.html")
	flags.Bool("analysisJSON", true, "write analysis.json")
	flags.Bool("workbook", false, "also write summary.xlsx")
	flags.Bool("debug", false, "enable debug logging")
	flags.Bool("jsonMode", false, "print command results as JSON")
	flags.String("logFile", "", "path to the log file")
	flags.String("logLevel", "", "log level: debug, info, warn or error")

	bindings := map[string]string{
		"data":                 "data",
		"outputDir":            "outputDir",
		"missingPolicy":        "missingPolicy",
		"maxMarksPerSubject":   "maxMarksPerSubject",
		"gradingScheme":        "gradingScheme",
		"pivotDuplicates":      "pivotDuplicates",
		"topN":                 "topN",
		"metaColumns.id":       "idColumn",
		"metaColumns.name":     "nameColumn",
		"metaColumns.semester": "semesterColumn",
		"metaColumns.extra":    "extraColumns",
		"htmlReport":           "htmlReport",
		"analysisJSON":         "analysisJSON",
		"workbook":             "workbook",
		"debug":                "debug",
		"jsonMode":             "jsonMode",
		"logFile":              "logFile",
		"logLevel":             "logLevel",
	}
	for key, flag := range bindings {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}
}

// initConfig reads in the .env file, config file and ENV variables if set.
func initConfig() {
	_ = godotenv.Load()

	viper.SetEnvPrefix("EDUMETRICS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// ensureConfigLoaded reads the config file when one exists. A missing
// file means defaults; a present file must pass schema validation.
func ensureConfigLoaded() error {
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load config: %w", err)
	}
	if _, err := appconfig.Load(viper.ConfigFileUsed()); err != nil {
		return err
	}
	return nil
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	return currentConfig
}

// DebugEnabled returns true if debug mode is enabled.
func DebugEnabled() bool { return viper.GetBool("debug") }

// JSONModeEnabled returns true if JSON mode is enabled.
func JSONModeEnabled() bool { return viper.GetBool("jsonMode") }

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}
