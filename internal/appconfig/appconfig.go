// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mwiater/edumetrics/internal/grading"
	"github.com/mwiater/edumetrics/internal/marks"
	"github.com/mwiater/edumetrics/internal/metrics"
	"github.com/mwiater/edumetrics/internal/performance"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// defaultOutputDir receives the artifacts when outputDir is not set.
	defaultOutputDir = "output"
	// defaultTopN is the size of the top performers table.
	defaultTopN = 10
	// defaultLogFile is written next to the working directory.
	defaultLogFile = "edumetrics.log"
	// defaultLogLevel applies when logLevel is not set.
	defaultLogLevel = "info"
)

// ErrInvalidConfig wraps every schema or value error in a configuration.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config represents the top-level application configuration.
type Config struct {
	Data               string            `json:"data,omitempty" mapstructure:"data" yaml:"data,omitempty"`
	OutputDir          string            `json:"outputDir,omitempty" mapstructure:"outputDir" yaml:"outputDir,omitempty"`
	MissingPolicy      string            `json:"missingPolicy,omitempty" mapstructure:"missingPolicy" yaml:"missingPolicy,omitempty"`
	MaxMarksPerSubject float64           `json:"maxMarksPerSubject,omitempty" mapstructure:"maxMarksPerSubject" yaml:"maxMarksPerSubject,omitempty"`
	MetaColumns        marks.MetaColumns `json:"metaColumns" mapstructure:"metaColumns" yaml:"metaColumns"`
	GradingScheme      string            `json:"gradingScheme,omitempty" mapstructure:"gradingScheme" yaml:"gradingScheme,omitempty"`
	PivotDuplicates    string            `json:"pivotDuplicates,omitempty" mapstructure:"pivotDuplicates" yaml:"pivotDuplicates,omitempty"`
	TopN               int               `json:"topN,omitempty" mapstructure:"topN" yaml:"topN,omitempty"`
	HTMLReport         *bool             `json:"htmlReport,omitempty" mapstructure:"htmlReport" yaml:"htmlReport,omitempty"`
	AnalysisJSON       *bool             `json:"analysisJSON,omitempty" mapstructure:"analysisJSON" yaml:"analysisJSON,omitempty"`
	Workbook           bool              `json:"workbook" mapstructure:"workbook" yaml:"workbook"`
	Debug              bool              `json:"debug" mapstructure:"debug" yaml:"debug"`
	JSONMode           bool              `json:"jsonMode" mapstructure:"jsonMode" yaml:"jsonMode"`
	LogFile            string            `json:"logFile,omitempty" mapstructure:"logFile" yaml:"logFile,omitempty"`
	LogLevel           string            `json:"logLevel,omitempty" mapstructure:"logLevel" yaml:"logLevel,omitempty"`
	ConfigPath         string            `json:"-" mapstructure:"-" yaml:"-"`
}

// OutputDirectory returns the artifact directory, applying a default if not set.
func (c Config) OutputDirectory() string {
	if dir := strings.TrimSpace(c.OutputDir); dir != "" {
		return dir
	}
	return defaultOutputDir
}

// MaxMarks returns the per-subject maximum mark, falling back to 100.
func (c Config) MaxMarks() float64 {
	if c.MaxMarksPerSubject <= 0 {
		return performance.DefaultMaxMarks
	}
	return c.MaxMarksPerSubject
}

// TopPerformers returns how many ranked records to report.
func (c Config) TopPerformers() int {
	if c.TopN <= 0 {
		return defaultTopN
	}
	return c.TopN
}

// WriteHTML reports whether report.html is produced. Defaults to true.
func (c Config) WriteHTML() bool {
	return c.HTMLReport == nil || *c.HTMLReport
}

// WriteAnalysisJSON reports whether analysis.json is produced. Defaults to true.
func (c Config) WriteAnalysisJSON() bool {
	return c.AnalysisJSON == nil || *c.AnalysisJSON
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := strings.TrimSpace(c.LogFile); path != "" {
		return path
	}
	return defaultLogFile
}

// LogLevelName returns the configured log level, defaulting to info.
func (c Config) LogLevelName() string {
	if level := strings.TrimSpace(c.LogLevel); level != "" {
		return level
	}
	return defaultLogLevel
}

// Meta returns the meta column names with blank roles defaulted.
func (c Config) Meta() marks.MetaColumns {
	return c.MetaColumns.WithDefaults()
}

// Performance builds the aggregation config.
func (c Config) Performance() (performance.Config, error) {
	policy, err := performance.ParsePolicy(c.MissingPolicy)
	if err != nil {
		return performance.Config{}, err
	}
	scheme, err := grading.ParseScheme(c.GradingScheme)
	if err != nil {
		return performance.Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	cfg := performance.Config{Policy: policy, MaxMarksPerSubject: c.MaxMarks(), Scheme: scheme}
	return cfg, cfg.Validate()
}

// Duplicates returns the pivot duplicate policy.
func (c Config) Duplicates() (metrics.DuplicatePolicy, error) {
	policy, err := metrics.ParseDuplicatePolicy(c.PivotDuplicates)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return policy, nil
}

// Load reads a JSON or YAML configuration document, validates it against
// the configuration schema and decodes it.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("no configuration file found at %q: %w", path, err)
		}
		return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
	}

	document, err := toJSON(path, data)
	if err != nil {
		return Config{}, fmt.Errorf("could not parse config file %q: %w", path, err)
	}
	if err := validateDocument(document); err != nil {
		return Config{}, fmt.Errorf("config file %q: %w", path, err)
	}

	var config Config
	if err := json.Unmarshal(document, &config); err != nil {
		return Config{}, fmt.Errorf("could not decode config file %q: %w", path, err)
	}
	config.ConfigPath = path
	return config, nil
}

// toJSON normalises YAML documents to JSON so one schema covers both.
func toJSON(path string, data []byte) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc map[string]any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		if doc == nil {
			doc = map[string]any{}
		}
		return json.Marshal(doc)
	default:
		if !json.Valid(data) {
			var probe any
			return nil, json.Unmarshal(data, &probe)
		}
		return data, nil
	}
}

// Validate checks a merged configuration against the schema and resolves
// every named policy.
func Validate(cfg Config) error {
	document, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := validateDocument(document); err != nil {
		return err
	}
	if _, err := cfg.Performance(); err != nil {
		return err
	}
	if _, err := cfg.Duplicates(); err != nil {
		return err
	}
	return nil
}
