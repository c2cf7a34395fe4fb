// internal/commands/options.go
package edumetrics

import (
	"errors"

	"github.com/mwiater/edumetrics/internal/appconfig"
	"github.com/mwiater/edumetrics/internal/pipeline"
)

// errNoData is returned when neither the config nor --data names a table.
var errNoData = errors.New("no marks table given (pass --data or set \"data\" in the config)")

// pipelineOptions converts the loaded configuration into pipeline options.
func pipelineOptions(cfg *appconfig.Config) (pipeline.Options, error) {
	if cfg == nil {
		cfg = &appconfig.Config{}
	}
	if cfg.Data == "" {
		return pipeline.Options{}, errNoData
	}

	perf, err := cfg.Performance()
	if err != nil {
		return pipeline.Options{}, err
	}
	dups, err := cfg.Duplicates()
	if err != nil {
		return pipeline.Options{}, err
	}

	return pipeline.Options{
		DataPath:     cfg.Data,
		OutputDir:    cfg.OutputDirectory(),
		Meta:         cfg.Meta(),
		Performance:  perf,
		Duplicates:   dups,
		TopN:         cfg.TopPerformers(),
		HTML:         cfg.WriteHTML(),
		AnalysisJSON: cfg.WriteAnalysisJSON(),
		Workbook:     cfg.Workbook,
	}, nil
}
