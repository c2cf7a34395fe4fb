package appconfig

import (
	"fmt"
	"io"
	"strings"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg *Config, fallback Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	if cfg == nil {
		cfg = &fallback
	}
	meta := cfg.Meta()

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Data:             %s\n", valueOrNone(cfg.Data))
	fmt.Fprintf(out, "  Output Dir:       %s\n", cfg.OutputDirectory())
	fmt.Fprintf(out, "  Missing Policy:   %s\n", valueOr(cfg.MissingPolicy, "strict"))
	fmt.Fprintf(out, "  Max Marks:        %v\n", cfg.MaxMarks())
	fmt.Fprintf(out, "  Grading Scheme:   %s\n", valueOr(cfg.GradingScheme, "6-band"))
	fmt.Fprintf(out, "  Pivot Duplicates: %s\n", valueOr(cfg.PivotDuplicates, "last"))
	fmt.Fprintf(out, "  Top N:            %d\n", cfg.TopPerformers())
	fmt.Fprintf(out, "  Meta Columns:     id=%s name=%s semester=%s", meta.ID, meta.Name, meta.Semester)
	if len(meta.Extra) > 0 {
		fmt.Fprintf(out, " extra=%s", strings.Join(meta.Extra, ","))
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  HTML Report:      %v\n", cfg.WriteHTML())
	fmt.Fprintf(out, "  Analysis JSON:    %v\n", cfg.WriteAnalysisJSON())
	fmt.Fprintf(out, "  Workbook:         %v\n", cfg.Workbook)
	fmt.Fprintf(out, "  Debug:            %v\n", cfg.Debug)
	fmt.Fprintf(out, "  JSON Mode:        %v\n", cfg.JSONMode)
	fmt.Fprintf(out, "  Log File:         %s\n", cfg.LogFilePath())
	fmt.Fprintf(out, "  Log Level:        %s\n", cfg.LogLevelName())
}

func valueOr(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func valueOrNone(v string) string {
	return valueOr(v, "(none)")
}
