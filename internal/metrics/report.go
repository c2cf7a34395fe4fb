// internal/metrics/report.go
package metrics

import (
	"bytes"
	"encoding/json"
	"html/template"

	"github.com/mwiater/edumetrics/internal/grading"
	"github.com/mwiater/edumetrics/internal/marks"
)

type reportData struct {
	Title        string
	Analysis     Analysis
	AnalysisJSON template.JS
}

// GenerateReport renders a standalone HTML summary of an analysis.
func GenerateReport(analysis Analysis) (string, error) {
	payload, err := json.Marshal(analysis)
	if err != nil {
		return "", err
	}

	viewModel := reportData{
		Title:        "edumetrics: Student Performance Report",
		Analysis:     analysis,
		AnalysisJSON: template.JS(payload),
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, viewModel); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var reportFuncs = template.FuncMap{
	"value": func(v marks.Value) string {
		if !v.Valid {
			return "—"
		}
		return v.String()
	},
	"cell": func(row PivotRow, semester string) string {
		v, ok := row.Cell(semester)
		if !ok {
			return ""
		}
		if !v.Valid {
			return "—"
		}
		return v.String()
	},
	"percent": func(share float64) string {
		return marks.Some(share * 100).String()
	},
	"gradeClass": func(g grading.Grade) string {
		switch g {
		case "A+", "A":
			return "bg-success"
		case "B", "C":
			return "bg-primary"
		case "D":
			return "bg-warning"
		case grading.NA:
			return "bg-secondary"
		default:
			return "bg-danger"
		}
	},
}

var reportTemplate = template.Must(template.New("marks-report").Funcs(reportFuncs).Parse(reportTemplateHTML))

const reportTemplateHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{ .Title }}</title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css">
  <style>
    :root {
      --primary: #334155;
      --secondary: #64748B;
      --accent: #3B82F6;
      --light: #F1F5F9;
      --background: #FFFFFF;
      --text: #0F172A;
      --success: #10B981;
      --warning: #F59E0B;
      --border: #E2E8F0;
    }
    body {
      background-color: var(--light);
      color: var(--text);
    }
    .bg-dark {
      background-color: var(--primary) !important;
    }
    .card {
      border: 1px solid var(--border);
      background-color: var(--background);
    }
    .table thead th {
      background-color: var(--light);
      color: var(--text);
      border-color: var(--border);
    }
    .stat-value {
      font-size: 1.75rem;
      font-weight: 700;
    }
    .stat-label {
      color: var(--secondary);
      text-transform: uppercase;
      font-size: 0.8rem;
    }
    .badge.bg-primary { background-color: var(--accent) !important; }
    .badge.bg-success { background-color: var(--success) !important; }
    .badge.bg-warning { background-color: var(--warning) !important; color: var(--background) !important; }
    .badge.bg-danger { background-color: #DC2626 !important; }
    .badge.bg-secondary { background-color: var(--secondary) !important; }
  </style>
</head>
<body>
  <nav class="navbar navbar-dark bg-dark">
    <div class="container-fluid">
      <span class="navbar-brand mb-0 h1">{{ .Title }}</span>
      <span class="text-light small">{{ .Analysis.Source.Path }} &middot; run {{ .Analysis.RunID }} &middot; {{ .Analysis.GeneratedAt.Format "2006-01-02 15:04:05 MST" }}</span>
    </div>
  </nav>

  <main class="container-fluid py-4">
    {{ with .Analysis.Overview }}
    <div class="row g-3 mb-4">
      <div class="col-md-3"><div class="card p-3"><div class="stat-label">Records</div><div class="stat-value">{{ .Records }}</div></div></div>
      <div class="col-md-3"><div class="card p-3"><div class="stat-label">Students</div><div class="stat-value">{{ .Students }}</div></div></div>
      <div class="col-md-3"><div class="card p-3"><div class="stat-label">Class average %</div><div class="stat-value">{{ value .ClassAverage }}</div></div></div>
      <div class="col-md-3"><div class="card p-3"><div class="stat-label">Top performer</div><div class="stat-value">{{ if .TopPerformer }}{{ .TopPerformer.Name }}{{ else }}—{{ end }}</div></div></div>
    </div>

    <div class="card p-3 mb-4">
      <h5>Grade distribution</h5>
      <table class="table table-sm table-bordered mb-0">
        <thead><tr><th>Grade</th><th>Count</th><th>Share %</th></tr></thead>
        <tbody>
        {{ range .GradeDistribution }}
          <tr><td><span class="badge {{ gradeClass .Grade }}">{{ .Grade }}</span></td><td>{{ .Count }}</td><td>{{ percent .Share }}</td></tr>
        {{ end }}
        </tbody>
      </table>
    </div>
    {{ end }}

    <div class="card p-3 mb-4">
      <h5>Top performers</h5>
      <table class="table table-sm table-striped table-bordered mb-0">
        <thead><tr><th>#</th><th>Student ID</th><th>Name</th><th>Semester</th><th>Total</th><th>Percentage</th><th>Grade</th></tr></thead>
        <tbody>
        {{ range .Analysis.TopPerformers }}
          <tr><td>{{ .Position }}</td><td>{{ .StudentID }}</td><td>{{ .Name }}</td><td>{{ .Semester }}</td><td>{{ value .Total }}</td><td>{{ value .Percentage }}</td><td><span class="badge {{ gradeClass .Grade }}">{{ .Grade }}</span></td></tr>
        {{ end }}
        </tbody>
      </table>
    </div>

    <div class="card p-3 mb-4">
      <h5>Subject statistics</h5>
      <table class="table table-sm table-striped table-bordered mb-0">
        <thead><tr><th>Subject</th><th>Count</th><th>Average</th><th>Median</th><th>Max</th><th>Min</th><th>Std dev</th></tr></thead>
        <tbody>
        {{ range .Analysis.SubjectStats }}
          <tr><td>{{ .Subject }}{{ if .NoData }} <span class="badge bg-secondary">no data</span>{{ end }}</td><td>{{ .Count }}</td><td>{{ value .Mean }}</td><td>{{ value .Median }}</td><td>{{ value .Max }}</td><td>{{ value .Min }}</td><td>{{ value .StdDev }}</td></tr>
        {{ end }}
        </tbody>
      </table>
    </div>

    <div class="card p-3 mb-4">
      <h5>Percentage by semester</h5>
      <table class="table table-sm table-bordered mb-0">
        <thead><tr><th>Student ID</th><th>Name</th>{{ range .Analysis.Pivot.Semesters }}<th>{{ . }}</th>{{ end }}</tr></thead>
        <tbody>
        {{ $semesters := .Analysis.Pivot.Semesters }}
        {{ range $row := .Analysis.Pivot.Rows }}
          <tr><td>{{ $row.ID }}</td><td>{{ $row.Name }}</td>{{ range $semesters }}<td>{{ cell $row . }}</td>{{ end }}</tr>
        {{ end }}
        </tbody>
      </table>
    </div>

    {{ if .Analysis.Issues }}
    <div class="card p-3 mb-4">
      <h5>Data quality</h5>
      <ul class="mb-0">
      {{ range .Analysis.Issues }}
        <li><span class="badge {{ if eq .Severity "warning" }}bg-warning{{ else }}bg-secondary{{ end }}">{{ .Severity }}</span> {{ .Message }}</li>
      {{ end }}
      </ul>
    </div>
    {{ end }}
  </main>

  <script id="analysis-data" type="application/json">{{ .AnalysisJSON }}</script>
</body>
</html>
`
