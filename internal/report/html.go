package report

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
)

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>NBC Station Test Report - {{.TotalStations}} Sites</title>
<style>
body { font-family: -apple-system, 'Segoe UI', Roboto, Arial, sans-serif; margin: 40px; background: #f5f6fa; }
h1 { color: #333; }
h1.passed { color: #28a745; }
h1.failed { color: #dc3545; }
.meta { color: #666; margin-bottom: 24px; }
table { border-collapse: collapse; width: 100%; margin: 12px 0 28px; background: #fff; }
th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
th { background-color: #f2f2f2; }
td.PASS { color: #28a745; font-weight: bold; }
td.WARNING { color: #b58900; font-weight: bold; }
td.FAIL, td.ERROR { color: #dc3545; font-weight: bold; }
td.SKIPPED, td.INCONCLUSIVE { color: #888; }
</style>
</head>
<body>

<h1 class="{{if eq .StationsFailed 0}}passed{{else}}failed{{end}}">NBC Station Test Report: {{if eq .StationsFailed 0}}PASSED{{else}}FAILED{{end}}</h1>
<p class="meta">Run {{.RunID}} &middot; {{.Timestamp}} &middot; {{.StationsPassed}}/{{.TotalStations}} stations passing &middot; {{printf "%.1f" .SuccessRate}}% of {{.TotalTests}} tests passed &middot; {{printf "%.1f" .DurationSeconds}}s</p>

{{range .Stations}}
<h2>{{.StationName}} ({{.OverallStatus}})</h2>
<p class="meta"><a href="{{.StationURL}}">{{.StationURL}}</a> &middot; {{.Passed}}/{{.TotalTests}} passed &middot; {{printf "%.1f" .DurationSeconds}}s</p>
<table>
<tr><th>Test</th><th>Status</th><th>Message</th></tr>
{{range .TestResults}}
<tr><td>{{.Check}}</td><td class="{{.Status}}">{{.Status}}</td><td>{{.Message}}</td></tr>
{{end}}
</table>
{{end}}

</body>
</html>
`))

// RenderHTML renders the human-readable report page.
func RenderHTML(s Summary) ([]byte, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, s); err != nil {
		return nil, fmt.Errorf("rendering html report: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteHTML writes the report page to path.
func WriteHTML(path string, s Summary) error {
	html, err := RenderHTML(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, html, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
