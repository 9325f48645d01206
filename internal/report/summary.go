// Package report renders a finished run for its consumers: the JSON
// artifact CI archives, the HTML page humans read, and the Slack summary
// the channel sees.
package report

import (
	"math"
	"time"

	"stationcheck/internal/harness"
)

// StationReport is one station's slice of the summary artifact.
type StationReport struct {
	StationName     string            `json:"station_name"`
	StationURL      string            `json:"station_url"`
	DurationSeconds float64           `json:"duration_seconds"`
	TotalTests      int               `json:"total_tests"`
	Passed          int               `json:"passed"`
	Failed          int               `json:"failed"`
	Warnings        int               `json:"warnings"`
	Errors          int               `json:"errors"`
	Skipped         int               `json:"skipped"`
	OverallStatus   harness.Status    `json:"overall_status"`
	TestResults     []harness.Verdict `json:"test_results"`
}

// Summary is the run-level artifact, the shape written to
// test_summary.json and fed to the HTML and Slack renderers.
type Summary struct {
	RunID           string          `json:"run_id"`
	Timestamp       string          `json:"timestamp"`
	DurationSeconds float64         `json:"duration_seconds"`
	TotalStations   int             `json:"total_stations"`
	StationsPassed  int             `json:"stations_passed"`
	StationsFailed  int             `json:"stations_failed"`
	TotalTests      int             `json:"total_tests"`
	TotalPassed     int             `json:"total_passed"`
	TotalFailed     int             `json:"total_failed"`
	Stations        []StationReport `json:"stations"`
}

// Build flattens a run into the summary artifact shape.
func Build(run harness.RunSummary) Summary {
	s := Summary{
		RunID:           run.ID,
		Timestamp:       run.FinishedAt.UTC().Format(time.RFC3339),
		DurationSeconds: roundSeconds(run.FinishedAt.Sub(run.StartedAt)),
		TotalStations:   len(run.Targets),
		Stations:        make([]StationReport, 0, len(run.Targets)),
	}

	for _, res := range run.Targets {
		counts := res.Count()
		station := StationReport{
			StationName:     res.Target.Name,
			StationURL:      res.Target.Address,
			DurationSeconds: roundSeconds(res.Duration),
			TotalTests:      counts.Total,
			Passed:          counts.Passed,
			Failed:          counts.Failed,
			Warnings:        counts.Warnings,
			Errors:          counts.Errors,
			Skipped:         counts.Skipped,
			OverallStatus:   res.Overall,
			TestResults:     res.Verdicts,
		}
		s.Stations = append(s.Stations, station)

		s.TotalTests += counts.Total
		s.TotalPassed += counts.Passed
		s.TotalFailed += counts.Failed + counts.Errors
		if res.Overall == harness.StatusPass {
			s.StationsPassed++
		} else {
			s.StationsFailed++
		}
	}
	return s
}

// SuccessRate is the percentage of individual tests that passed.
func (s Summary) SuccessRate() float64 {
	if s.TotalTests == 0 {
		return 0
	}
	return math.Round(float64(s.TotalPassed)/float64(s.TotalTests)*1000) / 10
}

func roundSeconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*100) / 100
}
