package report

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stationcheck/internal/harness"
	"stationcheck/internal/testutil/golden"
)

func fixtureRun() harness.RunSummary {
	t0 := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)
	return harness.RunSummary{
		ID:         "run-0001",
		StartedAt:  t0,
		FinishedAt: t0.Add(42 * time.Second),
		Targets: []harness.TargetResult{
			{
				Target: harness.Target{Name: "NBC Bay Area", Address: "https://www.nbcbayarea.com/"},
				Verdicts: []harness.Verdict{
					{Check: "Page Load Performance", Status: harness.StatusPass, Message: "Fast: 2.31s"},
					{Check: "Advertisements (Presence)", Status: harness.StatusWarning, Message: "Only 1 ad visible"},
				},
				Duration: 12340 * time.Millisecond,
				Overall:  harness.StatusPass,
			},
			{
				Target: harness.Target{Name: "NBC New York", Address: "https://www.nbcnewyork.com/"},
				Verdicts: []harness.Verdict{
					{Check: "Page Load Performance", Status: harness.StatusFail, Message: "Very slow: 11.02s"},
					{Check: "Weather Widget", Status: harness.StatusError, Message: "script error: node detached"},
					{Check: "Video Player Functional Test", Status: harness.StatusSkipped, Message: "No video player on page"},
				},
				Duration: 30500 * time.Millisecond,
				Overall:  harness.StatusFail,
			},
		},
	}
}

func TestBuildSummary(t *testing.T) {
	s := Build(fixtureRun())

	assert.Equal(t, 2, s.TotalStations)
	assert.Equal(t, 1, s.StationsPassed)
	assert.Equal(t, 1, s.StationsFailed)
	assert.Equal(t, 5, s.TotalTests)
	assert.Equal(t, 1, s.TotalPassed)
	assert.Equal(t, 2, s.TotalFailed, "failed counts FAIL and ERROR verdicts")
	assert.Equal(t, "2025-11-03T10:00:42Z", s.Timestamp)
	assert.InDelta(t, 20.0, s.SuccessRate(), 0.01)
}

func TestSummaryJSONGolden(t *testing.T) {
	s := Build(fixtureRun())

	data, err := json.MarshalIndent(s, "", "  ")
	require.NoError(t, err)

	golden.Assert(t, golden.TestdataDir(t), "test_summary", string(data)+"\n")
}

func TestRenderHTML(t *testing.T) {
	s := Build(fixtureRun())

	page, err := RenderHTML(s)
	require.NoError(t, err)
	html := string(page)

	assert.Contains(t, html, "NBC Station Test Report: FAILED")
	assert.Contains(t, html, "NBC Bay Area (PASS)")
	assert.Contains(t, html, "NBC New York (FAIL)")
	assert.Contains(t, html, `<td class="WARNING">WARNING</td>`)
	assert.Contains(t, html, "Only 1 ad visible")
	assert.Contains(t, html, "1/2 stations passing")
}

func TestSlackNotify(t *testing.T) {
	var got slackMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := &SlackNotifier{
		WebhookURL: server.URL,
		Channel:    "#nbc-site-tests",
		Build:      BuildInfo{Number: "123", URL: "https://ci.example/job/42/", JobName: "nbc-smoke", Node: "agent-1", Branch: "main"},
		Client:     server.Client(),
	}

	require.NoError(t, n.Notify(context.Background(), Build(fixtureRun())))

	assert.Equal(t, "#nbc-site-tests", got.Channel)
	assert.Equal(t, "NBC Test Bot", got.Username)
	assert.Contains(t, got.Text, "Build #123")
	require.Len(t, got.Attachments, 2)

	main := got.Attachments[0]
	assert.Equal(t, "warning", main.Color)
	require.Len(t, main.Fields, 6)
	assert.Equal(t, "1 SITES WITH ISSUES", main.Fields[0].Value)
	assert.Equal(t, "1/2", main.Fields[2].Value)

	failing := got.Attachments[1]
	assert.Equal(t, "danger", failing.Color)
	assert.Contains(t, failing.Text, "NBC New York: 2/3 failed")
}

func TestSlackNotify_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no_service", http.StatusNotFound)
	}))
	defer server.Close()

	n := NewSlackNotifier(server.URL, "")
	err := n.Notify(context.Background(), Build(fixtureRun()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
