package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"time"
)

// BuildInfo carries the CI coordinates shown in the Slack message.
type BuildInfo struct {
	Number  string
	URL     string
	JobName string
	Node    string
	Branch  string
}

// BuildInfoFromEnv reads the Jenkins-style environment, with local-run
// fallbacks.
func BuildInfoFromEnv() BuildInfo {
	return BuildInfo{
		Number:  envOr("BUILD_NUMBER", "LOCAL"),
		URL:     envOr("BUILD_URL", "#"),
		JobName: envOr("JOB_NAME", "stationcheck"),
		Node:    envOr("NODE_NAME", "local"),
		Branch:  envOr("GIT_BRANCH", "main"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// SlackNotifier posts a run summary to an incoming-webhook channel.
type SlackNotifier struct {
	WebhookURL string
	Channel    string
	Build      BuildInfo
	Client     *http.Client
}

// NewSlackNotifier builds a notifier with build info from the environment.
func NewSlackNotifier(webhookURL, channel string) *SlackNotifier {
	return &SlackNotifier{
		WebhookURL: webhookURL,
		Channel:    channel,
		Build:      BuildInfoFromEnv(),
		Client:     &http.Client{Timeout: 15 * time.Second},
	}
}

type slackMessage struct {
	Channel     string            `json:"channel,omitempty"`
	Username    string            `json:"username"`
	IconEmoji   string            `json:"icon_emoji"`
	Text        string            `json:"text"`
	Attachments []slackAttachment `json:"attachments"`
}

type slackAttachment struct {
	Color     string       `json:"color"`
	Title     string       `json:"title"`
	TitleLink string       `json:"title_link,omitempty"`
	Text      string       `json:"text,omitempty"`
	Fields    []slackField `json:"fields,omitempty"`
	Footer    string       `json:"footer,omitempty"`
}

type slackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

// Notify posts the summary. Failures are the caller's to log; a broken
// webhook should never fail the test run itself.
func (n *SlackNotifier) Notify(ctx context.Context, s Summary) error {
	payload, err := json.Marshal(n.message(s))
	if err != nil {
		return fmt.Errorf("encoding slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	client := n.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("posting to slack: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("slack webhook returned %s", resp.Status)
	}
	return nil
}

func (n *SlackNotifier) message(s Summary) slackMessage {
	var emoji, statusText, color string
	switch {
	case s.StationsFailed == 0:
		emoji, statusText, color = "\U0001f7e2", "ALL SITES PASSING", "good"
	case s.StationsFailed <= 5:
		emoji, statusText, color = "\U0001f7e1", fmt.Sprintf("%d SITES WITH ISSUES", s.StationsFailed), "warning"
	default:
		emoji, statusText, color = "\U0001f534", fmt.Sprintf("%d SITES FAILING", s.StationsFailed), "danger"
	}

	msg := slackMessage{
		Channel:   n.Channel,
		Username:  "NBC Test Bot",
		IconEmoji: ":robot_face:",
		Text:      fmt.Sprintf("%s NBC Multi-Site Test Results - Build #%s", emoji, n.Build.Number),
		Attachments: []slackAttachment{{
			Color:     color,
			Title:     fmt.Sprintf("Test Summary - %d Sites Tested", s.TotalStations),
			TitleLink: n.Build.URL,
			Fields: []slackField{
				{Title: "Overall Status", Value: statusText, Short: true},
				{Title: "Build", Value: "#" + n.Build.Number, Short: true},
				{Title: "Sites Passed", Value: fmt.Sprintf("%d/%d", s.StationsPassed, s.TotalStations), Short: true},
				{Title: "Sites Failed", Value: fmt.Sprintf("%d/%d", s.StationsFailed, s.TotalStations), Short: true},
				{Title: "Total Tests Run", Value: fmt.Sprintf("%d", s.TotalTests), Short: true},
				{Title: "Success Rate", Value: fmt.Sprintf("%.1f%%", s.SuccessRate()), Short: true},
			},
			Footer: fmt.Sprintf("%s on %s (%s)", n.Build.JobName, n.Build.Node, n.Build.Branch),
		}},
	}

	if failing := topFailing(s, 5); failing != "" {
		msg.Attachments = append(msg.Attachments, slackAttachment{
			Color: "danger",
			Title: "Top Failing Sites",
			Text:  failing,
		})
	}
	return msg
}

// topFailing lists the worst stations by failed-test count, newline
// separated, capped at limit entries.
func topFailing(s Summary, limit int) string {
	var failing []StationReport
	for _, station := range s.Stations {
		if station.Failed+station.Errors > 0 {
			failing = append(failing, station)
		}
	}
	if len(failing) == 0 {
		return ""
	}
	sort.Slice(failing, func(i, j int) bool {
		fi, fj := failing[i].Failed+failing[i].Errors, failing[j].Failed+failing[j].Errors
		if fi != fj {
			return fi > fj
		}
		return failing[i].StationName < failing[j].StationName
	})
	if len(failing) > limit {
		failing = failing[:limit]
	}

	var buf bytes.Buffer
	for _, station := range failing {
		fmt.Fprintf(&buf, "• %s: %d/%d failed\n", station.StationName, station.Failed+station.Errors, station.TotalTests)
	}
	return buf.String()
}
