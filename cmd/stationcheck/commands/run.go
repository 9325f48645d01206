package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"stationcheck/cmd/stationcheck/internal/clierr"
	"stationcheck/internal/browser"
	"stationcheck/internal/checks"
	"stationcheck/internal/config"
	"stationcheck/internal/harness"
	"stationcheck/internal/report"
)

type runOptions struct {
	configPath   string
	stations     []string
	customURL    string
	workers      int
	timeoutSec   int
	outDir       string
	noHeadless   bool
	screenshots  bool
	slackChannel string
	jsonOut      bool
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the checklist against the configured stations",
		Long: `Run fans the station list out over a bounded browser pool, executes the
homepage checklist against each site, and writes JSON and HTML reports.
The process exits non-zero when any station fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStations(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "stationcheck.yaml", "configuration file")
	cmd.Flags().StringArrayVar(&opts.stations, "station", nil, "station name to test (repeatable; default all)")
	cmd.Flags().StringVar(&opts.customURL, "url", "", "test a single ad-hoc URL instead of configured stations")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "parallel browser sessions (default from config)")
	cmd.Flags().IntVar(&opts.timeoutSec, "timeout", 0, "per-station timeout in seconds (default from config)")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "", "artifacts directory (default from config)")
	cmd.Flags().BoolVar(&opts.noHeadless, "no-headless", false, "show the browser windows")
	cmd.Flags().BoolVar(&opts.screenshots, "screenshots", false, "save a final screenshot per station")
	cmd.Flags().StringVar(&opts.slackChannel, "slack-channel", "", "post the summary to this Slack channel")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print the summary JSON to stdout")

	return cmd
}

func runStations(cmd *cobra.Command, opts *runOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return clierr.Wrap(2, "loading configuration", err)
	}
	applyFlags(&cfg, opts)

	targets, err := resolveTargets(cfg, opts)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating artifacts dir: %w", err)
	}

	checkList := checks.Registry()
	if cfg.Screenshots {
		checkList = append(checkList, checks.NewScreenshot(cfg.OutputDir))
	}

	factory := browser.NewFactory(browser.Options{
		ChromePath: cfg.ChromePath,
		Headless:   cfg.Headless,
	})

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Testing %d station(s) with %d worker(s)\n", len(targets), cfg.Workers)

	orch := harness.NewOrchestrator(factory, checkList, harness.Options{
		Workers:           cfg.Workers,
		PerTargetTimeout:  cfg.PerTargetTimeout(),
		NavigationTimeout: cfg.NavigationTimeout(),
		Progress: func(completed, total int, res harness.TargetResult) {
			counts := res.Count()
			fmt.Fprintf(out, "[%d/%d] %s %s - %d/%d passed (%.1fs)\n",
				completed, total, statusMark(res), res.Target.Name,
				counts.Passed, counts.Total, res.Duration.Seconds())
		},
	})

	summary := report.Build(orch.Run(cmd.Context(), targets))

	jsonPath := filepath.Join(cfg.OutputDir, "test_summary.json")
	if err := report.WriteJSON(jsonPath, summary); err != nil {
		return err
	}
	htmlPath := filepath.Join(cfg.OutputDir, "index.html")
	if err := report.WriteHTML(htmlPath, summary); err != nil {
		return err
	}
	fmt.Fprintf(out, "Reports written to %s and %s\n", jsonPath, htmlPath)

	if opts.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(summary); err != nil {
			return err
		}
	}

	notifySlack(cmd, cfg, opts, summary)

	if summary.StationsFailed > 0 {
		return clierr.Newf(1, "%d of %d stations failing", summary.StationsFailed, summary.TotalStations)
	}
	return nil
}

func applyFlags(cfg *config.Config, opts *runOptions) {
	if opts.workers > 0 {
		cfg.Workers = opts.workers
	}
	if opts.timeoutSec > 0 {
		cfg.PerTargetTimeoutSec = opts.timeoutSec
	}
	if opts.outDir != "" {
		cfg.OutputDir = opts.outDir
	}
	if opts.noHeadless {
		cfg.Headless = false
	}
	if opts.screenshots {
		cfg.Screenshots = true
	}
	if opts.slackChannel != "" {
		cfg.Slack.Channel = opts.slackChannel
	}
}

func resolveTargets(cfg config.Config, opts *runOptions) ([]harness.Target, error) {
	if opts.customURL != "" {
		return []harness.Target{{Name: "Custom URL", Address: opts.customURL}}, nil
	}
	if len(opts.stations) == 0 {
		return cfg.Targets(), nil
	}

	targets := make([]harness.Target, 0, len(opts.stations))
	for _, name := range opts.stations {
		address, ok := cfg.Stations[name]
		if !ok {
			return nil, clierr.Newf(2, "unknown station %q", name)
		}
		targets = append(targets, harness.Target{Name: name, Address: address})
	}
	return targets, nil
}

func notifySlack(cmd *cobra.Command, cfg config.Config, opts *runOptions, summary report.Summary) {
	if cfg.Slack.WebhookURL == "" {
		return
	}
	notifier := report.NewSlackNotifier(cfg.Slack.WebhookURL, cfg.Slack.Channel)
	if err := notifier.Notify(cmd.Context(), summary); err != nil {
		// The run's verdict stands even when the announcement doesn't go out.
		fmt.Fprintf(cmd.ErrOrStderr(), "slack notification failed: %v\n", err)
	}
}

var (
	passMark = color.New(color.FgGreen).Sprint("PASS")
	warnMark = color.New(color.FgYellow).Sprint("WARN")
	failMark = color.New(color.FgRed).Sprint("FAIL")
)

func statusMark(res harness.TargetResult) string {
	if res.Overall != harness.StatusPass {
		return failMark
	}
	if res.Count().Warnings > 0 {
		return warnMark
	}
	return passMark
}
