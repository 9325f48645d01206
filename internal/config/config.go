// Package config loads the harness configuration: the station table, pool
// sizing, timeouts, and report destinations.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"stationcheck/internal/harness"
)

// Config is the full configuration for one run.
type Config struct {
	Stations map[string]string `yaml:"stations"`

	Workers              int    `yaml:"workers"`
	PerTargetTimeoutSec  int    `yaml:"per_target_timeout_seconds"`
	NavigationTimeoutSec int    `yaml:"navigation_timeout_seconds"`
	OutputDir            string `yaml:"output_dir"`
	ChromePath           string `yaml:"chrome_path"`
	Headless             bool   `yaml:"headless"`
	Screenshots          bool   `yaml:"screenshots"`

	Slack SlackConfig `yaml:"slack"`
}

// SlackConfig points the notifier at an incoming webhook. The webhook URL
// usually comes from the environment, not the file.
type SlackConfig struct {
	WebhookURL string `yaml:"webhook_url"`
	Channel    string `yaml:"channel"`
}

// DefaultConfig covers the NBC owned-and-operated station lineup with
// CI-friendly settings.
func DefaultConfig() Config {
	return Config{
		Stations: map[string]string{
			"NBC New York":     "https://www.nbcnewyork.com/",
			"NBC Los Angeles":  "https://www.nbclosangeles.com/",
			"NBC Chicago":      "https://www.nbcchicago.com/",
			"NBC Philadelphia": "https://www.nbcphiladelphia.com/",
			"NBC DFW":          "https://www.nbcdfw.com/",
			"NBC Bay Area":     "https://www.nbcbayarea.com/",
			"NBC Boston":       "https://www.nbcboston.com/",
			"NBC Washington":   "https://www.nbcwashington.com/",
			"NBC Miami":        "https://www.nbcmiami.com/",
			"NBC San Diego":    "https://www.nbcsandiego.com/",
			"NBC Connecticut":  "https://www.nbcconnecticut.com/",
		},
		Workers:              harness.DefaultWorkers,
		PerTargetTimeoutSec:  60,
		NavigationTimeoutSec: 30,
		OutputDir:            "artifacts",
		Headless:             true,
		Screenshots:          false,
	}
}

// Load reads configuration from a yaml file. A missing file falls back to
// defaults; a present file overlays them. SLACK_WEBHOOK_URL in the
// environment overrides the file's webhook.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			// yaml merges into a non-nil map, which would blend the
			// file's station list with the defaults. A file that names
			// stations replaces the default table outright.
			var probe struct {
				Stations map[string]string `yaml:"stations"`
			}
			if err := yaml.Unmarshal(content, &probe); err != nil {
				return Config{}, fmt.Errorf("parse config: %w", err)
			}
			if len(probe.Stations) > 0 {
				cfg.Stations = nil
			}
			if err := yaml.Unmarshal(content, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if webhook := os.Getenv("SLACK_WEBHOOK_URL"); webhook != "" {
		cfg.Slack.WebhookURL = webhook
	}

	if cfg.Workers <= 0 {
		cfg.Workers = harness.DefaultWorkers
	}
	if cfg.PerTargetTimeoutSec <= 0 {
		cfg.PerTargetTimeoutSec = 60
	}
	if cfg.NavigationTimeoutSec <= 0 {
		cfg.NavigationTimeoutSec = 30
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "artifacts"
	}

	if len(cfg.Stations) == 0 {
		return Config{}, errors.New("configuration must define at least one station")
	}
	for name, address := range cfg.Stations {
		if name == "" {
			return Config{}, errors.New("station names must not be empty")
		}
		u, err := url.Parse(address)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return Config{}, fmt.Errorf("station %q has invalid url %q", name, address)
		}
	}

	return cfg, nil
}

// Targets flattens the station map into the orchestrator's input, sorted
// by name so runs are deterministic.
func (c Config) Targets() []harness.Target {
	targets := make([]harness.Target, 0, len(c.Stations))
	for name, address := range c.Stations {
		targets = append(targets, harness.Target{Name: name, Address: address})
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i].Name < targets[j].Name })
	return targets
}

// PerTargetTimeout is the per-station wall-clock budget.
func (c Config) PerTargetTimeout() time.Duration {
	return time.Duration(c.PerTargetTimeoutSec) * time.Second
}

// NavigationTimeout bounds the initial page load.
func (c Config) NavigationTimeout() time.Duration {
	return time.Duration(c.NavigationTimeoutSec) * time.Second
}
