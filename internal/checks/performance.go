package checks

import (
	"context"

	"stationcheck/internal/harness"
)

const navTimingJS = `(() => {
	const nav = performance.getEntriesByType('navigation')[0];
	if (!nav) return null;
	return {
		loadTime: nav.loadEventEnd - nav.startTime,
		domContentLoaded: nav.domContentLoadedEventEnd - nav.startTime
	};
})()`

// PagePerformance grades the homepage load time from the Navigation Timing
// API. Under 5s is fine, under 10s slow, anything above fails.
type PagePerformance struct{}

func (PagePerformance) Name() string { return "Page Load Performance" }

func (c PagePerformance) Run(ctx context.Context, page harness.Page) harness.Verdict {
	var timing *struct {
		LoadTime         float64 `json:"loadTime"`
		DOMContentLoaded float64 `json:"domContentLoaded"`
	}
	if err := page.Eval(ctx, navTimingJS, &timing); err != nil {
		return errv(c.Name(), err)
	}
	if timing == nil {
		return inconclusive(c.Name(), "navigation timing unavailable")
	}

	loadSeconds := timing.LoadTime / 1000
	switch {
	case loadSeconds < 5:
		return pass(c.Name(), "Fast: %.2fs", loadSeconds)
	case loadSeconds < 10:
		return warn(c.Name(), "Slow: %.2fs", loadSeconds)
	default:
		return fail(c.Name(), "Very slow: %.2fs", loadSeconds)
	}
}
