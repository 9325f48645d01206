package checks

import (
	"context"

	"stationcheck/internal/harness"
)

// PageSize flags bloated homepage markup: under 2MB passes, under 5MB
// warns, larger fails.
type PageSize struct{}

func (PageSize) Name() string { return "Page Size Check" }

func (c PageSize) Run(ctx context.Context, page harness.Page) harness.Verdict {
	var bytes float64
	err := page.Eval(ctx, `new Blob([document.documentElement.outerHTML]).size`, &bytes)
	if err != nil {
		return errv(c.Name(), err)
	}

	sizeMB := bytes / (1024 * 1024)
	switch {
	case sizeMB < 2:
		return pass(c.Name(), "Good size: %.2fMB", sizeMB)
	case sizeMB < 5:
		return warn(c.Name(), "Large: %.2fMB", sizeMB)
	default:
		return fail(c.Name(), "Too large: %.2fMB", sizeMB)
	}
}
