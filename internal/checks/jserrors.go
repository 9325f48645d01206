package checks

import (
	"context"

	"stationcheck/internal/harness"
)

// JavaScriptErrors counts console errors and uncaught exceptions observed
// during the session. Up to two is tolerated as a warning; ad tags throw
// the occasional benign error on these sites.
type JavaScriptErrors struct{}

func (JavaScriptErrors) Name() string { return "JavaScript Errors" }

func (c JavaScriptErrors) Run(ctx context.Context, page harness.Page) harness.Verdict {
	errs := page.ConsoleErrors()
	switch {
	case len(errs) == 0:
		return pass(c.Name(), "No JS errors")
	case len(errs) <= 2:
		return warn(c.Name(), "%d JS error(s)", len(errs))
	default:
		return fail(c.Name(), "%d JS error(s), first: %.100s", len(errs), errs[0])
	}
}
