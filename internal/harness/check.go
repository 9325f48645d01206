package harness

import "context"

// Page is the automation handle a check runs against: one loaded browser
// page, exclusively owned by one session. Checks may evaluate script and,
// for the few navigation-style checks, mutate page state — such checks must
// leave the page back on the target address for the next check in sequence.
type Page interface {
	// Navigate loads the given address and blocks until the document is
	// fully loaded or ctx expires.
	Navigate(ctx context.Context, address string) error

	// Eval runs a JavaScript expression in the page and unmarshals its
	// JSON value into out. A nil out discards the value.
	Eval(ctx context.Context, expr string, out any) error

	// ConsoleErrors returns the console error and uncaught exception
	// messages observed since the page was opened.
	ConsoleErrors() []string

	// ScreenshotPNG captures the current viewport.
	ScreenshotPNG(ctx context.Context) ([]byte, error)

	// Close releases the handle and its backing browser resources.
	Close() error
}

// PageFactory opens a fresh page handle for one target address. The session
// owns the returned handle and closes it on every exit path.
type PageFactory func(ctx context.Context, address string) (Page, error)

// Check is a single assertion against a loaded page. Run never returns an
// error and must not panic past its boundary: any internal failure is
// reported as an ERROR or FAIL verdict.
type Check interface {
	// Name returns the stable identifier used in verdicts and reports.
	Name() string

	// Run executes the check against the page.
	Run(ctx context.Context, page Page) Verdict
}
