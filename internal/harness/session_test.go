package harness

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePage implements Page for tests.
type fakePage struct {
	navigateErr error
	navigateFn  func(ctx context.Context) error
	evalFn      func(expr string, out any) error
	console     []string
	closed      bool
	closeCh     chan struct{}
}

func newFakePage() *fakePage {
	return &fakePage{closeCh: make(chan struct{})}
}

func (p *fakePage) Navigate(ctx context.Context, address string) error {
	if p.navigateFn != nil {
		return p.navigateFn(ctx)
	}
	return p.navigateErr
}

func (p *fakePage) Eval(ctx context.Context, expr string, out any) error {
	if p.evalFn != nil {
		return p.evalFn(expr, out)
	}
	return nil
}

func (p *fakePage) ConsoleErrors() []string { return p.console }

func (p *fakePage) ScreenshotPNG(ctx context.Context) ([]byte, error) { return nil, nil }

func (p *fakePage) Close() error {
	if !p.closed {
		p.closed = true
		close(p.closeCh)
	}
	return nil
}

// stubCheck returns a fixed verdict, or panics when told to. The call
// counter is atomic because the orchestrator shares check instances across
// concurrent sessions.
type stubCheck struct {
	name    string
	verdict Verdict
	panics  bool
	calls   atomic.Int32
}

func (c *stubCheck) Name() string { return c.name }

func (c *stubCheck) Run(ctx context.Context, page Page) Verdict {
	c.calls.Add(1)
	if c.panics {
		panic("boom")
	}
	return c.verdict
}

func passing(name string) *stubCheck {
	return &stubCheck{name: name, verdict: Verdict{Check: name, Status: StatusPass, Message: "ok"}}
}

func factoryFor(page *fakePage) PageFactory {
	return func(ctx context.Context, address string) (Page, error) {
		return page, nil
	}
}

func TestSession_AllChecksPass(t *testing.T) {
	page := newFakePage()
	checks := []Check{passing("c1"), passing("c2"), passing("c3")}

	sess := NewSession(factoryFor(page), checks, time.Second)
	res := sess.Run(context.Background(), Target{Name: "WNBC", Address: "https://example.test/"})

	require.Len(t, res.Verdicts, 3)
	assert.Equal(t, StatusPass, res.Overall)
	assert.Equal(t, []string{"c1", "c2", "c3"}, verdictNames(res))
	assert.True(t, page.closed, "page must be released after a normal run")
}

func TestSession_AcquisitionFailure(t *testing.T) {
	factory := func(ctx context.Context, address string) (Page, error) {
		return nil, errors.New("chrome did not start")
	}
	check := passing("c1")

	sess := NewSession(factory, []Check{check}, time.Second)
	res := sess.Run(context.Background(), Target{Name: "WRC", Address: "https://example.test/"})

	require.Len(t, res.Verdicts, 1)
	assert.Equal(t, StatusError, res.Verdicts[0].Status)
	assert.Contains(t, res.Verdicts[0].Message, "acquisition failed")
	assert.Equal(t, StatusFail, res.Overall)
	assert.Zero(t, check.calls.Load(), "checks must not run without a page")
}

func TestSession_NavigationTimeout(t *testing.T) {
	page := newFakePage()
	page.navigateFn = func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}
	check := passing("c1")

	sess := NewSession(factoryFor(page), []Check{check}, 20*time.Millisecond)
	res := sess.Run(context.Background(), Target{Name: "KNBC", Address: "https://example.test/"})

	// Exactly one FAIL verdict for the page load, zero check verdicts.
	require.Len(t, res.Verdicts, 1)
	assert.Equal(t, StatusFail, res.Verdicts[0].Status)
	assert.Equal(t, StatusFail, res.Overall)
	assert.Zero(t, check.calls.Load())
	assert.True(t, page.closed, "page must be released after a load timeout")
}

func TestSession_CheckErrorDoesNotStopSequence(t *testing.T) {
	page := newFakePage()
	boom := &stubCheck{name: "c3", panics: true}
	checks := []Check{passing("c1"), passing("c2"), boom, passing("c4"), passing("c5")}

	sess := NewSession(factoryFor(page), checks, time.Second)
	res := sess.Run(context.Background(), Target{Name: "WMAQ", Address: "https://example.test/"})

	require.Len(t, res.Verdicts, 5)
	assert.Equal(t, StatusError, res.Verdicts[2].Status)
	assert.Contains(t, res.Verdicts[2].Message, "panicked")
	for _, i := range []int{0, 1, 3, 4} {
		assert.Equal(t, StatusPass, res.Verdicts[i].Status, "check %d should still have run", i)
	}
	assert.Equal(t, StatusFail, res.Overall)
}

func TestSession_CancellationReleasesPage(t *testing.T) {
	page := newFakePage()
	ctx, cancel := context.WithCancel(context.Background())
	sess := NewSession(factoryFor(page), []Check{passing("c1"), passing("c2")}, time.Second)

	done := make(chan TargetResult, 1)
	go func() { done <- sess.Run(ctx, Target{Name: "WTVJ", Address: "https://example.test/"}) }()

	cancel()
	res := <-done

	assert.True(t, page.closed, "page must be released when the session is cancelled")
	assert.LessOrEqual(t, len(res.Verdicts), 2)
}

func verdictNames(res TargetResult) []string {
	names := make([]string, 0, len(res.Verdicts))
	for _, v := range res.Verdicts {
		names = append(names, v.Check)
	}
	return names
}
