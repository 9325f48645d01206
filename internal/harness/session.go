package harness

import (
	"context"
	"fmt"
	"time"
)

// Names of the implicit verdicts a session records on its own behalf,
// before any configured check gets to run.
const (
	verdictAcquire = "Page Acquisition"
	verdictLoad    = "Page Load"
)

// Session runs an ordered check sequence against one target's page handle.
type Session struct {
	factory    PageFactory
	checks     []Check
	navTimeout time.Duration
}

// NewSession creates a session over the given page factory and check
// sequence. navTimeout bounds the initial page load.
func NewSession(factory PageFactory, checks []Check, navTimeout time.Duration) *Session {
	if navTimeout <= 0 {
		navTimeout = 30 * time.Second
	}
	return &Session{factory: factory, checks: checks, navTimeout: navTimeout}
}

// Run acquires a page for the target, navigates it, and executes every
// check in order. Checks are independent: a failing or erroring check never
// stops the ones after it. The page handle is released on every exit path,
// including external cancellation of ctx.
func (s *Session) Run(ctx context.Context, target Target) TargetResult {
	start := time.Now()
	res := TargetResult{Target: target}

	page, err := s.factory(ctx, target.Address)
	if err != nil {
		res.Verdicts = append(res.Verdicts, Verdict{
			Check:   verdictAcquire,
			Status:  StatusError,
			Message: fmt.Sprintf("page handle acquisition failed: %v", err),
		})
		return finish(res, start)
	}
	defer func() { _ = page.Close() }()

	navCtx, cancel := context.WithTimeout(ctx, s.navTimeout)
	err = page.Navigate(navCtx, target.Address)
	cancel()
	if err != nil {
		// Downstream checks assume a loaded page; without one they carry
		// no signal, so they are skipped rather than failed.
		res.Verdicts = append(res.Verdicts, Verdict{
			Check:   verdictLoad,
			Status:  StatusFail,
			Message: fmt.Sprintf("page did not load within %s: %v", s.navTimeout, err),
		})
		return finish(res, start)
	}

	for _, check := range s.checks {
		if ctx.Err() != nil {
			break
		}
		res.Verdicts = append(res.Verdicts, runCheck(ctx, check, page))
	}

	return finish(res, start)
}

// runCheck executes one check, converting a panic into an ERROR verdict so
// a misbehaving check cannot take down its session.
func runCheck(ctx context.Context, check Check, page Page) (v Verdict) {
	defer func() {
		if r := recover(); r != nil {
			v = Verdict{
				Check:   check.Name(),
				Status:  StatusError,
				Message: fmt.Sprintf("check panicked: %v", r),
			}
		}
	}()
	return check.Run(ctx, page)
}

func finish(res TargetResult, start time.Time) TargetResult {
	res.Duration = time.Since(start)
	res.Overall = overallStatus(res.Verdicts)
	return res
}
