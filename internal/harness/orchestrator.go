package harness

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// maxWorkers is the hard ceiling on concurrent sessions regardless of the
// configured value. Every in-flight session holds a full browser page
// handle, a heavyweight resource.
const maxWorkers = 8

// DefaultWorkers is the recommended pool size for CI runs.
const DefaultWorkers = 5

// Progress is invoked from the aggregator goroutine as each target
// completes, in completion order. completed counts results collected so
// far, total the number of submitted targets.
type Progress func(completed, total int, res TargetResult)

// Orchestrator fans one session per target out onto a bounded worker pool
// and collects their results. Targets are symmetric peers: no ordering is
// guaranteed across sessions, and one target's failure or timeout never
// blocks or crashes the processing of the others.
type Orchestrator struct {
	factory    PageFactory
	checks     []Check
	workers    int
	perTarget  time.Duration
	navTimeout time.Duration
	progress   Progress
}

// Options configures an Orchestrator.
type Options struct {
	// Workers caps concurrent sessions. Clamped to [1, 8]; zero means
	// DefaultWorkers.
	Workers int

	// PerTargetTimeout bounds one target's whole session, wall clock.
	// A session exceeding it is abandoned with a synthetic FAIL result.
	PerTargetTimeout time.Duration

	// NavigationTimeout bounds the initial page load within a session.
	NavigationTimeout time.Duration

	// Progress, when set, receives per-target completion callbacks.
	Progress Progress
}

// NewOrchestrator builds an orchestrator over the given page factory and
// check sequence.
func NewOrchestrator(factory PageFactory, checks []Check, opts Options) *Orchestrator {
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if workers > maxWorkers {
		workers = maxWorkers
	}
	perTarget := opts.PerTargetTimeout
	if perTarget <= 0 {
		perTarget = 60 * time.Second
	}
	return &Orchestrator{
		factory:    factory,
		checks:     checks,
		workers:    workers,
		perTarget:  perTarget,
		navTimeout: opts.NavigationTimeout,
		progress:   opts.Progress,
	}
}

// Run executes every target and returns one TargetResult per submitted
// target — a real one, or a synthetic ERROR result for sessions that were
// abandoned to the per-target timeout. Results are collected over a
// completion channel by this single goroutine and sorted by target name
// before being returned, so non-deterministic completion order never leaks
// into reports.
func (o *Orchestrator) Run(ctx context.Context, targets []Target) RunSummary {
	summary := RunSummary{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Targets:   make([]TargetResult, 0, len(targets)),
	}

	sem := make(chan struct{}, o.workers)
	done := make(chan TargetResult)

	for _, target := range targets {
		go func(t Target) {
			sem <- struct{}{}
			defer func() { <-sem }()
			done <- o.runOne(ctx, t)
		}(target)
	}

	for completed := 1; completed <= len(targets); completed++ {
		res := <-done
		summary.Targets = append(summary.Targets, res)
		if o.progress != nil {
			o.progress(completed, len(targets), res)
		}
	}

	sort.Slice(summary.Targets, func(i, j int) bool {
		return summary.Targets[i].Target.Name < summary.Targets[j].Target.Name
	})
	summary.FinishedAt = time.Now().UTC()
	return summary
}

// runOne executes a single session under the per-target timeout. On
// timeout the session is abandoned: its context is cancelled so handle
// teardown still runs in the background, and a synthetic result is
// recorded in its place.
func (o *Orchestrator) runOne(ctx context.Context, target Target) TargetResult {
	sessCtx, cancel := context.WithCancel(ctx)

	res := make(chan TargetResult, 1)
	go func() {
		sess := NewSession(o.factory, o.checks, o.navTimeout)
		res <- sess.Run(sessCtx, target)
	}()

	timer := time.NewTimer(o.perTarget)
	defer timer.Stop()

	select {
	case r := <-res:
		cancel()
		return r
	case <-timer.C:
		cancel()
		return TargetResult{
			Target: target,
			Verdicts: []Verdict{{
				Check:   "Execution",
				Status:  StatusError,
				Message: fmt.Sprintf("execution timeout after %s", o.perTarget),
			}},
			Duration: o.perTarget,
			Overall:  StatusFail,
		}
	}
}
