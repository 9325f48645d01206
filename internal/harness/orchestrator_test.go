package harness

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingFactory instruments page acquisition so tests can observe how
// many pages were live at once.
type countingFactory struct {
	mu      sync.Mutex
	current int
	peak    int

	pageFor func(address string) *fakePage
}

func (f *countingFactory) factory(ctx context.Context, address string) (Page, error) {
	f.mu.Lock()
	f.current++
	if f.current > f.peak {
		f.peak = f.current
	}
	f.mu.Unlock()

	var page *fakePage
	if f.pageFor != nil {
		page = f.pageFor(address)
	} else {
		page = newFakePage()
	}
	return &countedPage{fakePage: page, release: f.release}, nil
}

func (f *countingFactory) release() {
	f.mu.Lock()
	f.current--
	f.mu.Unlock()
}

func (f *countingFactory) Peak() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.peak
}

type countedPage struct {
	*fakePage
	release func()
	once    sync.Once
}

func (p *countedPage) Close() error {
	p.once.Do(p.release)
	return p.fakePage.Close()
}

func targetSet(n int) []Target {
	targets := make([]Target, 0, n)
	for i := 0; i < n; i++ {
		targets = append(targets, Target{
			Name:    fmt.Sprintf("station-%02d", i),
			Address: fmt.Sprintf("https://station-%02d.test/", i),
		})
	}
	return targets
}

func TestOrchestrator_OneResultPerTarget(t *testing.T) {
	factory := &countingFactory{}
	targets := targetSet(12)

	o := NewOrchestrator(factory.factory, []Check{passing("c1")}, Options{
		Workers:          4,
		PerTargetTimeout: time.Second,
	})
	summary := o.Run(context.Background(), targets)

	require.Len(t, summary.Targets, len(targets))
	for i, res := range summary.Targets {
		assert.Equal(t, targets[i].Name, res.Target.Name, "results must be sorted by target name")
		assert.Equal(t, StatusPass, res.Overall)
	}
}

func TestOrchestrator_ConcurrencyLimitRespected(t *testing.T) {
	factory := &countingFactory{
		pageFor: func(address string) *fakePage {
			page := newFakePage()
			page.navigateFn = func(ctx context.Context) error {
				time.Sleep(20 * time.Millisecond)
				return nil
			}
			return page
		},
	}

	o := NewOrchestrator(factory.factory, []Check{passing("c1")}, Options{
		Workers:          3,
		PerTargetTimeout: 5 * time.Second,
	})
	summary := o.Run(context.Background(), targetSet(15))

	require.Len(t, summary.Targets, 15)
	assert.LessOrEqual(t, factory.Peak(), 3, "no more than Workers pages may be live at once")
}

func TestOrchestrator_WorkersHardCap(t *testing.T) {
	o := NewOrchestrator(nil, nil, Options{Workers: 100})
	assert.Equal(t, maxWorkers, o.workers)

	o = NewOrchestrator(nil, nil, Options{})
	assert.Equal(t, DefaultWorkers, o.workers)
}

func TestOrchestrator_ExecutionTimeout(t *testing.T) {
	stuck := newFakePage()
	stuck.navigateFn = func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}
	factory := func(ctx context.Context, address string) (Page, error) {
		return stuck, nil
	}

	o := NewOrchestrator(factory, []Check{passing("c1")}, Options{
		Workers:           2,
		PerTargetTimeout:  50 * time.Millisecond,
		NavigationTimeout: time.Minute,
	})
	summary := o.Run(context.Background(), []Target{{Name: "WCAU", Address: "https://example.test/"}})

	require.Len(t, summary.Targets, 1)
	res := summary.Targets[0]
	assert.Equal(t, StatusFail, res.Overall)
	require.Len(t, res.Verdicts, 1)
	assert.Equal(t, StatusError, res.Verdicts[0].Status)
	assert.Contains(t, res.Verdicts[0].Message, "timeout")

	// The abandoned session's teardown still runs in the background.
	select {
	case <-stuck.closeCh:
	case <-time.After(time.Second):
		t.Fatal("abandoned session never released its page")
	}
}

func TestOrchestrator_MixedOutcomes(t *testing.T) {
	const perTarget = 150 * time.Millisecond

	factory := func(ctx context.Context, address string) (Page, error) {
		switch address {
		case "https://c.test/":
			return nil, errors.New("driver unavailable")
		case "https://b.test/":
			page := newFakePage()
			page.navigateFn = func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			}
			return page, nil
		default:
			return newFakePage(), nil
		}
	}

	o := NewOrchestrator(factory, []Check{passing("c1"), passing("c2")}, Options{
		Workers:           3,
		PerTargetTimeout:  perTarget,
		NavigationTimeout: time.Minute,
	})

	start := time.Now()
	summary := o.Run(context.Background(), []Target{
		{Name: "A", Address: "https://a.test/"},
		{Name: "B", Address: "https://b.test/"},
		{Name: "C", Address: "https://c.test/"},
	})
	elapsed := time.Since(start)

	require.Len(t, summary.Targets, 3)

	a, b, c := summary.Targets[0], summary.Targets[1], summary.Targets[2]
	assert.Equal(t, StatusPass, a.Overall)
	assert.Len(t, a.Verdicts, 2)

	assert.Equal(t, StatusFail, b.Overall)
	require.Len(t, b.Verdicts, 1)
	assert.Contains(t, b.Verdicts[0].Message, "timeout")

	assert.Equal(t, StatusFail, c.Overall)
	require.Len(t, c.Verdicts, 1)
	assert.Equal(t, StatusError, c.Verdicts[0].Status)

	// Targets run in parallel: total time tracks the slowest target, not
	// the sum of all three.
	assert.Less(t, elapsed, 3*perTarget, "run must not serialize timeouts")
	assert.GreaterOrEqual(t, elapsed, perTarget)

	assert.Equal(t, 1, summary.Passed())
	assert.Equal(t, 2, summary.Failed())
}

func TestOrchestrator_Idempotence(t *testing.T) {
	newFactory := func() PageFactory {
		return func(ctx context.Context, address string) (Page, error) {
			if address == "https://station-03.test/" {
				return nil, errors.New("driver unavailable")
			}
			return newFakePage(), nil
		}
	}
	checks := []Check{
		passing("c1"),
		&stubCheck{name: "c2", verdict: Verdict{Check: "c2", Status: StatusWarning, Message: "degraded"}},
	}
	targets := targetSet(6)

	run := func() RunSummary {
		o := NewOrchestrator(newFactory(), checks, Options{Workers: 3, PerTargetTimeout: time.Second})
		return o.Run(context.Background(), targets)
	}

	first, second := run(), run()

	require.Len(t, second.Targets, len(first.Targets))
	for i := range first.Targets {
		assert.Equal(t, first.Targets[i].Target, second.Targets[i].Target)
		assert.Equal(t, first.Targets[i].Verdicts, second.Targets[i].Verdicts)
		assert.Equal(t, first.Targets[i].Overall, second.Targets[i].Overall)
	}
}
