package harness

import "time"

// Status represents the outcome of a single check execution.
type Status string

const (
	StatusPass    Status = "PASS"
	StatusWarning Status = "WARNING"
	StatusFail    Status = "FAIL"
	StatusError   Status = "ERROR"
	StatusSkipped Status = "SKIPPED"
	// StatusInconclusive marks a check whose condition could not be
	// verified at all (e.g. browser logs unavailable). Distinct from
	// WARNING, which means the condition was verified and is degraded.
	StatusInconclusive Status = "INCONCLUSIVE"
)

// Target is one station site under test.
type Target struct {
	Name    string `json:"name"`
	Address string `json:"url"`
}

// Verdict is the outcome of one check against one target's page.
type Verdict struct {
	Check   string `json:"check"`
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// TargetResult collects the verdicts of one session, in execution order.
type TargetResult struct {
	Target   Target        `json:"target"`
	Verdicts []Verdict     `json:"results"`
	Duration time.Duration `json:"duration"`
	Overall  Status        `json:"overall_status"`
}

// overallStatus derives the target-level status: FAIL if any verdict failed
// or errored, PASS otherwise. Warnings and skips do not fail a target.
func overallStatus(verdicts []Verdict) Status {
	for _, v := range verdicts {
		if v.Status == StatusFail || v.Status == StatusError {
			return StatusFail
		}
	}
	return StatusPass
}

// Counts tallies verdicts by status for report rendering.
type Counts struct {
	Total    int `json:"total"`
	Passed   int `json:"passed"`
	Failed   int `json:"failed"`
	Warnings int `json:"warnings"`
	Errors   int `json:"errors"`
	Skipped  int `json:"skipped"`
}

// Count tallies this result's verdicts.
func (r TargetResult) Count() Counts {
	c := Counts{Total: len(r.Verdicts)}
	for _, v := range r.Verdicts {
		switch v.Status {
		case StatusPass:
			c.Passed++
		case StatusFail:
			c.Failed++
		case StatusWarning:
			c.Warnings++
		case StatusError:
			c.Errors++
		case StatusSkipped, StatusInconclusive:
			c.Skipped++
		}
	}
	return c
}

// RunSummary is the aggregate outcome of one full run, one entry per
// submitted target.
type RunSummary struct {
	ID         string         `json:"run_id"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Targets    []TargetResult `json:"stations"`
}

// Failed reports how many targets ended with overall FAIL.
func (s RunSummary) Failed() int {
	n := 0
	for _, r := range s.Targets {
		if r.Overall != StatusPass {
			n++
		}
	}
	return n
}

// Passed reports how many targets ended with overall PASS.
func (s RunSummary) Passed() int {
	return len(s.Targets) - s.Failed()
}
