// Package checks holds the station page assertions. Each check is one
// atomic inspection of a loaded homepage, graded with the thresholds the
// station QA checklist prescribes.
package checks

import (
	"fmt"

	"stationcheck/internal/harness"
)

func pass(name, format string, args ...any) harness.Verdict {
	return verdict(name, harness.StatusPass, format, args...)
}

func warn(name, format string, args ...any) harness.Verdict {
	return verdict(name, harness.StatusWarning, format, args...)
}

func fail(name, format string, args ...any) harness.Verdict {
	return verdict(name, harness.StatusFail, format, args...)
}

func skip(name, format string, args ...any) harness.Verdict {
	return verdict(name, harness.StatusSkipped, format, args...)
}

func inconclusive(name, format string, args ...any) harness.Verdict {
	return verdict(name, harness.StatusInconclusive, format, args...)
}

func errv(name string, err error) harness.Verdict {
	return verdict(name, harness.StatusError, "%v", err)
}

func verdict(name string, status harness.Status, format string, args ...any) harness.Verdict {
	return harness.Verdict{Check: name, Status: status, Message: fmt.Sprintf(format, args...)}
}
