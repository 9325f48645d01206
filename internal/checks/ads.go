package checks

import (
	"context"

	"stationcheck/internal/harness"
)

const adCountJS = `(() => {
	const ads = document.querySelectorAll("iframe[id*='ad'], div[class*='ad']");
	let visible = 0;
	for (const ad of ads) {
		if (ad.offsetWidth > 0 && ad.offsetHeight > 0) visible++;
	}
	return visible;
})()`

// AdsPresence counts visible ad slots. Station pages are expected to carry
// at least two; a single slot usually means a fill problem.
type AdsPresence struct{}

func (AdsPresence) Name() string { return "Advertisements (Presence)" }

func (c AdsPresence) Run(ctx context.Context, page harness.Page) harness.Verdict {
	var visible int
	if err := page.Eval(ctx, adCountJS, &visible); err != nil {
		return errv(c.Name(), err)
	}
	switch {
	case visible >= 2:
		return pass(c.Name(), "%d ads visible", visible)
	case visible == 1:
		return warn(c.Name(), "Only 1 ad visible")
	default:
		return fail(c.Name(), "No ads detected")
	}
}
