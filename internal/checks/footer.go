package checks

import (
	"context"

	"stationcheck/internal/harness"
)

// footerAuditJS scrolls to the bottom, inspects the footer for required
// compliance terms, then restores the scroll position so later checks see
// the page as they expect it.
const footerAuditJS = `(() => {
	const x = window.scrollX, y = window.scrollY;
	window.scrollTo(0, document.body.scrollHeight);
	const footer = document.querySelector('footer');
	let found = -1;
	if (footer) {
		const text = footer.innerText.toLowerCase();
		const required = ['privacy', 'terms', 'copyright', '©'];
		found = required.filter(term => text.includes(term)).length;
	}
	window.scrollTo(x, y);
	return found;
})()`

// FooterCompliance verifies the footer carries the legally required links:
// at least three of privacy, terms, copyright and the © mark.
type FooterCompliance struct{}

func (FooterCompliance) Name() string { return "Footer Compliance" }

func (c FooterCompliance) Run(ctx context.Context, page harness.Page) harness.Verdict {
	var found int
	if err := page.Eval(ctx, footerAuditJS, &found); err != nil {
		return errv(c.Name(), err)
	}
	switch {
	case found < 0:
		return fail(c.Name(), "No footer element found")
	case found >= 3:
		return pass(c.Name(), "Footer compliance ok")
	case found == 2:
		return warn(c.Name(), "Some footer items missing")
	default:
		return fail(c.Name(), "Footer compliance missing")
	}
}
