package checks

import (
	"context"

	"stationcheck/internal/harness"
)

const navLinksJS = `(() => {
	const links = document.querySelectorAll("nav a, header a");
	let visible = 0;
	for (const l of links) {
		if (l.offsetWidth > 0 && l.offsetHeight > 0) visible++;
	}
	return visible;
})()`

// NavigationMenu requires at least five visible navigation links in the
// header.
type NavigationMenu struct{}

func (NavigationMenu) Name() string { return "Navigation Menu" }

func (c NavigationMenu) Run(ctx context.Context, page harness.Page) harness.Verdict {
	var visible int
	if err := page.Eval(ctx, navLinksJS, &visible); err != nil {
		return errv(c.Name(), err)
	}
	if visible >= 5 {
		return pass(c.Name(), "%d nav links visible", visible)
	}
	return fail(c.Name(), "Only %d nav links", visible)
}
