package checks

import (
	"context"
	"strings"

	"stationcheck/internal/harness"
)

// MobileResponsive checks for a proper responsive viewport meta tag.
type MobileResponsive struct{}

func (MobileResponsive) Name() string { return "Mobile Responsive" }

func (c MobileResponsive) Run(ctx context.Context, page harness.Page) harness.Verdict {
	var content string
	err := page.Eval(ctx, `(() => {
		const m = document.querySelector('meta[name=viewport]');
		return m ? m.content : "";
	})()`, &content)
	if err != nil {
		return errv(c.Name(), err)
	}
	if strings.Contains(content, "width=device-width") {
		return pass(c.Name(), "Viewport meta ok")
	}
	return fail(c.Name(), "No proper viewport meta")
}
