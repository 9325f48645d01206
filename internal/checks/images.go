package checks

import (
	"context"

	"stationcheck/internal/harness"
)

const imageAuditJS = `(() => {
	const imgs = Array.from(document.querySelectorAll('img')).slice(0, 20);
	const broken = imgs.filter(img => !(img.complete && img.naturalWidth > 0)).length;
	return { total: imgs.length, broken: broken };
})()`

// ImageLoading samples the first 20 images and counts the ones that never
// decoded.
type ImageLoading struct{}

func (ImageLoading) Name() string { return "Image Loading" }

func (c ImageLoading) Run(ctx context.Context, page harness.Page) harness.Verdict {
	var audit struct {
		Total  int `json:"total"`
		Broken int `json:"broken"`
	}
	if err := page.Eval(ctx, imageAuditJS, &audit); err != nil {
		return errv(c.Name(), err)
	}

	switch {
	case audit.Broken == 0:
		return pass(c.Name(), "All %d images load", audit.Total)
	case audit.Broken <= 2:
		return warn(c.Name(), "%d broken image(s) of %d", audit.Broken, audit.Total)
	default:
		return fail(c.Name(), "%d broken images of %d", audit.Broken, audit.Total)
	}
}
