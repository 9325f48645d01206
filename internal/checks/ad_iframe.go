package checks

import (
	"context"

	"stationcheck/internal/harness"
)

const adIframeJS = `(() => {
	const container = document.querySelector("div[id^='google_ads_iframe_'][id$='__container__']");
	if (!container) return "missing";
	const frame = container.querySelector('iframe');
	if (!frame) return "missing";
	try {
		const doc = frame.contentDocument || frame.contentWindow.document;
		if (doc && doc.readyState === 'complete' && doc.body.innerHTML.trim().length > 0) {
			return "loaded";
		}
		return "empty";
	} catch (e) {
		return "empty";
	}
})()`

// AdIframeValidation checks that a Google ad iframe actually rendered
// content, not just that the slot exists. Cross-origin frames that refuse
// inspection count as not loaded, matching how empty fills behave.
type AdIframeValidation struct{}

func (AdIframeValidation) Name() string { return "Ad Iframe Validation" }

func (c AdIframeValidation) Run(ctx context.Context, page harness.Page) harness.Verdict {
	var state string
	if err := page.Eval(ctx, adIframeJS, &state); err != nil {
		return errv(c.Name(), err)
	}
	switch state {
	case "loaded":
		return pass(c.Name(), "Ad iframe content loaded")
	case "missing":
		return fail(c.Name(), "No Google ad iframe container found")
	default:
		return fail(c.Name(), "Ad iframe empty/not loaded")
	}
}
