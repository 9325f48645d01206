package checks

import (
	"context"
	"time"

	"stationcheck/internal/harness"
)

const playerTimeJS = `(() => {
	const video = document.querySelector('video.jw-video');
	return video ? video.currentTime : null;
})()`

// playbackWindow is how long the player gets to advance its clock.
const playbackWindow = 2 * time.Second

// VideoPlayback samples the lead player's currentTime twice and requires
// it to advance. Pages without a JW player are skipped rather than failed.
type VideoPlayback struct {
	// Window overrides the playback sampling window; zero means the
	// default two seconds.
	Window time.Duration
}

func (VideoPlayback) Name() string { return "Video Player Functional Test" }

func (c VideoPlayback) Run(ctx context.Context, page harness.Page) harness.Verdict {
	var before *float64
	if err := page.Eval(ctx, playerTimeJS, &before); err != nil {
		return errv(c.Name(), err)
	}
	if before == nil {
		return skip(c.Name(), "No video player on page")
	}

	window := c.Window
	if window <= 0 {
		window = playbackWindow
	}
	select {
	case <-ctx.Done():
		return errv(c.Name(), ctx.Err())
	case <-time.After(window):
	}

	var after *float64
	if err := page.Eval(ctx, playerTimeJS, &after); err != nil {
		return errv(c.Name(), err)
	}
	if after != nil && *after > *before {
		return pass(c.Name(), "Video played %.1fs -> %.1fs", *before, *after)
	}
	return fail(c.Name(), "Video did not play")
}
