package checks

import (
	"context"

	"stationcheck/internal/harness"
)

const videoCountJS = `(() => {
	const players = document.querySelectorAll("video, iframe[src*='player']");
	let visible = 0;
	for (const p of players) {
		if (p.offsetWidth > 0 && p.offsetHeight > 0) visible++;
	}
	return { total: players.length, visible: visible };
})()`

// VideoPresence looks for at least one visible video player on the
// homepage. Absence is only a warning: not every station leads with video.
type VideoPresence struct{}

func (VideoPresence) Name() string { return "Video Players (Presence)" }

func (c VideoPresence) Run(ctx context.Context, page harness.Page) harness.Verdict {
	var players struct {
		Total   int `json:"total"`
		Visible int `json:"visible"`
	}
	if err := page.Eval(ctx, videoCountJS, &players); err != nil {
		return errv(c.Name(), err)
	}
	if players.Visible > 0 {
		return pass(c.Name(), "%d video(s) detected", players.Total)
	}
	return warn(c.Name(), "No visible videos found")
}
