package checks

import (
	"context"

	"stationcheck/internal/harness"
)

// WeatherWidget verifies the homepage carries a weather module; every
// affiliate homepage is required to.
type WeatherWidget struct{}

func (WeatherWidget) Name() string { return "Weather Widget" }

func (c WeatherWidget) Run(ctx context.Context, page harness.Page) harness.Verdict {
	var found bool
	err := page.Eval(ctx, `!!document.querySelector(".weather, #weather, [class*='weather']")`, &found)
	if err != nil {
		return errv(c.Name(), err)
	}
	if found {
		return pass(c.Name(), "Weather widget found")
	}
	return fail(c.Name(), "Weather widget not found")
}
