package checks

import (
	"context"

	"stationcheck/internal/harness"
)

// WeatherPageNavigation follows the homepage weather link and verifies the
// forecast block renders. It navigates the shared page handle, so it must
// return to the homepage before handing the page to the next check.
type WeatherPageNavigation struct{}

func (WeatherPageNavigation) Name() string { return "Weather Page Navigation" }

func (c WeatherPageNavigation) Run(ctx context.Context, page harness.Page) harness.Verdict {
	var home string
	if err := page.Eval(ctx, `location.href`, &home); err != nil {
		return errv(c.Name(), err)
	}

	var weatherURL string
	err := page.Eval(ctx, `(() => {
		const link = document.querySelector("a[href='/weather/'][data-lid='Weather'], a[href='/weather/']");
		return link ? link.href : "";
	})()`, &weatherURL)
	if err != nil {
		return errv(c.Name(), err)
	}
	if weatherURL == "" {
		return fail(c.Name(), "Weather link not found on homepage")
	}

	if err := page.Navigate(ctx, weatherURL); err != nil {
		return fail(c.Name(), "Weather page did not load: %v", err)
	}

	var visible bool
	err = page.Eval(ctx, `(() => {
		const block = document.querySelector('div.weather-page__section--forecast-block');
		return !!block && block.offsetHeight > 0 && block.offsetWidth > 0;
	})()`, &visible)

	// Restore the homepage for the checks after this one, whatever the
	// forecast inspection said.
	if navErr := page.Navigate(ctx, home); navErr != nil {
		return fail(c.Name(), "could not return to homepage: %v", navErr)
	}

	if err != nil {
		return errv(c.Name(), err)
	}
	if visible {
		return pass(c.Name(), "Weather page loaded")
	}
	return fail(c.Name(), "Forecast block not visible")
}
