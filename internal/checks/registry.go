package checks

import "stationcheck/internal/harness"

// Registry is the canonical check sequence: ten homepage and compliance
// checks followed by the three functional workflows. Order matters — the
// workflow checks mutate page state and run after every read-only check
// has seen the freshly loaded homepage.
func Registry() []harness.Check {
	return []harness.Check{
		PagePerformance{},
		PageSize{},
		JavaScriptErrors{},
		ImageLoading{},
		VideoPresence{},
		WeatherWidget{},
		MobileResponsive{},
		AdsPresence{},
		NavigationMenu{},
		FooterCompliance{},

		WeatherPageNavigation{},
		AdIframeValidation{},
		VideoPlayback{},
	}
}

// Names lists the registry's check names in order.
func Names() []string {
	registry := Registry()
	names := make([]string, 0, len(registry))
	for _, c := range registry {
		names = append(names, c.Name())
	}
	return names
}
