package checks

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"stationcheck/internal/harness"
)

// Screenshot captures the final page state into the artifacts directory,
// named after the page's hostname. It runs last in the sequence so the
// image reflects what every other check saw.
type Screenshot struct {
	Dir string
}

// NewScreenshot builds a screenshot check writing PNGs under dir.
func NewScreenshot(dir string) *Screenshot {
	return &Screenshot{Dir: dir}
}

func (*Screenshot) Name() string { return "Final Screenshot" }

func (c *Screenshot) Run(ctx context.Context, page harness.Page) harness.Verdict {
	var host string
	if err := page.Eval(ctx, `location.hostname`, &host); err != nil {
		return errv(c.Name(), err)
	}
	slug := slugify(host)
	if slug == "" {
		slug = "page"
	}

	png, err := page.ScreenshotPNG(ctx)
	if err != nil {
		return inconclusive(c.Name(), "screenshot unavailable: %v", err)
	}
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return errv(c.Name(), err)
	}
	path := filepath.Join(c.Dir, slug+".png")
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return errv(c.Name(), err)
	}
	return pass(c.Name(), "Saved %s", path)
}

func slugify(name string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, strings.TrimSpace(name))
	return strings.Trim(slug, "-")
}
