package browser

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"stationcheck/internal/harness"
)

// Page drives one Chrome page over the DevTools protocol. It satisfies
// harness.Page and is owned by exactly one session at a time.
type Page struct {
	conn *conn
	proc *process

	mu      sync.Mutex
	console []string
	loadCh  chan struct{}
}

// NewFactory returns a page factory that launches a dedicated headless
// Chrome per target. Each handle is heavyweight: the orchestrator's worker
// cap is what bounds how many exist at once.
func NewFactory(opts Options) harness.PageFactory {
	return func(ctx context.Context, address string) (harness.Page, error) {
		return Open(ctx, opts)
	}
}

// Open launches Chrome and attaches to its initial page target.
func Open(ctx context.Context, opts Options) (*Page, error) {
	proc, err := launch(ctx, opts)
	if err != nil {
		return nil, err
	}

	wsURL, err := pageSocketURL(ctx, proc.port)
	if err != nil {
		proc.kill()
		return nil, err
	}

	page := &Page{proc: proc}
	c, err := dialCDP(ctx, wsURL, page.handleEvent)
	if err != nil {
		proc.kill()
		return nil, err
	}
	page.conn = c

	for _, domain := range []string{"Page.enable", "Runtime.enable", "Log.enable"} {
		if err := c.call(ctx, domain, nil, nil); err != nil {
			_ = page.Close()
			return nil, fmt.Errorf("enabling devtools domain: %w", err)
		}
	}
	return page, nil
}

// attach builds a Page over an existing DevTools connection. Tests use it
// with a fake protocol server; Open uses it indirectly via dialCDP.
func attach(ctx context.Context, wsURL string) (*Page, error) {
	page := &Page{}
	c, err := dialCDP(ctx, wsURL, page.handleEvent)
	if err != nil {
		return nil, err
	}
	page.conn = c
	return page, nil
}

func (p *Page) handleEvent(method string, params json.RawMessage) {
	switch method {
	case "Page.loadEventFired":
		p.mu.Lock()
		if p.loadCh != nil {
			close(p.loadCh)
			p.loadCh = nil
		}
		p.mu.Unlock()

	case "Runtime.exceptionThrown":
		var ev struct {
			ExceptionDetails struct {
				Text      string `json:"text"`
				Exception struct {
					Description string `json:"description"`
				} `json:"exception"`
			} `json:"exceptionDetails"`
		}
		if json.Unmarshal(params, &ev) != nil {
			return
		}
		msg := ev.ExceptionDetails.Exception.Description
		if msg == "" {
			msg = ev.ExceptionDetails.Text
		}
		p.appendConsole(msg)

	case "Log.entryAdded":
		var ev struct {
			Entry struct {
				Level string `json:"level"`
				Text  string `json:"text"`
			} `json:"entry"`
		}
		if json.Unmarshal(params, &ev) != nil {
			return
		}
		if ev.Entry.Level == "error" {
			p.appendConsole(ev.Entry.Text)
		}
	}
}

func (p *Page) appendConsole(msg string) {
	if msg == "" {
		return
	}
	p.mu.Lock()
	p.console = append(p.console, msg)
	p.mu.Unlock()
}

// Navigate loads address and waits until the document finished loading:
// the load event, with a readyState poll as fallback for navigations that
// never fire one.
func (p *Page) Navigate(ctx context.Context, address string) error {
	p.mu.Lock()
	if p.loadCh != nil {
		close(p.loadCh)
	}
	loadCh := make(chan struct{})
	p.loadCh = loadCh
	p.mu.Unlock()

	params := map[string]string{"url": address}
	var nav struct {
		ErrorText string `json:"errorText"`
	}
	if err := p.conn.call(ctx, "Page.navigate", params, &nav); err != nil {
		return err
	}
	if nav.ErrorText != "" {
		return fmt.Errorf("navigation to %s failed: %s", address, nav.ErrorText)
	}

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-loadCh:
			return nil
		case <-ticker.C:
			var state string
			if err := p.Eval(ctx, "document.readyState", &state); err == nil && state == "complete" {
				return nil
			}
		}
	}
}

// Eval evaluates a JavaScript expression and unmarshals its JSON value
// into out. Promise results are awaited.
func (p *Page) Eval(ctx context.Context, expr string, out any) error {
	params := map[string]any{
		"expression":    expr,
		"returnByValue": true,
		"awaitPromise":  true,
	}
	var res struct {
		Result struct {
			Value json.RawMessage `json:"value"`
		} `json:"result"`
		ExceptionDetails *struct {
			Text string `json:"text"`
		} `json:"exceptionDetails"`
	}
	if err := p.conn.call(ctx, "Runtime.evaluate", params, &res); err != nil {
		return err
	}
	if res.ExceptionDetails != nil {
		return fmt.Errorf("script error: %s", res.ExceptionDetails.Text)
	}
	if out == nil || len(res.Result.Value) == 0 || string(res.Result.Value) == "null" {
		return nil
	}
	if err := json.Unmarshal(res.Result.Value, out); err != nil {
		return fmt.Errorf("decoding script value: %w", err)
	}
	return nil
}

// ConsoleErrors returns console error and uncaught exception messages seen
// since the page opened.
func (p *Page) ConsoleErrors() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.console))
	copy(out, p.console)
	return out
}

// ScreenshotPNG captures the current viewport.
func (p *Page) ScreenshotPNG(ctx context.Context) ([]byte, error) {
	var res struct {
		Data string `json:"data"`
	}
	if err := p.conn.call(ctx, "Page.captureScreenshot", map[string]string{"format": "png"}, &res); err != nil {
		return nil, err
	}
	return base64.StdEncoding.DecodeString(res.Data)
}

// Close tears the websocket down and kills the Chrome process.
func (p *Page) Close() error {
	if p.conn != nil {
		_ = p.conn.close()
	}
	if p.proc != nil {
		p.proc.kill()
	}
	return nil
}
