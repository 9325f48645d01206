package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

// chromeCandidates are probed in order when no explicit path is configured.
var chromeCandidates = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"/usr/bin/google-chrome",
	"/usr/bin/chromium",
}

// Options configures browser processes opened by the factory.
type Options struct {
	// ChromePath overrides Chrome binary discovery.
	ChromePath string

	// Headless runs Chrome with the new headless mode. CI runs want this.
	Headless bool

	// LaunchTimeout bounds process startup and DevTools discovery.
	LaunchTimeout time.Duration
}

// process is one launched Chrome instance with its DevTools endpoint.
type process struct {
	cmd     *exec.Cmd
	dataDir string
	port    string
}

func findChrome(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	for _, candidate := range chromeCandidates {
		if path, err := exec.LookPath(candidate); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no chrome binary found; set chrome_path in config")
}

// launch starts a dedicated Chrome with remote debugging on an ephemeral
// port and waits for the DevToolsActivePort file to learn which one.
func launch(ctx context.Context, opts Options) (*process, error) {
	bin, err := findChrome(opts.ChromePath)
	if err != nil {
		return nil, err
	}

	dataDir, err := os.MkdirTemp("", "stationcheck-chrome-*")
	if err != nil {
		return nil, fmt.Errorf("creating chrome profile dir: %w", err)
	}

	args := []string{
		"--remote-debugging-port=0",
		"--user-data-dir=" + dataDir,
		"--no-first-run",
		"--no-default-browser-check",
		"--no-sandbox",
		"--disable-gpu",
		"--disable-dev-shm-usage",
		"--window-size=1920,1080",
		"--user-agent=" + userAgent,
	}
	if opts.Headless {
		args = append(args, "--headless=new")
	}
	args = append(args, "about:blank")

	cmd := exec.CommandContext(ctx, bin, args...)
	if err := cmd.Start(); err != nil {
		_ = os.RemoveAll(dataDir)
		return nil, fmt.Errorf("starting chrome: %w", err)
	}

	proc := &process{cmd: cmd, dataDir: dataDir}
	port, err := waitForPort(ctx, dataDir, opts.LaunchTimeout)
	if err != nil {
		proc.kill()
		return nil, err
	}
	proc.port = port
	return proc, nil
}

// waitForPort polls the DevToolsActivePort file Chrome writes once its
// debugging endpoint is up. First line is the port number.
func waitForPort(ctx context.Context, dataDir string, timeout time.Duration) (string, error) {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	deadline := time.Now().Add(timeout)
	path := filepath.Join(dataDir, "DevToolsActivePort")

	for {
		if data, err := os.ReadFile(path); err == nil {
			lines := strings.SplitN(strings.TrimSpace(string(data)), "\n", 2)
			if len(lines) > 0 && lines[0] != "" {
				return lines[0], nil
			}
		}
		if time.Now().After(deadline) {
			return "", fmt.Errorf("chrome did not expose a devtools port within %s", timeout)
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
}

func (p *process) kill() {
	if p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
		_ = p.cmd.Wait()
	}
	_ = os.RemoveAll(p.dataDir)
}

// pageSocketURL asks the DevTools HTTP endpoint for the first page
// target's websocket URL.
func pageSocketURL(ctx context.Context, port string) (string, error) {
	url := fmt.Sprintf("http://127.0.0.1:%s/json/list", port)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("querying devtools targets: %w", err)
	}
	defer resp.Body.Close()

	var targets []struct {
		Type                 string `json:"type"`
		WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&targets); err != nil {
		return "", fmt.Errorf("decoding devtools target list: %w", err)
	}
	for _, t := range targets {
		if t.Type == "page" && t.WebSocketDebuggerURL != "" {
			return t.WebSocketDebuggerURL, nil
		}
	}
	return "", fmt.Errorf("no page target among %d devtools targets", len(targets))
}
