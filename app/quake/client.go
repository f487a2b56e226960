package quake

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/lysyi3m/obs-overlay/app/observability"
	"github.com/lysyi3m/obs-overlay/app/overlay"
)

// Route says where a fetch goes: which API and through which proxies.
type Route struct {
	Sandbox bool
	// Proxy is tried first.
	Proxy string
	// FallbackProxy is the last resort when both the proxy and a direct
	// request fail.
	FallbackProxy string
}

type Client struct {
	httpClient    *http.Client
	productionURL string
	sandboxURL    string
	userAgent     string
	metrics       *observability.Metrics
}

func NewClient(productionURL, sandboxURL, userAgent string, timeout time.Duration, metrics *observability.Metrics) *Client {
	return &Client{
		httpClient:    &http.Client{Timeout: timeout},
		productionURL: productionURL,
		sandboxURL:    sandboxURL,
		userAgent:     userAgent,
		metrics:       metrics,
	}
}

func (c *Client) historyURL(sandbox bool) string {
	base := c.productionURL
	if sandbox {
		base = c.sandboxURL
	}
	return fmt.Sprintf("%s/history?codes=%d&limit=1", base, CodeEarthquake)
}

// Latest returns the most recent earthquake record, or nil when the
// history is empty. On failure it retries without the proxy and then
// through the fallback proxy, skipping URLs it already tried. When every
// attempt fails the first error is returned.
func (c *Client) Latest(ctx context.Context, route Route) (*Event, error) {
	start := time.Now()
	defer func() { c.metrics.QuakeFetchDuration.Observe(time.Since(start).Seconds()) }()

	target := c.historyURL(route.Sandbox)
	attempts := []struct {
		route string
		url   string
	}{
		{"proxy", overlay.ApplyProxy(target, route.Proxy)},
		{"direct", target},
		{"fallback", overlay.ApplyProxy(target, route.FallbackProxy)},
	}

	tried := make(map[string]struct{}, len(attempts))
	var firstErr error
	for _, a := range attempts {
		if _, dup := tried[a.url]; dup {
			continue
		}
		tried[a.url] = struct{}{}

		ev, err := c.fetch(ctx, a.url)
		if err == nil {
			c.metrics.QuakeFetchAttempts.WithLabelValues(a.route, "ok").Inc()
			return ev, nil
		}
		c.metrics.QuakeFetchAttempts.WithLabelValues(a.route, "error").Inc()
		slog.Debug("Quake fetch attempt failed", "route", a.route, "url", a.url, "error", err)

		if firstErr == nil {
			firstErr = err
		}
		if ctx.Err() != nil {
			break
		}
	}

	return nil, firstErr
}

func (c *Client) fetch(ctx context.Context, fullURL string) (*Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quake request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("quake HTTP %d: %s", resp.StatusCode, body)
	}

	var events []Event
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(events) == 0 {
		return nil, nil
	}
	return &events[0], nil
}
