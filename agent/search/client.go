// Package search looks a query up across several public sources, in order,
// and returns the first non-empty text.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	maxBodyBytes     = 1 << 20
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

type Config struct {
	DuckDuckGoAPIURL  string        `envconfig:"DDG_API_URL" split_words:"true" default:"https://api.duckduckgo.com/"`
	DuckDuckGoHTMLURL string        `envconfig:"DDG_HTML_URL" split_words:"true" default:"https://html.duckduckgo.com/html/"`
	WikipediaAPIURL   string        `envconfig:"WIKIPEDIA_API_URL" split_words:"true" default:"https://en.wikipedia.org/w/api.php"`
	Timeout           time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"15s"`
	HTMLTimeout       time.Duration `envconfig:"HTML_TIMEOUT" split_words:"true" default:"10s"`
	UserAgent         string        `envconfig:"USER_AGENT" split_words:"true" default:"ResearchAgent/1.0 (Educational Project; Go)"`
	// RequestsPerSecond caps outbound calls across all providers.
	RequestsPerSecond float64 `envconfig:"REQUESTS_PER_SECOND" split_words:"true" default:"2"`
	Burst             int     `envconfig:"BURST" split_words:"true" default:"4"`
}

// Client is the shared HTTP client of all providers.
type Client struct {
	http      *http.Client
	limiter   *rate.Limiter
	userAgent string
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = "ResearchAgent/1.0 (Educational Project; Go)"
	}

	return &Client{
		http:      &http.Client{Timeout: timeout},
		limiter:   rate.NewLimiter(limit, burst),
		userAgent: ua,
	}
}

// get issues a rate limited GET and returns the body of a 200 response.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, header http.Header) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint %q: %w", endpoint, err)
	}
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", u.Host, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: HTTP %d", u.Host, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s body: %w", u.Host, err)
	}
	return body, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	body, err := c.get(ctx, endpoint, params, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return nil
}
