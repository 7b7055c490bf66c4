package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// Provider is one lookup source. An empty string with a nil error means the
// source had nothing for the query.
type Provider interface {
	Name() string
	Lookup(ctx context.Context, query string) (string, error)
}

// Chain asks providers in order and stops at the first non-empty answer.
// Provider failures are logged and skipped.
type Chain struct {
	providers []Provider
}

func NewChain(providers ...Provider) *Chain {
	ps := make([]Provider, 0, len(providers))
	for _, p := range providers {
		if p != nil {
			ps = append(ps, p)
		}
	}
	return &Chain{providers: ps}
}

// New builds the default chain: DuckDuckGo instant answers, Wikipedia
// opensearch, Wikipedia extracts, DuckDuckGo HTML results.
func New(cfg Config) *Chain {
	client := NewClient(cfg)
	return NewChain(
		&DuckDuckGoInstant{client: client, endpoint: cfg.DuckDuckGoAPIURL},
		&WikipediaOpenSearch{client: client, endpoint: cfg.WikipediaAPIURL},
		&WikipediaExtract{client: client, endpoint: cfg.WikipediaAPIURL},
		&DuckDuckGoHTML{client: client, endpoint: cfg.DuckDuckGoHTMLURL, timeout: cfg.HTMLTimeout},
	)
}

func NoResults(query string) string {
	return fmt.Sprintf("Unable to find detailed information for '%s'. The search did not return results. Try rephrasing your query.", query)
}

func (c *Chain) Search(ctx context.Context, query string) string {
	for _, p := range c.providers {
		if ctx.Err() != nil {
			break
		}
		text, err := p.Lookup(ctx, query)
		if err != nil {
			log.Debug().Err(err).Str("provider", p.Name()).Str("query", query).Msg("search provider failed")
			continue
		}
		if strings.TrimSpace(text) != "" {
			log.Debug().Str("provider", p.Name()).Str("query", query).Msg("search provider answered")
			return text
		}
	}
	return NoResults(query)
}

// truncate cuts s to n runes, appending suffix when something was dropped.
func truncate(s string, n int, suffix string) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + suffix
}
