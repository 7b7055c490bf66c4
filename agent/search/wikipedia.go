package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// WikipediaOpenSearch lists matching article titles that carry a
// description.
type WikipediaOpenSearch struct {
	client   *Client
	endpoint string
}

const maxWikiTitles = 3

func (p *WikipediaOpenSearch) Name() string { return "wikipedia_opensearch" }

func (p *WikipediaOpenSearch) Lookup(ctx context.Context, query string) (string, error) {
	res, err := openSearch(ctx, p.client, p.endpoint, query, 5)
	if err != nil {
		return "", err
	}

	hasDescription := false
	for _, d := range res.descriptions {
		if d != "" {
			hasDescription = true
			break
		}
	}
	if !hasDescription {
		return "", nil
	}

	lines := []string{"**Wikipedia Results:**\n"}
	for i := 0; i < len(res.titles) && i < maxWikiTitles; i++ {
		title := res.titles[i]
		desc := at(res.descriptions, i)
		if title == "" || desc == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("%d. **%s**", i+1, title), "   "+desc)
		if u := at(res.urls, i); u != "" {
			lines = append(lines, fmt.Sprintf("   Source: %s\n", u))
		}
	}
	if len(lines) == 1 {
		return "", nil
	}
	return strings.Join(lines, "\n"), nil
}

// WikipediaExtract returns the intro of the best matching article.
type WikipediaExtract struct {
	client   *Client
	endpoint string
}

const (
	minExtractLen = 50
	maxExtractLen = 600
)

type wikiPage struct {
	Title   string `json:"title"`
	Extract string `json:"extract"`
	FullURL string `json:"fullurl"`
}

type wikiQuery struct {
	Query struct {
		Pages map[string]wikiPage `json:"pages"`
	} `json:"query"`
}

func (p *WikipediaExtract) Name() string { return "wikipedia_extract" }

func (p *WikipediaExtract) Lookup(ctx context.Context, query string) (string, error) {
	title := query
	if res, err := openSearch(ctx, p.client, p.endpoint, query, 1); err == nil && len(res.titles) > 0 && res.titles[0] != "" {
		title = res.titles[0]
	}

	params := url.Values{
		"action":      {"query"},
		"format":      {"json"},
		"prop":        {"extracts|info"},
		"exintro":     {"1"},
		"explaintext": {"1"},
		"inprop":      {"url"},
		"titles":      {title},
		"redirects":   {"1"},
	}
	var q wikiQuery
	if err := p.client.getJSON(ctx, p.endpoint, params, &q); err != nil {
		return "", err
	}

	ids := make([]string, 0, len(q.Query.Pages))
	for id := range q.Query.Pages {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var blocks []string
	for _, id := range ids {
		page := q.Query.Pages[id]
		if id == "-1" || len([]rune(page.Extract)) <= minExtractLen {
			continue
		}
		link := page.FullURL
		if link == "" {
			link = "https://en.wikipedia.org/wiki/" + strings.ReplaceAll(page.Title, " ", "_")
		}
		blocks = append(blocks, fmt.Sprintf("**%s**\n\n%s\n\nSource: %s\n",
			page.Title, truncate(page.Extract, maxExtractLen, "..."), link))
	}
	return strings.Join(blocks, "\n"), nil
}

type openSearchResult struct {
	titles       []string
	descriptions []string
	urls         []string
}

// openSearch decodes the positional [query, titles, descriptions, urls]
// response of action=opensearch.
func openSearch(ctx context.Context, c *Client, endpoint, query string, limit int) (openSearchResult, error) {
	params := url.Values{
		"action":    {"opensearch"},
		"search":    {query},
		"limit":     {fmt.Sprint(limit)},
		"namespace": {"0"},
		"format":    {"json"},
	}
	var raw []json.RawMessage
	if err := c.getJSON(ctx, endpoint, params, &raw); err != nil {
		return openSearchResult{}, err
	}

	var res openSearchResult
	fields := []*[]string{&res.titles, &res.descriptions, &res.urls}
	for i, dst := range fields {
		if i+1 >= len(raw) {
			break
		}
		if err := json.Unmarshal(raw[i+1], dst); err != nil {
			return openSearchResult{}, fmt.Errorf("decode opensearch field %d: %w", i+1, err)
		}
	}
	return res, nil
}

func at(xs []string, i int) string {
	if i < len(xs) {
		return xs[i]
	}
	return ""
}
