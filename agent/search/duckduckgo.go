package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

type DuckDuckGoInstant struct {
	client   *Client
	endpoint string
}

type ddgTopic struct {
	Text     string     `json:"Text"`
	FirstURL string     `json:"FirstURL"`
	Topics   []ddgTopic `json:"Topics"`
}

type ddgAnswer struct {
	Abstract      string     `json:"Abstract"`
	Heading       string     `json:"Heading"`
	AbstractURL   string     `json:"AbstractURL"`
	RelatedTopics []ddgTopic `json:"RelatedTopics"`
}

const (
	maxRelatedTopics = 5
	maxNestedTopics  = 3
)

func (p *DuckDuckGoInstant) Name() string { return "duckduckgo_instant" }

func (p *DuckDuckGoInstant) Lookup(ctx context.Context, query string) (string, error) {
	params := url.Values{
		"q":             {query},
		"format":        {"json"},
		"no_html":       {"1"},
		"skip_disambig": {"1"},
	}
	var ans ddgAnswer
	if err := p.client.getJSON(ctx, p.endpoint, params, &ans); err != nil {
		return "", err
	}
	return formatInstantAnswer(ans), nil
}

func formatInstantAnswer(ans ddgAnswer) string {
	var lines []string
	if ans.Abstract != "" {
		heading := ans.Heading
		if heading == "" {
			heading = "Search Result"
		}
		lines = append(lines, fmt.Sprintf("**%s**\n", heading), ans.Abstract)
		if ans.AbstractURL != "" {
			lines = append(lines, fmt.Sprintf("\nSource: %s\n", ans.AbstractURL))
		}
		return strings.Join(lines, "\n")
	}

	count := 0
	emit := func(t ddgTopic) {
		lines = append(lines, fmt.Sprintf("%d. %s", count+1, t.Text))
		if t.FirstURL != "" {
			lines = append(lines, fmt.Sprintf("   Source: %s\n", t.FirstURL))
		}
		count++
	}

	for _, topic := range ans.RelatedTopics {
		if count >= maxRelatedTopics {
			break
		}
		switch {
		case topic.Text != "":
			emit(topic)
		case len(topic.Topics) > 0:
			for i, sub := range topic.Topics {
				if i >= maxNestedTopics || count >= maxRelatedTopics {
					break
				}
				if sub.Text != "" {
					emit(sub)
				}
			}
		}
	}
	if count == 0 {
		return ""
	}
	return strings.Join(append([]string{"**Related Information:**\n"}, lines...), "\n")
}

// DuckDuckGoHTML scrapes result snippets from the HTML endpoint.
type DuckDuckGoHTML struct {
	client   *Client
	endpoint string
	timeout  time.Duration
}

const (
	maxSnippets   = 3
	maxSnippetLen = 200
)

func (p *DuckDuckGoHTML) Name() string { return "duckduckgo_html" }

func (p *DuckDuckGoHTML) Lookup(ctx context.Context, query string) (string, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	header := http.Header{}
	header.Set("User-Agent", browserUserAgent)
	header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	body, err := p.client.get(ctx, p.endpoint, url.Values{"q": {query}}, header)
	if err != nil {
		return "", err
	}
	snippets, err := parseSnippets(string(body), maxSnippets)
	if err != nil {
		return "", err
	}

	var lines []string
	for i, s := range snippets {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, truncate(s, maxSnippetLen, "")))
	}
	if len(lines) == 0 {
		return "", nil
	}
	return strings.Join(append([]string{"**Web Results:**\n"}, lines...), "\n"), nil
}

// parseSnippets returns the text of up to limit anchors with class
// result__snippet, skipping empty ones.
func parseSnippets(page string, limit int) ([]string, error) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var out []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if len(out) >= limit {
			return
		}
		if n.Type == html.ElementNode && n.Data == "a" && hasClass(n, "result__snippet") {
			if text := textContent(n); text != "" {
				out = append(out, text)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out, nil
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, f := range strings.Fields(a.Val) {
			if f == class {
				return true
			}
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
