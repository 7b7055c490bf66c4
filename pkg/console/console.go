// Package console runs the line-oriented research chat in a terminal.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// Asker answers one user line.
type Asker interface {
	Ask(ctx context.Context, line string) (string, error)
}

type AskerFunc func(ctx context.Context, line string) (string, error)

func (f AskerFunc) Ask(ctx context.Context, line string) (string, error) { return f(ctx, line) }

var exitWords = map[string]bool{"exit": true, "quit": true, "bye": true}

const goodbye = "Goodbye! Happy researching!"

var (
	ruleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A"))
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#9aa5b1"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935"))
	agentHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4FC3F7"))
)

type REPL struct {
	in       io.Reader
	out      io.Writer
	asker    Asker
	title    string
	plain    bool
	renderer *glamour.TermRenderer
}

type Option func(*REPL)

// WithPlain disables markdown rendering and styling.
func WithPlain() Option { return func(r *REPL) { r.plain = true } }

func WithTitle(title string) Option {
	return func(r *REPL) {
		if t := strings.TrimSpace(title); t != "" {
			r.title = t
		}
	}
}

func New(in io.Reader, out io.Writer, asker Asker, opts ...Option) *REPL {
	r := &REPL{in: in, out: out, asker: asker, title: "RESEARCH AGENT"}
	for _, opt := range opts {
		opt(r)
	}
	if !r.plain {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
		if err == nil {
			r.renderer = renderer
		}
	}
	return r
}

func (r *REPL) style(s lipgloss.Style, text string) string {
	if r.plain {
		return text
	}
	return s.Render(text)
}

func (r *REPL) Banner() {
	rule := strings.Repeat("=", 70)
	lines := []string{
		r.style(ruleStyle, rule),
		r.style(titleStyle, r.title),
		r.style(ruleStyle, rule),
		"I can help you research any topic using web search!",
		"",
		"Available capabilities:",
		"  - Web search for information and facts",
		"  - Save research findings to files",
		"  - Get current date and time",
		"",
		r.style(mutedStyle, "Type 'exit', 'quit', or 'bye' to end the session."),
		r.style(ruleStyle, rule),
		"",
	}
	fmt.Fprintln(r.out, strings.Join(lines, "\n"))
}

// Render formats an agent reply as terminal markdown, falling back to the
// raw text.
func (r *REPL) Render(reply string) string {
	if r.renderer == nil {
		return reply
	}
	out, err := r.renderer.Render(reply)
	if err != nil {
		return reply
	}
	return strings.TrimRight(out, "\n")
}

// Run reads lines until an exit word, EOF or ctx is done. Agent errors are
// printed and the loop continues.
func (r *REPL) Run(ctx context.Context) error {
	r.Banner()
	scanner := bufio.NewScanner(r.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for {
		if err := ctx.Err(); err != nil {
			fmt.Fprintln(r.out, "\n"+goodbye)
			return nil
		}

		fmt.Fprint(r.out, "You: ")
		if !scanner.Scan() {
			fmt.Fprintln(r.out, "\n"+goodbye)
			if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
				return fmt.Errorf("read input: %w", err)
			}
			return nil
		}

		line := scanner.Text()
		if exitWords[strings.ToLower(strings.TrimSpace(line))] {
			fmt.Fprintln(r.out, "\n"+goodbye)
			return nil
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		reply, err := r.asker.Ask(ctx, line)
		if err != nil {
			fmt.Fprintf(r.out, "\n%s\n\n", r.style(errorStyle, "Error: "+err.Error()))
			continue
		}
		fmt.Fprintf(r.out, "\n%s\n%s\n\n", r.style(agentHeader, "Agent:"), r.Render(reply))
	}
}
