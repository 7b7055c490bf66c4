// Package notes persists research findings as timestamped text files, and
// optionally archives them in Postgres.
package notes

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
)

const (
	maxSlugLen  = 50
	ruleWidth   = 70
	stampLayout = "2006-01-02 15:04:05"
	fileLayout  = "20060102_150405"
)

type Config struct {
	Dir         string `envconfig:"DIR" split_words:"true" default:"logs"`
	DatabaseDSN string `envconfig:"DATABASE_DSN" split_words:"true"`
}

// FileSaver writes one file per note under Dir.
type FileSaver struct {
	dir string
	now func() time.Time
}

func NewFileSaver(dir string) *FileSaver {
	if strings.TrimSpace(dir) == "" {
		dir = "logs"
	}
	return &FileSaver{dir: dir, now: time.Now}
}

// Slug keeps letters, digits and spaces, turns spaces into underscores and
// cuts the result at 50 characters.
func Slug(topic string) string {
	var sb strings.Builder
	for _, r := range topic {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			sb.WriteRune(r)
		}
	}
	slug := strings.ReplaceAll(sb.String(), " ", "_")
	if r := []rune(slug); len(r) > maxSlugLen {
		slug = string(r[:maxSlugLen])
	}
	return slug
}

// Write stores the note and returns the file path.
func (s *FileSaver) Write(topic, content string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create notes dir: %w", err)
	}

	now := s.now()
	path := filepath.Join(s.dir, fmt.Sprintf("research_%s_%s.txt", Slug(topic), now.Format(fileLayout)))

	if err := os.WriteFile(path, []byte(render(topic, content, now)), 0o644); err != nil {
		return "", fmt.Errorf("write note: %w", err)
	}
	return path, nil
}

func render(topic, content string, now time.Time) string {
	rule := strings.Repeat("=", ruleWidth)
	var sb strings.Builder
	fmt.Fprintf(&sb, "Research Topic: %s\n", topic)
	fmt.Fprintf(&sb, "Date: %s\n", now.Format(stampLayout))
	sb.WriteString(rule + "\n\n")
	sb.WriteString(content)
	sb.WriteString("\n\n" + rule)
	fmt.Fprintf(&sb, "\nSaved: %s", now.Format(stampLayout))
	return sb.String()
}
