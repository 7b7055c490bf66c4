package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

const keyPrefix = "AIza"

var (
	ErrMissingKey = errors.New("gemini api key not found")
	ErrInvalidKey = errors.New("invalid google api key format")
)

type Config struct {
	APIKey  string        `envconfig:"API_KEY" split_words:"true"`
	Model   string        `envconfig:"MODEL" split_words:"true" default:"gemini-2.5-flash"`
	BaseURL string        `envconfig:"BASE_URL" split_words:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"60s"`
}

// NormalizeKey trims whitespace and one layer of quotes that .env editors
// tend to leave around the value.
func NormalizeKey(raw string) string {
	k := strings.TrimSpace(raw)
	k = strings.Trim(k, `"`)
	k = strings.Trim(k, `'`)
	return k
}

func (c Config) Validate() error {
	key := NormalizeKey(c.APIKey)
	if key == "" {
		return ErrMissingKey
	}
	if !strings.HasPrefix(key, keyPrefix) {
		return fmt.Errorf("%w: keys start with %q, got %q", ErrInvalidKey, keyPrefix, MaskKey(key))
	}
	return nil
}

// MaskKey keeps the first 10 and last 4 characters.
func MaskKey(key string) string {
	if len(key) <= 14 {
		if len(key) > 10 {
			return key[:10] + "..."
		}
		return key
	}
	return key[:10] + "..." + key[len(key)-4:]
}

func NewClient(ctx context.Context, cfg Config) (*genai.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cc := &genai.ClientConfig{
		APIKey:     NormalizeKey(cfg.APIKey),
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: strings.TrimRight(base, "/") + "/"}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return client, nil
}
