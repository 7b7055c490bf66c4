package state

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultKeyPrefix   = "shop:session:"
	defaultSessionTTL  = 24 * time.Hour
	defaultHTTPTimeout = 10 * time.Second
	maxReplyBytes      = 2 << 20
)

type UpstashRedisConfig struct {
	URL     string        `envconfig:"URL" split_words:"true" required:"true"`
	Token   string        `envconfig:"TOKEN" split_words:"true" required:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

// StoreOption customizes UpstashRedisStore.
type StoreOption func(*UpstashRedisStore)

func WithKeyPrefix(prefix string) StoreOption {
	return func(s *UpstashRedisStore) {
		if p := strings.TrimSpace(prefix); p != "" {
			s.prefix = p
		}
	}
}

// WithTTL sets the sliding expiry. Zero keeps sessions forever.
func WithTTL(ttl time.Duration) StoreOption {
	return func(s *UpstashRedisStore) { s.ttl = ttl }
}

func WithHTTPClient(client *http.Client) StoreOption {
	return func(s *UpstashRedisStore) {
		if client != nil {
			s.client = client
		}
	}
}

// UpstashRedisStore keeps sessions as JSON strings in Upstash Redis, spoken
// to over its REST command endpoint. Each Load refreshes the key expiry.
type UpstashRedisStore struct {
	endpoint string
	token    string
	client   *http.Client
	prefix   string
	ttl      time.Duration
}

var _ Store = (*UpstashRedisStore)(nil)

type upstashReply struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

func NewUpstashRedisStore(cfg UpstashRedisConfig, opts ...StoreOption) (*UpstashRedisStore, error) {
	endpoint := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if endpoint == "" {
		return nil, errors.New("upstash redis url is required")
	}
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("invalid upstash redis url: %w", err)
	}
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, errors.New("upstash redis token is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	s := &UpstashRedisStore{
		endpoint: endpoint,
		token:    token,
		client:   &http.Client{Timeout: timeout},
		prefix:   defaultKeyPrefix,
		ttl:      defaultSessionTTL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.ttl < 0 {
		return nil, errors.New("ttl must be >= 0")
	}
	return s, nil
}

func (s *UpstashRedisStore) Load(ctx context.Context, sessionID string) (*Session, error) {
	key, err := s.key(sessionID)
	if err != nil {
		return nil, err
	}

	reply, err := s.do(ctx, "GET", key)
	if err != nil {
		return nil, err
	}
	raw := bytes.TrimSpace(reply.Result)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, ErrStateNotFound
	}

	var payload string
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode session payload: %w", err)
	}
	var st Session
	if err := json.Unmarshal([]byte(payload), &st); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	st.EnsureCart()
	if err := st.Validate(); err != nil {
		return nil, fmt.Errorf("stored session %q: %w", sessionID, err)
	}

	if s.ttl > 0 {
		if _, err := s.do(ctx, "EXPIRE", key, seconds(s.ttl)); err != nil {
			return nil, fmt.Errorf("refresh session ttl: %w", err)
		}
	}
	return &st, nil
}

func (s *UpstashRedisStore) Save(ctx context.Context, st *Session) error {
	if st == nil {
		return ErrNilSession
	}
	key, err := s.key(st.ID)
	if err != nil {
		return err
	}
	st.EnsureCart()
	if st.UpdatedAt.IsZero() {
		st.UpdatedAt = time.Now()
	}
	st.UpdatedAt = st.UpdatedAt.UTC()

	body, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	args := []any{key, string(body)}
	if s.ttl > 0 {
		args = append(args, "EX", seconds(s.ttl))
	}
	_, err = s.do(ctx, "SET", args...)
	return err
}

func (s *UpstashRedisStore) Delete(ctx context.Context, sessionID string) error {
	key, err := s.key(sessionID)
	if err != nil {
		return err
	}
	_, err = s.do(ctx, "DEL", key)
	return err
}

func (s *UpstashRedisStore) key(sessionID string) (string, error) {
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return "", ErrInvalidSession
	}
	prefix := s.prefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return prefix + id, nil
}

// do posts one Redis command as a JSON array, e.g. ["SET","k","v","EX","60"].
func (s *UpstashRedisStore) do(ctx context.Context, cmd string, args ...any) (*upstashReply, error) {
	command := append([]any{cmd}, args...)
	body, err := json.Marshal(command)
	if err != nil {
		return nil, fmt.Errorf("marshal %s command: %w", cmd, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", cmd, err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")

	client := s.client
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstash %s: %w", cmd, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return nil, fmt.Errorf("read upstash %s reply: %w", cmd, err)
	}

	var reply upstashReply
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &reply); err != nil {
			return nil, fmt.Errorf("decode upstash %s reply (status %d): %w", cmd, resp.StatusCode, err)
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := reply.Error
		if msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		return nil, fmt.Errorf("upstash %s failed: status %d: %s", cmd, resp.StatusCode, msg)
	}
	if reply.Error != "" {
		return nil, fmt.Errorf("upstash %s failed: %s", cmd, reply.Error)
	}
	return &reply, nil
}

func seconds(ttl time.Duration) string {
	n := int64(ttl / time.Second)
	if n <= 0 {
		n = 1
	}
	return strconv.FormatInt(n, 10)
}
