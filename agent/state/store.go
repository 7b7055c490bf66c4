package state

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrStateNotFound  = errors.New("session state not found")
	ErrInvalidSession = errors.New("session id is empty")
	ErrHistoryCorrupt = errors.New("session history does not match transcript")
	ErrCartCorrupt    = errors.New("cart holds a non-positive quantity")
	ErrUnknownBackend = errors.New("unknown session store backend")
)

// Store is the persistence contract used by the orchestrator.
type Store interface {
	Load(ctx context.Context, sessionID string) (*Session, error)
	Save(ctx context.Context, st *Session) error
	Delete(ctx context.Context, sessionID string) error
}

const (
	BackendMemory  = "memory"
	BackendUpstash = "upstash"
)

type StoreConfig struct {
	Backend   string        `envconfig:"BACKEND" split_words:"true" default:"memory"`
	KeyPrefix string        `envconfig:"KEY_PREFIX" split_words:"true" default:"shop:session:"`
	TTL       time.Duration `envconfig:"TTL" split_words:"true" default:"24h"`
}

// NewStore builds the configured store. upstash is only consulted for the
// upstash backend.
func NewStore(cfg StoreConfig, upstash func() (UpstashRedisConfig, error)) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendUpstash:
		if upstash == nil {
			return nil, fmt.Errorf("%w: upstash config loader is nil", ErrUnknownBackend)
		}
		rc, err := upstash()
		if err != nil {
			return nil, fmt.Errorf("load upstash config: %w", err)
		}
		return NewUpstashRedisStore(rc, WithKeyPrefix(cfg.KeyPrefix), WithTTL(cfg.TTL))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
