package orchestrator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Shop-Assistant/agent/contract"
	nodex "github.com/tanpawarit/Chative-Shop-Assistant/agent/nodes/orchestrator"
	statex "github.com/tanpawarit/Chative-Shop-Assistant/agent/state"
)

var (
	ErrInvalidMessage = nodex.ErrInvalidMessage
	ErrInvalidSession = nodex.ErrInvalidSession
)

type TurnResult = nodex.TurnResult

type Orchestrator struct {
	store     statex.Store
	responder contractx.Responder

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]
	locks       *sessionLocks

	now func() time.Time
}

type Option func(*Orchestrator)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

func New(store statex.Store, responder contractx.Responder, opts ...Option) (*Orchestrator, error) {
	if store == nil {
		return nil, errors.New("state store is required")
	}
	if responder == nil {
		return nil, errors.New("responder is required")
	}

	o := &Orchestrator{
		store:     store,
		responder: responder,
		locks:     newSessionLocks(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}

	graphRunner, err := o.compileHandleMessageGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner
	return o, nil
}

// HandleMessage runs one chat turn. When the responder fails nothing is
// saved: the cart and transcript stay as they were.
func (o *Orchestrator) HandleMessage(ctx context.Context, sessionID string, text string) (TurnResult, error) {
	id := strings.TrimSpace(sessionID)
	o.locks.Lock(id)
	defer o.locks.Unlock(id)

	start := o.now()
	out, err := o.graphRunner.Invoke(ctx, nodex.GraphInput{SessionID: id, Text: text})
	if err != nil {
		log.Warn().Err(err).Str("session_id", id).Msg("chat turn failed")
		return TurnResult{}, err
	}

	log.Debug().
		Str("session_id", id).
		Str("action", string(out.Kind)).
		Int("cart_entries", len(out.Cart)).
		Dur("took", o.now().Sub(start)).
		Msg("chat turn finished")
	return out, nil
}

// Reset empties cart, transcript and history, creating the session if needed.
func (o *Orchestrator) Reset(ctx context.Context, sessionID string) error {
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return ErrInvalidSession
	}
	o.locks.Lock(id)
	defer o.locks.Unlock(id)

	now := o.now().UTC()
	st, err := nodex.LoadOrCreate(ctx, o.store, id, now)
	if err != nil {
		return err
	}
	st.Reset(now)
	return o.store.Save(ctx, st)
}

// Snapshot returns the current transcript and cart. Unknown sessions read as
// empty.
func (o *Orchestrator) Snapshot(ctx context.Context, sessionID string) (TurnResult, error) {
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return TurnResult{}, ErrInvalidSession
	}
	o.locks.Lock(id)
	defer o.locks.Unlock(id)

	st, err := nodex.LoadOrCreate(ctx, o.store, id, o.now())
	if err != nil {
		return TurnResult{}, err
	}
	return nodex.Snapshot(st), nil
}

// Forget deletes the session entirely.
func (o *Orchestrator) Forget(ctx context.Context, sessionID string) error {
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return ErrInvalidSession
	}
	o.locks.Lock(id)
	defer o.locks.Unlock(id)
	return o.store.Delete(ctx, id)
}

// sessionLocks serializes turns per session id. Entries live only while a
// turn holds or waits on them.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sessionLock)}
}

func (l *sessionLocks) Lock(id string) {
	l.mu.Lock()
	m, ok := l.locks[id]
	if !ok {
		m = &sessionLock{}
		l.locks[id] = m
	}
	m.refs++
	l.mu.Unlock()

	m.mu.Lock()
}

func (l *sessionLocks) Unlock(id string) {
	l.mu.Lock()
	m, ok := l.locks[id]
	if !ok {
		l.mu.Unlock()
		return
	}
	m.refs--
	if m.refs <= 0 {
		delete(l.locks, id)
	}
	l.mu.Unlock()

	m.mu.Unlock()
}

func (l *sessionLocks) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
