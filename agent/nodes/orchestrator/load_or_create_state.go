package orchestratornode

import (
	"context"
	"errors"
	"fmt"
	"time"

	contractx "github.com/tanpawarit/Chative-Shop-Assistant/agent/contract"
	statex "github.com/tanpawarit/Chative-Shop-Assistant/agent/state"
)

func LoadOrCreateState(ctx context.Context, in *GraphState, store statex.Store) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	st, err := LoadOrCreate(ctx, store, in.SessionID, in.Now)
	if err != nil {
		return nil, err
	}
	in.Session = st
	return in, nil
}

// LoadOrCreate returns the stored session or a fresh one when none exists.
func LoadOrCreate(ctx context.Context, store statex.Store, sessionID string, now time.Time) (*statex.Session, error) {
	st, err := store.Load(ctx, sessionID)
	if err == nil {
		st.EnsureCart()
		return st, nil
	}
	if !errors.Is(err, statex.ErrStateNotFound) {
		return nil, fmt.Errorf("load session %q: %w", sessionID, err)
	}
	return statex.NewSession(sessionID, now), nil
}
