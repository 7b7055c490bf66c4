package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Shop-Assistant/agent/contract"
	statex "github.com/tanpawarit/Chative-Shop-Assistant/agent/state"
)

func SaveState(ctx context.Context, in *GraphState, store statex.Store) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	in.Session.Touch(in.Now)
	if err := in.Session.Validate(); err != nil {
		return nil, fmt.Errorf("state validation failed: %w", err)
	}
	if err := store.Save(ctx, in.Session); err != nil {
		return nil, fmt.Errorf("save session %q: %w", in.SessionID, err)
	}
	return in, nil
}

func FinalizeReply(in *GraphState) (GraphOutput, error) {
	if in == nil || in.Session == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	out := Snapshot(in.Session)
	out.Message = in.Message
	if in.Action != nil {
		out.Kind = in.Action.Kind()
	}
	return out, nil
}

// Snapshot copies the displayable parts of a session.
func Snapshot(st *statex.Session) TurnResult {
	if st == nil {
		return TurnResult{}
	}
	return TurnResult{
		SessionID:  st.ID,
		Transcript: append([]statex.ChatTurn(nil), st.Transcript...),
		Cart:       st.Cart.Entries(),
	}
}
