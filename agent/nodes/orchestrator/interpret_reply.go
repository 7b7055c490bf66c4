package orchestratornode

import (
	"fmt"

	cartx "github.com/tanpawarit/Chative-Shop-Assistant/agent/cart"
	contractx "github.com/tanpawarit/Chative-Shop-Assistant/agent/contract"
)

func InterpretReply(in *GraphState) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	in.Action = cartx.Decode(in.RawReply)
	return in, nil
}

func ApplyAction(in *GraphState) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}
	in.Session.EnsureCart()
	in.Message = cartx.Apply(in.Session.Cart, in.Action)
	return in, nil
}

func RecordTurn(in *GraphState) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}
	in.Session.AppendTurn(in.Text, in.Request.Prompt(), in.RawReply, in.Message)
	return in, nil
}
