package orchestratornode

import (
	"context"
	"fmt"

	cartx "github.com/tanpawarit/Chative-Shop-Assistant/agent/cart"
	contractx "github.com/tanpawarit/Chative-Shop-Assistant/agent/contract"
)

// Respond asks the responder for a raw reply. The cart summary travels with
// the user text; history is passed as stored.
func Respond(ctx context.Context, in *GraphState, responder contractx.Responder) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	in.Request = contractx.ResponderRequest{
		UserMessage: in.Text,
		CartContext: cartx.CartContext(in.Session.Cart),
		History:     append([]contractx.HistoryMessage(nil), in.Session.History...),
	}

	raw, err := responder.Respond(ctx, in.Request)
	if err != nil {
		return nil, err
	}
	in.RawReply = raw
	return in, nil
}
