package orchestratornode

import (
	"errors"
	"strings"
	"time"

	cartx "github.com/tanpawarit/Chative-Shop-Assistant/agent/cart"
	contractx "github.com/tanpawarit/Chative-Shop-Assistant/agent/contract"
	statex "github.com/tanpawarit/Chative-Shop-Assistant/agent/state"
)

var (
	ErrInvalidMessage = errors.New("message is empty")
	ErrInvalidSession = errors.New("session id is empty")
)

type GraphInput struct {
	SessionID string
	Text      string
}

// TurnResult is what a finished turn hands back to the transport layer.
// Transcript and Cart are snapshots, not live views.
type TurnResult struct {
	SessionID  string
	Message    string
	Kind       cartx.ActionKind
	Transcript []statex.ChatTurn
	Cart       []cartx.Item
}

type GraphOutput = TurnResult

type GraphState struct {
	SessionID string
	Text      string
	Now       time.Time

	Session  *statex.Session
	Request  contractx.ResponderRequest
	RawReply string
	Action   cartx.Action
	Message  string
}

func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		return nil, ErrInvalidSession
	}
	if strings.TrimSpace(in.Text) == "" {
		return nil, ErrInvalidMessage
	}

	return &GraphState{
		SessionID: sessionID,
		Text:      in.Text,
		Now:       nowFn().UTC(),
	}, nil
}
