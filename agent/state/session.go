package state

import (
	"errors"
	"fmt"
	"time"

	cartx "github.com/tanpawarit/Chative-Shop-Assistant/agent/cart"
	contractx "github.com/tanpawarit/Chative-Shop-Assistant/agent/contract"
)

// Session owns everything a chat conversation mutates:
// - Cart: composite key -> entry, insertion ordered
// - Transcript: (user text, shown reply) pairs for display
// - History: role-tagged messages fed back to the responder
type Session struct {
	ID         string                     `json:"id"`
	Cart       *cartx.Cart                `json:"cart"`
	Transcript []ChatTurn                 `json:"transcript,omitempty"`
	History    []contractx.HistoryMessage `json:"history,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ChatTurn struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

var ErrNilSession = errors.New("nil session")

func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		Cart:      cartx.New(),
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
}

func (s *Session) Touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}

// EnsureCart makes sure s.Cart is initialized.
func (s *Session) EnsureCart() {
	if s.Cart == nil {
		s.Cart = cartx.New()
	}
}

// AppendTurn records a finished turn. The user text and raw reply also go
// into the responder history.
func (s *Session) AppendTurn(userText, prompt, rawReply, shown string) {
	s.Transcript = append(s.Transcript, ChatTurn{User: userText, Assistant: shown})
	s.History = append(s.History,
		contractx.HistoryMessage{Role: contractx.RoleUser, Content: prompt},
		contractx.HistoryMessage{Role: contractx.RoleAssistant, Content: rawReply},
	)
}

// Reset empties cart, transcript and history.
func (s *Session) Reset(now time.Time) {
	s.EnsureCart()
	s.Cart.Reset()
	s.Transcript = nil
	s.History = nil
	s.Touch(now)
}

// Clone returns a deep copy so stores never share mutable state with callers.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Cart = s.Cart.Clone()
	out.Transcript = append([]ChatTurn(nil), s.Transcript...)
	out.History = append([]contractx.HistoryMessage(nil), s.History...)
	return &out
}

func (s *Session) Validate() error {
	if s == nil {
		return ErrNilSession
	}
	if s.ID == "" {
		return ErrInvalidSession
	}
	if len(s.History) != 2*len(s.Transcript) {
		return fmt.Errorf("%w: history=%d transcript=%d", ErrHistoryCorrupt, len(s.History), len(s.Transcript))
	}
	for _, it := range s.Cart.Entries() {
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: key=%q quantity=%d", ErrCartCorrupt, it.Key, it.Quantity)
		}
	}
	return nil
}
