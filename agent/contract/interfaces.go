package contract

import "context"

// Responder turns a user message, the cart summary and the prior conversation
// into a raw reply. The reply may be JSON for a cart action or free text.
type Responder interface {
	Respond(ctx context.Context, req ResponderRequest) (string, error)
}

// Searcher returns a text blob for a query. It never fails; an empty lookup
// yields a fixed "no results" message.
type Searcher interface {
	Search(ctx context.Context, query string) string
}

// NoteSaver persists research findings and returns a confirmation or an
// error message suitable for the model.
type NoteSaver interface {
	Save(ctx context.Context, topic string, content string) string
}
