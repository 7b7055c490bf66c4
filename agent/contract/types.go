package contract

type AgentType string

const (
	AgentTypeShopper  AgentType = "shopper"
	AgentTypeResearch AgentType = "research"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// HistoryMessage is one entry of the conversation fed back to the responder.
type HistoryMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type ResponderRequest struct {
	UserMessage string           `json:"user_message"`
	CartContext string           `json:"cart_context,omitempty"`
	History     []HistoryMessage `json:"history,omitempty"`
}

// Prompt is the text actually sent as the user turn.
func (r ResponderRequest) Prompt() string {
	return r.UserMessage + r.CartContext
}

type ToolRequest struct {
	ID   string         `json:"id,omitempty"`
	Tool string         `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
}

type ToolResult struct {
	Tool   string `json:"tool"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}
