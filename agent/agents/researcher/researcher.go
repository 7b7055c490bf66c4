package researcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Shop-Assistant/agent/contract"
	toolx "github.com/tanpawarit/Chative-Shop-Assistant/agent/tool"
)

const DefaultMaxSteps = 6

var ErrStepLimit = errors.New("research tool loop hit the step limit")

type Option func(*Agent)

func WithMaxSteps(n int) Option {
	return func(a *Agent) {
		if n > 0 {
			a.maxSteps = n
		}
	}
}

// Agent answers research questions with a tool calling model. It holds no
// conversation state; see Conversation.
type Agent struct {
	runner   compose.Runnable[[]*schema.Message, *schema.Message]
	execute  toolx.Executor
	allowed  map[string]struct{}
	maxSteps int
}

func New(
	ctx context.Context,
	chatModel einomodel.ToolCallingChatModel,
	systemPrompt string,
	deps toolx.Deps,
	opts ...Option,
) (*Agent, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("%w: research chat model is nil", contractx.ErrValidation)
	}
	if strings.TrimSpace(systemPrompt) == "" {
		return nil, fmt.Errorf("%w: research system prompt", contractx.ErrPromptMissing)
	}

	infos, execute := toolx.BuildForAgent(contractx.AgentTypeResearch, deps)
	toolModel, err := chatModel.WithTools(infos)
	if err != nil {
		return nil, fmt.Errorf("%w: bind research tools: %v", contractx.ErrModelInvoke, err)
	}
	runner, err := compileStepGraph(ctx, toolModel, systemPrompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}

	allowed := make(map[string]struct{}, len(infos))
	for _, info := range infos {
		allowed[info.Name] = struct{}{}
	}

	a := &Agent{
		runner:   runner,
		execute:  execute,
		allowed:  allowed,
		maxSteps: DefaultMaxSteps,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a, nil
}

// Run answers input given the prior messages. It returns the final reply
// and every message produced this turn, starting with the user message.
func (a *Agent) Run(ctx context.Context, history []*schema.Message, input string) (string, []*schema.Message, error) {
	turn := []*schema.Message{schema.UserMessage(input)}

	for step := 0; step < a.maxSteps; step++ {
		msgs := make([]*schema.Message, 0, len(history)+len(turn))
		msgs = append(msgs, history...)
		msgs = append(msgs, turn...)

		reply, err := a.runner.Invoke(ctx, msgs)
		if err != nil {
			return "", nil, fmt.Errorf("%w: research step %d: %v", contractx.ErrModelInvoke, step, err)
		}
		if reply == nil {
			return "", nil, fmt.Errorf("%w: empty research reply", contractx.ErrSchemaViolation)
		}
		turn = append(turn, reply)

		if len(reply.ToolCalls) == 0 {
			return reply.Content, turn, nil
		}
		for _, call := range reply.ToolCalls {
			turn = append(turn, schema.ToolMessage(a.runTool(ctx, call), call.ID))
		}
	}
	return "", nil, fmt.Errorf("%w: %d steps", ErrStepLimit, a.maxSteps)
}

func (a *Agent) runTool(ctx context.Context, call schema.ToolCall) string {
	logger := log.With().Str("tool", call.Function.Name).Str("call_id", call.ID).Logger()

	req, err := toToolRequest(call)
	if err != nil {
		logger.Warn().Err(err).Msg("invalid tool call")
		return "Error: " + err.Error()
	}
	if _, ok := a.allowed[req.Tool]; !ok {
		logger.Warn().Msg("model requested unknown tool")
		return fmt.Sprintf("Error: tool %q is not available", req.Tool)
	}

	res, err := a.execute(ctx, req.Tool, req.Args)
	if err != nil {
		logger.Error().Err(err).Msg("tool execution failed")
		return "Error: " + err.Error()
	}
	if res.Error != "" {
		logger.Debug().Str("error", res.Error).Msg("tool returned error")
		return "Error: " + res.Error
	}
	logger.Debug().Msg("tool done")
	return fmt.Sprint(res.Result)
}

func toToolRequest(call schema.ToolCall) (contractx.ToolRequest, error) {
	tool := strings.TrimSpace(call.Function.Name)
	if tool == "" {
		return contractx.ToolRequest{}, errors.New("tool call name is empty")
	}

	args := map[string]any{}
	if raw := strings.TrimSpace(call.Function.Arguments); raw != "" {
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			return contractx.ToolRequest{}, fmt.Errorf("invalid arguments for %s: %v", tool, err)
		}
	}
	return contractx.ToolRequest{ID: call.ID, Tool: tool, Args: args}, nil
}

// Conversation keeps the message history of one REPL session.
type Conversation struct {
	agent *Agent

	mu      sync.Mutex
	history []*schema.Message
}

func NewConversation(agent *Agent) *Conversation {
	return &Conversation{agent: agent}
}

// Ask runs one turn. A failed turn leaves the history untouched.
func (c *Conversation) Ask(ctx context.Context, line string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	reply, turn, err := c.agent.Run(ctx, c.history, line)
	if err != nil {
		return "", err
	}
	c.history = append(c.history, turn...)
	return reply, nil
}

func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.history)
}
