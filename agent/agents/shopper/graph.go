package shopper

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/tanpawarit/Chative-Shop-Assistant/agent/contract"
)

// BuildMessages lays out system prompt, prior turns and the current prompt
// (user text plus cart context) in the order every backend expects.
func BuildMessages(systemPrompt string, req contractx.ResponderRequest) []*schema.Message {
	msgs := make([]*schema.Message, 0, len(req.History)+2)
	msgs = append(msgs, schema.SystemMessage(systemPrompt))
	for _, h := range req.History {
		switch h.Role {
		case contractx.RoleAssistant:
			msgs = append(msgs, schema.AssistantMessage(h.Content, nil))
		default:
			msgs = append(msgs, schema.UserMessage(h.Content))
		}
	}
	msgs = append(msgs, schema.UserMessage(req.Prompt()))
	return msgs
}

// compileRespondGraph wires build_messages -> model. The system prompt is
// injected in a lambda rather than a template because it carries literal
// JSON braces.
func compileRespondGraph(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	systemPrompt string,
) (compose.Runnable[contractx.ResponderRequest, *schema.Message], error) {
	graph := compose.NewGraph[contractx.ResponderRequest, *schema.Message]()

	if err := graph.AddLambdaNode("build_messages",
		compose.InvokableLambda(func(ctx context.Context, req contractx.ResponderRequest) ([]*schema.Message, error) {
			return BuildMessages(systemPrompt, req), nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add build_messages node: %w", err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add model node: %w", err)
	}

	if err := graph.AddEdge(compose.START, "build_messages"); err != nil {
		return nil, fmt.Errorf("add edge start->build_messages: %w", err)
	}
	if err := graph.AddEdge("build_messages", "model"); err != nil {
		return nil, fmt.Errorf("add edge build_messages->model: %w", err)
	}
	if err := graph.AddEdge("model", compose.END); err != nil {
		return nil, fmt.Errorf("add edge model->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("shopper.respond_graph"))
	if err != nil {
		return nil, fmt.Errorf("compile respond graph: %w", err)
	}
	return runner, nil
}
