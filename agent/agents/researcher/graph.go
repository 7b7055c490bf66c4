package researcher

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

// compileStepGraph builds one model round: prepend the system prompt, then
// call the tool bound model. The tool loop itself runs outside the graph.
func compileStepGraph(
	ctx context.Context,
	toolModel einomodel.BaseChatModel,
	systemPrompt string,
) (compose.Runnable[[]*schema.Message, *schema.Message], error) {
	graph := compose.NewGraph[[]*schema.Message, *schema.Message]()

	if err := graph.AddLambdaNode("with_system",
		compose.InvokableLambda(func(ctx context.Context, msgs []*schema.Message) ([]*schema.Message, error) {
			out := make([]*schema.Message, 0, len(msgs)+1)
			out = append(out, schema.SystemMessage(systemPrompt))
			return append(out, msgs...), nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add researcher system node: %w", err)
	}
	if err := graph.AddChatModelNode("model", toolModel); err != nil {
		return nil, fmt.Errorf("add researcher model node: %w", err)
	}

	if err := graph.AddEdge(compose.START, "with_system"); err != nil {
		return nil, fmt.Errorf("add researcher edge start->with_system: %w", err)
	}
	if err := graph.AddEdge("with_system", "model"); err != nil {
		return nil, fmt.Errorf("add researcher edge with_system->model: %w", err)
	}
	if err := graph.AddEdge("model", compose.END); err != nil {
		return nil, fmt.Errorf("add researcher edge model->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("researcher.step_graph"))
	if err != nil {
		return nil, fmt.Errorf("compile researcher step graph: %w", err)
	}
	return runner, nil
}
