package shopper

import (
	"context"
	"errors"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	openaisdk "github.com/openai/openai-go"
	"google.golang.org/genai"

	contractx "github.com/tanpawarit/Chative-Shop-Assistant/agent/contract"
)

// einoResponder runs the respond graph on any eino chat model.
type einoResponder struct {
	runner compose.Runnable[contractx.ResponderRequest, *schema.Message]
}

var _ contractx.Responder = (*einoResponder)(nil)

func newEinoResponder(ctx context.Context, chatModel einomodel.BaseChatModel, systemPrompt string) (*einoResponder, error) {
	runner, err := compileRespondGraph(ctx, chatModel, systemPrompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}
	return &einoResponder{runner: runner}, nil
}

func (r *einoResponder) Respond(ctx context.Context, req contractx.ResponderRequest) (string, error) {
	msg, err := r.runner.Invoke(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: shopper invoke: %v", contractx.ErrModelInvoke, err)
	}
	if msg == nil {
		return "", fmt.Errorf("%w: empty model response", contractx.ErrSchemaViolation)
	}
	return msg.Content, nil
}

// openAIResponder calls Chat Completions directly through openai-go.
type openAIResponder struct {
	client       *openaisdk.Client
	model        string
	temperature  float32
	maxTokens    int
	systemPrompt string
}

var _ contractx.Responder = (*openAIResponder)(nil)

func (r *openAIResponder) Respond(ctx context.Context, req contractx.ResponderRequest) (string, error) {
	msgs := make([]openaisdk.ChatCompletionMessageParamUnion, 0, len(req.History)+2)
	msgs = append(msgs, openaisdk.SystemMessage(r.systemPrompt))
	for _, h := range req.History {
		if h.Role == contractx.RoleAssistant {
			msgs = append(msgs, openaisdk.AssistantMessage(h.Content))
			continue
		}
		msgs = append(msgs, openaisdk.UserMessage(h.Content))
	}
	msgs = append(msgs, openaisdk.UserMessage(req.Prompt()))

	params := openaisdk.ChatCompletionNewParams{
		Model:       openaisdk.ChatModel(r.model),
		Messages:    msgs,
		Temperature: openaisdk.Float(float64(r.temperature)),
	}
	if r.maxTokens > 0 {
		params.MaxCompletionTokens = openaisdk.Int(int64(r.maxTokens))
	}

	resp, err := r.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: chat completion: %v", contractx.ErrModelInvoke, err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: chat completion returned no choices", contractx.ErrSchemaViolation)
	}
	return resp.Choices[0].Message.Content, nil
}

// geminiResponder calls GenerateContent through the Google GenAI SDK.
type geminiResponder struct {
	client       *genai.Client
	model        string
	temperature  float32
	systemPrompt string
}

var _ contractx.Responder = (*geminiResponder)(nil)

var errNoCandidates = errors.New("gemini returned no candidates")

func (r *geminiResponder) Respond(ctx context.Context, req contractx.ResponderRequest) (string, error) {
	contents := make([]*genai.Content, 0, len(req.History)+1)
	for _, h := range req.History {
		role := genai.RoleUser
		if h.Role == contractx.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(h.Content, role))
	}
	contents = append(contents, genai.NewContentFromText(req.Prompt(), genai.RoleUser))

	temp := r.temperature
	resp, err := r.client.Models.GenerateContent(ctx, r.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(r.systemPrompt, genai.RoleUser),
		Temperature:       &temp,
	})
	if err != nil {
		return "", fmt.Errorf("%w: gemini generate: %v", contractx.ErrModelInvoke, err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: %v", contractx.ErrSchemaViolation, errNoCandidates)
	}
	return resp.Text(), nil
}
