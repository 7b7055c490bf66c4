package shopper

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"

	contractx "github.com/tanpawarit/Chative-Shop-Assistant/agent/contract"
	llmx "github.com/tanpawarit/Chative-Shop-Assistant/agent/llm"
	promptx "github.com/tanpawarit/Chative-Shop-Assistant/agent/prompt"
	geminix "github.com/tanpawarit/Chative-Shop-Assistant/pkg/gemini"
	openrouterx "github.com/tanpawarit/Chative-Shop-Assistant/pkg/openrouter"
)

// NewResponder builds the cart responder for the configured backend.
func NewResponder(ctx context.Context, cfg llmx.Config, gem geminix.Config) (contractx.Responder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	system, err := promptx.LoadPromptSet().For(contractx.AgentTypeShopper)
	if err != nil {
		return nil, err
	}

	switch cfg.BackendName() {
	case llmx.BackendOpenAI:
		orCfg := cfg.OpenRouterFor(contractx.AgentTypeShopper)
		client := openrouterx.NewClient(orCfg)
		if client == nil {
			return nil, fmt.Errorf("%w: openai backend needs LLM_API_KEY", contractx.ErrValidation)
		}
		maxTokens := 0
		if orCfg.MaxCompletionToken != nil {
			maxTokens = *orCfg.MaxCompletionToken
		}
		return &openAIResponder{
			client:       client,
			model:        orCfg.Model,
			temperature:  orCfg.Temperature,
			maxTokens:    maxTokens,
			systemPrompt: system,
		}, nil

	case llmx.BackendGemini:
		gc := cfg.GeminiFor(contractx.AgentTypeShopper, gem)
		client, err := geminix.NewClient(ctx, gc)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", contractx.ErrValidation, err)
		}
		return &geminiResponder{
			client:       client,
			model:        gc.Model,
			temperature:  cfg.TemperatureFor(contractx.AgentTypeShopper),
			systemPrompt: system,
		}, nil

	default:
		orCfg := cfg.OpenRouterFor(contractx.AgentTypeShopper)
		chatModel, err := orCfg.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: create shopper model: %v", contractx.ErrModelInvoke, err)
		}
		return NewEinoResponder(ctx, chatModel, system)
	}
}

// NewEinoResponder wraps an existing chat model. Tests pass fakes here.
func NewEinoResponder(ctx context.Context, chatModel einomodel.BaseChatModel, systemPrompt string) (contractx.Responder, error) {
	return newEinoResponder(ctx, chatModel, systemPrompt)
}
