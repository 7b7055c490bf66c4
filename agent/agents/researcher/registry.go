package researcher

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Shop-Assistant/agent/contract"
	llmx "github.com/tanpawarit/Chative-Shop-Assistant/agent/llm"
	promptx "github.com/tanpawarit/Chative-Shop-Assistant/agent/prompt"
	toolx "github.com/tanpawarit/Chative-Shop-Assistant/agent/tool"
	geminix "github.com/tanpawarit/Chative-Shop-Assistant/pkg/gemini"
	openrouterx "github.com/tanpawarit/Chative-Shop-Assistant/pkg/openrouter"
)

// geminiOpenAIBase is Gemini's OpenAI compatible endpoint, which supports
// function calling through the same eino chat model.
const geminiOpenAIBase = "https://generativelanguage.googleapis.com/v1beta/openai"

// NewFromConfig builds the research agent for the configured backend.
func NewFromConfig(ctx context.Context, cfg llmx.Config, gem geminix.Config, deps toolx.Deps, opts ...Option) (*Agent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	system, err := promptx.LoadPromptSet().For(contractx.AgentTypeResearch)
	if err != nil {
		return nil, err
	}

	modelCfg := cfg.OpenRouterFor(contractx.AgentTypeResearch)
	if cfg.BackendName() == llmx.BackendGemini {
		gc := cfg.GeminiFor(contractx.AgentTypeResearch, gem)
		if err := gc.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", contractx.ErrValidation, err)
		}
		modelCfg = openrouterx.Config{
			BaseURL:            geminiOpenAIBase,
			APIKey:             geminix.NormalizeKey(gc.APIKey),
			Model:              gc.Model,
			MaxCompletionToken: modelCfg.MaxCompletionToken,
			Temperature:        modelCfg.Temperature,
			Timeout:            gc.Timeout,
		}
	}

	chatModel, err := modelCfg.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create research model: %v", contractx.ErrModelInvoke, err)
	}
	return New(ctx, chatModel, system, deps, opts...)
}
