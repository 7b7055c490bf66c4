package llm

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	contractx "github.com/tanpawarit/Chative-Shop-Assistant/agent/contract"
	geminix "github.com/tanpawarit/Chative-Shop-Assistant/pkg/gemini"
	openrouterx "github.com/tanpawarit/Chative-Shop-Assistant/pkg/openrouter"
)

const (
	BackendOpenRouter = "openrouter"
	BackendOpenAI     = "openai"
	BackendGemini     = "gemini"
)

var validate = validator.New()

// Config selects the model backend and per agent overrides. The gemini
// backend takes its key from GEMINI_API_KEY instead.
type Config struct {
	Backend            string        `envconfig:"BACKEND" split_words:"true" default:"openrouter" validate:"oneof=openrouter openai gemini"`
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1" validate:"omitempty,url"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" validate:"required_unless=Backend gemini"`
	Model              string        `envconfig:"MODEL" split_words:"true" validate:"required_unless=Backend gemini"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000" validate:"gte=0"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.5" validate:"gte=0,lte=2"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	CartModel           string  `envconfig:"CART_MODEL" split_words:"true"`
	ResearchModel       string  `envconfig:"RESEARCH_MODEL" split_words:"true"`
	CartTemperature     float32 `envconfig:"CART_TEMPERATURE" split_words:"true" default:"-1"`
	ResearchTemperature float32 `envconfig:"RESEARCH_TEMPERATURE" split_words:"true" default:"-1"`
}

func (c Config) Validate() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: llm config: %v", contractx.ErrValidation, err)
	}
	return nil
}

func (c Config) BackendName() string {
	b := strings.ToLower(strings.TrimSpace(c.Backend))
	if b == "" {
		return BackendOpenRouter
	}
	return b
}

func (c Config) modelAndTemp(agentType contractx.AgentType) (string, float32) {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature

	switch agentType {
	case contractx.AgentTypeShopper:
		if v := strings.TrimSpace(c.CartModel); v != "" {
			modelName = v
		}
		if c.CartTemperature >= 0 {
			temp = c.CartTemperature
		}
	case contractx.AgentTypeResearch:
		if v := strings.TrimSpace(c.ResearchModel); v != "" {
			modelName = v
		}
		if c.ResearchTemperature >= 0 {
			temp = c.ResearchTemperature
		}
	}
	return modelName, temp
}

// OpenRouterFor resolves the chat model settings for one agent. It also
// serves the openai backend, which speaks the same wire format.
func (c Config) OpenRouterFor(agentType contractx.AgentType) openrouterx.Config {
	modelName, temp := c.modelAndTemp(agentType)
	maxCompletionToken := c.MaxCompletionToken

	return openrouterx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}

// GeminiFor applies the per agent model override on top of the gemini
// settings. Agent overrides only win when they look like gemini models.
func (c Config) GeminiFor(agentType contractx.AgentType, base geminix.Config) geminix.Config {
	modelName, _ := c.modelAndTemp(agentType)
	if strings.HasPrefix(modelName, "gemini") {
		base.Model = modelName
	}
	if base.Timeout <= 0 {
		base.Timeout = c.Timeout
	}
	return base
}

// TemperatureFor returns the sampling temperature used for agentType.
func (c Config) TemperatureFor(agentType contractx.AgentType) float32 {
	_, temp := c.modelAndTemp(agentType)
	return temp
}
