package prompt

import (
	_ "embed"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/Chative-Shop-Assistant/agent/contract"
)

var (
	//go:embed template/cart.txt
	cartRaw string

	//go:embed template/research.txt
	researchRaw string
)

// PromptSet holds the system prompts of both agents.
type PromptSet struct {
	Cart     string
	Research string
}

// LoadPromptSet returns the embedded prompts, trimmed.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Cart:     strings.TrimSpace(cartRaw),
		Research: strings.TrimSpace(researchRaw),
	}
}

// For returns the system prompt of agentType.
func (p PromptSet) For(agentType contractx.AgentType) (string, error) {
	var s string
	switch agentType {
	case contractx.AgentTypeShopper:
		s = p.Cart
	case contractx.AgentTypeResearch:
		s = p.Research
	}
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("%w: %s system prompt", contractx.ErrPromptMissing, agentType)
	}
	return s, nil
}
