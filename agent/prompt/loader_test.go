package prompt

import (
	"errors"
	"strings"
	"testing"

	contractx "github.com/tanpawarit/Chative-Shop-Assistant/agent/contract"
)

func TestLoadPromptSet(t *testing.T) {
	t.Parallel()

	set := LoadPromptSet()
	cart, err := set.For(contractx.AgentTypeShopper)
	if err != nil {
		t.Fatalf("For(shopper) error = %v", err)
	}
	for _, want := range []string{`{"action": "add"`, `{"action": "remove"`, "ONLY return JSON"} {
		if !strings.Contains(cart, want) {
			t.Fatalf("cart prompt missing %q", want)
		}
	}

	research, err := set.For(contractx.AgentTypeResearch)
	if err != nil {
		t.Fatalf("For(research) error = %v", err)
	}
	if !strings.Contains(research, "save_research") || !strings.Contains(research, "web_search") {
		t.Fatalf("research prompt does not mention its tools")
	}
}

func TestForMissingPrompt(t *testing.T) {
	t.Parallel()

	if _, err := (PromptSet{}).For(contractx.AgentTypeShopper); !errors.Is(err, contractx.ErrPromptMissing) {
		t.Fatalf("For() error = %v, want ErrPromptMissing", err)
	}
	if _, err := LoadPromptSet().For("unknown"); !errors.Is(err, contractx.ErrPromptMissing) {
		t.Fatalf("For(unknown) error = %v, want ErrPromptMissing", err)
	}
}
