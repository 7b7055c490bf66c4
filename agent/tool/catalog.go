package tool

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/tanpawarit/Chative-Shop-Assistant/agent/contract"
)

const (
	ToolWebSearch    = "web_search"
	ToolSaveResearch = "save_research"
	ToolGetDateTime  = "get_date_time"
)

type Executor func(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error)

// Deps are the collaborators research tools call into.
type Deps struct {
	Search contractx.Searcher
	Notes  contractx.NoteSaver
	Now    func() time.Time
}

func BuildForAgent(agentType contractx.AgentType, deps Deps) ([]*schema.ToolInfo, Executor) {
	return infosForAgent(agentType), NewExecutor(agentType, deps)
}

func NewExecutor(agentType contractx.AgentType, deps Deps) Executor {
	fallback := DefaultExecutor(agentType)
	if agentType != contractx.AgentTypeResearch {
		return fallback
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	return func(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error) {
		switch tool {
		case ToolWebSearch:
			return executeWebSearch(ctx, deps.Search, tool, args)
		case ToolSaveResearch:
			return executeSaveResearch(ctx, deps.Notes, tool, args)
		case ToolGetDateTime:
			return contractx.ToolResult{Tool: tool, Result: FormatDateTime(deps.Now())}, nil
		default:
			return fallback(ctx, tool, args)
		}
	}
}

func DefaultExecutor(agentType contractx.AgentType) Executor {
	return func(ctx context.Context, tool string, _ map[string]any) (contractx.ToolResult, error) {
		return contractx.ToolResult{
			Tool:  tool,
			Error: fmt.Sprintf("tool=%s is unavailable for agent=%s", tool, agentType),
		}, nil
	}
}

func infosForAgent(agentType contractx.AgentType) []*schema.ToolInfo {
	if agentType != contractx.AgentTypeResearch {
		return nil
	}
	return []*schema.ToolInfo{
		{
			Name: ToolWebSearch,
			Desc: "Search the web for information using multiple sources. Returns formatted results with relevant information.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {Type: schema.String, Desc: "The search query to look up", Required: true},
			}),
		},
		{
			Name: ToolSaveResearch,
			Desc: "Save research findings to a file. Use only when the user explicitly asks to save, store, keep or write research to a file. " +
				"The content must be the complete research response with all findings, facts and source URLs.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"topic":   {Type: schema.String, Desc: "The research topic or title", Required: true},
				"content": {Type: schema.String, Desc: "Complete research response with findings and sources", Required: true},
			}),
		},
		{
			Name:        ToolGetDateTime,
			Desc:        "Get the current date and time.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
		},
	}
}
