package tool

import (
	"context"
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/Chative-Shop-Assistant/agent/contract"
)

func FormatDateTime(now time.Time) string {
	return "Current date and time: " + now.Format("Monday, January 02, 2006 at 03:04:05 PM")
}

func stringArg(args map[string]any, key string) (string, bool) {
	raw, ok := args[key]
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	if !ok {
		return "", false
	}
	return s, true
}

func executeWebSearch(ctx context.Context, searcher contractx.Searcher, tool string, args map[string]any) (contractx.ToolResult, error) {
	if searcher == nil {
		return contractx.ToolResult{Tool: tool, Error: "web search is not configured"}, nil
	}
	query, ok := stringArg(args, "query")
	if !ok || strings.TrimSpace(query) == "" {
		return contractx.ToolResult{Tool: tool, Error: "query is required"}, nil
	}
	return contractx.ToolResult{Tool: tool, Result: searcher.Search(ctx, query)}, nil
}

func executeSaveResearch(ctx context.Context, saver contractx.NoteSaver, tool string, args map[string]any) (contractx.ToolResult, error) {
	if saver == nil {
		return contractx.ToolResult{Tool: tool, Error: "note storage is not configured"}, nil
	}
	topic, ok := stringArg(args, "topic")
	if !ok || strings.TrimSpace(topic) == "" {
		return contractx.ToolResult{Tool: tool, Error: "topic is required"}, nil
	}
	content, ok := stringArg(args, "content")
	if !ok {
		return contractx.ToolResult{Tool: tool, Error: fmt.Sprintf("content must be a string, got %T", args["content"])}, nil
	}
	return contractx.ToolResult{Tool: tool, Result: saver.Save(ctx, topic, content)}, nil
}
