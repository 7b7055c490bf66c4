package shopper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"google.golang.org/genai"

	contractx "github.com/tanpawarit/Chative-Shop-Assistant/agent/contract"
)

type fakeToolCallingModel struct {
	mu        sync.Mutex
	responses []*schema.Message
	err       error
	idx       int
	inputs    [][]*schema.Message
}

func (f *fakeToolCallingModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, input)
	if f.err != nil {
		return nil, f.err
	}
	if f.idx >= len(f.responses) {
		return nil, errors.New("no fake response left")
	}
	msg := f.responses[f.idx]
	f.idx++
	return msg, nil
}

func (f *fakeToolCallingModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not implemented in fake model")
}

func (f *fakeToolCallingModel) WithTools(tools []*schema.ToolInfo) (einomodel.ToolCallingChatModel, error) {
	return f, nil
}

func sampleRequest() contractx.ResponderRequest {
	return contractx.ResponderRequest{
		UserMessage: "remove 1 apple",
		CartContext: "\n\nCurrent cart contents:\n- Apples: 3 item(s)\n",
		History: []contractx.HistoryMessage{
			{Role: contractx.RoleUser, Content: "add 3 apples"},
			{Role: contractx.RoleAssistant, Content: `{"action":"add","items":[{"name":"Apples","quantity":3}]}`},
		},
	}
}

func TestBuildMessagesOrder(t *testing.T) {
	t.Parallel()

	msgs := BuildMessages("system prompt", sampleRequest())
	if len(msgs) != 4 {
		t.Fatalf("len(msgs) = %d, want 4", len(msgs))
	}
	wantRoles := []schema.RoleType{schema.System, schema.User, schema.Assistant, schema.User}
	for i, r := range wantRoles {
		if msgs[i].Role != r {
			t.Fatalf("msgs[%d].Role = %s, want %s", i, msgs[i].Role, r)
		}
	}
	if !strings.HasPrefix(msgs[3].Content, "remove 1 apple\n\nCurrent cart contents:") {
		t.Fatalf("last message = %q", msgs[3].Content)
	}
}

func TestEinoResponderReturnsRawContent(t *testing.T) {
	t.Parallel()

	raw := "```json\n{\"action\":\"remove\",\"name\":\"Apples\",\"quantity\":1}\n```"
	fake := &fakeToolCallingModel{responses: []*schema.Message{{Role: schema.Assistant, Content: raw}}}

	r, err := NewEinoResponder(context.Background(), fake, "cart prompt with {\"json\": true}")
	if err != nil {
		t.Fatalf("NewEinoResponder() error = %v", err)
	}

	got, err := r.Respond(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	if got != raw {
		t.Fatalf("Respond() = %q, want %q", got, raw)
	}
	if len(fake.inputs) != 1 || fake.inputs[0][0].Content != "cart prompt with {\"json\": true}" {
		t.Fatalf("system prompt not passed through verbatim: %+v", fake.inputs)
	}
}

func TestEinoResponderWrapsModelError(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{err: errors.New("upstream 503")}
	r, err := NewEinoResponder(context.Background(), fake, "cart prompt")
	if err != nil {
		t.Fatalf("NewEinoResponder() error = %v", err)
	}

	_, err = r.Respond(context.Background(), sampleRequest())
	if !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("Respond() error = %v, want ErrModelInvoke", err)
	}
}

func TestOpenAIResponder(t *testing.T) {
	t.Parallel()

	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4o-mini",`+
			`"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"You have 3 apples."}}]}`)
	}))
	t.Cleanup(server.Close)

	client := openaisdk.NewClient(
		option.WithAPIKey("test"),
		option.WithBaseURL(server.URL+"/"),
		option.WithMaxRetries(0),
	)
	r := &openAIResponder{client: &client, model: "gpt-4o-mini", temperature: 0.2, systemPrompt: "cart prompt"}

	reply, err := r.Respond(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	if reply != "You have 3 apples." {
		t.Fatalf("Respond() = %q", reply)
	}
	if got.Model != "gpt-4o-mini" || len(got.Messages) != 4 {
		t.Fatalf("unexpected request: %+v", got)
	}
	if got.Messages[0].Role != "system" || got.Messages[2].Role != "assistant" {
		t.Fatalf("unexpected roles: %+v", got.Messages)
	}
}

func TestGeminiResponder(t *testing.T) {
	t.Parallel()

	var path string
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"action\":\"remove\",\"name\":\"Apples\",\"quantity\":1}"}]}}]}`)
	}))
	t.Cleanup(server.Close)

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      "AIzaTest",
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: server.URL + "/"},
	})
	if err != nil {
		t.Fatalf("genai.NewClient() error = %v", err)
	}
	r := &geminiResponder{client: client, model: "gemini-2.5-flash", temperature: 0.5, systemPrompt: "cart prompt"}

	reply, err := r.Respond(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	if reply != `{"action":"remove","name":"Apples","quantity":1}` {
		t.Fatalf("Respond() = %q", reply)
	}
	if !strings.Contains(path, "gemini-2.5-flash:generateContent") {
		t.Fatalf("request path = %q", path)
	}
	contents, _ := body["contents"].([]any)
	if len(contents) != 3 {
		t.Fatalf("contents = %d, want 3", len(contents))
	}
	if _, ok := body["systemInstruction"]; !ok {
		t.Fatalf("systemInstruction missing from request: %v", body)
	}
}
