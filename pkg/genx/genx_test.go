package genx

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type capture struct {
	path string
	body map[string]any
}

func newJSONServer(t *testing.T, status int, reply string, c *capture) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.path = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		c.body = nil
		_ = json.Unmarshal(data, &c.body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestGemini(t *testing.T, srv *httptest.Server, system string) *GeminiGenerator {
	t.Helper()
	g, err := NewGemini(context.Background(), GeminiConfig{
		APIKey:            "test-key",
		BaseURL:           srv.URL + "/",
		SystemInstruction: system,
	})
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestGeminiGenerate(t *testing.T) {
	var c capture
	srv := newJSONServer(t, 200, `{"candidates":[{"content":{"role":"model","parts":[{"text":"  Namaste! How can I help?\n"}]},"finishReason":"STOP"}]}`, &c)
	g := newTestGemini(t, srv, "")

	got, err := g.Generate(context.Background(), "hello")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Namaste! How can I help?" {
		t.Errorf("Generate() = %q", got)
	}
	if !strings.HasSuffix(c.path, "/models/"+DefaultGeminiModel+":generateContent") {
		t.Errorf("path = %q", c.path)
	}
	contents, _ := c.body["contents"].([]any)
	if len(contents) != 1 {
		t.Fatalf("contents = %v", c.body["contents"])
	}
	parts, _ := contents[0].(map[string]any)["parts"].([]any)
	if len(parts) != 1 || parts[0].(map[string]any)["text"] != "hello" {
		t.Errorf("parts = %v", parts)
	}
	if _, ok := c.body["systemInstruction"]; ok {
		t.Error("systemInstruction sent without being configured")
	}
}

func TestGeminiSystemInstruction(t *testing.T) {
	var c capture
	srv := newJSONServer(t, 200, `{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`, &c)
	g := newTestGemini(t, srv, "Answer in one sentence.")
	if _, err := g.Generate(context.Background(), "hi"); err != nil {
		t.Fatal(err)
	}
	si, ok := c.body["systemInstruction"].(map[string]any)
	if !ok {
		t.Fatalf("systemInstruction missing: %v", c.body)
	}
	parts, _ := si["parts"].([]any)
	if len(parts) != 1 || parts[0].(map[string]any)["text"] != "Answer in one sentence." {
		t.Errorf("systemInstruction = %v", si)
	}
}

func TestGeminiNoReply(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"no candidates", `{"candidates":[]}`},
		{"no parts", `{"candidates":[{"content":{"parts":[]},"finishReason":"SAFETY"}]}`},
		{"blank text", `{"candidates":[{"content":{"parts":[{"text":"   "}]}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c capture
			srv := newJSONServer(t, 200, tt.reply, &c)
			g := newTestGemini(t, srv, "")
			_, err := g.Generate(context.Background(), "hello")
			if !errors.Is(err, ErrNoReply) {
				t.Fatalf("err = %v, want ErrNoReply", err)
			}
		})
	}
}

func TestGeminiHTTPError(t *testing.T) {
	var c capture
	srv := newJSONServer(t, 403, `{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`, &c)
	g := newTestGemini(t, srv, "")
	_, err := g.Generate(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrNoReply) {
		t.Errorf("transport failure reported as ErrNoReply: %v", err)
	}
}

func TestGeminiEmptyPrompt(t *testing.T) {
	var c capture
	srv := newJSONServer(t, 200, `{}`, &c)
	g := newTestGemini(t, srv, "")
	if _, err := g.Generate(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty prompt")
	}
	if c.path != "" {
		t.Error("empty prompt reached the server")
	}
}

func TestNewGeminiRequiresKey(t *testing.T) {
	if _, err := NewGemini(context.Background(), GeminiConfig{}); err == nil {
		t.Fatal("expected error without api key")
	}
}

func TestOpenAIGenerate(t *testing.T) {
	var c capture
	srv := newJSONServer(t, 200, `{"id":"c1","object":"chat.completion","created":1,"model":"m","choices":[{"index":0,"message":{"role":"assistant","content":" Hello there. "},"finish_reason":"stop"}]}`, &c)
	g, err := NewOpenAI(OpenAIConfig{APIKey: "k", BaseURL: srv.URL + "/", Model: "m", SystemInstruction: "be brief"})
	if err != nil {
		t.Fatal(err)
	}
	got, err := g.Generate(context.Background(), "hi")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Hello there." {
		t.Errorf("Generate() = %q", got)
	}
	if !strings.HasSuffix(c.path, "/chat/completions") {
		t.Errorf("path = %q", c.path)
	}
	msgs, _ := c.body["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("messages = %v", c.body["messages"])
	}
	if msgs[0].(map[string]any)["role"] != "system" || msgs[1].(map[string]any)["role"] != "user" {
		t.Errorf("roles = %v", msgs)
	}
}

func TestOpenAINoChoices(t *testing.T) {
	var c capture
	srv := newJSONServer(t, 200, `{"id":"c1","object":"chat.completion","created":1,"model":"m","choices":[]}`, &c)
	g, err := NewOpenAI(OpenAIConfig{APIKey: "k", BaseURL: srv.URL + "/", Model: "m"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.Generate(context.Background(), "hi"); !errors.Is(err, ErrNoReply) {
		t.Fatalf("err = %v, want ErrNoReply", err)
	}
}

func TestGeneratorFunc(t *testing.T) {
	var g Generator = GeneratorFunc(func(_ context.Context, p string) (string, error) {
		return strings.ToUpper(p), nil
	})
	got, err := g.Generate(context.Background(), "abc")
	if err != nil || got != "ABC" {
		t.Errorf("Generate() = %q, %v", got, err)
	}
}
