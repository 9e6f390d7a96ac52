package genx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var _ Generator = (*OpenAIGenerator)(nil)

// OpenAIGenerator implements Generator with an OpenAI compatible chat
// completion endpoint.
type OpenAIGenerator struct {
	Client *openai.Client `json:"-"`

	Model             string `json:"model"`
	SystemInstruction string `json:"system_instruction,omitempty"`
}

// OpenAIConfig configures NewOpenAI.
type OpenAIConfig struct {
	APIKey            string
	BaseURL           string
	Model             string
	SystemInstruction string
	HTTPClient        *http.Client
}

// NewOpenAI creates a chat completion backed generator.
func NewOpenAI(cfg OpenAIConfig) (*OpenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("genx: openai api key is required")
	}
	if cfg.Model == "" {
		return nil, errors.New("genx: openai model is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}
	// Generation is a single attempt per turn.
	opts = append(opts, option.WithMaxRetries(0))
	client := openai.NewClient(opts...)
	return &OpenAIGenerator{
		Client:            &client,
		Model:             cfg.Model,
		SystemInstruction: cfg.SystemInstruction,
	}, nil
}

// Generate returns the trimmed content of choices[0].
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", errors.New("genx: empty prompt")
	}
	var msgs []openai.ChatCompletionMessageParamUnion
	if g.SystemInstruction != "" {
		msgs = append(msgs, openai.SystemMessage(g.SystemInstruction))
	}
	msgs = append(msgs, openai.UserMessage(prompt))

	resp, err := g.Client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    g.Model,
		Messages: msgs,
	})
	if err != nil {
		return "", fmt.Errorf("genx: openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", ErrNoReply)
	}
	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	if reply == "" {
		return "", ErrNoReply
	}
	return reply, nil
}
