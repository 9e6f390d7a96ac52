package genx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/genai"
)

var _ Generator = (*GeminiGenerator)(nil)

// GeminiGenerator implements Generator using the Gemini generateContent API.
type GeminiGenerator struct {
	Client *genai.Client `json:"-"`

	// Model should not start with "models/". DefaultGeminiModel if empty.
	Model string `json:"model"`

	// SystemInstruction is sent with every prompt when set.
	SystemInstruction string `json:"system_instruction,omitempty"`
}

// GeminiConfig configures NewGemini.
type GeminiConfig struct {
	APIKey            string
	Model             string
	SystemInstruction string

	// BaseURL overrides the API endpoint.
	BaseURL    string
	HTTPClient *http.Client
}

// NewGemini creates a Gemini API backed generator.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*GeminiGenerator, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("genx: gemini api key is required")
	}
	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.BaseURL
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("genx: gemini client: %w", err)
	}
	return &GeminiGenerator{
		Client:            client,
		Model:             cfg.Model,
		SystemInstruction: cfg.SystemInstruction,
	}, nil
}

// Generate sends prompt as a single user turn and returns the trimmed text
// of candidates[0].content.parts[0].
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", errors.New("genx: empty prompt")
	}
	model := g.Model
	if model == "" {
		model = DefaultGeminiModel
	}
	var cfg *genai.GenerateContentConfig
	if g.SystemInstruction != "" {
		cfg = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(g.SystemInstruction, genai.RoleUser),
		}
	}

	resp, err := g.Client.Models.GenerateContent(ctx, model, genai.Text(prompt), cfg)
	if err != nil {
		if e, ok := err.(*apierror.APIError); ok {
			err = e.Unwrap()
		}
		return "", fmt.Errorf("genx: gemini: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", ErrNoReply)
	}
	c := resp.Candidates[0]
	if c.Content == nil || len(c.Content.Parts) == 0 || c.Content.Parts[0] == nil {
		return "", fmt.Errorf("%w: no parts (finish reason %q)", ErrNoReply, c.FinishReason)
	}
	reply := strings.TrimSpace(c.Content.Parts[0].Text)
	if reply == "" {
		return "", ErrNoReply
	}
	return reply, nil
}
