// Package genx produces a conversational text reply for a transcript using a
// hosted generative model.
//
// Two backends are provided: GeminiGenerator (Google Gemini through
// google.golang.org/genai) and OpenAIGenerator (any OpenAI compatible chat
// completion endpoint). Both make a single blocking call per prompt.
package genx

import (
	"context"
	"errors"
)

// ErrNoReply is returned when the model answers without usable text.
var ErrNoReply = errors.New("genx: model returned no reply")

// DefaultGeminiModel is used when GeminiGenerator.Model is empty.
const DefaultGeminiModel = "gemini-2.0-flash"

// Generator turns a prompt into a reply.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
