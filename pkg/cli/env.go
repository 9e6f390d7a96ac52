package cli

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables that override context credentials.
const (
	EnvUserID      = "ULCA_USER_ID"
	EnvAPIKey      = "ULCA_API_KEY"
	EnvAuthToken   = "BHASHINI_AUTH_TOKEN"
	EnvPipelineURL = "BHASHINI_PIPELINE_URL"
	EnvGeminiKey   = "GEMINI_API_KEY"
	EnvOpenAIKey   = "OPENAI_API_KEY"
)

// LoadDotEnv loads variables from the given .env files (".env" if none)
// without overriding variables already set. Missing files are skipped.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

// ApplyEnv overrides credentials in ctx with non-empty values returned by
// getenv. Pass os.Getenv in production.
func ApplyEnv(ctx *Context, getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&ctx.Bhashini.UserID, EnvUserID)
	set(&ctx.Bhashini.APIKey, EnvAPIKey)
	set(&ctx.Bhashini.AuthToken, EnvAuthToken)
	set(&ctx.Bhashini.PipelineURL, EnvPipelineURL)
	if v := getenv(EnvGeminiKey); v != "" {
		ctx.GeminiConfig().APIKey = v
	}
	if v := getenv(EnvOpenAIKey); v != "" {
		if ctx.OpenAI == nil {
			ctx.OpenAI = &ModelConfig{}
		}
		ctx.OpenAI.APIKey = v
	}
}
