package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvUserID:      "env-user",
		EnvAuthToken:   "env-token",
		EnvPipelineURL: "http://localhost:9000/pipeline",
		EnvGeminiKey:   "env-gemini",
	}
	ctx := &Context{Bhashini: BhashiniConfig{UserID: "file-user", APIKey: "file-key"}}
	ApplyEnv(ctx, func(k string) string { return env[k] })

	if ctx.Bhashini.UserID != "env-user" {
		t.Errorf("UserID = %q, want env-user", ctx.Bhashini.UserID)
	}
	if ctx.Bhashini.APIKey != "file-key" {
		t.Errorf("APIKey = %q, unset env must not override", ctx.Bhashini.APIKey)
	}
	if ctx.Bhashini.AuthToken != "env-token" || ctx.Bhashini.PipelineURL != env[EnvPipelineURL] {
		t.Errorf("bhashini = %+v", ctx.Bhashini)
	}
	if ctx.Gemini == nil || ctx.Gemini.APIKey != "env-gemini" {
		t.Errorf("gemini = %+v", ctx.Gemini)
	}
	if ctx.OpenAI != nil {
		t.Errorf("openai = %+v, want nil", ctx.OpenAI)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	content := "VAANI_TEST_DOTENV=from-file\nVAANI_TEST_PRESET=from-file\n"
	if err := os.WriteFile(file, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("VAANI_TEST_PRESET", "from-env")
	t.Setenv("VAANI_TEST_DOTENV", "")
	os.Unsetenv("VAANI_TEST_DOTENV")

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), file); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("VAANI_TEST_DOTENV"); got != "from-file" {
		t.Errorf("VAANI_TEST_DOTENV = %q, want from-file", got)
	}
	if got := os.Getenv("VAANI_TEST_PRESET"); got != "from-env" {
		t.Errorf("VAANI_TEST_PRESET = %q, existing env must win", got)
	}
}
