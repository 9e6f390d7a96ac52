package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/haivivi/vaani/pkg/storage"
)

const (
	// DefaultBaseDir is the base configuration directory name
	DefaultBaseDir = ".vaani"
	// DefaultConfigFile is the default configuration filename
	DefaultConfigFile = "config.yaml"
)

// Generator backends.
const (
	GeneratorGemini = "gemini"
	GeneratorOpenAI = "openai"
)

// Config is the configuration file of one app.
type Config struct {
	AppName string `yaml:"-"`

	CurrentContext string              `yaml:"current_context,omitempty"`
	Contexts       map[string]*Context `yaml:"contexts,omitempty"`

	configPath string
}

// Context is one named environment.
type Context struct {
	Name string `yaml:"name"`

	Bhashini BhashiniConfig `yaml:"bhashini,omitempty"`

	// Generator selects the reply model backend: "gemini" (default) or
	// "openai".
	Generator string          `yaml:"generator,omitempty"`
	Gemini    *ModelConfig    `yaml:"gemini,omitempty"`
	OpenAI    *ModelConfig    `yaml:"openai,omitempty"`
	Services  *ServicesConfig `yaml:"services,omitempty"`

	// FFmpeg is the ffmpeg binary used for non-WAV uploads.
	FFmpeg string `yaml:"ffmpeg,omitempty"`

	// ArtifactDir stores reply audio locally when S3 is not set.
	ArtifactDir string            `yaml:"artifact_dir,omitempty"`
	S3          *storage.S3Config `yaml:"s3,omitempty"`

	// TurnsDir holds the turn log database; empty keeps turns in memory.
	TurnsDir  string `yaml:"turns_dir,omitempty"`
	TurnLimit int    `yaml:"turn_limit,omitempty"`

	// Timeout is the per-request timeout in seconds.
	Timeout int `yaml:"timeout,omitempty"`
}

// BhashiniConfig holds the speech gateway endpoint and credentials.
type BhashiniConfig struct {
	PipelineURL string `yaml:"pipeline_url,omitempty"`
	RegistryURL string `yaml:"registry_url,omitempty"`
	UserID      string `yaml:"user_id,omitempty"`
	APIKey      string `yaml:"api_key,omitempty"`
	AuthToken   string `yaml:"auth_token,omitempty"`
}

// ModelConfig configures a generative model backend.
type ModelConfig struct {
	APIKey            string `yaml:"api_key,omitempty"`
	Model             string `yaml:"model,omitempty"`
	BaseURL           string `yaml:"base_url,omitempty"`
	SystemInstruction string `yaml:"system_instruction,omitempty"`
}

// ServicesConfig overrides the built-in language → service id tables.
type ServicesConfig struct {
	ASRDefault string            `yaml:"asr_default,omitempty"`
	ASR        map[string]string `yaml:"asr,omitempty"`
	TTSDefault string            `yaml:"tts_default,omitempty"`
	TTS        map[string]string `yaml:"tts,omitempty"`
	NMT        string            `yaml:"nmt,omitempty"`
	Detect     string            `yaml:"detect,omitempty"`

	// TTSSampleRate overrides the synthesis sample rate.
	TTSSampleRate int `yaml:"tts_sample_rate,omitempty"`
}

// GeneratorName returns the configured backend, Gemini by default.
func (ctx *Context) GeneratorName() string {
	if ctx.Generator == "" {
		return GeneratorGemini
	}
	return strings.ToLower(ctx.Generator)
}

// GeminiConfig returns the Gemini settings, creating them if absent.
func (ctx *Context) GeminiConfig() *ModelConfig {
	if ctx.Gemini == nil {
		ctx.Gemini = &ModelConfig{}
	}
	return ctx.Gemini
}

// LoadConfig loads or creates configuration for the specified app
func LoadConfig(appName string) (*Config, error) {
	return LoadConfigWithPath(appName, "")
}

// LoadConfigWithPath loads configuration from a custom path
func LoadConfigWithPath(appName, customPath string) (*Config, error) {
	configPath := customPath
	if configPath == "" {
		paths, err := NewPaths(appName)
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = paths.ConfigFile()
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	cfg := &Config{
		AppName:    appName,
		Contexts:   make(map[string]*Context),
		configPath: configPath,
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, cfg.Save()
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Contexts == nil {
		cfg.Contexts = make(map[string]*Context)
	}
	for name, ctx := range cfg.Contexts {
		ctx.Name = name
	}
	cfg.AppName = appName
	cfg.configPath = configPath
	return cfg, nil
}

// Save writes the configuration with owner-only permissions; it holds
// credentials.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(c.configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) Path() string { return c.configPath }

func (c *Config) Dir() string { return filepath.Dir(c.configPath) }

// AddContext adds or replaces a context. The first context added becomes
// current.
func (c *Config) AddContext(name string, ctx *Context) error {
	if name == "" {
		return fmt.Errorf("context name is required")
	}
	ctx.Name = name
	c.Contexts[name] = ctx
	if c.CurrentContext == "" {
		c.CurrentContext = name
	}
	return c.Save()
}

func (c *Config) DeleteContext(name string) error {
	if _, ok := c.Contexts[name]; !ok {
		return fmt.Errorf("context %q not found", name)
	}
	delete(c.Contexts, name)
	if c.CurrentContext == name {
		c.CurrentContext = ""
	}
	return c.Save()
}

func (c *Config) UseContext(name string) error {
	if _, ok := c.Contexts[name]; !ok {
		return fmt.Errorf("context %q not found", name)
	}
	c.CurrentContext = name
	return c.Save()
}

func (c *Config) GetContext(name string) (*Context, error) {
	ctx, ok := c.Contexts[name]
	if !ok {
		return nil, fmt.Errorf("context %q not found", name)
	}
	return ctx, nil
}

func (c *Config) GetCurrentContext() (*Context, error) {
	if c.CurrentContext == "" {
		return nil, fmt.Errorf("no current context set")
	}
	return c.GetContext(c.CurrentContext)
}

// ResolveContext returns the named context, or the current one if name is
// empty. With no contexts configured at all it returns an empty context so
// that environment variables alone can drive the tools.
func (c *Config) ResolveContext(name string) (*Context, error) {
	if name == "" {
		if c.CurrentContext == "" && len(c.Contexts) == 0 {
			return &Context{Name: "env"}, nil
		}
		return c.GetCurrentContext()
	}
	return c.GetContext(name)
}

// ListContexts returns all context names, sorted.
func (c *Config) ListContexts() []string {
	names := make([]string, 0, len(c.Contexts))
	for name := range c.Contexts {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Masked returns a copy of ctx with secrets masked for display.
func (ctx *Context) Masked() *Context {
	cp := *ctx
	cp.Bhashini.APIKey = MaskAPIKey(cp.Bhashini.APIKey)
	cp.Bhashini.AuthToken = MaskAPIKey(cp.Bhashini.AuthToken)
	if cp.Gemini != nil {
		g := *cp.Gemini
		g.APIKey = MaskAPIKey(g.APIKey)
		cp.Gemini = &g
	}
	if cp.OpenAI != nil {
		o := *cp.OpenAI
		o.APIKey = MaskAPIKey(o.APIKey)
		cp.OpenAI = &o
	}
	if cp.S3 != nil {
		s := *cp.S3
		s.SecretKey = MaskAPIKey(s.SecretKey)
		cp.S3 = &s
	}
	return &cp
}

// MaskAPIKey masks the API key for display
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}
