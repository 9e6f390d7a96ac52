package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/haivivi/vaani/pkg/audio"
	"github.com/haivivi/vaani/pkg/bhashini"
	"github.com/haivivi/vaani/pkg/cli"
	"github.com/haivivi/vaani/pkg/genx"
	"github.com/haivivi/vaani/pkg/kv"
	"github.com/haivivi/vaani/pkg/lang"
	"github.com/haivivi/vaani/pkg/storage"
	"github.com/haivivi/vaani/pkg/voicepipe"
)

// app is everything a command needs, built from one context.
type app struct {
	ctx      *cli.Context
	client   *bhashini.Client
	pipeline *voicepipe.Pipeline
	turns    kv.Store
}

func (a *app) Close() error {
	if a.turns == nil {
		return nil
	}
	return a.turns.Close()
}

// newApp builds the gateway client, generator, selector and turn log for
// ctx. The generator is only created when withGenerator is set so that
// speech-only commands work without model credentials. opts are applied
// after the context's settings.
func newApp(ctx context.Context, c *cli.Context, withGenerator bool, opts ...voicepipe.Option) (*app, error) {
	a := &app{ctx: c, client: newClient(c)}

	var gen voicepipe.Generator
	if withGenerator {
		g, err := newGenerator(ctx, c)
		if err != nil {
			return nil, err
		}
		gen = g
	}

	paths, err := cli.NewPaths(appName)
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	dir := paths.TurnsDirFor(c)
	if a.turns, err = kv.Open(dir); err != nil {
		return nil, fmt.Errorf("open turn log %q: %w", dir, err)
	}

	b := &voicepipe.Bhashini{Client: a.client}
	if c.Services != nil {
		b.TTSSampleRate = c.Services.TTSSampleRate
	}
	svc := voicepipe.Services{
		Detector:    b,
		Recognizer:  b,
		Generator:   gen,
		Translator:  b,
		Synthesizer: b,
	}
	a.pipeline = voicepipe.New(svc, append([]voicepipe.Option{
		voicepipe.WithSelector(newSelector(c)),
		voicepipe.WithTurnLog(voicepipe.NewTurnLog(a.turns, c.TurnLimit)),
		voicepipe.WithAudioCheck(audio.CheckSynthesized),
		voicepipe.WithLogger(slog.Default()),
	}, opts...)...)
	return a, nil
}

// loadRegistry overlays the built-in languages with the scripts the model
// registry reports. It is called once at startup; on failure the built-in
// registry is used.
func loadRegistry(ctx context.Context, client *bhashini.Client) *lang.Registry {
	scripts, err := client.Registry.Languages(ctx)
	if err != nil {
		slog.Warn("model registry unavailable, using built-in languages", "err", err)
		return lang.Default
	}
	slog.Debug("model registry loaded", "languages", len(scripts))
	return lang.NewRegistry(scripts)
}

func newClient(c *cli.Context) *bhashini.Client {
	var opts []bhashini.Option
	if c.Bhashini.UserID != "" {
		opts = append(opts, bhashini.WithUserID(c.Bhashini.UserID))
	}
	if c.Bhashini.APIKey != "" {
		opts = append(opts, bhashini.WithAPIKey(c.Bhashini.APIKey))
	}
	if c.Bhashini.AuthToken != "" {
		opts = append(opts, bhashini.WithAuthToken(c.Bhashini.AuthToken))
	}
	if c.Bhashini.RegistryURL != "" {
		opts = append(opts, bhashini.WithRegistryURL(c.Bhashini.RegistryURL))
	}
	if c.Timeout > 0 {
		opts = append(opts, bhashini.WithTimeout(time.Duration(c.Timeout)*time.Second))
	}
	return bhashini.NewClient(c.Bhashini.PipelineURL, opts...)
}

func newGenerator(ctx context.Context, c *cli.Context) (voicepipe.Generator, error) {
	switch c.GeneratorName() {
	case cli.GeneratorGemini:
		m := c.GeminiConfig()
		return genx.NewGemini(ctx, genx.GeminiConfig{
			APIKey:            m.APIKey,
			Model:             m.Model,
			SystemInstruction: m.SystemInstruction,
			BaseURL:           m.BaseURL,
		})
	case cli.GeneratorOpenAI:
		if c.OpenAI == nil {
			return nil, fmt.Errorf("context %q has no openai settings", c.Name)
		}
		return genx.NewOpenAI(genx.OpenAIConfig{
			APIKey:            c.OpenAI.APIKey,
			BaseURL:           c.OpenAI.BaseURL,
			Model:             c.OpenAI.Model,
			SystemInstruction: c.OpenAI.SystemInstruction,
		})
	default:
		return nil, fmt.Errorf("unknown generator %q", c.Generator)
	}
}

func newSelector(c *cli.Context) *lang.Selector {
	s := lang.NewSelector()
	if sc := c.Services; sc != nil {
		s.Override(
			lang.ServiceTable{Default: sc.ASRDefault, ByLang: sc.ASR},
			lang.ServiceTable{Default: sc.TTSDefault, ByLang: sc.TTS},
			sc.NMT, sc.Detect,
		)
	}
	return s
}

// newStore returns the reply audio store: S3 when configured, the local
// artifact directory otherwise.
func newStore(c *cli.Context) (storage.FileStore, error) {
	if c.S3 != nil && c.S3.Bucket != "" {
		client, err := storage.NewS3Client(*c.S3)
		if err != nil {
			return nil, err
		}
		return storage.NewS3(client, c.S3.Bucket, c.S3.Prefix), nil
	}
	paths, err := cli.NewPaths(appName)
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return storage.NewLocal(paths.ArtifactDirFor(c))
}

func newNormalizer(c *cli.Context) *audio.Normalizer {
	bin := c.FFmpeg
	if bin == "" {
		bin = "ffmpeg"
	}
	return audio.NewNormalizer(bin)
}

// requestContext bounds a one-shot command by the context timeout, two
// minutes if unset.
func requestContext(c *cli.Context) (context.Context, context.CancelFunc) {
	timeout := 2 * time.Minute
	if c.Timeout > 0 {
		timeout = time.Duration(c.Timeout) * time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}
