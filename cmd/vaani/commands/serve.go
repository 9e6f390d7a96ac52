package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/haivivi/vaani/pkg/lang"
	"github.com/haivivi/vaani/pkg/voicehttp"
	"github.com/haivivi/vaani/pkg/voicepipe"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP front-end",
	Long: `Run the HTTP front-end used by the browser recorder.

Routes:
  POST /speech-to-speech   spoken question → spoken reply
  POST /speech-translate   spoken translation
  GET  /response-audio     latest reply audio
  GET  /languages          supported languages (?registry=1 for the remote list)
  GET  /turns              recorded turns
  GET  /healthz

Examples:
  vaani serve
  vaani -c prod serve --addr :8080 --registry`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", ":8000", "listen address")
	serveCmd.Flags().Int64("max-upload", voicehttp.DefaultMaxUploadBytes, "maximum upload size in bytes")
	serveCmd.Flags().Bool("registry", false, "load language scripts from the model registry at startup and enable the remote listing")
}

func runServe(cmd *cobra.Command, args []string) error {
	c, err := getContext()
	if err != nil {
		return err
	}
	addr, _ := cmd.Flags().GetString("addr")
	maxUpload, _ := cmd.Flags().GetInt64("max-upload")
	withRegistry, _ := cmd.Flags().GetBool("registry")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := lang.Default
	if withRegistry {
		registry = loadRegistry(ctx, newClient(c))
	}
	a, err := newApp(ctx, c, true, voicepipe.WithRegistry(registry))
	if err != nil {
		return err
	}
	defer a.Close()

	store, err := newStore(c)
	if err != nil {
		return err
	}

	cfg := voicehttp.Config{
		Pipeline:       a.pipeline,
		Normalizer:     newNormalizer(c),
		Store:          store,
		Languages:      registry,
		MaxUploadBytes: maxUpload,
		Logger:         slog.Default(),
	}
	if withRegistry {
		cfg.Catalog = a.client.Registry
	}
	srv, err := voicehttp.NewServer(cfg)
	if err != nil {
		return err
	}
	slog.Info("starting vaani", "context", c.Name, "generator", c.GeneratorName(), "addr", addr)
	return srv.ListenAndServe(ctx, addr)
}
