package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/haivivi/vaani/pkg/cli"
)

const appName = "vaani"

var (
	// Global flags
	cfgFile     string
	contextName string
	outputFile  string
	inputFile   string
	envFiles    []string
	format      string
	outputJSON  bool
	verbose     bool

	// Global configuration
	globalConfig *cli.Config
)

var rootCmd = &cobra.Command{
	Use:   "vaani",
	Short: "Voice conversations and translation for Indian languages",
	Long: `vaani - speech in, speech out.

A spoken question is transcribed by the Bhashini pipeline, answered by
Gemini and spoken back in the same language. Spoken translation between
Indic languages uses the same pipeline.

Configuration is stored in ~/.vaani/vaani/ and supports multiple contexts,
similar to kubectl's context management. Credentials may also come from
the environment (ULCA_USER_ID, ULCA_API_KEY, BHASHINI_AUTH_TOKEN,
BHASHINI_PIPELINE_URL, GEMINI_API_KEY, OPENAI_API_KEY) or a .env file.

Examples:
  # Set up a context
  vaani config add-context dev --user-id ID --api-key KEY --auth-token TOKEN --gemini-key KEY

  # Run the HTTP front-end
  vaani serve --addr :8000

  # Ask a question from a recording
  vaani converse question.wav -o reply.wav

  # Translate Hindi speech to Tamil
  vaani translate hello.wav --from hi --to ta -o vanakkam.wav`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "", "", "config file (default is ~/.vaani/vaani/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&contextName, "context", "c", "", "context name to use")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	rootCmd.PersistentFlags().StringVarP(&inputFile, "file", "f", "", "input request file (YAML or JSON)")
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "dotenv files to load (default .env)")
	rootCmd.PersistentFlags().StringVar(&format, "format", "", "result format: yaml, json, table or raw (default yaml, table for lists)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output as JSON (for piping), same as --format json")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(converseCmd)
	rootCmd.AddCommand(translateCmd)
	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(asrCmd)
	rootCmd.AddCommand(ttsCmd)
	rootCmd.AddCommand(langsCmd)
	rootCmd.AddCommand(turnsCmd)
}

func initConfig() {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	if err := cli.LoadDotEnv(envFiles...); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: dotenv: %v\n", err)
	}

	var err error
	globalConfig, err = cli.LoadConfigWithPath(appName, cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %s config: %v\n", appName, err)
	}
}

// getConfig returns the global configuration
func getConfig() (*cli.Config, error) {
	if globalConfig == nil {
		return nil, fmt.Errorf("configuration not initialized")
	}
	return globalConfig, nil
}

// getContext returns the context to use with environment overrides
// applied. The stored configuration is not modified.
func getContext() (*cli.Context, error) {
	cfg, err := getConfig()
	if err != nil {
		return nil, err
	}
	ctx, err := cfg.ResolveContext(contextName)
	if err != nil {
		if contextName == "" {
			return nil, fmt.Errorf("no context specified. Use -c flag or set a default context with 'vaani config use-context'")
		}
		return nil, err
	}
	resolved := *ctx
	if ctx.Gemini != nil {
		g := *ctx.Gemini
		resolved.Gemini = &g
	}
	if ctx.OpenAI != nil {
		o := *ctx.OpenAI
		resolved.OpenAI = &o
	}
	cli.ApplyEnv(&resolved, os.Getenv)
	slog.Debug("using context", "name", resolved.Name)
	return &resolved, nil
}

// outputResult prints result in the --format format. Without one, --json
// selects JSON, tabular results print as a table and the rest as YAML.
func outputResult(result any) error {
	f, err := cli.ParseFormat(format)
	if err != nil {
		return err
	}
	if format == "" {
		switch {
		case outputJSON:
			f = cli.FormatJSON
		case isTabular(result):
			f = cli.FormatTable
		}
	}
	return cli.Output(result, cli.OutputOptions{Format: f})
}

func isTabular(v any) bool {
	_, ok := v.(cli.Tabular)
	return ok
}
