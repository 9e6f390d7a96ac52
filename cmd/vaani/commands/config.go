package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/haivivi/vaani/pkg/cli"
	"github.com/haivivi/vaani/pkg/storage"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long: `Manage CLI configuration and contexts.

Contexts hold gateway credentials, the reply model and storage settings,
similar to kubectl's context management.

Configuration is stored in ~/.vaani/vaani/config.yaml`,
}

var configAddContextCmd = &cobra.Command{
	Use:   "add-context <name>",
	Short: "Add a new context",
	Long: `Add a new context with the specified name.

Unset credentials are read from the environment at run time.

Example:
  vaani config add-context dev --user-id ID --api-key KEY --auth-token TOKEN
  vaani config add-context prod --gemini-key KEY --s3-bucket replies`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		str := func(name string) string {
			v, _ := f.GetString(name)
			return v
		}
		num := func(name string) int {
			v, _ := f.GetInt(name)
			return v
		}

		ctx := &cli.Context{
			Bhashini: cli.BhashiniConfig{
				PipelineURL: str("pipeline-url"),
				RegistryURL: str("registry-url"),
				UserID:      str("user-id"),
				APIKey:      str("api-key"),
				AuthToken:   str("auth-token"),
			},
			Generator:   str("generator"),
			FFmpeg:      str("ffmpeg"),
			ArtifactDir: str("artifact-dir"),
			TurnsDir:    str("turns-dir"),
			TurnLimit:   num("turn-limit"),
			Timeout:     num("timeout"),
		}
		if key, model := str("gemini-key"), str("gemini-model"); key != "" || model != "" {
			ctx.Gemini = &cli.ModelConfig{APIKey: key, Model: model}
		}
		if key, model := str("openai-key"), str("openai-model"); key != "" || model != "" {
			ctx.OpenAI = &cli.ModelConfig{APIKey: key, Model: model, BaseURL: str("openai-base-url")}
		}
		if bucket := str("s3-bucket"); bucket != "" {
			pathStyle, _ := f.GetBool("s3-path-style")
			ctx.S3 = &storage.S3Config{
				Bucket:    bucket,
				Prefix:    str("s3-prefix"),
				Region:    str("s3-region"),
				Endpoint:  str("s3-endpoint"),
				PathStyle: pathStyle,
			}
		}

		cfg, err := getConfig()
		if err != nil {
			return err
		}
		if err := cfg.AddContext(args[0], ctx); err != nil {
			return err
		}
		cli.PrintSuccess("Context %q added successfully", args[0])
		return nil
	},
}

var configDeleteContextCmd = &cobra.Command{
	Use:   "delete-context <name>",
	Short: "Delete a context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}
		if err := cfg.DeleteContext(args[0]); err != nil {
			return err
		}
		cli.PrintSuccess("Context %q deleted", args[0])
		return nil
	},
}

var configUseContextCmd = &cobra.Command{
	Use:   "use-context <name>",
	Short: "Set the current context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}
		if err := cfg.UseContext(args[0]); err != nil {
			return err
		}
		cli.PrintSuccess("Switched to context %q", args[0])
		return nil
	},
}

var configGetContextCmd = &cobra.Command{
	Use:   "get-context",
	Short: "Display the current context",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}
		if cfg.CurrentContext == "" {
			fmt.Println("No current context set")
			return nil
		}
		fmt.Println(cfg.CurrentContext)
		return nil
	},
}

// contextList is the list-contexts table.
type contextList struct {
	current  string
	contexts []*cli.Context
}

func (l contextList) TableHeaders() []string {
	return []string{"CURRENT", "NAME", "GENERATOR", "STORAGE", "PIPELINE"}
}

func (l contextList) TableRows() [][]string {
	rows := make([][]string, 0, len(l.contexts))
	for _, ctx := range l.contexts {
		current := ""
		if ctx.Name == l.current {
			current = "*"
		}
		store := "local"
		if ctx.S3 != nil && ctx.S3.Bucket != "" {
			store = "s3://" + ctx.S3.Bucket
		}
		pipeline := ctx.Bhashini.PipelineURL
		if pipeline == "" {
			pipeline = "(default)"
		}
		rows = append(rows, []string{current, ctx.Name, ctx.GeneratorName(), store, pipeline})
	}
	return rows
}

var configListContextsCmd = &cobra.Command{
	Use:     "list-contexts",
	Aliases: []string{"get-contexts"},
	Short:   "List all contexts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}
		if len(cfg.Contexts) == 0 {
			fmt.Println("No contexts configured")
			return nil
		}
		l := contextList{current: cfg.CurrentContext}
		for _, name := range cfg.ListContexts() {
			l.contexts = append(l.contexts, cfg.Contexts[name])
		}
		fmt.Println(cli.RenderTable(l.TableHeaders(), l.TableRows()))
		return nil
	},
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "View the current configuration",
	Long: `View the configuration with secrets masked.

With --resolved, shows the selected context after environment overrides.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}
		if resolved, _ := cmd.Flags().GetBool("resolved"); resolved {
			ctx, err := getContext()
			if err != nil {
				return err
			}
			return outputResult(ctx.Masked())
		}

		cli.KeyValue(os.Stdout,
			[2]string{"Config file", cfg.Path()},
			[2]string{"Current context", cfg.CurrentContext},
			[2]string{"Contexts", strconv.Itoa(len(cfg.Contexts))},
		)
		if len(cfg.Contexts) == 0 {
			return nil
		}
		masked := make(map[string]*cli.Context, len(cfg.Contexts))
		for name, ctx := range cfg.Contexts {
			masked[name] = ctx.Masked()
		}
		fmt.Println()
		return outputResult(masked)
	},
}

func init() {
	f := configAddContextCmd.Flags()
	f.String("pipeline-url", "", "inference pipeline URL (default Dhruva)")
	f.String("registry-url", "", "model registry URL (default ULCA)")
	f.String("user-id", "", "ULCA user id")
	f.String("api-key", "", "ULCA API key")
	f.String("auth-token", "", "pipeline inference token")
	f.String("generator", "", "reply model backend: gemini (default) or openai")
	f.String("gemini-key", "", "Gemini API key")
	f.String("gemini-model", "", "Gemini model")
	f.String("openai-key", "", "OpenAI API key")
	f.String("openai-model", "", "OpenAI model")
	f.String("openai-base-url", "", "OpenAI compatible base URL")
	f.String("ffmpeg", "", "ffmpeg binary for non-WAV uploads")
	f.String("artifact-dir", "", "local directory for reply audio")
	f.String("s3-bucket", "", "store reply audio in this S3 bucket")
	f.String("s3-prefix", "", "S3 key prefix")
	f.String("s3-region", "", "S3 region")
	f.String("s3-endpoint", "", "S3 compatible endpoint")
	f.Bool("s3-path-style", false, "use path-style S3 addressing")
	f.String("turns-dir", "", "turn log directory (default in memory)")
	f.Int("turn-limit", 0, "number of turns to keep")
	f.Int("timeout", 0, "request timeout in seconds")

	configViewCmd.Flags().Bool("resolved", false, "show the selected context with environment overrides")

	configCmd.AddCommand(configAddContextCmd)
	configCmd.AddCommand(configDeleteContextCmd)
	configCmd.AddCommand(configUseContextCmd)
	configCmd.AddCommand(configGetContextCmd)
	configCmd.AddCommand(configListContextsCmd)
	configCmd.AddCommand(configViewCmd)
}
