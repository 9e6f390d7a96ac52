// Package cli provides the configuration and output helpers shared by the
// vaani command-line tools.
//
// Configuration lives in ~/.vaani/<app>/config.yaml and holds several named
// contexts, similar to kubectl. A context carries the speech gateway
// credentials, the generative model settings, service overrides and local
// storage locations. Environment variables (optionally loaded from a .env
// file) override the credentials of the selected context.
//
// Example usage:
//
//	cfg, err := cli.LoadConfig("vaani")
//	ctx, err := cfg.ResolveContext(name)
//	cli.ApplyEnv(ctx, os.Getenv)
//
//	cli.Output(result, cli.OutputOptions{Format: cli.FormatJSON})
package cli
