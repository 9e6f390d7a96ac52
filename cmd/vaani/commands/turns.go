package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/haivivi/vaani/pkg/cli"
	"github.com/haivivi/vaani/pkg/voicepipe"
)

// turnTable renders turns newest first.
type turnTable []voicepipe.Turn

func (t turnTable) TableHeaders() []string {
	return []string{"TIME", "MODE", "LANG", "TRANSCRIPT", "REPLY", "AUDIO"}
}

func (t turnTable) TableRows() [][]string {
	rows := make([][]string, len(t))
	for i, turn := range t {
		langs := turn.SourceLang
		if turn.TargetLang != "" && turn.TargetLang != turn.SourceLang {
			langs += "→" + turn.TargetLang
		}
		rows[i] = []string{
			turn.CreatedAt.Local().Format(time.DateTime),
			turn.Mode,
			langs,
			truncate(turn.Transcript, 40),
			truncate(turn.Reply, 40),
			cli.FormatBytes(int64(turn.AudioBytes)),
		}
	}
	return rows
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

var turnsCmd = &cobra.Command{
	Use:   "turns",
	Short: "List recorded turns",
	Long: `List recorded turns, newest first.

Turns are kept in memory unless the context sets turns_dir, so this command
only shows turns from other runs when turns_dir is configured.

Examples:
  vaani turns --limit 10
  vaani turns --json
  vaani turns --clear`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getContext()
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		clearAll, _ := cmd.Flags().GetBool("clear")

		if c.TurnsDir == "" {
			cli.PrintWarning("context %q has no turns_dir; turns are not persisted", c.Name)
		}
		a, err := newApp(context.Background(), c, false)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := requestContext(c)
		defer cancel()
		log := a.pipeline.TurnLog()
		if clearAll {
			if err := log.Clear(ctx); err != nil {
				return err
			}
			cli.PrintSuccess("Turns cleared")
			return nil
		}
		turns, err := log.List(ctx, limit)
		if err != nil {
			return err
		}
		if len(turns) == 0 && !outputJSON {
			cli.PrintInfo("No turns recorded (keeping up to %d)", log.Limit())
			return nil
		}
		return outputResult(turnTable(turns))
	},
}

func init() {
	turnsCmd.Flags().Int("limit", 20, "number of turns to show, 0 for all")
	turnsCmd.Flags().Bool("clear", false, "delete all recorded turns")
}
