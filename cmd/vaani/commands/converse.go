package commands

import (
	"github.com/spf13/cobra"

	"github.com/haivivi/vaani/pkg/voicepipe"
)

var converseCmd = &cobra.Command{
	Use:   "converse <audio>",
	Short: "Ask a spoken question and get a spoken reply",
	Long: `Transcribe a recording, answer it with the reply model and speak the
answer back in the same language.

WAV input is converted in process; other formats need ffmpeg. Use "-" to
read the recording from stdin.

Examples:
  vaani converse question.wav -o reply.wav
  vaani converse question.webm --lang hi --gender male -o reply.wav --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getContext()
		if err != nil {
			return err
		}
		language, _ := cmd.Flags().GetString("lang")
		gender, _ := cmd.Flags().GetString("gender")
		autoDetect, _ := cmd.Flags().GetBool("auto-detect")

		ctx, cancel := requestContext(c)
		defer cancel()

		audio, err := readAudio(ctx, c, args[0])
		if err != nil {
			return err
		}
		a, err := newApp(ctx, c, true)
		if err != nil {
			return err
		}
		defer a.Close()

		turn, err := a.pipeline.Converse(ctx, voicepipe.ConverseRequest{
			Audio:      audio,
			Lang:       language,
			Gender:     gender,
			AutoDetect: autoDetect,
		})
		if err != nil {
			return err
		}
		if err := saveReply(ctx, a, turn); err != nil {
			return err
		}
		return outputResult(turn)
	},
}

func init() {
	converseCmd.Flags().String("lang", voicepipe.AutoLanguage, `spoken language code, "auto" to detect`)
	converseCmd.Flags().String("gender", "female", "reply voice: female or male")
	converseCmd.Flags().Bool("auto-detect", false, "detect the language even when --lang is set")
}
