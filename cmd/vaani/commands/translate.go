package commands

import (
	"encoding/base64"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haivivi/vaani/pkg/bhashini"
	"github.com/haivivi/vaani/pkg/cli"
	"github.com/haivivi/vaani/pkg/lang"
	"github.com/haivivi/vaani/pkg/voicepipe"
)

var translateCmd = &cobra.Command{
	Use:   "translate <audio>",
	Short: "Translate speech into another language",
	Long: `Transcribe a recording, translate the text and speak it in the target
language.

By default each stage is a separate pipeline call. --single-call sends
ASR, translation and TTS as one pipeline request instead; it needs an
explicit --from and does not record a turn.

Examples:
  vaani translate hello.wav --to ta -o out.wav
  vaani translate hello.wav --from hi --to bn --single-call -o out.wav`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getContext()
		if err != nil {
			return err
		}
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		gender, _ := cmd.Flags().GetString("gender")
		single, _ := cmd.Flags().GetBool("single-call")

		ctx, cancel := requestContext(c)
		defer cancel()

		audio, err := readAudio(ctx, c, args[0])
		if err != nil {
			return err
		}
		a, err := newApp(ctx, c, false)
		if err != nil {
			return err
		}
		defer a.Close()

		if single {
			if from == "" || from == voicepipe.AutoLanguage {
				return fmt.Errorf("--single-call needs --from")
			}
			sel := a.pipeline.Selector()
			res, err := a.client.Chain.SpeechToSpeech(ctx, &bhashini.S2SRequest{
				Audio:        base64.StdEncoding.EncodeToString(audio),
				Source:       from,
				Target:       to,
				Gender:       string(lang.NormalizeGender(gender)),
				ASRServiceID: sel.ASR(from),
				NMTServiceID: sel.Translation(),
				TTSServiceID: sel.TTS(to),
			})
			if err != nil {
				return fmt.Errorf("speech translation failed: %w", err)
			}
			if outputFile != "" {
				if err := cli.OutputBytes(res.Audio, outputFile); err != nil {
					return err
				}
			}
			return outputResult(map[string]any{
				"source_lang": from,
				"target_lang": to,
				"transcript":  res.Transcript,
				"translation": res.Translation,
				"audio_bytes": len(res.Audio),
				"output_file": outputFile,
			})
		}

		turn, err := a.pipeline.Translate(ctx, voicepipe.TranslateRequest{
			Audio:      audio,
			SourceLang: from,
			TargetLang: to,
			Gender:     gender,
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
	translateCmd.Flags().String("from", voicepipe.AutoLanguage, `source language code, "auto" to detect`)
	translateCmd.Flags().String("to", "", "target language code (required)")
	translateCmd.Flags().String("gender", "female", "voice: female or male")
	translateCmd.Flags().Bool("single-call", false, "run all stages in one pipeline request")
	translateCmd.MarkFlagRequired("to")
}
