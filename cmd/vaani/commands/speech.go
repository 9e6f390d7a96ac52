package commands

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/haivivi/vaani/pkg/audio"
	"github.com/haivivi/vaani/pkg/bhashini"
	"github.com/haivivi/vaani/pkg/cli"
	"github.com/haivivi/vaani/pkg/lang"
	"github.com/haivivi/vaani/pkg/voicepipe"
)

// asrFileRequest is an ASR request file. It may name a recording instead
// of carrying base64 audio.
type asrFileRequest struct {
	bhashini.ASRRequest `yaml:",inline"`

	AudioFile string `json:"audio_file,omitempty" yaml:"audio_file,omitempty"`
}

// transcript prints as plain text with --format raw.
type transcript struct {
	Language  string `json:"language" yaml:"language"`
	ServiceID string `json:"service_id" yaml:"service_id"`
	Text      string `json:"text" yaml:"text"`
}

func (t transcript) String() string { return t.Text + "\n" }

var asrCmd = &cobra.Command{
	Use:   "asr [audio]",
	Short: "Transcribe speech",
	Long: `Transcribe a recording with the ASR model selected for its language.

The request may also come from a file (-f). audio_file is resolved
relative to the request file and converted like a command line recording;
audio holds base64 WAV instead:
  audio_file: question.wav
  language: hi
  service_id: ai4bharat/conformer-hi-gpu--t4

Examples:
  vaani asr question.wav --lang hi
  vaani asr question.wav --json
  vaani asr question.wav --format raw > question.txt
  vaani asr -f asr.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getContext()
		if err != nil {
			return err
		}
		language, _ := cmd.Flags().GetString("lang")

		ctx, cancel := requestContext(c)
		defer cancel()

		a, err := newApp(ctx, c, false)
		if err != nil {
			return err
		}
		defer a.Close()

		var req asrFileRequest
		switch {
		case inputFile != "":
			if err := cli.LoadRequest(inputFile, &req); err != nil {
				return err
			}
			if req.AudioFile != "" {
				wav, err := readAudio(ctx, c, cli.RequestPath(inputFile, req.AudioFile))
				if err != nil {
					return err
				}
				req.Audio = base64.StdEncoding.EncodeToString(wav)
			}
			if req.Language == "" {
				return fmt.Errorf("request has no language")
			}
		case len(args) == 1:
			wav, err := readAudio(ctx, c, args[0])
			if err != nil {
				return err
			}
			if language == "" || language == voicepipe.AutoLanguage {
				if language, err = a.pipeline.Detect(ctx, wav); err != nil {
					return err
				}
			}
			req.Audio = base64.StdEncoding.EncodeToString(wav)
			req.Language = language
		default:
			return fmt.Errorf("audio file or -f request is required")
		}
		if req.ServiceID == "" {
			req.ServiceID = a.pipeline.Selector().ASR(req.Language)
		}

		res, err := a.client.ASR.Transcribe(ctx, &req.ASRRequest)
		if err != nil {
			return fmt.Errorf("%s failed: %w", voicepipe.StageASR.Prefix(), err)
		}
		return outputResult(transcript{
			Language:  req.Language,
			ServiceID: res.ServiceID,
			Text:      res.Text,
		})
	},
}

var ttsCmd = &cobra.Command{
	Use:   "tts [text...]",
	Short: "Synthesize speech",
	Long: `Speak text with the TTS model selected for its language.

The request may also come from a file (-f):
  text: नमस्ते
  language: hi
  gender: male

Examples:
  vaani tts --lang hi -o hello.wav "नमस्ते दुनिया"
  vaani tts -f tts.yaml -o hello.wav`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getContext()
		if err != nil {
			return err
		}
		if outputFile == "" {
			return fmt.Errorf("output file is required, use -o flag")
		}
		language, _ := cmd.Flags().GetString("lang")
		gender, _ := cmd.Flags().GetString("gender")

		req := bhashini.TTSRequest{Language: language, Gender: gender}
		if inputFile != "" {
			if err := cli.LoadRequest(inputFile, &req); err != nil {
				return err
			}
		} else {
			req.Text = strings.Join(args, " ")
		}
		if strings.TrimSpace(req.Text) == "" {
			return fmt.Errorf("text is required")
		}
		if req.Language == "" {
			return fmt.Errorf("language is required, use --lang")
		}
		req.Gender = string(lang.NormalizeGender(req.Gender))

		ctx, cancel := requestContext(c)
		defer cancel()

		a, err := newApp(ctx, c, false)
		if err != nil {
			return err
		}
		defer a.Close()

		if req.ServiceID == "" {
			req.ServiceID = a.pipeline.Selector().TTS(req.Language)
		}
		if req.SampleRate == 0 && c.Services != nil {
			req.SampleRate = c.Services.TTSSampleRate
		}
		res, err := a.client.TTS.Synthesize(ctx, &req)
		if err != nil {
			return fmt.Errorf("%s failed: %w", voicepipe.StageTTS.Prefix(), err)
		}
		if err := audio.CheckSynthesized(res.Audio); err != nil {
			return err
		}
		if err := cli.OutputBytes(res.Audio, outputFile); err != nil {
			return err
		}

		result := map[string]any{
			"language":    req.Language,
			"service_id":  req.ServiceID,
			"gender":      req.Gender,
			"audio_size":  cli.FormatBytes(int64(len(res.Audio))),
			"output_file": outputFile,
		}
		if info, err := audio.Inspect(res.Audio); err == nil {
			result["sample_rate"] = info.SampleRate
			result["duration"] = cli.FormatDuration(info.Duration)
		}
		return outputResult(result)
	},
}

func init() {
	asrCmd.Flags().String("lang", voicepipe.AutoLanguage, `spoken language code, "auto" to detect`)
	ttsCmd.Flags().String("lang", "", "language code")
	ttsCmd.Flags().String("gender", "female", "voice: female or male")
}
