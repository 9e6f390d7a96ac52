package commands

import (
	"github.com/spf13/cobra"

	"github.com/haivivi/vaani/pkg/lang"
)

var detectCmd = &cobra.Command{
	Use:   "detect <audio>",
	Short: "Identify the spoken language",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getContext()
		if err != nil {
			return err
		}
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

		code, err := a.pipeline.Detect(ctx, audio)
		if err != nil {
			return err
		}
		return outputResult(map[string]any{
			"language":  code,
			"name":      lang.Name(code),
			"supported": lang.IsSupported(code),
		})
	},
}
