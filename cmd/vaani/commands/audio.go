package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/haivivi/vaani/pkg/cli"
	"github.com/haivivi/vaani/pkg/voicepipe"
)

// readAudio reads a recording from path ("-" for stdin) and converts it to
// 16 kHz mono WAV.
func readAudio(ctx context.Context, c *cli.Context, path string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read audio: %w", err)
	}
	out, err := newNormalizer(c).ToWAV16k(ctx, data, path)
	if err != nil {
		return nil, fmt.Errorf("failed to convert audio: %w", err)
	}
	return out, nil
}

// saveReply writes the reply audio to the -o file, if any, and records the
// path on the turn.
func saveReply(ctx context.Context, a *app, turn *voicepipe.Turn) error {
	if outputFile == "" {
		return nil
	}
	if err := cli.OutputBytes(turn.Audio, outputFile); err != nil {
		return err
	}
	turn.AudioPath = outputFile
	if l := a.pipeline.TurnLog(); l != nil {
		if err := l.Append(ctx, turn); err != nil {
			return fmt.Errorf("failed to record turn: %w", err)
		}
	}
	return nil
}
