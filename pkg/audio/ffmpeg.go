package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// FFmpeg converts arbitrary containers by running the ffmpeg binary.
type FFmpeg struct {
	// Bin is the ffmpeg executable, "ffmpeg" if empty.
	Bin string

	// TempDir holds intermediate files, os.TempDir() if empty.
	TempDir string
}

// ToWAV16k runs `ffmpeg -y -i in -ac 1 -ar 16000 out.wav` on data.
func (f *FFmpeg) ToWAV16k(ctx context.Context, data []byte, filename string) ([]byte, error) {
	bin := f.Bin
	if bin == "" {
		bin = "ffmpeg"
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".webm"
	}

	dir, err := os.MkdirTemp(f.TempDir, "vaani-audio-")
	if err != nil {
		return nil, fmt.Errorf("audio: create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "input"+ext)
	out := filepath.Join(dir, "output.wav")
	if err := os.WriteFile(in, data, 0o600); err != nil {
		return nil, fmt.Errorf("audio: write input: %w", err)
	}

	cmd := exec.CommandContext(ctx, bin, "-y", "-i", in,
		"-ac", strconv.Itoa(TargetChannels),
		"-ar", strconv.Itoa(TargetSampleRate),
		out)
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("audio: ffmpeg: %v\nOutput: %s", err, tail(output, 512))
	}

	wav, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("audio: read ffmpeg output: %w", err)
	}
	return wav, nil
}

func tail(b []byte, n int) string {
	if len(b) > n {
		b = b[len(b)-n:]
	}
	return string(b)
}
