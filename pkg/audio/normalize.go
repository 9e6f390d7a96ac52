package audio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	resampling "github.com/tphakala/go-audio-resampling"
)

// MinSynthesizedBytes is the smallest synthesized payload accepted as
// real speech.
const MinSynthesizedBytes = 1000

var (
	// ErrAudioTooShort is returned by CheckSynthesized.
	ErrAudioTooShort = errors.New("audio: synthesized audio too short or empty")

	// ErrNoTranscoder is returned for non-WAV input when no ffmpeg is set.
	ErrNoTranscoder = errors.New("audio: input is not wav and no transcoder is configured")
)

// CheckSynthesized rejects synthesized audio that is too small to hold
// speech.
func CheckSynthesized(data []byte) error {
	if len(data) < MinSynthesizedBytes {
		return fmt.Errorf("%w (%d bytes)", ErrAudioTooShort, len(data))
	}
	return nil
}

// Normalizer converts recordings to 16 kHz mono 16-bit WAV.
type Normalizer struct {
	// FFmpeg handles non-WAV input. Nil means WAV only.
	FFmpeg *FFmpeg
}

// NewNormalizer returns a normalizer using ffmpeg at bin for non-WAV input.
// An empty bin disables ffmpeg.
func NewNormalizer(bin string) *Normalizer {
	n := &Normalizer{}
	if bin != "" {
		n.FFmpeg = &FFmpeg{Bin: bin}
	}
	return n
}

// ToWAV16k converts data to the service format. filename is only used to
// pick the input extension for ffmpeg.
func (n *Normalizer) ToWAV16k(ctx context.Context, data []byte, filename string) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.New("audio: empty input")
	}
	if IsWAV(data) {
		out, err := convertWAV(data)
		if err == nil {
			return out, nil
		}
		if !errors.Is(err, ErrUnsupportedWAV) || n.FFmpeg == nil {
			return nil, err
		}
		slog.Debug("audio: wav encoding not handled in process, using ffmpeg", "err", err)
	}
	if n.FFmpeg == nil {
		return nil, ErrNoTranscoder
	}
	return n.FFmpeg.ToWAV16k(ctx, data, filename)
}

// convertWAV downmixes and resamples PCM WAV data in process.
func convertWAV(data []byte) ([]byte, error) {
	dec, buf, err := decodeWAV(data)
	if err != nil {
		return nil, err
	}
	info := Info{SampleRate: int(dec.SampleRate), Channels: int(dec.NumChans), BitDepth: int(dec.BitDepth)}
	if info.IsTarget() {
		return data, nil
	}
	switch info.BitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d-bit", ErrUnsupportedWAV, info.BitDepth)
	}

	mono := downmix(buf.Data, info.Channels, info.BitDepth)
	if info.SampleRate != TargetSampleRate && len(mono) > 0 {
		rs, err := resampling.New(&resampling.Config{
			InputRate:  float64(info.SampleRate),
			OutputRate: float64(TargetSampleRate),
			Channels:   1,
			Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
		})
		if err != nil {
			return nil, fmt.Errorf("audio: create resampler: %w", err)
		}
		mono, err = rs.Process(mono)
		if err != nil {
			return nil, fmt.Errorf("audio: resample: %w", err)
		}
	}
	return encodeWAV(toPCM16(mono), TargetSampleRate)
}
