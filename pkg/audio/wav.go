package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Target format of the speech services.
const (
	TargetSampleRate = 16000
	TargetBitDepth   = 16
	TargetChannels   = 1
)

const wavFormatPCM = 1

var (
	// ErrInvalidWAV is returned for data that is not a readable WAV file.
	ErrInvalidWAV = errors.New("audio: invalid wav data")

	// ErrUnsupportedWAV is returned for WAV encodings the in-process
	// converter does not handle (float, a-law, ...).
	ErrUnsupportedWAV = errors.New("audio: unsupported wav encoding")
)

// Info describes a WAV stream.
type Info struct {
	SampleRate int           `json:"sample_rate"`
	Channels   int           `json:"channels"`
	BitDepth   int           `json:"bit_depth"`
	Duration   time.Duration `json:"duration"`
}

// IsTarget reports whether the stream already matches the service format.
func (i Info) IsTarget() bool {
	return i.SampleRate == TargetSampleRate && i.Channels == TargetChannels && i.BitDepth == TargetBitDepth
}

// IsWAV sniffs the RIFF/WAVE header.
func IsWAV(data []byte) bool {
	return len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE"
}

func decodeWAV(data []byte) (*wav.Decoder, *goaudio.IntBuffer, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, nil, ErrInvalidWAV
	}
	if dec.WavAudioFormat != wavFormatPCM {
		return nil, nil, fmt.Errorf("%w: format tag %d", ErrUnsupportedWAV, dec.WavAudioFormat)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidWAV, err)
	}
	if dec.NumChans == 0 || dec.SampleRate == 0 {
		return nil, nil, ErrInvalidWAV
	}
	return dec, buf, nil
}

// Inspect reads the format of WAV data.
func Inspect(data []byte) (Info, error) {
	dec, buf, err := decodeWAV(data)
	if err != nil {
		return Info{}, err
	}
	ch := int(dec.NumChans)
	frames := len(buf.Data) / ch
	return Info{
		SampleRate: int(dec.SampleRate),
		Channels:   ch,
		BitDepth:   int(dec.BitDepth),
		Duration:   time.Duration(frames) * time.Second / time.Duration(dec.SampleRate),
	}, nil
}

// downmix averages interleaved integer samples into normalized mono floats.
func downmix(data []int, channels, bitDepth int) []float64 {
	frames := len(data) / channels
	out := make([]float64, frames)
	scale := float64(int(1) << (bitDepth - 1))
	for f := 0; f < frames; f++ {
		var sum float64
		for c := 0; c < channels; c++ {
			v := data[f*channels+c]
			if bitDepth == 8 {
				// 8-bit WAV samples are unsigned.
				v -= 128
			}
			sum += float64(v) / scale
		}
		out[f] = sum / float64(channels)
	}
	return out
}

// toPCM16 clamps normalized floats into 16-bit integer samples.
func toPCM16(samples []float64) []int {
	out := make([]int, len(samples))
	for i, s := range samples {
		switch {
		case s > 1:
			s = 1
		case s < -1:
			s = -1
		}
		out[i] = int(s * 32767)
	}
	return out
}

// encodeWAV writes mono 16-bit samples as a WAV file.
func encodeWAV(samples []int, sampleRate int) ([]byte, error) {
	return encodeWAVChannels(samples, sampleRate, TargetChannels)
}

// encodeWAVChannels writes interleaved 16-bit samples as a WAV file.
func encodeWAVChannels(samples []int, sampleRate, channels int) ([]byte, error) {
	var f memFile
	enc := wav.NewEncoder(&f, sampleRate, TargetBitDepth, channels, wavFormatPCM)
	if err := enc.Write(&goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           samples,
		SourceBitDepth: TargetBitDepth,
	}); err != nil {
		return nil, fmt.Errorf("audio: encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("audio: finalize wav: %w", err)
	}
	return f.buf, nil
}

// memFile is an in-memory io.WriteSeeker; the wav encoder seeks back to
// patch chunk sizes on Close.
type memFile struct {
	buf []byte
	pos int
}

func (m *memFile) Write(p []byte) (int, error) {
	end := m.pos + len(p)
	if end > len(m.buf) {
		m.buf = append(m.buf, make([]byte, end-len(m.buf))...)
	}
	copy(m.buf[m.pos:], p)
	m.pos = end
	return len(p), nil
}

func (m *memFile) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(m.pos) + offset
	case io.SeekEnd:
		abs = int64(len(m.buf)) + offset
	default:
		return 0, errors.New("audio: invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("audio: negative position")
	}
	m.pos = int(abs)
	return abs, nil
}
