package bhashini

import (
	"context"
	"errors"
)

// Default ASR input parameters. The pipeline expects 16 kHz mono audio.
const (
	DefaultASRFormat     = FormatWAV
	DefaultASRSampleRate = 16000
)

// ASRService transcribes speech.
type ASRService struct {
	client *Client
}

// ASRRequest is one transcription call.
type ASRRequest struct {
	// Audio is base64 encoded audio in Format.
	Audio string `json:"audio" yaml:"audio"`

	// Language is the spoken language code.
	Language string `json:"language" yaml:"language"`

	// ServiceID selects the ASR model.
	ServiceID string `json:"service_id" yaml:"service_id"`

	// Format is the audio container, DefaultASRFormat if empty.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`

	// SampleRate in Hz, DefaultASRSampleRate if zero.
	SampleRate int `json:"sample_rate,omitempty" yaml:"sample_rate,omitempty"`
}

// ASRResult is a transcription.
type ASRResult struct {
	Text      string `json:"text"`
	ServiceID string `json:"service_id"`
}

func (r *ASRRequest) task() Task {
	format := r.Format
	if format == "" {
		format = DefaultASRFormat
	}
	rate := r.SampleRate
	if rate == 0 {
		rate = DefaultASRSampleRate
	}
	return Task{
		TaskType: TaskASR,
		Config: TaskConfig{
			Language:     &LanguageConfig{SourceLanguage: r.Language},
			ServiceID:    r.ServiceID,
			AudioFormat:  format,
			SamplingRate: rate,
		},
	}
}

// Transcribe runs ASR and returns pipelineResponse[0].output[0].source.
func (s *ASRService) Transcribe(ctx context.Context, req *ASRRequest) (*ASRResult, error) {
	if req.Audio == "" {
		return nil, errors.New("bhashini: asr: audio is required")
	}
	resp, err := s.client.Do(ctx, &PipelineRequest{
		PipelineTasks: []Task{req.task()},
		InputData:     InputData{Audio: []AudioContent{{AudioContent: req.Audio}}},
	})
	if err != nil {
		return nil, err
	}
	out, err := resp.firstOutput()
	if err != nil {
		return nil, err
	}
	if out.Source == "" {
		return nil, missingField("pipelineResponse[0].output[0].source")
	}
	return &ASRResult{Text: out.Source, ServiceID: req.ServiceID}, nil
}
