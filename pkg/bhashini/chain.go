package bhashini

import (
	"context"
	"errors"
	"fmt"
)

// ErrSameLanguage is returned when a translating chain is asked to
// translate into its own source language.
var ErrSameLanguage = errors.New("bhashini: source and target languages must differ")

// DefaultChainTTSSampleRate is the TTS sampling rate of a chained call.
const DefaultChainTTSSampleRate = 8000

// ChainService runs several stages in one pipeline call.
type ChainService struct {
	client *Client
}

// S2SRequest is a speech to translated speech call.
type S2SRequest struct {
	Audio  string `json:"audio" yaml:"audio"`
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
	Gender string `json:"gender" yaml:"gender"`

	ASRServiceID string `json:"asr_service_id" yaml:"asr_service_id"`
	NMTServiceID string `json:"nmt_service_id" yaml:"nmt_service_id"`
	TTSServiceID string `json:"tts_service_id" yaml:"tts_service_id"`

	// Format and SampleRate describe Audio.
	Format     string `json:"format,omitempty" yaml:"format,omitempty"`
	SampleRate int    `json:"sample_rate,omitempty" yaml:"sample_rate,omitempty"`

	// TTSSampleRate defaults to DefaultChainTTSSampleRate.
	TTSSampleRate int `json:"tts_sample_rate,omitempty" yaml:"tts_sample_rate,omitempty"`
}

// S2SResult is the outcome of a chained call. Transcript and Translation
// are filled when the service echoes the intermediate stages.
type S2SResult struct {
	Transcript  string `json:"transcript,omitempty"`
	Translation string `json:"translation,omitempty"`
	TTSResult
}

// SpeechToSpeech sends ASR, translation and TTS as one pipeline.
func (s *ChainService) SpeechToSpeech(ctx context.Context, req *S2SRequest) (*S2SResult, error) {
	if req.Source == req.Target {
		return nil, fmt.Errorf("%w: %q", ErrSameLanguage, req.Source)
	}
	if req.Audio == "" {
		return nil, errors.New("bhashini: chain: audio is required")
	}
	ttsRate := req.TTSSampleRate
	if ttsRate == 0 {
		ttsRate = DefaultChainTTSSampleRate
	}

	asr := (&ASRRequest{
		Language:   req.Source,
		ServiceID:  req.ASRServiceID,
		Format:     req.Format,
		SampleRate: req.SampleRate,
	}).task()
	nmt := (&TranslateRequest{
		Source:    req.Source,
		Target:    req.Target,
		ServiceID: req.NMTServiceID,
	}).task()
	tts := (&TTSRequest{
		Language:   req.Target,
		ServiceID:  req.TTSServiceID,
		Gender:     req.Gender,
		SampleRate: ttsRate,
	}).task()

	resp, err := s.client.Do(ctx, &PipelineRequest{
		PipelineTasks: []Task{asr, nmt, tts},
		InputData:     InputData{Audio: []AudioContent{{AudioContent: req.Audio}}},
	})
	if err != nil {
		return nil, err
	}

	audio, err := ttsAudio(resp)
	if err != nil {
		return nil, err
	}
	out := &S2SResult{TTSResult: *audio}
	if t, ok := resp.Find(TaskASR); ok && len(t.Output) > 0 {
		out.Transcript = t.Output[0].Source
	}
	if t, ok := resp.Find(TaskTranslation); ok && len(t.Output) > 0 {
		out.Translation = t.Output[0].Target
	}
	return out, nil
}
