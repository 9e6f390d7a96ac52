package bhashini

import (
	"context"
	"encoding/base64"
	"errors"
)

// DefaultTTSSampleRate is the sampling rate requested from TTS.
const DefaultTTSSampleRate = 16000

// TTSService synthesizes speech.
type TTSService struct {
	client *Client
}

// TTSRequest is one synthesis call.
type TTSRequest struct {
	Text       string `json:"text" yaml:"text"`
	Language   string `json:"language" yaml:"language"`
	ServiceID  string `json:"service_id" yaml:"service_id"`
	Gender     string `json:"gender" yaml:"gender"`
	SampleRate int    `json:"sample_rate,omitempty" yaml:"sample_rate,omitempty"`
}

// TTSResult is synthesized audio.
type TTSResult struct {
	// AudioBase64 is audioContent as returned by the service.
	AudioBase64 string `json:"audio_base64"`

	// Audio is the decoded AudioBase64.
	Audio []byte `json:"-"`
}

func (r *TTSRequest) task() Task {
	rate := r.SampleRate
	if rate == 0 {
		rate = DefaultTTSSampleRate
	}
	return Task{
		TaskType: TaskTTS,
		Config: TaskConfig{
			Language:     &LanguageConfig{SourceLanguage: r.Language},
			ServiceID:    r.ServiceID,
			Gender:       r.Gender,
			SamplingRate: rate,
		},
	}
}

// Synthesize runs TTS and returns the audio of the first tts stage output.
func (s *TTSService) Synthesize(ctx context.Context, req *TTSRequest) (*TTSResult, error) {
	if req.Text == "" {
		return nil, errors.New("bhashini: tts: text is required")
	}
	resp, err := s.client.Do(ctx, &PipelineRequest{
		PipelineTasks: []Task{req.task()},
		InputData:     InputData{Input: []TextInput{{Source: req.Text}}},
	})
	if err != nil {
		return nil, err
	}
	return ttsAudio(resp)
}

// ttsAudio extracts and decodes the audio of the first tts stage that
// carries any. Earlier tts stages with no audio are skipped.
func ttsAudio(resp *PipelineResponse) (*TTSResult, error) {
	var task *TaskResponse
	seen := false
	for i := range resp.PipelineResponse {
		t := &resp.PipelineResponse[i]
		if t.TaskType != TaskTTS {
			continue
		}
		seen = true
		if len(t.Audio) > 0 && t.Audio[0].AudioContent != "" {
			task = t
			break
		}
	}
	if !seen {
		return nil, missingField("pipelineResponse[taskType=tts]")
	}
	if task == nil {
		return nil, missingField("pipelineResponse[taskType=tts].audio[0].audioContent")
	}
	b64 := task.Audio[0].AudioContent
	audio, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, wrapError(err, "decode audioContent")
	}
	return &TTSResult{AudioBase64: b64, Audio: audio}, nil
}
