package bhashini

import (
	"context"
	"errors"
)

// LangDetectService identifies the spoken language of audio.
type LangDetectService struct {
	client *Client
}

// DetectRequest is one detection call.
type DetectRequest struct {
	Audio     string `json:"audio" yaml:"audio"`
	ServiceID string `json:"service_id" yaml:"service_id"`
}

// DetectResult holds the top prediction and all candidates.
type DetectResult struct {
	Language   string           `json:"language"`
	Score      float64          `json:"score,omitempty"`
	Candidates []LangPrediction `json:"candidates,omitempty"`
}

// Detect returns pipelineResponse[0].output[0].langPrediction[0].langCode.
func (s *LangDetectService) Detect(ctx context.Context, req *DetectRequest) (*DetectResult, error) {
	if req.Audio == "" {
		return nil, errors.New("bhashini: lang detect: audio is required")
	}
	resp, err := s.client.Do(ctx, &PipelineRequest{
		PipelineTasks: []Task{{
			TaskType: TaskLangDetect,
			Config:   TaskConfig{ServiceID: req.ServiceID},
		}},
		InputData: InputData{Audio: []AudioContent{{AudioContent: req.Audio}}},
	})
	if err != nil {
		return nil, err
	}
	out, err := resp.firstOutput()
	if err != nil {
		return nil, err
	}
	if len(out.LangPrediction) == 0 || out.LangPrediction[0].LangCode == "" {
		return nil, missingField("pipelineResponse[0].output[0].langPrediction[0].langCode")
	}
	top := out.LangPrediction[0]
	return &DetectResult{
		Language:   top.LangCode,
		Score:      top.LangScore,
		Candidates: out.LangPrediction,
	}, nil
}
