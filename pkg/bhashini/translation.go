package bhashini

import (
	"context"
	"errors"
)

// TranslationService translates text.
type TranslationService struct {
	client *Client
}

// TranslateRequest is one translation call.
type TranslateRequest struct {
	Text         string `json:"text" yaml:"text"`
	Source       string `json:"source" yaml:"source"`
	Target       string `json:"target" yaml:"target"`
	ServiceID    string `json:"service_id" yaml:"service_id"`
	SourceScript string `json:"source_script,omitempty" yaml:"source_script,omitempty"`
	TargetScript string `json:"target_script,omitempty" yaml:"target_script,omitempty"`
}

// TranslateResult is translated text.
type TranslateResult struct {
	Source string `json:"source"`
	Text   string `json:"text"`
}

func (r *TranslateRequest) task() Task {
	return Task{
		TaskType: TaskTranslation,
		Config: TaskConfig{
			Language: &LanguageConfig{
				SourceLanguage:   r.Source,
				SourceScriptCode: r.SourceScript,
				TargetLanguage:   r.Target,
				TargetScriptCode: r.TargetScript,
			},
			ServiceID: r.ServiceID,
		},
	}
}

// Translate returns pipelineResponse[0].output[0].target.
func (s *TranslationService) Translate(ctx context.Context, req *TranslateRequest) (*TranslateResult, error) {
	if req.Text == "" {
		return nil, errors.New("bhashini: translation: text is required")
	}
	resp, err := s.client.Do(ctx, &PipelineRequest{
		PipelineTasks: []Task{req.task()},
		InputData:     InputData{Input: []TextInput{{Source: req.Text}}},
	})
	if err != nil {
		return nil, err
	}
	out, err := resp.firstOutput()
	if err != nil {
		return nil, err
	}
	if out.Target == "" {
		return nil, missingField("pipelineResponse[0].output[0].target")
	}
	return &TranslateResult{Source: out.Source, Text: out.Target}, nil
}
