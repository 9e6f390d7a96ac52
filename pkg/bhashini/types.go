package bhashini

// TaskType names a pipeline stage.
type TaskType string

const (
	TaskASR         TaskType = "asr"
	TaskTranslation TaskType = "translation"
	TaskTTS         TaskType = "tts"
	TaskLangDetect  TaskType = "audio-lang-detection"
)

// Audio formats accepted by the ASR task.
const (
	FormatWAV  = "wav"
	FormatFLAC = "flac"
)

// PipelineRequest is the document posted to the pipeline endpoint.
type PipelineRequest struct {
	PipelineTasks []Task    `json:"pipelineTasks"`
	InputData     InputData `json:"inputData"`
}

// Task is one stage of a pipeline request.
type Task struct {
	TaskType TaskType   `json:"taskType"`
	Config   TaskConfig `json:"config"`
}

// TaskConfig is a stage's service configuration.
type TaskConfig struct {
	Language     *LanguageConfig `json:"language,omitempty"`
	ServiceID    string          `json:"serviceId,omitempty"`
	AudioFormat  string          `json:"audioFormat,omitempty"`
	SamplingRate int             `json:"samplingRate,omitempty"`
	Gender       string          `json:"gender,omitempty"`
}

// LanguageConfig selects source and target languages of a stage.
type LanguageConfig struct {
	SourceLanguage   string `json:"sourceLanguage"`
	SourceScriptCode string `json:"sourceScriptCode,omitempty"`
	TargetLanguage   string `json:"targetLanguage,omitempty"`
	TargetScriptCode string `json:"targetScriptCode,omitempty"`
}

// InputData carries either audio or text input.
type InputData struct {
	Audio []AudioContent `json:"audio,omitempty"`
	Input []TextInput    `json:"input,omitempty"`
}

// AudioContent is base64 encoded audio.
type AudioContent struct {
	AudioContent string `json:"audioContent"`
}

// TextInput is one text segment.
type TextInput struct {
	Source string `json:"source"`
}

// PipelineResponse is the pipeline endpoint answer.
type PipelineResponse struct {
	PipelineResponse []TaskResponse `json:"pipelineResponse"`
}

// TaskResponse is the output of one stage.
type TaskResponse struct {
	TaskType TaskType       `json:"taskType"`
	Config   *TaskConfig    `json:"config,omitempty"`
	Output   []TaskOutput   `json:"output,omitempty"`
	Audio    []AudioContent `json:"audio,omitempty"`
}

// TaskOutput is one text output of a stage.
type TaskOutput struct {
	Source         string           `json:"source,omitempty"`
	Target         string           `json:"target,omitempty"`
	LangPrediction []LangPrediction `json:"langPrediction,omitempty"`
}

// LangPrediction is a detected language candidate.
type LangPrediction struct {
	LangCode  string  `json:"langCode"`
	LangScore float64 `json:"langScore,omitempty"`
}

// Find returns the first stage output of the given type.
func (r *PipelineResponse) Find(t TaskType) (*TaskResponse, bool) {
	for i := range r.PipelineResponse {
		if r.PipelineResponse[i].TaskType == t {
			return &r.PipelineResponse[i], true
		}
	}
	return nil, false
}

// firstOutput returns pipelineResponse[0].output[0].
func (r *PipelineResponse) firstOutput() (*TaskOutput, error) {
	if len(r.PipelineResponse) == 0 {
		return nil, missingField("pipelineResponse")
	}
	out := r.PipelineResponse[0].Output
	if len(out) == 0 {
		return nil, missingField("pipelineResponse[0].output")
	}
	return &out[0], nil
}
