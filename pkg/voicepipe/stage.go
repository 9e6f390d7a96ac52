package voicepipe

import "errors"

// Stage names one step of the pipeline.
type Stage string

const (
	StageDetect    Stage = "detect"
	StageASR       Stage = "asr"
	StageGenerate  Stage = "generate"
	StageTranslate Stage = "translate"
	StageTTS       Stage = "tts"
)

// Prefix is the label used in error messages.
func (s Stage) Prefix() string {
	switch s {
	case StageDetect:
		return "Language detection"
	case StageASR:
		return "ASR"
	case StageGenerate:
		return "Gemini AI"
	case StageTranslate:
		return "Translation"
	case StageTTS:
		return "TTS"
	default:
		return string(s)
	}
}

// StageError tags a failure with the stage that produced it. The pipeline
// stops at the first StageError.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return e.Stage.Prefix() + " failed: " + e.Err.Error()
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// StageOf reports the stage that err originated from.
func StageOf(err error) (Stage, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}
