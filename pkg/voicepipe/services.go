package voicepipe

import (
	"context"
	"encoding/base64"

	"github.com/haivivi/vaani/pkg/bhashini"
	"github.com/haivivi/vaani/pkg/lang"
)

// Detector identifies the spoken language of audio.
type Detector interface {
	Detect(ctx context.Context, audio []byte, serviceID string) (string, error)
}

// Recognizer transcribes audio spoken in language.
type Recognizer interface {
	Recognize(ctx context.Context, audio []byte, language, serviceID string) (string, error)
}

// Generator produces a text reply to a prompt. genx generators satisfy it.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Translation is one text translation.
type Translation struct {
	Text         string
	Source       string
	Target       string
	SourceScript string
	TargetScript string
	ServiceID    string
}

// Translator translates text between languages.
type Translator interface {
	Translate(ctx context.Context, t Translation) (string, error)
}

// Synthesizer turns text into audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, language, serviceID string, gender lang.Gender) ([]byte, error)
}

// Services groups the backends a Pipeline calls. Generator is the only one
// not provided by the speech gateway.
type Services struct {
	Detector    Detector
	Recognizer  Recognizer
	Generator   Generator
	Translator  Translator
	Synthesizer Synthesizer
}

// Bhashini adapts a bhashini.Client to the speech interfaces above.
type Bhashini struct {
	Client *bhashini.Client

	// TTSSampleRate overrides the synthesis sample rate when non-zero.
	TTSSampleRate int
}

// FromBhashini returns Services backed by c for every speech stage and g
// for generation.
func FromBhashini(c *bhashini.Client, g Generator) Services {
	b := &Bhashini{Client: c}
	return Services{
		Detector:    b,
		Recognizer:  b,
		Generator:   g,
		Translator:  b,
		Synthesizer: b,
	}
}

func (b *Bhashini) Detect(ctx context.Context, audio []byte, serviceID string) (string, error) {
	res, err := b.Client.LangDetect.Detect(ctx, &bhashini.DetectRequest{
		Audio:     base64.StdEncoding.EncodeToString(audio),
		ServiceID: serviceID,
	})
	if err != nil {
		return "", err
	}
	return res.Language, nil
}

func (b *Bhashini) Recognize(ctx context.Context, audio []byte, language, serviceID string) (string, error) {
	res, err := b.Client.ASR.Transcribe(ctx, &bhashini.ASRRequest{
		Audio:     base64.StdEncoding.EncodeToString(audio),
		Language:  language,
		ServiceID: serviceID,
	})
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

func (b *Bhashini) Translate(ctx context.Context, t Translation) (string, error) {
	res, err := b.Client.Translation.Translate(ctx, &bhashini.TranslateRequest{
		Text:         t.Text,
		Source:       t.Source,
		Target:       t.Target,
		ServiceID:    t.ServiceID,
		SourceScript: t.SourceScript,
		TargetScript: t.TargetScript,
	})
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

func (b *Bhashini) Synthesize(ctx context.Context, text, language, serviceID string, gender lang.Gender) ([]byte, error) {
	res, err := b.Client.TTS.Synthesize(ctx, &bhashini.TTSRequest{
		Text:       text,
		Language:   language,
		ServiceID:  serviceID,
		Gender:     string(gender),
		SampleRate: b.TTSSampleRate,
	})
	if err != nil {
		return nil, err
	}
	return res.Audio, nil
}
