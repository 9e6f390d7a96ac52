package voicepipe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/haivivi/vaani/pkg/lang"
)

// AutoLanguage requests language detection in place of a language code.
const AutoLanguage = "auto"

// Turn modes.
const (
	ModeConverse  = "converse"
	ModeTranslate = "translate"
)

var (
	// ErrEmptyAudio is returned when a request carries no audio.
	ErrEmptyAudio = errors.New("voicepipe: audio is empty")

	// ErrSameLanguage is returned by Translate when source and target match.
	ErrSameLanguage = errors.New("voicepipe: source and target language are the same")

	// ErrEmptyResult is returned when a backend answers with an empty value.
	ErrEmptyResult = errors.New("voicepipe: empty result")

	errNoBackend = errors.New("voicepipe: backend not configured")
)

// ConverseRequest is one spoken conversation turn.
type ConverseRequest struct {
	// Audio is 16 kHz mono WAV.
	Audio []byte

	// Lang is the spoken language code. Empty or "auto" triggers detection.
	Lang string

	// Gender selects the synthesized voice; anything but "male" means female.
	Gender string

	// AutoDetect forces detection even when Lang is set.
	AutoDetect bool
}

// TranslateRequest is one spoken translation.
type TranslateRequest struct {
	Audio      []byte
	SourceLang string
	TargetLang string
	Gender     string
}

// Turn is the outcome of a successful request.
type Turn struct {
	ID           string    `msgpack:"id" json:"id"`
	CreatedAt    time.Time `msgpack:"created_at" json:"created_at"`
	Mode         string    `msgpack:"mode" json:"mode"`
	SourceLang   string    `msgpack:"source_lang" json:"source_lang"`
	TargetLang   string    `msgpack:"target_lang" json:"target_lang"`
	DetectedLang string    `msgpack:"detected_lang,omitempty" json:"detected_lang,omitempty"`
	Gender       string    `msgpack:"gender" json:"gender"`
	Transcript   string    `msgpack:"transcript" json:"transcript"`
	Reply        string    `msgpack:"reply" json:"reply"`
	AudioBytes   int       `msgpack:"audio_bytes" json:"audio_bytes"`
	AudioPath    string    `msgpack:"audio_path,omitempty" json:"audio_path,omitempty"`

	// Audio is the synthesized reply. It is not persisted in the turn log.
	Audio []byte `msgpack:"-" json:"-"`
}

// Pipeline runs conversation and translation turns. It is safe for
// concurrent use once configured.
type Pipeline struct {
	svc      Services
	selector *lang.Selector
	registry *lang.Registry
	turns    *TurnLog
	check    func([]byte) error
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSelector sets the language → service id tables.
func WithSelector(s *lang.Selector) Option {
	return func(p *Pipeline) {
		p.selector = s
	}
}

// WithRegistry sets the language registry used for script codes.
func WithRegistry(r *lang.Registry) Option {
	return func(p *Pipeline) {
		p.registry = r
	}
}

// WithTurnLog records every successful turn in l.
func WithTurnLog(l *TurnLog) Option {
	return func(p *Pipeline) {
		p.turns = l
	}
}

// WithAudioCheck validates synthesized audio inside the TTS stage. A
// rejected payload fails the turn before it is recorded.
func WithAudioCheck(check func([]byte) error) Option {
	return func(p *Pipeline) {
		p.check = check
	}
}

// WithLogger sets the logger for stage timing and failures.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = l
	}
}

// New creates a Pipeline over svc.
func New(svc Services, opts ...Option) *Pipeline {
	p := &Pipeline{
		svc:      svc,
		selector: lang.NewSelector(),
		registry: lang.Default,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// TurnLog returns the configured turn log, or nil.
func (p *Pipeline) TurnLog() *TurnLog {
	return p.turns
}

// Selector returns the service selector in use.
func (p *Pipeline) Selector() *lang.Selector {
	return p.selector
}

// Detect identifies the language spoken in audio.
func (p *Pipeline) Detect(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", &StageError{Stage: StageDetect, Err: ErrEmptyAudio}
	}
	var code string
	err := p.stage(ctx, StageDetect, p.selector.Detection(), func(ctx context.Context, service string) (err error) {
		if p.svc.Detector == nil {
			return errNoBackend
		}
		code, err = p.svc.Detector.Detect(ctx, audio, service)
		code = strings.ToLower(strings.TrimSpace(code))
		return nonEmpty(err, code, "language code")
	})
	return code, err
}

// Converse transcribes the question, generates a reply and speaks it in
// the same language.
func (p *Pipeline) Converse(ctx context.Context, req ConverseRequest) (*Turn, error) {
	turn := &Turn{
		Mode:   ModeConverse,
		Gender: string(lang.NormalizeGender(req.Gender)),
	}
	if len(req.Audio) == 0 {
		return nil, &StageError{Stage: StageASR, Err: ErrEmptyAudio}
	}

	code, detected, err := p.resolveLang(ctx, req.Audio, req.Lang, req.AutoDetect)
	if err != nil {
		return nil, err
	}
	turn.SourceLang, turn.TargetLang, turn.DetectedLang = code, code, detected

	if turn.Transcript, err = p.recognize(ctx, req.Audio, code); err != nil {
		return nil, err
	}

	err = p.stage(ctx, StageGenerate, "", func(ctx context.Context, _ string) (err error) {
		if p.svc.Generator == nil {
			return errNoBackend
		}
		turn.Reply, err = p.svc.Generator.Generate(ctx, turn.Transcript)
		turn.Reply = strings.TrimSpace(turn.Reply)
		return nonEmpty(err, turn.Reply, "reply")
	})
	if err != nil {
		return nil, err
	}

	if turn.Audio, err = p.synthesize(ctx, turn.Reply, code, lang.Gender(turn.Gender)); err != nil {
		return nil, err
	}
	return p.finish(ctx, turn), nil
}

// Translate transcribes speech in the source language, translates the
// transcript and speaks it in the target language.
func (p *Pipeline) Translate(ctx context.Context, req TranslateRequest) (*Turn, error) {
	turn := &Turn{
		Mode:       ModeTranslate,
		Gender:     string(lang.NormalizeGender(req.Gender)),
		TargetLang: normalizeCode(req.TargetLang),
	}
	if turn.TargetLang == "" || turn.TargetLang == AutoLanguage {
		return nil, &StageError{Stage: StageTranslate, Err: errors.New("target language is required")}
	}
	src := normalizeCode(req.SourceLang)
	if src != "" && src != AutoLanguage && src == turn.TargetLang {
		return nil, &StageError{Stage: StageTranslate, Err: ErrSameLanguage}
	}
	if len(req.Audio) == 0 {
		return nil, &StageError{Stage: StageASR, Err: ErrEmptyAudio}
	}

	code, detected, err := p.resolveLang(ctx, req.Audio, src, false)
	if err != nil {
		return nil, err
	}
	if code == turn.TargetLang {
		return nil, &StageError{Stage: StageTranslate, Err: ErrSameLanguage}
	}
	turn.SourceLang, turn.DetectedLang = code, detected

	if turn.Transcript, err = p.recognize(ctx, req.Audio, code); err != nil {
		return nil, err
	}

	err = p.stage(ctx, StageTranslate, p.selector.Translation(), func(ctx context.Context, service string) (err error) {
		if p.svc.Translator == nil {
			return errNoBackend
		}
		turn.Reply, err = p.svc.Translator.Translate(ctx, Translation{
			Text:         turn.Transcript,
			Source:       code,
			Target:       turn.TargetLang,
			SourceScript: p.registry.Script(code),
			TargetScript: p.registry.Script(turn.TargetLang),
			ServiceID:    service,
		})
		return nonEmpty(err, turn.Reply, "translation")
	})
	if err != nil {
		return nil, err
	}

	if turn.Audio, err = p.synthesize(ctx, turn.Reply, turn.TargetLang, lang.Gender(turn.Gender)); err != nil {
		return nil, err
	}
	return p.finish(ctx, turn), nil
}

// resolveLang returns the language to use and, when detection ran, the
// detected code.
func (p *Pipeline) resolveLang(ctx context.Context, audio []byte, code string, force bool) (string, string, error) {
	code = normalizeCode(code)
	if code != "" && code != AutoLanguage && !force {
		return code, "", nil
	}
	detected, err := p.Detect(ctx, audio)
	if err != nil {
		return "", "", err
	}
	return detected, detected, nil
}

func (p *Pipeline) recognize(ctx context.Context, audio []byte, code string) (string, error) {
	var text string
	err := p.stage(ctx, StageASR, p.selector.ASR(code), func(ctx context.Context, service string) (err error) {
		if p.svc.Recognizer == nil {
			return errNoBackend
		}
		text, err = p.svc.Recognizer.Recognize(ctx, audio, code, service)
		text = strings.TrimSpace(text)
		return nonEmpty(err, text, "transcript")
	})
	return text, err
}

func (p *Pipeline) synthesize(ctx context.Context, text, code string, gender lang.Gender) ([]byte, error) {
	var audio []byte
	err := p.stage(ctx, StageTTS, p.selector.TTS(code), func(ctx context.Context, service string) (err error) {
		if p.svc.Synthesizer == nil {
			return errNoBackend
		}
		audio, err = p.svc.Synthesizer.Synthesize(ctx, text, code, service, gender)
		if err != nil {
			return err
		}
		if len(audio) == 0 {
			return fmt.Errorf("%w: audio", ErrEmptyResult)
		}
		if p.check != nil {
			return p.check(audio)
		}
		return nil
	})
	return audio, err
}

// stage runs fn with timing and logging and tags its error.
func (p *Pipeline) stage(ctx context.Context, st Stage, service string, fn func(context.Context, string) error) error {
	start := time.Now()
	err := fn(ctx, service)
	elapsed := time.Since(start)
	if err != nil {
		p.logger.ErrorContext(ctx, "pipeline stage failed",
			"stage", st, "service", service, "duration", elapsed, "err", err)
		return &StageError{Stage: st, Err: err}
	}
	p.logger.DebugContext(ctx, "pipeline stage done",
		"stage", st, "service", service, "duration", elapsed)
	return nil
}

func (p *Pipeline) finish(ctx context.Context, turn *Turn) *Turn {
	turn.ID = uuid.NewString()
	turn.CreatedAt = p.now().UTC()
	turn.AudioBytes = len(turn.Audio)
	if p.turns != nil {
		if err := p.turns.Append(ctx, turn); err != nil {
			p.logger.WarnContext(ctx, "record turn", "id", turn.ID, "err", err)
		}
	}
	return turn
}

func nonEmpty(err error, v, what string) error {
	if err != nil {
		return err
	}
	if v == "" {
		return fmt.Errorf("%w: %s", ErrEmptyResult, what)
	}
	return nil
}

func normalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
