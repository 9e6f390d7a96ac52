package voicehttp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/haivivi/vaani/pkg/audio"
	"github.com/haivivi/vaani/pkg/bhashini"
	"github.com/haivivi/vaani/pkg/lang"
	"github.com/haivivi/vaani/pkg/storage"
	"github.com/haivivi/vaani/pkg/voicepipe"
)

// DefaultMaxUploadBytes bounds the multipart request size.
const DefaultMaxUploadBytes = 25 << 20

// Catalog lists what the remote model registry offers.
// *bhashini.RegistryService satisfies it.
type Catalog interface {
	Languages(ctx context.Context) (map[string]string, error)
	TranslationPairs(ctx context.Context) ([]bhashini.LangPair, error)
	TTSLanguages(ctx context.Context) ([]string, error)
}

// Config wires a Server. Pipeline, Normalizer and Store are required.
type Config struct {
	Pipeline   *voicepipe.Pipeline
	Normalizer *audio.Normalizer
	Store      storage.FileStore

	// Catalog adds the remote registry listing to /languages when set.
	Catalog Catalog

	// Languages is the local language registry, lang.Default if nil.
	Languages *lang.Registry

	// AudioKey is the store key of the reply audio,
	// storage.ResponseAudioKey if empty.
	AudioKey string

	MaxUploadBytes int64
	Logger         *slog.Logger
}

// Server is the HTTP front-end.
type Server struct {
	cfg Config
	mux *http.ServeMux
}

// NewServer validates cfg and registers the routes.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Pipeline == nil {
		return nil, errors.New("voicehttp: pipeline is required")
	}
	if cfg.Normalizer == nil {
		return nil, errors.New("voicehttp: normalizer is required")
	}
	if cfg.Store == nil {
		return nil, errors.New("voicehttp: store is required")
	}
	if cfg.Languages == nil {
		cfg.Languages = lang.Default
	}
	if cfg.AudioKey == "" {
		cfg.AudioKey = storage.ResponseAudioKey
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	s := &Server{cfg: cfg, mux: http.NewServeMux()}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("POST /speech-to-speech", s.handleSpeechToSpeech)
	s.mux.HandleFunc("POST /speech-translate", s.handleSpeechTranslate)
	s.mux.HandleFunc("GET /response-audio", s.handleResponseAudio)
	s.mux.HandleFunc("GET /languages", s.handleLanguages)
	s.mux.HandleFunc("GET /turns", s.handleTurns)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
}

// Handler returns the routes wrapped with CORS and request logging.
func (s *Server) Handler() http.Handler {
	return cors(s.logRequests(s.mux))
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.cfg.Logger.Info("voicehttp listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("voicehttp: shutdown: %w", err)
		}
		return nil
	}
}

// cors allows any origin, method and header; preflight requests end here.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "*")
		if req := r.Header.Get("Access-Control-Request-Headers"); req != "" {
			h.Set("Access-Control-Allow-Headers", req)
		} else {
			h.Set("Access-Control-Allow-Headers", "*")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		s.cfg.Logger.Debug("http request",
			"method", r.Method, "path", r.URL.Path,
			"status", sw.status, "duration", time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleResponseAudio(w http.ResponseWriter, r *http.Request) {
	data, err := storage.ReadFile(r.Context(), s.cfg.Store, s.cfg.AudioKey)
	if err != nil {
		if storage.IsNotExist(err) {
			writeError(w, http.StatusNotFound, errors.New("no response audio yet"))
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "no-store")
	w.Write(data)
}

type languageInfo struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Script string `json:"script"`
}

type languagesResponse struct {
	Languages        []languageInfo      `json:"languages"`
	RegistryScripts  map[string]string   `json:"registry_scripts,omitempty"`
	TranslationPairs []bhashini.LangPair `json:"translation_pairs,omitempty"`
	TTSLanguages     []string            `json:"tts_languages,omitempty"`
	RegistryError    string              `json:"registry_error,omitempty"`
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	var resp languagesResponse
	for _, l := range s.cfg.Languages.Supported() {
		resp.Languages = append(resp.Languages, languageInfo{Code: l.Code, Name: l.Name, Script: l.Script})
	}

	if s.cfg.Catalog != nil && r.URL.Query().Get("registry") != "" {
		if err := s.fillRegistry(r.Context(), &resp); err != nil {
			s.cfg.Logger.Warn("registry lookup failed", "err", err)
			resp.RegistryError = err.Error()
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) fillRegistry(ctx context.Context, resp *languagesResponse) error {
	var err error
	if resp.RegistryScripts, err = s.cfg.Catalog.Languages(ctx); err != nil {
		return err
	}
	if resp.TranslationPairs, err = s.cfg.Catalog.TranslationPairs(ctx); err != nil {
		return err
	}
	resp.TTSLanguages, err = s.cfg.Catalog.TTSLanguages(ctx)
	return err
}

func (s *Server) handleTurns(w http.ResponseWriter, r *http.Request) {
	turns := []voicepipe.Turn{}
	log := s.cfg.Pipeline.TurnLog()
	if log != nil {
		n := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			var err error
			if n, err = strconv.Atoi(v); err != nil || n < 0 {
				writeError(w, http.StatusBadRequest, fmt.Errorf("invalid limit %q", v))
				return
			}
		}
		list, err := log.List(r.Context(), n)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		turns = append(turns, list...)
	}
	writeJSON(w, http.StatusOK, map[string]any{"turns": turns})
}

// readUpload parses the multipart form and returns the "audio" file.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, int, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, "", http.StatusRequestEntityTooLarge, fmt.Errorf("upload exceeds %d bytes", tooLarge.Limit)
		}
		return nil, "", http.StatusBadRequest, fmt.Errorf("parse form: %w", err)
	}
	f, hdr, err := r.FormFile("audio")
	if err != nil {
		return nil, "", http.StatusBadRequest, fmt.Errorf("audio file: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", http.StatusBadRequest, fmt.Errorf("read audio: %w", err)
	}
	if len(data) == 0 {
		return nil, "", http.StatusBadRequest, errors.New("audio file is empty")
	}
	return data, hdr.Filename, http.StatusOK, nil
}

type turnResponse struct {
	Message          string `json:"message"`
	TurnID           string `json:"turn_id"`
	DetectedLanguage string `json:"detected_language"`
	LanguageName     string `json:"language_name"`
	TargetLanguage   string `json:"target_language,omitempty"`
	Transcript       string `json:"transcript"`
	Reply            string `json:"reply"`
}

func (s *Server) handleSpeechToSpeech(w http.ResponseWriter, r *http.Request) {
	s.handleTurn(w, r, func(ctx context.Context, wav []byte) (*voicepipe.Turn, error) {
		return s.cfg.Pipeline.Converse(ctx, voicepipe.ConverseRequest{
			Audio:  wav,
			Lang:   r.FormValue("source_lang"),
			Gender: r.FormValue("gender"),
		})
	})
}

func (s *Server) handleSpeechTranslate(w http.ResponseWriter, r *http.Request) {
	s.handleTurn(w, r, func(ctx context.Context, wav []byte) (*voicepipe.Turn, error) {
		return s.cfg.Pipeline.Translate(ctx, voicepipe.TranslateRequest{
			Audio:      wav,
			SourceLang: r.FormValue("source_lang"),
			TargetLang: r.FormValue("target_lang"),
			Gender:     r.FormValue("gender"),
		})
	})
}

// handleTurn normalizes the upload, runs the turn and persists the reply.
func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request, run func(context.Context, []byte) (*voicepipe.Turn, error)) {
	ctx := r.Context()
	data, filename, status, err := s.readUpload(w, r)
	if err != nil {
		writeError(w, status, err)
		return
	}

	wav, err := s.cfg.Normalizer.ToWAV16k(ctx, data, filename)
	if err != nil {
		s.cfg.Logger.Error("normalize upload", "file", filename, "err", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	turn, err := run(ctx, wav)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if err := audio.CheckSynthesized(turn.Audio); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if err := storage.WriteFile(ctx, s.cfg.Store, s.cfg.AudioKey, turn.Audio); err != nil {
		s.cfg.Logger.Error("persist reply audio", "key", s.cfg.AudioKey, "err", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	turn.AudioPath = s.cfg.AudioKey
	if log := s.cfg.Pipeline.TurnLog(); log != nil {
		if err := log.Append(ctx, turn); err != nil {
			s.cfg.Logger.Warn("record turn audio path", "id", turn.ID, "err", err)
		}
	}

	resp := turnResponse{
		Message:          "Audio saved",
		TurnID:           turn.ID,
		DetectedLanguage: turn.SourceLang,
		LanguageName:     s.cfg.Languages.Name(turn.SourceLang),
		Transcript:       turn.Transcript,
		Reply:            turn.Reply,
	}
	if turn.Mode == voicepipe.ModeTranslate {
		resp.TargetLanguage = turn.TargetLang
	}
	writeJSON(w, http.StatusOK, resp)
}
