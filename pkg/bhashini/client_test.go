package bhashini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// pipelineServer answers every request with reply and records what it got.
type pipelineServer struct {
	*httptest.Server

	status int
	reply  string

	lastReq    PipelineRequest
	lastHeader http.Header
	calls      int
}

func newPipelineServer(t *testing.T, status int, reply string) *pipelineServer {
	t.Helper()
	ps := &pipelineServer{status: status, reply: reply}
	ps.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ps.calls++
		ps.lastHeader = r.Header.Clone()
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &ps.lastReq); err != nil {
			t.Errorf("server: bad request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(ps.status)
		io.WriteString(w, ps.reply)
	}))
	t.Cleanup(ps.Close)
	return ps
}

func (ps *pipelineServer) client() *Client {
	return NewClient(ps.URL,
		WithUserID("user-1"),
		WithAPIKey("key-1"),
		WithAuthToken("token-1"),
	)
}

func TestHeaders(t *testing.T) {
	ps := newPipelineServer(t, 200, `{"pipelineResponse":[{"taskType":"asr","output":[{"source":"hello"}]}]}`)
	_, err := ps.client().ASR.Transcribe(context.Background(), &ASRRequest{Audio: "AAAA", Language: "en", ServiceID: "svc"})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{
		"Content-Type":  "application/json",
		"Accept":        "*/*",
		"User_id":       "user-1",
		"Api-Key":       "key-1",
		"Authorization": "token-1",
	}
	for k, v := range want {
		if got := ps.lastHeader.Get(k); got != v {
			t.Errorf("header %s = %q, want %q", k, got, v)
		}
	}
}

func TestTranscribe(t *testing.T) {
	ps := newPipelineServer(t, 200, `{"pipelineResponse":[{"taskType":"asr","output":[{"source":"नमस्ते"}]}]}`)
	res, err := ps.client().ASR.Transcribe(context.Background(), &ASRRequest{
		Audio:     "UklGRg==",
		Language:  "hi",
		ServiceID: "bhashini/ai4bharat/conformer-multilingual-asr",
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Text != "नमस्ते" {
		t.Errorf("Text = %q", res.Text)
	}

	req := ps.lastReq
	if len(req.PipelineTasks) != 1 {
		t.Fatalf("tasks = %d, want 1", len(req.PipelineTasks))
	}
	task := req.PipelineTasks[0]
	if task.TaskType != TaskASR {
		t.Errorf("taskType = %q", task.TaskType)
	}
	if task.Config.Language == nil || task.Config.Language.SourceLanguage != "hi" {
		t.Errorf("language = %+v", task.Config.Language)
	}
	if task.Config.AudioFormat != "wav" || task.Config.SamplingRate != 16000 {
		t.Errorf("format = %q rate = %d", task.Config.AudioFormat, task.Config.SamplingRate)
	}
	if task.Config.ServiceID != "bhashini/ai4bharat/conformer-multilingual-asr" {
		t.Errorf("serviceId = %q", task.Config.ServiceID)
	}
	if len(req.InputData.Audio) != 1 || req.InputData.Audio[0].AudioContent != "UklGRg==" {
		t.Errorf("inputData = %+v", req.InputData)
	}
}

func TestTranscribeMissingFields(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"no pipeline response", `{}`},
		{"empty pipeline response", `{"pipelineResponse":[]}`},
		{"no output", `{"pipelineResponse":[{"taskType":"asr"}]}`},
		{"empty source", `{"pipelineResponse":[{"taskType":"asr","output":[{"source":""}]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps := newPipelineServer(t, 200, tt.reply)
			_, err := ps.client().ASR.Transcribe(context.Background(), &ASRRequest{Audio: "AA", Language: "hi"})
			if !errors.Is(err, ErrMissingField) {
				t.Fatalf("err = %v, want ErrMissingField", err)
			}
		})
	}
}

func TestTranscribeRequiresAudio(t *testing.T) {
	ps := newPipelineServer(t, 200, `{}`)
	if _, err := ps.client().ASR.Transcribe(context.Background(), &ASRRequest{Language: "hi"}); err == nil {
		t.Fatal("expected error for empty audio")
	}
	if ps.calls != 0 {
		t.Errorf("calls = %d, want 0", ps.calls)
	}
}

func TestHTTPError(t *testing.T) {
	ps := newPipelineServer(t, 401, `{"detail":"invalid token"}`)
	_, err := ps.client().ASR.Transcribe(context.Background(), &ASRRequest{Audio: "AA", Language: "hi"})
	e, ok := AsError(err)
	if !ok {
		t.Fatalf("err = %v, want *Error", err)
	}
	if e.HTTPStatus != 401 || !e.IsAuthError() {
		t.Errorf("status = %d auth = %v", e.HTTPStatus, e.IsAuthError())
	}
	if e.Message != "invalid token" {
		t.Errorf("Message = %q", e.Message)
	}
}

func TestHTTPErrorPlainBody(t *testing.T) {
	ps := newPipelineServer(t, 502, `bad gateway`)
	_, err := ps.client().TTS.Synthesize(context.Background(), &TTSRequest{Text: "hi"})
	e, ok := AsError(err)
	if !ok {
		t.Fatalf("err = %v, want *Error", err)
	}
	if !e.IsServerError() || e.Message != "bad gateway" {
		t.Errorf("err = %+v", e)
	}
}

func TestMalformedJSON(t *testing.T) {
	ps := newPipelineServer(t, 200, `{not json`)
	_, err := ps.client().ASR.Transcribe(context.Background(), &ASRRequest{Audio: "AA", Language: "hi"})
	if err == nil {
		t.Fatal("expected decode error")
	}
	if _, ok := AsError(err); ok {
		t.Error("decode failure must not be an *Error")
	}
}

func TestSynthesize(t *testing.T) {
	audio := []byte("RIFF....WAVEfmt ")
	b64 := base64.StdEncoding.EncodeToString(audio)
	ps := newPipelineServer(t, 200, `{"pipelineResponse":[{"taskType":"tts","audio":[{"audioContent":"`+b64+`"}]}]}`)
	res, err := ps.client().TTS.Synthesize(context.Background(), &TTSRequest{
		Text:      "hello there",
		Language:  "en",
		ServiceID: "Bhashini/IITM/TTS",
		Gender:    "male",
	})
	if err != nil {
		t.Fatal(err)
	}
	if string(res.Audio) != string(audio) || res.AudioBase64 != b64 {
		t.Errorf("audio = %q", res.Audio)
	}

	task := ps.lastReq.PipelineTasks[0]
	if task.TaskType != TaskTTS || task.Config.Gender != "male" || task.Config.SamplingRate != 16000 {
		t.Errorf("task = %+v", task)
	}
	if len(ps.lastReq.InputData.Input) != 1 || ps.lastReq.InputData.Input[0].Source != "hello there" {
		t.Errorf("input = %+v", ps.lastReq.InputData)
	}
	if len(ps.lastReq.InputData.Audio) != 0 {
		t.Error("tts request must not carry audio")
	}
}

func TestSynthesizeMissingAudio(t *testing.T) {
	tests := []string{
		`{"pipelineResponse":[]}`,
		`{"pipelineResponse":[{"taskType":"asr","audio":[{"audioContent":"AAAA"}]}]}`,
		`{"pipelineResponse":[{"taskType":"tts","audio":[]}]}`,
		`{"pipelineResponse":[{"taskType":"tts","audio":[{"audioContent":""}]}]}`,
	}
	for _, reply := range tests {
		ps := newPipelineServer(t, 200, reply)
		_, err := ps.client().TTS.Synthesize(context.Background(), &TTSRequest{Text: "x"})
		if !errors.Is(err, ErrMissingField) {
			t.Errorf("reply %s: err = %v, want ErrMissingField", reply, err)
		}
	}
}

func TestSynthesizeSkipsEmptyStage(t *testing.T) {
	ps := newPipelineServer(t, 200, `{"pipelineResponse":[`+
		`{"taskType":"tts","audio":[{"audioContent":""}]},`+
		`{"taskType":"tts","audio":[{"audioContent":"UklGRg=="}]}]}`)
	res, err := ps.client().TTS.Synthesize(context.Background(), &TTSRequest{Text: "x"})
	if err != nil {
		t.Fatal(err)
	}
	if string(res.Audio) != "RIFF" {
		t.Errorf("audio = %q, want RIFF", res.Audio)
	}
}

func TestTranslate(t *testing.T) {
	ps := newPipelineServer(t, 200, `{"pipelineResponse":[{"taskType":"translation","output":[{"source":"hello","target":"नमस्ते"}]}]}`)
	res, err := ps.client().Translation.Translate(context.Background(), &TranslateRequest{
		Text: "hello", Source: "en", Target: "hi", ServiceID: "ai4bharat/indictrans-v2-all-gpu--t4",
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Text != "नमस्ते" {
		t.Errorf("Text = %q", res.Text)
	}
	l := ps.lastReq.PipelineTasks[0].Config.Language
	if l.SourceLanguage != "en" || l.TargetLanguage != "hi" {
		t.Errorf("language = %+v", l)
	}
}

func TestDetect(t *testing.T) {
	ps := newPipelineServer(t, 200, `{"pipelineResponse":[{"taskType":"audio-lang-detection","output":[{"langPrediction":[{"langCode":"ta","langScore":0.91},{"langCode":"ml","langScore":0.05}]}]}]}`)
	res, err := ps.client().LangDetect.Detect(context.Background(), &DetectRequest{
		Audio: "AAAA", ServiceID: "bhashini/iitmandi/audio-lang-detection/gpu",
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Language != "ta" || res.Score != 0.91 || len(res.Candidates) != 2 {
		t.Errorf("result = %+v", res)
	}
	task := ps.lastReq.PipelineTasks[0]
	if task.TaskType != TaskLangDetect || task.Config.Language != nil {
		t.Errorf("task = %+v", task)
	}
}

func TestDetectNoPrediction(t *testing.T) {
	ps := newPipelineServer(t, 200, `{"pipelineResponse":[{"output":[{"langPrediction":[]}]}]}`)
	_, err := ps.client().LangDetect.Detect(context.Background(), &DetectRequest{Audio: "AA"})
	if !errors.Is(err, ErrMissingField) {
		t.Fatalf("err = %v", err)
	}
}

func TestSpeechToSpeech(t *testing.T) {
	b64 := base64.StdEncoding.EncodeToString([]byte("audio"))
	ps := newPipelineServer(t, 200, `{"pipelineResponse":[
		{"taskType":"asr","output":[{"source":"hello"}]},
		{"taskType":"translation","output":[{"source":"hello","target":"வணக்கம்"}]},
		{"taskType":"tts","audio":[{"audioContent":"`+b64+`"}]}]}`)
	res, err := ps.client().Chain.SpeechToSpeech(context.Background(), &S2SRequest{
		Audio: "AAAA", Source: "en", Target: "ta", Gender: "female",
		ASRServiceID: "asr", NMTServiceID: "nmt", TTSServiceID: "tts",
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Transcript != "hello" || res.Translation != "வணக்கம்" || string(res.Audio) != "audio" {
		t.Errorf("result = %+v", res)
	}
	tasks := ps.lastReq.PipelineTasks
	if len(tasks) != 3 {
		t.Fatalf("tasks = %d", len(tasks))
	}
	if tasks[0].TaskType != TaskASR || tasks[1].TaskType != TaskTranslation || tasks[2].TaskType != TaskTTS {
		t.Errorf("task order = %s %s %s", tasks[0].TaskType, tasks[1].TaskType, tasks[2].TaskType)
	}
	if tasks[2].Config.Language.SourceLanguage != "ta" || tasks[2].Config.SamplingRate != 8000 {
		t.Errorf("tts config = %+v", tasks[2].Config)
	}
}

func TestSpeechToSpeechSameLanguage(t *testing.T) {
	ps := newPipelineServer(t, 200, `{}`)
	_, err := ps.client().Chain.SpeechToSpeech(context.Background(), &S2SRequest{Audio: "AA", Source: "hi", Target: "hi"})
	if !errors.Is(err, ErrSameLanguage) {
		t.Fatalf("err = %v", err)
	}
	if ps.calls != 0 {
		t.Errorf("calls = %d, want 0", ps.calls)
	}
}

func TestContextCanceled(t *testing.T) {
	ps := newPipelineServer(t, 200, `{}`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ps.client().ASR.Transcribe(ctx, &ASRRequest{Audio: "AA"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
