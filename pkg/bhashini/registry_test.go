package bhashini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"
)

func newRegistry(t *testing.T, reply string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Api-Key") != "" {
			t.Errorf("registry call must not send api-key")
		}
		io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return NewClient("", WithRegistryURL(srv.URL), WithAPIKey("k"))
}

func TestRegistryLanguages(t *testing.T) {
	c := newRegistry(t, `{"pipelineModels":[
		{"languages":[{"sourceLanguage":"hi","sourceScriptCode":"Deva"},{"sourceLanguage":"ta","sourceScriptCode":"Taml"}]},
		{"languages":[{"sourceLanguage":"en","sourceScriptCode":"Latn"},{"sourceLanguage":"xx"}]},
		{}]}`)
	got, err := c.Registry.Languages(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{"hi": "Deva", "ta": "Taml", "en": "Latn"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Languages() = %v, want %v", got, want)
	}
}

func TestRegistryLanguagesEmpty(t *testing.T) {
	c := newRegistry(t, `{}`)
	got, err := c.Registry.Languages(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("Languages() = %v, want empty", got)
	}
}

func TestRegistryTranslationPairs(t *testing.T) {
	c := newRegistry(t, `{"pipelineResponse":[
		{"config":{"language":{"sourceLanguage":"hi","targetLanguage":"en"}}},
		{"config":{"language":{"sourceLanguage":"en","targetLanguage":"hi"}}},
		{"config":{"language":{"sourceLanguage":"en","targetLanguage":"hi"}}},
		{"config":{"language":{"sourceLanguage":"ta"}}},
		{"config":{}}]}`)
	got, err := c.Registry.TranslationPairs(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := []LangPair{{"en", "hi"}, {"hi", "en"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TranslationPairs() = %v, want %v", got, want)
	}
}

func TestRegistryTTSLanguages(t *testing.T) {
	c := newRegistry(t, `{"pipelineResponse":[
		{"config":{"language":{"sourceLanguage":"ta"}}},
		{"config":{"language":{"sourceLanguage":"hi"}}},
		{"config":{"language":{"sourceLanguage":"ta"}}},
		{"config":{"language":{"sourceLanguage":""}}}]}`)
	got, err := c.Registry.TTSLanguages(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"hi", "ta"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TTSLanguages() = %v, want %v", got, want)
	}
}

func TestRegistryHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	c := NewClient("", WithRegistryURL(srv.URL))
	_, err := c.Registry.Languages(context.Background())
	if e, ok := AsError(err); !ok || e.HTTPStatus != 503 {
		t.Fatalf("err = %v", err)
	}
}

func TestRegistryRequestShape(t *testing.T) {
	type seen struct {
		auth string
		body map[string]any
	}
	var (
		mu  sync.Mutex
		got []seen
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		mu.Lock()
		got = append(got, seen{auth: r.Header.Get("Authorization"), body: body})
		mu.Unlock()
		io.WriteString(w, `{}`)
	}))
	defer srv.Close()
	c := NewClient("", WithRegistryURL(srv.URL), WithAuthToken("tok"))
	ctx := context.Background()

	if _, err := c.Registry.Languages(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Registry.TranslationPairs(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Registry.TTSLanguages(ctx); err != nil {
		t.Fatal(err)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(got) != 3 {
		t.Fatalf("requests = %d, want 3", len(got))
	}

	if got[0].auth != "tok" {
		t.Errorf("languages Authorization = %q, want tok", got[0].auth)
	}
	for i, name := range []string{"translation", "tts"} {
		s := got[i+1]
		if s.auth != "" {
			t.Errorf("%s Authorization = %q, want none", name, s.auth)
		}
		if _, ok := s.body["inputData"]; ok {
			t.Errorf("%s body carries inputData: %v", name, s.body)
		}
		tasks, _ := s.body["pipelineTasks"].([]any)
		if len(tasks) != 1 {
			t.Fatalf("%s pipelineTasks = %v", name, s.body["pipelineTasks"])
		}
		task, _ := tasks[0].(map[string]any)
		if task["taskType"] != name {
			t.Errorf("taskType = %v, want %s", task["taskType"], name)
		}
	}
}
