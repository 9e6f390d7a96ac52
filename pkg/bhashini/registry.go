package bhashini

import (
	"context"
	"fmt"

	"github.com/itchyny/gojq"
)

// RegistryService reads model availability from the ULCA registry.
//
// Registry answers are loosely shaped and vary between model types, so they
// are read with jq queries instead of fixed structs.
type RegistryService struct {
	client *Client
}

// LangPair is a supported translation direction.
type LangPair struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
}

var (
	// lang -> script from every model's language list.
	languagesQuery = mustCompile(`[.pipelineModels[]?.languages[]?
		| select((.sourceLanguage // "") != "" and (.sourceScriptCode // "") != "")
		| {(.sourceLanguage): .sourceScriptCode}] | add // {}`)

	pairsQuery = mustCompile(`[.pipelineResponse[]?.config?.language?
		| select(. != null)
		| select((.sourceLanguage // "") != "" and (.targetLanguage // "") != "")
		| [.sourceLanguage, .targetLanguage]] | unique`)

	ttsLanguagesQuery = mustCompile(`[.pipelineResponse[]?.config?.language?.sourceLanguage?
		| select(. != null and . != "")] | unique`)
)

func mustCompile(expr string) *gojq.Code {
	q, err := gojq.Parse(expr)
	if err != nil {
		panic(fmt.Sprintf("bhashini: parse jq %q: %v", expr, err))
	}
	code, err := gojq.Compile(q)
	if err != nil {
		panic(fmt.Sprintf("bhashini: compile jq %q: %v", expr, err))
	}
	return code
}

// runQuery evaluates code against input and returns its first result.
func runQuery(ctx context.Context, code *gojq.Code, input any) (any, error) {
	iter := code.RunWithContext(ctx, input)
	v, ok := iter.Next()
	if !ok {
		return nil, nil
	}
	if err, ok := v.(error); ok {
		return nil, wrapError(err, "evaluate registry query")
	}
	return v, nil
}

// taskQuery asks the registry for the models of one task type.
type taskQuery struct {
	PipelineTasks []Task `json:"pipelineTasks"`
}

func newTaskQuery(t TaskType) *taskQuery {
	return &taskQuery{PipelineTasks: []Task{{
		TaskType: t,
		Config:   TaskConfig{Language: &LanguageConfig{}},
	}}}
}

// fetch posts payload to the registry and evaluates code on the answer.
func (s *RegistryService) fetch(ctx context.Context, payload any, auth authMode, code *gojq.Code) (any, error) {
	var raw any
	if err := s.client.postJSON(ctx, s.client.config.registryURL, payload, &raw, auth); err != nil {
		return nil, err
	}
	return runQuery(ctx, code, raw)
}

// Languages returns a language code -> ISO-15924 script map covering every
// model the registry lists.
func (s *RegistryService) Languages(ctx context.Context) (map[string]string, error) {
	v, err := s.fetch(ctx, map[string]any{}, authToken, languagesQuery)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string)
	m, _ := v.(map[string]any)
	for code, script := range m {
		if s, ok := script.(string); ok {
			out[code] = s
		}
	}
	return out, nil
}

// TranslationPairs returns the supported source/target pairs, sorted.
func (s *RegistryService) TranslationPairs(ctx context.Context) ([]LangPair, error) {
	v, err := s.fetch(ctx, newTaskQuery(TaskTranslation), authNone, pairsQuery)
	if err != nil {
		return nil, err
	}
	items, _ := v.([]any)
	out := make([]LangPair, 0, len(items))
	for _, it := range items {
		pair, ok := it.([]any)
		if !ok || len(pair) != 2 {
			continue
		}
		src, _ := pair[0].(string)
		tgt, _ := pair[1].(string)
		out = append(out, LangPair{Source: src, Target: tgt})
	}
	return out, nil
}

// TTSLanguages returns the languages with a TTS model, sorted.
func (s *RegistryService) TTSLanguages(ctx context.Context) ([]string, error) {
	v, err := s.fetch(ctx, newTaskQuery(TaskTTS), authNone, ttsLanguagesQuery)
	if err != nil {
		return nil, err
	}
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out, nil
}
