package lang

import "strings"

// Service ids on the inference pipeline.
const (
	ASRWhisperEnglish = "ai4bharat/whisper-medium-en--gpu--t4"
	ASRMultilingual   = "bhashini/ai4bharat/conformer-multilingual-asr"
	ASRIndoAryan      = "ai4bharat/conformer-multilingual-indo_aryan-gpu--t4"
	ASRDravidian      = "ai4bharat/conformer-multilingual-dravidian-gpu--t4"

	TTSIITM      = "Bhashini/IITM/TTS"
	TTSIndoAryan = "ai4bharat/indic-tts-coqui-indo_aryan-gpu--t4"

	NMTIndicTrans = "ai4bharat/indictrans-v2-all-gpu--t4"

	LangDetectAudio = "bhashini/iitmandi/audio-lang-detection/gpu"
)

// Gender is the TTS voice gender accepted by the pipeline.
type Gender string

const (
	Female Gender = "female"
	Male   Gender = "male"
)

// NormalizeGender maps g to Female or Male, ignoring case. Anything else is
// Female.
func NormalizeGender(g string) Gender {
	switch Gender(strings.ToLower(strings.TrimSpace(g))) {
	case Male:
		return Male
	default:
		return Female
	}
}

// ServiceTable is a static language -> service id table with a fallback.
type ServiceTable struct {
	Default string            `json:"default" yaml:"default"`
	ByLang  map[string]string `json:"by_lang,omitempty" yaml:"by_lang,omitempty"`
}

// Lookup returns the service id for code, or Default.
func (t ServiceTable) Lookup(code string) string {
	if id, ok := t.ByLang[code]; ok && id != "" {
		return id
	}
	return t.Default
}

func group(id string, codes ...string) map[string]string {
	m := make(map[string]string, len(codes))
	for _, c := range codes {
		m[c] = id
	}
	return m
}

func merge(ms ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, m := range ms {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

// DefaultASR is the built-in ASR table.
func DefaultASR() ServiceTable {
	return ServiceTable{
		Default: ASRMultilingual,
		ByLang: merge(
			group(ASRWhisperEnglish, "en"),
			group(ASRMultilingual, "hi", "bn"),
			group(ASRIndoAryan, "mr", "ur", "or", "pa", "gu", "sa", "sd"),
			group(ASRDravidian, "te", "kn", "ml", "ta"),
		),
	}
}

// DefaultTTS is the built-in TTS table.
func DefaultTTS() ServiceTable {
	return ServiceTable{
		Default: TTSIndoAryan,
		ByLang:  group(TTSIITM, "en", "hi", "bn"),
	}
}

// Selector picks backend service ids per language.
type Selector struct {
	ASRTable    ServiceTable
	TTSTable    ServiceTable
	NMTService  string
	LangService string
}

// NewSelector returns a selector with the built-in tables.
func NewSelector() *Selector {
	return &Selector{
		ASRTable:    DefaultASR(),
		TTSTable:    DefaultTTS(),
		NMTService:  NMTIndicTrans,
		LangService: LangDetectAudio,
	}
}

// Override replaces non-empty parts of the selector with the given ones.
// Per-language entries are merged over the current table.
func (s *Selector) Override(asr, tts ServiceTable, nmt, detect string) {
	s.ASRTable = overlay(s.ASRTable, asr)
	s.TTSTable = overlay(s.TTSTable, tts)
	if nmt != "" {
		s.NMTService = nmt
	}
	if detect != "" {
		s.LangService = detect
	}
}

func overlay(base, o ServiceTable) ServiceTable {
	out := ServiceTable{Default: base.Default, ByLang: merge(base.ByLang, o.ByLang)}
	if o.Default != "" {
		out.Default = o.Default
	}
	return out
}

// ASR returns the ASR service id for code.
func (s *Selector) ASR(code string) string { return s.ASRTable.Lookup(code) }

// TTS returns the TTS service id for code.
func (s *Selector) TTS(code string) string { return s.TTSTable.Lookup(code) }

// Translation returns the translation service id.
func (s *Selector) Translation() string { return s.NMTService }

// Detection returns the audio language detection service id.
func (s *Selector) Detection() string { return s.LangService }
