package lang

import "testing"

func TestSelectorASR(t *testing.T) {
	s := NewSelector()
	tests := []struct {
		lang string
		want string
	}{
		{"en", ASRWhisperEnglish},
		{"hi", ASRMultilingual},
		{"bn", ASRMultilingual},
		{"mr", ASRIndoAryan},
		{"sd", ASRIndoAryan},
		{"ur", ASRIndoAryan},
		{"ta", ASRDravidian},
		{"kn", ASRDravidian},
		{"as", ASRMultilingual},
		{"", ASRMultilingual},
	}
	for _, tt := range tests {
		if got := s.ASR(tt.lang); got != tt.want {
			t.Errorf("ASR(%q) = %q, want %q", tt.lang, got, tt.want)
		}
	}
}

func TestSelectorTTS(t *testing.T) {
	s := NewSelector()
	for _, l := range []string{"en", "hi", "bn"} {
		if got := s.TTS(l); got != TTSIITM {
			t.Errorf("TTS(%q) = %q, want %q", l, got, TTSIITM)
		}
	}
	for _, l := range []string{"ta", "mr", "xx"} {
		if got := s.TTS(l); got != TTSIndoAryan {
			t.Errorf("TTS(%q) = %q, want %q", l, got, TTSIndoAryan)
		}
	}
	if s.Translation() != NMTIndicTrans {
		t.Errorf("Translation() = %q", s.Translation())
	}
	if s.Detection() != LangDetectAudio {
		t.Errorf("Detection() = %q", s.Detection())
	}
}

func TestSelectorOverride(t *testing.T) {
	s := NewSelector()
	s.Override(
		ServiceTable{ByLang: map[string]string{"ta": "custom/ta-asr"}},
		ServiceTable{Default: "custom/tts"},
		"", "custom/detect",
	)
	if got := s.ASR("ta"); got != "custom/ta-asr" {
		t.Errorf("ASR(ta) = %q", got)
	}
	if got := s.ASR("en"); got != ASRWhisperEnglish {
		t.Errorf("ASR(en) = %q, want untouched", got)
	}
	if got := s.TTS("ml"); got != "custom/tts" {
		t.Errorf("TTS(ml) = %q", got)
	}
	if got := s.TTS("hi"); got != TTSIITM {
		t.Errorf("TTS(hi) = %q", got)
	}
	if s.Translation() != NMTIndicTrans {
		t.Errorf("Translation() = %q, want unchanged", s.Translation())
	}
	if s.Detection() != "custom/detect" {
		t.Errorf("Detection() = %q", s.Detection())
	}
	if DefaultASR().Lookup("ta") != ASRDravidian {
		t.Error("Override mutated the built-in table")
	}
}

func TestNormalizeGender(t *testing.T) {
	tests := []struct {
		in   string
		want Gender
	}{
		{"female", Female},
		{"Male", Male},
		{" MALE ", Male},
		{"", Female},
		{"other", Female},
	}
	for _, tt := range tests {
		if got := NormalizeGender(tt.in); got != tt.want {
			t.Errorf("NormalizeGender(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
