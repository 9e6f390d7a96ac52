// Package lang holds the static language tables used by the voice pipeline:
// the language registry (code, display name, ISO-15924 script) and the
// service selector that maps a language to the speech backends serving it.
//
// Lookups never fail. Unknown codes resolve to documented defaults so the
// pipeline can always build a request; the remote service decides whether
// the language is actually usable.
package lang

import (
	"fmt"
	"sort"
	"strings"
)

// Language describes one registered language.
type Language struct {
	Code   string `json:"code" yaml:"code"`
	Name   string `json:"name" yaml:"name"`
	Script string `json:"script" yaml:"script"`
}

const (
	// DefaultCode is returned by Code for unknown names.
	DefaultCode = "en"
	// DefaultScript is returned by Script for unknown codes.
	DefaultScript = "Deva"
	// FallbackScript is used by overlaid registries for unknown codes.
	FallbackScript = "Latn"
)

var builtin = []Language{
	{"as", "Assamese", "Beng"},
	{"bn", "Bengali", "Beng"},
	{"brx", "Bodo", "Deva"},
	{"doi", "Dogri", "Deva"},
	{"en", "English", "Latn"},
	{"gu", "Gujarati", "Gujr"},
	{"hi", "Hindi", "Deva"},
	{"kn", "Kannada", "Knda"},
	{"ks", "Kashmiri", "Arab"},
	{"kok", "Konkani", "Deva"},
	{"mai", "Maithili", "Deva"},
	{"ml", "Malayalam", "Mlym"},
	{"mni", "Manipuri", "Beng"},
	{"mr", "Marathi", "Deva"},
	{"ne", "Nepali", "Deva"},
	{"or", "Odia", "Orya"},
	{"pa", "Punjabi", "Guru"},
	{"sa", "Sanskrit", "Deva"},
	{"sat", "Santali", "Olck"},
	{"sd", "Sindhi", "Arab"},
	{"ta", "Tamil", "Taml"},
	{"te", "Telugu", "Telu"},
	{"ur", "Urdu", "Arab"},
}

// Registry maps language codes to names and scripts.
//
// A Registry is immutable after construction and safe for concurrent use.
type Registry struct {
	byCode        map[string]Language
	byName        map[string]string
	defaultScript string
}

// Default is the built-in registry.
var Default = NewRegistry(nil)

// NewRegistry builds a registry from the built-in table. Scripts in overlay
// (code -> script, typically fetched from the model registry at startup)
// replace or extend the built-in ones. When overlay is non-empty, unknown
// codes resolve to FallbackScript instead of DefaultScript.
func NewRegistry(overlay map[string]string) *Registry {
	r := &Registry{
		byCode:        make(map[string]Language, len(builtin)+len(overlay)),
		byName:        make(map[string]string, len(builtin)),
		defaultScript: DefaultScript,
	}
	for _, l := range builtin {
		r.byCode[l.Code] = l
		r.byName[strings.ToLower(l.Name)] = l.Code
	}
	if len(overlay) > 0 {
		r.defaultScript = FallbackScript
	}
	for code, script := range overlay {
		if code == "" || script == "" {
			continue
		}
		l, ok := r.byCode[code]
		if !ok {
			l = Language{Code: code, Name: fmt.Sprintf("Unknown(%s)", code)}
		}
		l.Script = script
		r.byCode[code] = l
	}
	return r
}

// Name returns the display name for code, or "Unknown(<code>)".
func (r *Registry) Name(code string) string {
	if l, ok := r.byCode[code]; ok {
		return l.Name
	}
	return fmt.Sprintf("Unknown(%s)", code)
}

// Code returns the code for a display name. Matching ignores case and
// surrounding spaces. Unknown names resolve to DefaultCode.
func (r *Registry) Code(name string) string {
	if code, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]; ok {
		return code
	}
	return DefaultCode
}

// Script returns the ISO-15924 script code for code.
func (r *Registry) Script(code string) string {
	if l, ok := r.byCode[code]; ok && l.Script != "" {
		return l.Script
	}
	return r.defaultScript
}

// IsSupported reports whether code is registered.
func (r *Registry) IsSupported(code string) bool {
	_, ok := r.byCode[code]
	return ok
}

// Supported returns all registered languages sorted by code.
func (r *Registry) Supported() []Language {
	out := make([]Language, 0, len(r.byCode))
	for _, l := range r.byCode {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Name returns the display name for code from the built-in registry.
func Name(code string) string { return Default.Name(code) }

// Code returns the code for name from the built-in registry.
func Code(name string) string { return Default.Code(name) }

// Script returns the script for code from the built-in registry.
func Script(code string) string { return Default.Script(code) }

// IsSupported reports whether code is in the built-in registry.
func IsSupported(code string) bool { return Default.IsSupported(code) }

// Supported lists the built-in registry.
func Supported() []Language { return Default.Supported() }
