package commands

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/haivivi/vaani/pkg/lang"
)

// languageTable lists languages with the services selected for them.
type languageTable struct {
	Languages []languageRow `json:"languages" yaml:"languages"`
}

type languageRow struct {
	Code   string `json:"code" yaml:"code"`
	Name   string `json:"name" yaml:"name"`
	Script string `json:"script" yaml:"script"`
	ASR    string `json:"asr,omitempty" yaml:"asr,omitempty"`
	TTS    string `json:"tts,omitempty" yaml:"tts,omitempty"`
}

func (t languageTable) TableHeaders() []string {
	return []string{"CODE", "NAME", "SCRIPT", "ASR", "TTS"}
}

func (t languageTable) TableRows() [][]string {
	rows := make([][]string, len(t.Languages))
	for i, l := range t.Languages {
		rows[i] = []string{l.Code, l.Name, l.Script, l.ASR, l.TTS}
	}
	return rows
}

func localLanguages(sel *lang.Selector) languageTable {
	var t languageTable
	for _, l := range lang.Supported() {
		t.Languages = append(t.Languages, languageRow{
			Code:   l.Code,
			Name:   l.Name,
			Script: l.Script,
			ASR:    sel.ASR(l.Code),
			TTS:    sel.TTS(l.Code),
		})
	}
	return t
}

// registryLanguages lists the remote registry's languages by code.
func registryLanguages(scripts map[string]string) languageTable {
	var t languageTable
	for _, code := range slices.Sorted(maps.Keys(scripts)) {
		t.Languages = append(t.Languages, languageRow{
			Code:   code,
			Name:   lang.Name(code),
			Script: scripts[code],
		})
	}
	return t
}

var langsCmd = &cobra.Command{
	Use:   "langs",
	Short: "List supported languages",
	Long: `List the built-in languages with the ASR and TTS services selected for
each. --registry lists the languages the remote model registry reports.

Examples:
  vaani langs
  vaani langs --registry --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getContext()
		if err != nil {
			return err
		}
		remote, _ := cmd.Flags().GetBool("registry")
		if !remote {
			return outputResult(localLanguages(newSelector(c)))
		}

		ctx, cancel := requestContext(c)
		defer cancel()
		scripts, err := newClient(c).Registry.Languages(ctx)
		if err != nil {
			return fmt.Errorf("registry lookup failed: %w", err)
		}
		return outputResult(registryLanguages(scripts))
	},
}

func init() {
	langsCmd.Flags().Bool("registry", false, "query the remote model registry")
}
