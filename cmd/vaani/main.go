// Package main provides the vaani CLI.
//
// Usage:
//
//	vaani [flags] <command> [args]
//
// Commands:
//
//	serve      - HTTP front-end (speech-to-speech, speech-translate)
//	converse   - Spoken question to spoken Gemini reply
//	translate  - Spoken translation between Indic languages
//	detect     - Spoken language identification
//	asr        - Speech recognition only
//	tts        - Speech synthesis only
//	langs      - Supported languages
//	turns      - Recorded turns
//	config     - Configuration management
//
// Configuration:
//
//	The CLI stores configuration in ~/.vaani/vaani/
//	Use 'vaani config' commands to manage contexts. Credentials can also
//	come from the environment or a .env file.
package main

import (
	"fmt"
	"os"

	"github.com/haivivi/vaani/cmd/vaani/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
