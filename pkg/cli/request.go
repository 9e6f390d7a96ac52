package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadRequest decodes the request file at path into v. A path of "-"
// reads stdin. Unknown fields are rejected so that a misspelled key does
// not silently fall back to a default.
func LoadRequest(path string, v any) error {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
		path = ""
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read request: %w", err)
	}
	return ParseRequest(data, path, v)
}

// ParseRequest decodes data as JSON or YAML. A .json/.yaml/.yml extension
// on filename decides; otherwise input starting with '{' is JSON.
func ParseRequest(data []byte, filename string, v any) error {
	if isJSONRequest(data, filename) {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(v); err != nil {
			return fmt.Errorf("failed to parse JSON request: %w", err)
		}
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse YAML request: %w", err)
	}
	return nil
}

func isJSONRequest(data []byte, filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return true
	case ".yaml", ".yml":
		return false
	}
	return bytes.HasPrefix(bytes.TrimSpace(data), []byte("{"))
}

// RequestPath resolves ref, a file named inside a request file, relative
// to the request file's directory.
func RequestPath(requestFile, ref string) string {
	if ref == "" || filepath.IsAbs(ref) || requestFile == "" || requestFile == "-" {
		return ref
	}
	return filepath.Join(filepath.Dir(requestFile), ref)
}
