package story

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned when a story file extension has no decoder.
var ErrUnknownFormat = errors.New("unknown story file format")

// Decode parses a story file. The format is chosen from the name's extension:
// .json, .yaml/.yml, or .js for CommonJS story modules.
func Decode(name string, data []byte) (*Story, error) {
	var s Story

	switch strings.ToLower(path.Ext(name)) {
	case ".json":
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("failed to parse JSON from %s: %w", name, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("failed to parse YAML from %s: %w", name, err)
		}
	case ".js":
		literal, err := ModuleObject(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse module %s: %w", name, err)
		}
		if err := json.Unmarshal(literal, &s); err != nil {
			return nil, fmt.Errorf("failed to parse object literal from %s: %w", name, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, name)
	}

	return &s, nil
}

// IsStoryFile reports whether Decode knows how to read the named file.
func IsStoryFile(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".json", ".yaml", ".yml", ".js":
		return true
	default:
		return false
	}
}

// Load reads and decodes a story file from a filesystem.
func Load(fsys fs.FS, name string) (*Story, error) {
	content, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read story file %s: %w", name, err)
	}
	return Decode(name, content)
}
