// Package builder is the demo builder: a library of reusable preview demos,
// each edited on a private copy and swapped in when saved.
package builder

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Library is the full set of demos.
type Library struct {
	Demos []DemoConfig `json:"demos" yaml:"demos"`
}

// DemoConfig configures one demo preview.
type DemoConfig struct {
	Title   string       `json:"title" yaml:"title"`
	Options []DemoOption `json:"options" yaml:"options"`
	Preview Preview      `json:"preview" yaml:"preview"`
}

// DemoOption is a named toggle on a demo.
type DemoOption struct {
	Name    string `json:"name" yaml:"name"`
	Enabled bool   `json:"enabled" yaml:"enabled"`
}

// Preview selects the view a demo renders and its settings.
type Preview struct {
	Kind     string            `json:"kind" yaml:"kind"`
	Settings map[string]string `json:"settings,omitempty" yaml:"settings,omitempty"`
}

// DefaultLibrary is the library the builder opens with when none is configured.
func DefaultLibrary() Library {
	return Library{Demos: []DemoConfig{
		{
			Title: "Basic Text",
			Options: []DemoOption{
				{Name: "Title", Enabled: true},
				{Name: "Body", Enabled: true},
				{Name: "Footnote", Enabled: false},
			},
			Preview: Preview{Kind: "text", Settings: map[string]string{"alignment": "left"}},
		},
		{
			Title: "Button Row",
			Options: []DemoOption{
				{Name: "Primary", Enabled: true},
				{Name: "Secondary", Enabled: false},
			},
			Preview: Preview{Kind: "buttons"},
		},
	}}
}

// LoadLibrary reads a library from a YAML or JSON file, chosen by extension.
// Every demo needs a title, and a file with no demos is rejected.
func LoadLibrary(path string) (Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Library{}, fmt.Errorf("failed to read library: %w", err)
	}

	var lib Library
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		err = json.Unmarshal(data, &lib)
	} else {
		err = yaml.Unmarshal(data, &lib)
	}
	if err != nil {
		return Library{}, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	if len(lib.Demos) == 0 {
		return Library{}, errors.New("library has no demos")
	}
	for i, d := range lib.Demos {
		if strings.TrimSpace(d.Title) == "" {
			return Library{}, fmt.Errorf("demo %d has no title", i)
		}
	}
	return lib, nil
}
