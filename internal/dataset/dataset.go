// Package dataset exposes the bundled prompt/completion examples.
package dataset

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spherical/homellm/internal/domain"
)

//go:embed examples.yaml
var examplesYAML []byte

// Example is one prompt/completion training pair.
type Example struct {
	ID         string `json:"id" yaml:"id"`
	Prompt     string `json:"prompt" yaml:"prompt"`
	Completion string `json:"completion" yaml:"completion"`
}

// Subject returns the subject line of the completion, if it has one.
func (e Example) Subject() string {
	first, _, _ := strings.Cut(e.Completion, "\n")
	if s, ok := strings.CutPrefix(first, "Subject: "); ok {
		return s
	}
	return ""
}

// Load returns the bundled examples in file order.
func Load() ([]Example, error) {
	return Parse(examplesYAML)
}

// Parse decodes a YAML list of examples. Every example needs an id and
// ids must be unique.
func Parse(data []byte) ([]Example, error) {
	var examples []Example
	if err := yaml.Unmarshal(data, &examples); err != nil {
		return nil, domain.ConfigError("failed to parse dataset", err)
	}

	seen := make(map[string]bool, len(examples))
	for i, ex := range examples {
		if strings.TrimSpace(ex.ID) == "" {
			return nil, domain.ValidationError(fmt.Sprintf("dataset entry %d has no id", i), nil)
		}
		if seen[ex.ID] {
			return nil, domain.ValidationError(fmt.Sprintf("duplicate dataset id %q", ex.ID), nil)
		}
		seen[ex.ID] = true
	}
	return examples, nil
}
