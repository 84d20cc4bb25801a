package routing

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type catalog struct {
	Models []Model `yaml:"models"`
}

// LoadCatalog reads a YAML model catalog:
//
//	models:
//	  - name: gpt-4o-mini
//	    provider: openai
//	    weight: 1
//
// A missing weight defaults to 1. Weights are published, not used for
// selection.
func LoadCatalog(path string) ([]Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var c catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	for i, m := range c.Models {
		if m.Name == "" || m.Provider == "" {
			return nil, fmt.Errorf("catalog %s: entry %d needs name and provider", path, i)
		}
		if m.Weight == 0 {
			c.Models[i].Weight = 1
		}
	}
	return c.Models, nil
}
