package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"pixelforge/internal/generate"
)

// Catalog lists the models and frameworks the gateway offers. It ships with
// built-in defaults and can be replaced by a yaml file for deployments that
// gate models per environment.
type Catalog struct {
	Models     []ModelEntry `yaml:"models"`
	Frameworks []string     `yaml:"frameworks"`
}

type ModelEntry struct {
	ID      string `yaml:"id" json:"id"`
	Display string `yaml:"display" json:"display"`
	Default bool   `yaml:"default,omitempty" json:"default,omitempty"`
}

func DefaultCatalog() Catalog {
	return Catalog{
		Models: []ModelEntry{
			{ID: "gemini-2.5-flash", Display: "Gemini 2.5 Flash", Default: true},
			{ID: "gemini-2.5-pro", Display: "Gemini 2.5 Pro"},
		},
		Frameworks: []string{
			string(generate.FrameworkHTMLCSSJS),
			string(generate.FrameworkHTML),
			string(generate.FrameworkReact),
			string(generate.FrameworkVue),
			string(generate.FrameworkSvelte),
			string(generate.FrameworkAngular),
			string(generate.FrameworkVanillaJS),
		},
	}
}

// LoadCatalog reads the catalog yaml at path; an empty path yields the
// defaults.
func LoadCatalog(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog: %w", err)
	}
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

func (c Catalog) validate() error {
	if len(c.Models) == 0 {
		return fmt.Errorf("catalog: at least one model is required")
	}
	for _, m := range c.Models {
		if m.ID == "" {
			return fmt.Errorf("catalog: model entry missing id")
		}
	}
	for _, f := range c.Frameworks {
		if _, err := generate.ParseFramework(f); err != nil {
			return fmt.Errorf("catalog: %w", err)
		}
	}
	return nil
}

// DefaultModel returns the entry flagged as default, falling back to the
// first model.
func (c Catalog) DefaultModel() string {
	for _, m := range c.Models {
		if m.Default {
			return m.ID
		}
	}
	if len(c.Models) > 0 {
		return c.Models[0].ID
	}
	return generate.DefaultModelID
}

// HasModel reports whether a model id is offered.
func (c Catalog) HasModel(id string) bool {
	for _, m := range c.Models {
		if m.ID == id {
			return true
		}
	}
	return false
}
