package validation

import (
	"fmt"

	"gopkg.in/yaml.v2"

	"github.com/postguard/postguard/resources"
)

// CategoryRequirements tightens validation for a known post category.
type CategoryRequirements struct {
	MinLength      int  `yaml:"min_length"`
	RequiresSymbol bool `yaml:"requires_symbol"`
	RequiresData   bool `yaml:"requires_data"`
}

const categoriesResource = "categories.yml"

func loadCategories() (map[string]CategoryRequirements, error) {
	raw, err := resources.FS.ReadFile(categoriesResource)
	if err != nil {
		return nil, fmt.Errorf("read categories resource: %w", err)
	}
	categories := map[string]CategoryRequirements{}
	if err := yaml.Unmarshal(raw, &categories); err != nil {
		return nil, fmt.Errorf("parse categories resource: %w", err)
	}
	return categories, nil
}
