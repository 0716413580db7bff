package config

import (
	"fmt"
	"os"

	"github.com/riskibarqy/fantasy-roster/internal/domain/fantasy"
	"gopkg.in/yaml.v3"
)

// LoadRules overlays a YAML rules file on the default roster rules. Keys
// missing from the file keep their defaults. An empty path returns defaults.
func LoadRules(path string) (fantasy.Rules, error) {
	rules := fantasy.DefaultRules()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fantasy.Rules{}, fmt.Errorf("read rules file: %w", err)
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return fantasy.Rules{}, fmt.Errorf("parse rules file: %w", err)
	}

	return rules, nil
}
