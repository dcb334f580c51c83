package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type InsightPrompts struct {
	Departments string `toml:"departments"`
	Workflows   string `toml:"workflows"`
}

type LLMConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

type MemgraphConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type AnalysisConfig struct {
	MinInteractionCount int `toml:"min_interaction_count"`
	StrongPairThreshold int `toml:"strong_pair_threshold"`
}

type WorkflowConfig struct {
	MinPatternFrequency float64 `toml:"min_pattern_frequency"`
	TimeWindowHours     int     `toml:"time_window_hours"`
}

type Config struct {
	LLM      LLMConfig      `toml:"llm"`
	Memgraph MemgraphConfig `toml:"memgraph"`
	Analysis AnalysisConfig `toml:"analysis"`
	Workflow WorkflowConfig `toml:"workflow"`
	Insight  InsightPrompts `toml:"insight"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return &cfg, nil
}
