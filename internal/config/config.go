package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matthew-brett/oktools/internal/domain"
)

// Config is the top-level tool configuration.
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Parser  ParserConfig  `yaml:"parser"`
	Logging LoggingConfig `yaml:"logging"`
	DryRun  bool          `yaml:"dry_run"`
}

type InputConfig struct {
	Directories []string `yaml:"directories"`
	Include     []string `yaml:"include"`
	Exclude     []string `yaml:"exclude"`
	Recursive   *bool    `yaml:"recursive"` // pointer to distinguish unset from false
}

type OutputConfig struct {
	Directory string `yaml:"directory"`
	Manifest  bool   `yaml:"manifest"`
}

type ParserConfig struct {
	// StrictHeader makes a later #t line that redefines name or points a
	// parse error instead of a silent override.
	StrictHeader bool `yaml:"strict_header"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads a YAML configuration file and returns a Config with defaults
// filled in for anything the file leaves out.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewError(domain.PhaseConfig, path, 0, "failed to read config file", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, domain.NewError(domain.PhaseConfig, path, 0, "failed to parse config file", err)
	}

	return cfg, nil
}
