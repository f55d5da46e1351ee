package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/matthew-brett/oktools/internal/domain"
)

// Validate checks the Config for required fields and valid values.
func Validate(cfg *Config) error {
	var errs []string

	if len(cfg.Input.Directories) == 0 {
		errs = append(errs, "input.directories must not be empty")
	}
	if len(cfg.Input.Include) == 0 {
		errs = append(errs, "input.include must not be empty")
	}
	for _, pattern := range cfg.Input.Include {
		if _, err := filepath.Match(strings.ReplaceAll(pattern, "**", "*"), "probe"); err != nil {
			errs = append(errs, fmt.Sprintf("input.include pattern %q is not a valid glob: %v", pattern, err))
		}
	}

	if cfg.Output.Directory == "" {
		errs = append(errs, "output.directory must not be empty")
	}

	if cfg.Logging.Level != "" {
		validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
		if !validLevels[cfg.Logging.Level] {
			errs = append(errs, fmt.Sprintf("logging.level must be one of debug, info, warn, error; got %q", cfg.Logging.Level))
		}
	}

	if len(errs) > 0 {
		return domain.NewError(domain.PhaseConfig, "", 0, strings.Join(errs, "; "), nil)
	}
	return nil
}
