package config

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	recursive := true
	return &Config{
		Input: InputConfig{
			Directories: []string{"notebooks"},
			Include:     []string{"*.Rmd", "*.md", "*.ipynb"},
			Exclude:     []string{".ipynb_checkpoints/**", "vendor/**"},
			Recursive:   &recursive,
		},
		Output: OutputConfig{
			Directory: "tests",
			Manifest:  true,
		},
		Parser: ParserConfig{
			StrictHeader: false,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		DryRun: false,
	}
}
