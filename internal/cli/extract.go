package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/matthew-brett/oktools/internal/config"
	"github.com/matthew-brett/oktools/internal/document"
	"github.com/matthew-brett/oktools/internal/export"
	"github.com/matthew-brett/oktools/internal/generator"
	"github.com/matthew-brett/oktools/internal/parser"
	"github.com/matthew-brett/oktools/internal/scanner"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract test blocks from course documents",
	Long:  `Scans the configured directories, parses test cells and writes one JSON test file per #t block.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}
		if dryRun {
			cfg.DryRun = true
		}
		setLogLevel(cfg.Logging.Level)
		if err := setLogFile(cfg.Logging.File); err != nil {
			return err
		}

		if sitePath, err := config.FindSiteConfig("."); err == nil && sitePath != "" {
			if site, err := config.LoadSiteConfig(sitePath); err == nil {
				log.Infof("Using site config %s (course %q)", sitePath, site.Title)
				if len(site.ExerciseDirs) > 0 && !cmd.Flags().Changed("config") {
					cfg.Input.Directories = site.ExerciseDirs
				}
			} else {
				log.Warnf("Ignoring unreadable site config %s: %v", sitePath, err)
			}
		}

		return runExtract(cfg)
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

// loadConfig reads the config file, falling back to the defaults when the
// default path is absent. An explicitly given path must exist.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err == nil {
		return cfg, nil
	}
	if cfgFile == "oktools.yaml" {
		if _, statErr := os.Stat(cfgFile); os.IsNotExist(statErr) {
			log.Debugf("No %s, using defaults", cfgFile)
			return config.DefaultConfig(), nil
		}
	}
	return nil, fmt.Errorf("failed to load config: %w", err)
}

// runExtract wires all components and runs the pipeline.
func runExtract(cfg *config.Config) error {
	recursive := true
	if cfg.Input.Recursive != nil {
		recursive = *cfg.Input.Recursive
	}

	var opts []parser.Option
	if cfg.Parser.StrictHeader {
		opts = append(opts, parser.WithStrictHeader())
	}

	gen := generator.New(
		scanner.New(recursive),
		document.DefaultRegistry(),
		parser.NewBlockParser(opts...),
		export.NewWriter(cfg.Output.Directory, cfg.DryRun),
		log,
	)
	if !verbose {
		gen = gen.WithProgress()
	}

	res, err := gen.Run(cfg)
	if err != nil {
		return err
	}

	color.Green("Extracted %d test(s) from %d document(s)", res.Tests, res.Documents)
	if res.Skipped > 0 {
		color.Yellow("%d cell(s) were not test blocks", res.Skipped)
	}
	if cfg.DryRun {
		color.Cyan("Dry run: nothing written to %s", cfg.Output.Directory)
	}
	return nil
}
