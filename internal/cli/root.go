package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	dryRun  bool
	log     = logrus.New()
)

// rootCmd is the base command for oktools.
var rootCmd = &cobra.Command{
	Use:   "oktools",
	Short: "Extract grading tests from course documents",
	Long: `oktools reads course documents (R-Markdown, Markdown, Jupyter
notebooks), finds cells marked up as test blocks (#t/#s/#c markers) and
writes the parsed Test/Suite/Case structures as JSON for the grading engine.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// .env is optional; it only supplies environment overrides.
		_ = godotenv.Load()
		if env := os.Getenv("OKTOOLS_CONFIG"); env != "" && !cmd.Flags().Changed("config") {
			cfgFile = env
		}
		log.SetOutput(os.Stderr)
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "oktools.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "parse documents but don't write files")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// setLogLevel applies the configured level unless --verbose already forced
// debug.
func setLogLevel(level string) {
	if verbose {
		return
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		log.Warnf("Unknown log level %q, keeping %s", level, log.GetLevel())
		return
	}
	log.SetLevel(parsed)
}

// setLogFile redirects logging to the configured file, appending across
// runs. An empty path keeps stderr.
func setLogFile(path string) error {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	log.SetOutput(f)
	return nil
}
