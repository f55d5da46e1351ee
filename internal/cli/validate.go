package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/matthew-brett/oktools/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the oktools.yaml configuration file",
	Long:  `Loads the configuration file and checks for missing required fields and invalid values. Also reports which site configuration file would be used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		color.Green("Configuration file %q is valid.", cfgFile)
		log.Debugf("Loaded config: %+v", cfg)

		sitePath, err := config.FindSiteConfig(".")
		if err != nil {
			return err
		}
		if sitePath == "" {
			color.Yellow("No site configuration file found above the current directory.")
			return nil
		}
		site, err := config.LoadSiteConfig(sitePath)
		if err != nil {
			return err
		}
		fmt.Printf("Site config: %s (course %q)\n", sitePath, site.Title)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
