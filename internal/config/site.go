package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/matthew-brett/oktools/internal/domain"
)

// siteConfigNames is the preference order within a single directory: a
// course.yml beats an adjacent _config.yml.
var siteConfigNames = []string{"course.yml", "_course.yml", "_config.yml"}

// SiteConfig holds course-level settings read from the nearest site
// configuration file.
type SiteConfig struct {
	Title        string   `yaml:"title"`
	URL          string   `yaml:"url"`
	BaseURL      string   `yaml:"baseurl"`
	ExerciseDirs []string `yaml:"exercise_dirs"`
}

// FindSiteConfig walks upward from startDir looking for a site configuration
// file, checking the candidate names in preference order in each directory.
// It returns the path of the first file found, or "" when the walk reaches
// the filesystem root without a hit.
func FindSiteConfig(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", domain.NewError(domain.PhaseConfig, startDir, 0, "cannot resolve start directory", err)
	}
	for {
		for _, name := range siteConfigNames {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// LoadSiteConfig parses a site configuration file.
func LoadSiteConfig(path string) (*SiteConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewError(domain.PhaseConfig, path, 0, "failed to read site config", err)
	}
	sc := &SiteConfig{}
	if err := yaml.Unmarshal(data, sc); err != nil {
		return nil, domain.NewError(domain.PhaseConfig, path, 0, "failed to parse site config", err)
	}
	return sc, nil
}
