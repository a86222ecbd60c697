// Package config loads rmraster settings from a YAML file and the environment.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const (
	defaultConfigFile = "rmraster.yaml"

	EnvConfig    = "RMRASTER_CONFIG"
	EnvDataDir   = "RMRASTER_DATA_DIR"
	EnvOutputDir = "RMRASTER_OUTPUT_DIR"
	EnvWorkers   = "RMRASTER_WORKERS"
	EnvFormat    = "RMRASTER_FORMAT"
)

// Config holds the settings of a rendering run
type Config struct {
	// DataDir is a xochitl directory or its parent
	DataDir   string `yaml:"dataDir"`
	OutputDir string `yaml:"outputDir"`
	// Workers bounds the pages rendered at the same time
	Workers int    `yaml:"workers"`
	Format  string `yaml:"format"`
	// PreviewFallback substitutes the device thumbnail for pages that fail to render
	PreviewFallback bool `yaml:"previewFallback"`
	// ScalePreviews resizes substituted thumbnails to the page size
	ScalePreviews bool `yaml:"scalePreviews"`
	// Cache skips pages whose source did not change since the last run
	Cache bool `yaml:"cache"`
}

// Default returns the settings used without a config file
func Default() Config {
	return Config{
		DataDir:         filepath.Join("data", "xochitl"),
		OutputDir:       "output",
		Workers:         3,
		Format:          "png",
		PreviewFallback: true,
		ScalePreviews:   true,
		Cache:           true,
	}
}

// DefaultPath is the config file location, RMRASTER_CONFIG or
// rmraster.yaml in the user config dir
func DefaultPath() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return defaultConfigFile
	}
	return filepath.Join(dir, "rmraster", defaultConfigFile)
}

// Load reads path on top of the defaults and applies environment
// overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return cfg, errors.Wrap(err, "can't read config")
		default:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return cfg, errors.Wrapf(err, "can't parse config %s", path)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv(EnvFormat); v != "" {
		c.Format = v
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "invalid %s", EnvWorkers)
		}
		c.Workers = n
	}
	return nil
}

// Validate checks the settings that have no sensible fallback
func (c Config) Validate() error {
	if c.Workers < 1 {
		return errors.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.DataDir == "" {
		return errors.New("dataDir is empty")
	}
	if c.OutputDir == "" {
		return errors.New("outputDir is empty")
	}
	return nil
}

// Save writes the settings as YAML
func (c Config) Save(path string) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return os.WriteFile(path, b, 0600)
}
