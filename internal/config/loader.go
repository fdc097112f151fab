package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultConfigPath = "buckets.yaml"

type Loader struct {
	configPath string
}

func NewLoader(configPath string) *Loader {
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	return &Loader{configPath: configPath}
}

// Load reads the YAML file over the defaults. A missing file yields the defaults.
// Environment overrides are applied by the caller via ApplyEnv.
func (l *Loader) Load() (*Config, error) {
	cfg := NewConfig()

	c, err := os.ReadFile(l.configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, NewReadError(l.configPath, err)
	}
	if err := yaml.Unmarshal(c, cfg); err != nil {
		return nil, NewParseError(l.configPath, err)
	}
	return cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the environment.
// Variables already set are never overridden; missing files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return NewReadError(path, err)
		}
	}
	return nil
}
