package watch

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader handles loading and validation of watch target configurations
type Loader struct {
	watchDir string
}

func NewLoader(watchDir string) *Loader {
	return &Loader{watchDir: watchDir}
}

// LoadAll loads all YAML configuration files from the watch directory
func (l *Loader) LoadAll() (map[string]*Config, error) {
	configs := make(map[string]*Config)

	if _, err := os.Stat(l.watchDir); os.IsNotExist(err) {
		return configs, nil
	}

	files, err := filepath.Glob(filepath.Join(l.watchDir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YAML files: %w", err)
	}

	ymlFiles, err := filepath.Glob(filepath.Join(l.watchDir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YML files: %w", err)
	}
	files = append(files, ymlFiles...)

	for _, file := range files {
		config, err := l.loadFile(file)
		if err != nil {
			return nil, fmt.Errorf("error loading %s: %w", file, err)
		}

		if err := l.validate(config); err != nil {
			return nil, fmt.Errorf("invalid config %s: %w", file, err)
		}

		configs[config.Name] = config
		slog.Debug("Loaded watch configuration", "file", file, "name", config.Name, "kind", config.Kind)
	}

	return configs, nil
}

func (l *Loader) loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	base := filepath.Base(path)
	config.Name = strings.TrimSuffix(strings.TrimSuffix(base, ".yaml"), ".yml")

	l.setDefaults(&config)

	return &config, nil
}

func (l *Loader) setDefaults(config *Config) {
	if config.Settings.Timeout == 0 {
		config.Settings.Timeout = 30 // seconds
	}
	if config.Settings.MaxRetries == 0 {
		config.Settings.MaxRetries = 3
	}
	if config.Settings.DeleteThreshold == 0 {
		config.Settings.DeleteThreshold = 3
	}
}

func (l *Loader) validate(config *Config) error {
	if config.URL == "" {
		return fmt.Errorf("watch URL is required")
	}

	switch config.Kind {
	case KindJSONFeed, KindRSS, KindManifest:
	case "":
		return fmt.Errorf("watch kind is required")
	default:
		return fmt.Errorf("unknown watch kind: %s", config.Kind)
	}

	if config.Settings.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}
	if config.Settings.MaxRetries < 0 {
		return fmt.Errorf("max retries must be non-negative")
	}
	if config.Settings.DeleteThreshold < 0 {
		return fmt.Errorf("delete threshold must be non-negative")
	}

	return nil
}
