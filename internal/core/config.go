package core

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Database struct {
	Type             string `yaml:"type"`
	ConnectionString string `yaml:"connectionString"`
}

type Cache struct {
	Type    string `yaml:"type"`    // "redis" or "none"
	Address string `yaml:"address"` // host:port, redis only
}

type ServiceConfig struct {
	Port           int      `yaml:"port"`
	Database       Database `yaml:"database"`
	Cache          Cache    `yaml:"cache"`
	MediaDir       string   `yaml:"mediaDir"`
	ThumbnailWidth int      `yaml:"thumbnailWidth"` // snapshot preview width in pixels
}

// LoadConfig loads configuration from the specified YAML file
func LoadConfig(configPath string) (*ServiceConfig, error) {
	// Read the config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	// Parse YAML
	var config ServiceConfig
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	applyDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func applyDefaults(config *ServiceConfig) {
	if config.Port == 0 {
		config.Port = 8080
	}
	if config.Database.Type == "" {
		config.Database.Type = "sqlite"
	}
	if config.Database.ConnectionString == "" {
		config.Database.ConnectionString = "phototune.db"
	}
	if config.MediaDir == "" {
		config.MediaDir = "media"
	}
	if config.ThumbnailWidth == 0 {
		config.ThumbnailWidth = 256
	}
}

func validateConfig(config *ServiceConfig) error {
	if config.Port < 1 || config.Port > 65535 {
		return fmt.Errorf("port out of range: %d", config.Port)
	}
	if config.Cache.Type == "redis" && config.Cache.Address == "" {
		return fmt.Errorf("cache type redis requires an address")
	}
	if config.ThumbnailWidth < 1 {
		return fmt.Errorf("thumbnailWidth must be positive: %d", config.ThumbnailWidth)
	}
	return nil
}
