package main

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the yaml server configuration. Database and block storage
// credentials are taken from the environment instead, see wire.go.
type Config struct {
	Port int `yaml:"port"`

	// MinRequestSpacingMs is the minimum time between two plain-HTTP
	// origin fetches, in milliseconds. Zero keeps the default.
	MinRequestSpacingMs int `yaml:"minRequestSpacingMs"`

	AllowedDomains []string `yaml:"allowedDomains"`
	AllowedOrigins []string `yaml:"allowedOrigins"`

	// UpstreamProxy is an optional forward proxy URL used by the
	// anti-bot fallback fetcher.
	UpstreamProxy string `yaml:"upstreamProxy"`

	CodecServiceURL string `yaml:"codecServiceURL"`
}

func defaultConfig() Config {
	return Config{
		Port:                8080,
		MinRequestSpacingMs: 2000,
	}
}

func LoadConfig(path string) (Config, error) {
	config := defaultConfig()
	if path == "" {
		return config, nil
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		return config, err
	}

	if err := yaml.Unmarshal(contents, &config); err != nil {
		return config, err
	}

	return config, nil
}

func (c Config) MinRequestSpacing() time.Duration {
	return time.Duration(c.MinRequestSpacingMs) * time.Millisecond
}
