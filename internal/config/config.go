// Package config loads platform credentials from the environment with an
// optional YAML file fallback.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigEnv overrides the credentials file location.
const ConfigEnv = "SOCIALMCP_CONFIG"

// ConfigFile is the default credentials filename inside the state root.
const ConfigFile = "config.yaml"

// Config holds per-platform credentials loaded from YAML.
type Config struct {
	Credentials map[string]string `yaml:"credentials"`
}

// Load reads the credentials file for a state root. A missing file yields an
// empty config; a malformed one is an error.
func Load(stateRoot string) (Config, error) {
	path := os.Getenv(ConfigEnv)
	if path == "" {
		path = filepath.Join(stateRoot, ".socialmcp", ConfigFile)
	}

	data, err := os.ReadFile(path) // #nosec G304 - path comes from env or the state root
	if os.IsNotExist(err) {
		return Config{Credentials: map[string]string{}}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Credentials == nil {
		cfg.Credentials = map[string]string{}
	}
	return cfg, nil
}

// Lookup returns a credential resolver that prefers environment variables
// and falls back to the config file. Keys are the platform env var names.
func (c Config) Lookup() func(string) string {
	return func(key string) string {
		if value := os.Getenv(key); value != "" {
			return value
		}
		return c.Credentials[key]
	}
}
