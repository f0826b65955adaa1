// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads sirseer-search settings. Sources, highest precedence
// first:
//  1. Command-line flags (applied by the caller)
//  2. Environment variables
//  3. Named search settings
//  4. Configuration file (YAML or TOML)
//  5. Built-in defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// MaxBatchSize is the largest page size GitHub's search connection accepts.
const MaxBatchSize = 100

// LoadConfig loads configuration from configPath, or from the first file
// found in the standard locations when configPath is empty:
//   - .sirseer-search.yaml, .sirseer-search.yml, .sirseer-search.toml
//   - ~/.sirseer/search.yaml, ~/.sirseer/search.toml
//
// Missing standard files are not an error. Environment variable overrides
// are applied last and the state directory is expanded.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		home := homeDir()
		defaultPaths := []string{
			".sirseer-search.yaml",
			".sirseer-search.yml",
			".sirseer-search.toml",
			filepath.Join(home, ".sirseer", "search.yaml"),
			filepath.Join(home, ".sirseer", "search.toml"),
		}

		for _, path := range defaultPaths {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	applyEnvOverrides(cfg)

	cfg.Defaults.StateDir = expandPath(cfg.Defaults.StateDir)

	return cfg, nil
}

// loadConfigFile parses path as TOML when it has a .toml extension and as
// YAML otherwise.
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		return nil
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	for _, key := range []string{"GITHUB_GRAPHQL_URL", "GITHUB_GRAPHQL_ENDPOINT"} {
		if endpoint := os.Getenv(key); endpoint != "" {
			cfg.GitHub.GraphQLEndpoint = endpoint
		}
	}

	if batchSize := os.Getenv("SIRSEER_BATCH_SIZE"); batchSize != "" {
		if size, err := parsePositiveInt(batchSize); err == nil {
			cfg.Defaults.BatchSize = size
		}
	}
	if stateDir := os.Getenv("SIRSEER_STATE_DIR"); stateDir != "" {
		cfg.Defaults.StateDir = stateDir
	}

	if level := os.Getenv("SIRSEER_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = strings.ToLower(level)
	}
	if format := os.Getenv("SIRSEER_LOG_FORMAT"); format != "" {
		cfg.Logging.Format = strings.ToLower(format)
	}
}

func homeDir() string {
	home := os.Getenv("HOME")
	if home == "" {
		home = os.Getenv("USERPROFILE") // Windows
	}
	return home
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		path = filepath.Join(homeDir(), path[2:])
	}
	return os.ExpandEnv(path)
}

func parsePositiveInt(s string) (int, error) {
	var i int
	_, err := fmt.Sscanf(s, "%d", &i)
	if err != nil {
		return 0, fmt.Errorf("failed to parse integer from '%s': %w", s, err)
	}
	if i <= 0 {
		return 0, fmt.Errorf("value must be positive, got: %d", i)
	}
	return i, nil
}

// ResolveSearch maps a command-line argument to a search expression and
// batch size. A name matching a saved search returns its query and its batch
// size, falling back to the default; any other argument is used verbatim.
func (c *Config) ResolveSearch(arg string) (query string, batchSize int, named bool) {
	if search, ok := c.Searches[arg]; ok && search.Query != "" {
		if search.BatchSize > 0 {
			return search.Query, search.BatchSize, true
		}
		return search.Query, c.Defaults.BatchSize, true
	}
	return arg, c.Defaults.BatchSize, false
}

// Validate checks batch sizes against GitHub's page limit, requires an
// endpoint, and rejects unknown logging settings.
func (c *Config) Validate() error {
	if err := validateBatchSize("default batch size", c.Defaults.BatchSize); err != nil {
		return err
	}
	for name, search := range c.Searches {
		if search.Query == "" {
			return fmt.Errorf("saved search %q has an empty query", name)
		}
		if search.BatchSize != 0 {
			if err := validateBatchSize(fmt.Sprintf("batch size of saved search %q", name), search.BatchSize); err != nil {
				return err
			}
		}
	}
	if c.GitHub.GraphQLEndpoint == "" {
		return fmt.Errorf("GitHub GraphQL endpoint cannot be empty")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q (want debug, info, warn or error)", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log format %q (want console or json)", c.Logging.Format)
	}
	return nil
}

func validateBatchSize(what string, size int) error {
	if size <= 0 {
		return fmt.Errorf("%s must be positive, got: %d", what, size)
	}
	if size > MaxBatchSize {
		return fmt.Errorf("%s %d exceeds GitHub API limit of %d", what, size, MaxBatchSize)
	}
	return nil
}
