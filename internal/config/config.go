// Package config loads ghanalyzer settings.
//
// Sources, lowest precedence first:
//  1. Built-in defaults
//  2. A YAML file (--config, or .ghanalyzer.yaml / ~/.config/ghanalyzer/config.yaml)
//  3. Environment variables, including those loaded from a .env file
//  4. Command-line flags, applied by the caller
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/naka-gawa/ghanalyzer/internal/domain"
	"gopkg.in/yaml.v3"
)

const (
	envAPIURL     = "GHANALYZER_API_URL"
	envGraphQLURL = "GHANALYZER_GRAPHQL_URL"
)

// LoadConfig returns the defaults overlaid with the config file and environment.
// An explicit configPath must exist; the standard locations are optional.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		for _, path := range defaultPaths() {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func defaultPaths() []string {
	paths := []string{".ghanalyzer.yaml", ".ghanalyzer.yml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "ghanalyzer", "config.yaml"),
			filepath.Join(home, ".config", "ghanalyzer", "config.yml"),
		)
	}
	return paths
}

func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(envAPIURL); v != "" {
		cfg.GitHub.APIURL = v
	}
	if v := os.Getenv(envGraphQLURL); v != "" {
		cfg.GitHub.GraphQLURL = v
	}
}

// LoadDotEnv loads variables from a .env file without overriding ones already set.
// A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Token returns the access token from the configured environment variable.
func (c *Config) Token() string {
	return os.Getenv(c.GitHub.TokenEnv)
}

// GraphQLEndpoint returns the GraphQL URL, deriving it from the REST URL when unset.
// github.com serves GraphQL at /graphql; GitHub Enterprise serves /api/v3 and /api/graphql.
func (c *Config) GraphQLEndpoint() string {
	if c.GitHub.GraphQLURL != "" {
		return c.GitHub.GraphQLURL
	}
	base := strings.TrimSuffix(c.GitHub.APIURL, "/")
	if strings.HasSuffix(base, "/v3") {
		return strings.TrimSuffix(base, "/v3") + "/graphql"
	}
	return base + "/graphql"
}

// Validate checks the values that cannot be corrected silently.
func (c *Config) Validate() error {
	u, err := url.Parse(c.GitHub.APIURL)
	if err != nil || !u.IsAbs() {
		return fmt.Errorf("invalid api_url %q: must be an absolute URL", c.GitHub.APIURL)
	}
	if _, err := domain.ParseStateFilter(c.Analysis.State); err != nil {
		return err
	}
	if c.Analysis.PerPage < 0 || c.Analysis.PerPage > 100 {
		return fmt.Errorf("invalid per_page %d: must be between 1 and 100, or 0 for the server default", c.Analysis.PerPage)
	}
	if c.Analysis.MaxConcurrency < 0 {
		return fmt.Errorf("invalid max_concurrency %d: must not be negative", c.Analysis.MaxConcurrency)
	}
	if c.GitHub.Timeout < 0 {
		return fmt.Errorf("invalid timeout %s: must not be negative", c.GitHub.Timeout)
	}
	return nil
}
