package config

import "time"

// Config represents the complete configuration for ghanalyzer.
type Config struct {
	GitHub   GitHubConfig   `yaml:"github"`
	Analysis AnalysisConfig `yaml:"analysis"`
	// MetricsFile, when set, receives the run's metrics in Prometheus text format.
	MetricsFile string `yaml:"metrics_file"`
}

// GitHubConfig contains API endpoints and transport settings.
type GitHubConfig struct {
	APIURL     string        `yaml:"api_url"`
	GraphQLURL string        `yaml:"graphql_url"`
	MediaType  string        `yaml:"media_type"`
	TokenEnv   string        `yaml:"token_env"`
	Timeout    time.Duration `yaml:"timeout"`
}

// AnalysisConfig controls what is collected and how aggressively.
type AnalysisConfig struct {
	State          string `yaml:"state"`
	PerPage        int    `yaml:"per_page"`
	MaxConcurrency int    `yaml:"max_concurrency"`
	Preflight      bool   `yaml:"preflight"`
}

// DefaultConfig returns a Config suitable for github.com.
func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			APIURL:    "https://api.github.com",
			MediaType: "application/vnd.github.v3+json",
			TokenEnv:  "GITHUB_TOKEN",
			Timeout:   30 * time.Second,
		},
		Analysis: AnalysisConfig{
			State:     "all",
			PerPage:   100,
			Preflight: true,
		},
	}
}
