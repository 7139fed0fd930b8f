package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv(envAPIURL, "")
	t.Setenv(envGraphQLURL, "")
	t.Chdir(dir)
	return dir
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "https://api.github.com", cfg.GitHub.APIURL)
	assert.Equal(t, "application/vnd.github.v3+json", cfg.GitHub.MediaType)
	assert.Equal(t, "GITHUB_TOKEN", cfg.GitHub.TokenEnv)
	assert.Equal(t, 30*time.Second, cfg.GitHub.Timeout)
	assert.Equal(t, "all", cfg.Analysis.State)
	assert.Equal(t, 100, cfg.Analysis.PerPage)
	assert.Zero(t, cfg.Analysis.MaxConcurrency)
	assert.True(t, cfg.Analysis.Preflight)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_File(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
github:
  api_url: https://ghe.example.com/api/v3
  timeout: 5s
analysis:
  state: closed
  per_page: 50
  max_concurrency: 8
  preflight: false
metrics_file: /tmp/ghanalyzer.prom
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://ghe.example.com/api/v3", cfg.GitHub.APIURL)
	assert.Equal(t, "https://ghe.example.com/api/graphql", cfg.GraphQLEndpoint())
	assert.Equal(t, 5*time.Second, cfg.GitHub.Timeout)
	assert.Equal(t, "GITHUB_TOKEN", cfg.GitHub.TokenEnv, "unset keys keep their defaults")
	assert.Equal(t, "closed", cfg.Analysis.State)
	assert.Equal(t, 50, cfg.Analysis.PerPage)
	assert.Equal(t, 8, cfg.Analysis.MaxConcurrency)
	assert.False(t, cfg.Analysis.Preflight)
	assert.Equal(t, "/tmp/ghanalyzer.prom", cfg.MetricsFile)
}

func TestLoadConfig_DiscoversDefaultLocation(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".ghanalyzer.yaml"), []byte("analysis:\n  state: open\n"), 0o600))

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "open", cfg.Analysis.State)
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := isolate(t)

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("github: [unterminated"), 0o600))
	_, err = LoadConfig(bad)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv(envAPIURL, "http://127.0.0.1:9999")
	t.Setenv(envGraphQLURL, "http://127.0.0.1:9999/gql")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:9999", cfg.GitHub.APIURL)
	assert.Equal(t, "http://127.0.0.1:9999/gql", cfg.GraphQLEndpoint())
}

func TestLoadDotEnv(t *testing.T) {
	dir := isolate(t)
	t.Setenv("GITHUB_TOKEN", "")
	os.Unsetenv("GITHUB_TOKEN")

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, ".env")), "missing file is ignored")

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("GITHUB_TOKEN=from-dotenv\n"), 0o600))
	require.NoError(t, LoadDotEnv(filepath.Join(dir, ".env")))
	assert.Equal(t, "from-dotenv", DefaultConfig().Token())
}

func TestGraphQLEndpoint(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "https://api.github.com/graphql", cfg.GraphQLEndpoint())

	cfg.GitHub.APIURL = "https://ghe.example.com/api/v3/"
	assert.Equal(t, "https://ghe.example.com/api/graphql", cfg.GraphQLEndpoint())
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(*Config)
	}{
		{"relative api url", func(c *Config) { c.GitHub.APIURL = "api.github.com" }},
		{"unknown state", func(c *Config) { c.Analysis.State = "merged" }},
		{"per page too large", func(c *Config) { c.Analysis.PerPage = 101 }},
		{"negative concurrency", func(c *Config) { c.Analysis.MaxConcurrency = -1 }},
		{"negative timeout", func(c *Config) { c.GitHub.Timeout = -time.Second }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
