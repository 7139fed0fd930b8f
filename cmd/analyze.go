package cmd

import (
	"fmt"
	"time"

	"github.com/naka-gawa/ghanalyzer/internal/config"
	"github.com/naka-gawa/ghanalyzer/internal/domain"
	"github.com/naka-gawa/ghanalyzer/internal/gateway"
	"github.com/naka-gawa/ghanalyzer/internal/logging"
	"github.com/naka-gawa/ghanalyzer/internal/metrics"
	"github.com/naka-gawa/ghanalyzer/internal/report"
	"github.com/naka-gawa/ghanalyzer/internal/usecase"
	"github.com/spf13/cobra"
)

type analyzeFlags struct {
	organization   string
	token          string
	state          string
	configPath     string
	envFile        string
	apiURL         string
	graphqlURL     string
	perPage        int
	timeout        time.Duration
	maxConcurrency int
	preflight      bool
	metricsFile    string
}

func newAnalyzeCmd() *cobra.Command {
	f := &analyzeFlags{}

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Counts every pull request in a GitHub organization",
		Long: `Lists the organization's repositories, then collects the pull requests of
every repository concurrently and prints the total count.

A repository listing failure aborts the run. A pull request page that fails to
load is logged and skipped.`,
		Example: `  ghanalyzer analyze -o my-org -t "$GITHUB_TOKEN"
  ghanalyzer analyze -o my-org --state open -vv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, f)
		},
	}

	flags := analyzeCmd.Flags()
	flags.StringVarP(&f.organization, "organization", "o", "", "Name of the GitHub organization to analyze (required)")
	flags.StringVarP(&f.token, "token", "t", "", "GitHub access token (defaults to $GITHUB_TOKEN)")
	flags.StringVarP(&f.state, "state", "s", "all", "Pull request state to collect: open, closed or all")
	flags.StringVar(&f.configPath, "config", "", "Path to a YAML config file")
	flags.StringVar(&f.envFile, "env-file", ".env", "Path to a .env file with environment variables")
	flags.StringVar(&f.apiURL, "api-url", "", "GitHub REST API base URL (for GitHub Enterprise)")
	flags.StringVar(&f.graphqlURL, "graphql-url", "", "GitHub GraphQL API URL (derived from --api-url when empty)")
	flags.IntVar(&f.perPage, "per-page", 100, "Records requested per page (1-100)")
	flags.DurationVar(&f.timeout, "timeout", 30*time.Second, "Timeout for each HTTP request")
	flags.IntVar(&f.maxConcurrency, "max-concurrency", 0, "Limit on concurrent requests per level (0 = unlimited)")
	flags.BoolVar(&f.preflight, "preflight", true, "Look up the organization before crawling")
	flags.StringVar(&f.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file when done")
	_ = analyzeCmd.MarkFlagRequired("organization")

	return analyzeCmd
}

// loadConfig merges the config file and environment with any flags given explicitly.
func loadConfig(cmd *cobra.Command, f *analyzeFlags) (*config.Config, error) {
	if err := config.LoadDotEnv(f.envFile); err != nil {
		return nil, err
	}
	cfg, err := config.LoadConfig(f.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("state") {
		cfg.Analysis.State = f.state
	}
	if flags.Changed("api-url") {
		cfg.GitHub.APIURL = f.apiURL
	}
	if flags.Changed("graphql-url") {
		cfg.GitHub.GraphQLURL = f.graphqlURL
	}
	if flags.Changed("per-page") {
		cfg.Analysis.PerPage = f.perPage
	}
	if flags.Changed("timeout") {
		cfg.GitHub.Timeout = f.timeout
	}
	if flags.Changed("max-concurrency") {
		cfg.Analysis.MaxConcurrency = f.maxConcurrency
	}
	if flags.Changed("preflight") {
		cfg.Analysis.Preflight = f.preflight
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = f.metricsFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runAnalyze(cmd *cobra.Command, f *analyzeFlags) error {
	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return err
	}

	token := f.token
	if token == "" {
		token = cfg.Token()
	}
	org, err := domain.NewOrganization(f.organization, token)
	if err != nil {
		return err
	}
	state, err := domain.ParseStateFilter(cfg.Analysis.State)
	if err != nil {
		return err
	}

	// Progress and diagnostics go to stdout, gated by -v.
	verbosity, _ := cmd.Flags().GetCount("verbose")
	logger := logging.Setup(verbosity, cmd.OutOrStdout())

	githubGateway, err := gateway.NewGitHubGateway(gateway.Options{
		Token:      org.Token(),
		BaseURL:    cfg.GitHub.APIURL,
		GraphQLURL: cfg.GraphQLEndpoint(),
		MediaType:  cfg.GitHub.MediaType,
		Timeout:    cfg.GitHub.Timeout,
	}, logging.NewLogger(logger, "gateway"))
	if err != nil {
		return fmt.Errorf("failed to create GitHub gateway: %w", err)
	}

	rec := metrics.New()
	aggregator := usecase.NewAggregator(githubGateway, logger,
		usecase.WithMetrics(rec),
		usecase.WithConcurrencyLimit(cfg.Analysis.MaxConcurrency),
		usecase.WithPreflight(cfg.Analysis.Preflight),
	)

	result, err := aggregator.Analyze(cmd.Context(), org, domain.Filters{State: state, PerPage: cfg.Analysis.PerPage})
	if err != nil {
		logger.Error().Err(err).Str("organization", org.Login()).Msg("Analysis aborted")
		return err
	}

	if cfg.MetricsFile != "" {
		if err := rec.WriteTextfile(cfg.MetricsFile); err != nil {
			logger.Warn().Err(err).Str("path", cfg.MetricsFile).Msg("Failed to write metrics")
		}
	}

	return report.New(cmd.OutOrStdout(), verbosity).Report(result)
}
