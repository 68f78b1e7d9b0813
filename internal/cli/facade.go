package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/andywolf/orcaspine/internal/config"
	"github.com/andywolf/orcaspine/internal/dispatch"
	"github.com/andywolf/orcaspine/internal/executor"
	"github.com/andywolf/orcaspine/internal/github"
	"github.com/andywolf/orcaspine/internal/llmclient"
	"github.com/andywolf/orcaspine/internal/orchestrator"
	"github.com/andywolf/orcaspine/internal/secrets"
	"github.com/andywolf/orcaspine/internal/store"
	"github.com/andywolf/orcaspine/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

// buildFacade assembles the store, planner, executor, and telemetry
// collaborators named by cfg and returns a ready-to-use Facade.
func buildFacade(cfg *config.Config) (*orchestrator.Facade, error) {
	st, err := buildStore(cfg)
	if err != nil {
		return nil, err
	}

	fetcher, err := buildSecretFetcher(cfg)
	if err != nil {
		return nil, fmt.Errorf("cli: build secret fetcher: %w", err)
	}
	defer func() { _ = fetcher.Close() }()

	var logOpts []telemetry.Option
	if cfg.Telemetry.GCPProject != "" {
		sink, err := telemetry.NewCloudSink(context.Background(), cfg.Telemetry.GCPProject, cfg.Telemetry.LogID)
		if err != nil {
			return nil, fmt.Errorf("cli: build cloud logging sink: %w", err)
		}
		logOpts = append(logOpts, telemetry.WithWriter(sink))
	}
	logger := telemetry.New(cfg.Project.ID, logOpts...)
	metrics := telemetry.NewMetrics(prometheus.DefaultRegisterer)

	planner, err := buildPlanner(cfg, fetcher)
	if err != nil {
		return nil, err
	}
	exec, err := buildExecutor(cfg, fetcher, logger)
	if err != nil {
		return nil, err
	}

	d := &dispatch.Dispatcher{Planner: planner, Executor: exec, Logger: logger, Metrics: metrics}
	return orchestrator.New(st, d, logger, metrics, nil), nil
}

func buildSecretFetcher(cfg *config.Config) (secrets.Fetcher, error) {
	switch cfg.Secrets.Backend {
	case config.SecretsGCP:
		return secrets.NewGCPFetcher(context.Background())
	default:
		return secrets.NewEnvFetcher(cfg.Secrets.EnvFile)
	}
}

func buildStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.Store.RedisAddr})
		return store.NewRedisStore(client, cfg.Store.RedisKey), nil
	default:
		return store.NewFileStore(cfg.Store.FilePath)
	}
}

func buildPlanner(cfg *config.Config, fetcher secrets.Fetcher) (llmclient.Planner, error) {
	apiKeyRef := cfg.Planner.APIKeySecret
	if apiKeyRef == "" {
		switch cfg.Planner.Backend {
		case config.PlannerOpenAI:
			apiKeyRef = "OPENAI_API_KEY"
		default:
			apiKeyRef = "ANTHROPIC_API_KEY"
		}
	}
	apiKey, err := fetcher.FetchSecret(context.Background(), apiKeyRef)
	if err != nil {
		return nil, fmt.Errorf("cli: resolve planner api key: %w", err)
	}

	switch cfg.Planner.Backend {
	case config.PlannerOpenAI:
		return llmclient.NewOpenAIPlanner(apiKey, cfg.Planner.Model), nil
	default:
		return llmclient.NewAnthropicPlanner(apiKey, cfg.Planner.Model, int64(cfg.Planner.MaxTokens)), nil
	}
}

func buildExecutor(cfg *config.Config, fetcher secrets.Fetcher, logger *telemetry.Logger) (executor.Executor, error) {
	switch cfg.Executor.Backend {
	case config.ExecutorRemote:
		if err := cfg.ValidateForRemoteDispatch(); err != nil {
			return nil, err
		}
		privateKey, err := fetcher.FetchSecret(context.Background(), cfg.GitHub.PrivateKeySecret)
		if err != nil {
			return nil, fmt.Errorf("cli: resolve github private key: %w", err)
		}
		tm, err := github.NewTokenManager(strconv.FormatInt(cfg.GitHub.AppID, 10), cfg.GitHub.InstallationID, []byte(privateKey))
		if err != nil {
			return nil, fmt.Errorf("cli: build github token manager: %w", err)
		}
		return executor.NewRemoteDispatchExecutor(tm, cfg.Executor.Owner, cfg.Executor.Repo, cfg.Executor.EventType), nil
	default:
		return executor.NewDockerExecutor(cfg.Executor.Image, cfg.Executor.WorkDir, logger), nil
	}
}
