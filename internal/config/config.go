// Package config loads orcaspine's configuration from a YAML file plus
// environment overrides via viper, the same way the retrieval pack's
// service-shaped repos do it.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// StoreBackend names which Store implementation the façade should wire up.
type StoreBackend string

const (
	StoreFile  StoreBackend = "file"
	StoreRedis StoreBackend = "redis"
)

// PlannerBackend names which llmclient.Planner implementation to wire up.
type PlannerBackend string

const (
	PlannerAnthropic PlannerBackend = "anthropic"
	PlannerOpenAI    PlannerBackend = "openai"
)

// SecretsBackend names which secrets.Fetcher implementation to wire up.
type SecretsBackend string

const (
	SecretsEnv SecretsBackend = "env"
	SecretsGCP SecretsBackend = "gcp"
)

// ExecutorBackend names which executor.Executor implementation to wire up.
type ExecutorBackend string

const (
	ExecutorDocker ExecutorBackend = "docker"
	ExecutorRemote ExecutorBackend = "remote_dispatch"
)

// Config is orcaspine's full configuration.
type Config struct {
	Project  ProjectConfig  `mapstructure:"project"`
	Store    StoreConfig    `mapstructure:"store"`
	Planner  PlannerConfig  `mapstructure:"planner"`
	Executor ExecutorConfig `mapstructure:"executor"`
	GitHub   GitHubConfig   `mapstructure:"github"`
	Secrets  SecretsConfig  `mapstructure:"secrets"`
	Settings SettingsConfig `mapstructure:"settings"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Policy   PolicyConfig   `mapstructure:"policy"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
}

// ProjectConfig names the project this orcaspine instance is driving.
type ProjectConfig struct {
	ID   string `mapstructure:"id"`
	Goal string `mapstructure:"goal"`
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	Backend  StoreBackend `mapstructure:"backend"`
	FilePath string       `mapstructure:"file_path"`
	RedisAddr string      `mapstructure:"redis_addr"`
	RedisKey  string      `mapstructure:"redis_key"`
}

// PlannerConfig selects and configures the planning LLM backend.
type PlannerConfig struct {
	Backend   PlannerBackend `mapstructure:"backend"`
	Model     string         `mapstructure:"model"`
	MaxTokens int            `mapstructure:"max_tokens"`
	APIKeySecret string      `mapstructure:"api_key_secret"`
}

// ExecutorConfig selects and configures the execution backend.
type ExecutorConfig struct {
	Backend   ExecutorBackend `mapstructure:"backend"`
	Image     string          `mapstructure:"image"`
	WorkDir   string          `mapstructure:"work_dir"`
	Owner     string          `mapstructure:"owner"`
	Repo      string          `mapstructure:"repo"`
	EventType string          `mapstructure:"event_type"`
}

// GitHubConfig contains GitHub App authentication settings for the
// remote_dispatch executor.
type GitHubConfig struct {
	AppID            int64  `mapstructure:"app_id"`
	InstallationID   int64  `mapstructure:"installation_id"`
	PrivateKeySecret string `mapstructure:"private_key_secret"`
}

// SecretsConfig selects how secret references (API keys, the GitHub App
// private key) are resolved: environment variables seeded from a .env
// file, or GCP Secret Manager.
type SecretsConfig struct {
	Backend SecretsBackend `mapstructure:"backend"`
	EnvFile string         `mapstructure:"env_file"`
}

// SettingsConfig seeds the default per-project Settings a create_project
// intent merges overrides over.
type SettingsConfig struct {
	RequireExecutionApproval bool `mapstructure:"require_execution_approval"`
	RequireRetryApproval     bool `mapstructure:"require_retry_approval"`
}

// DashboardConfig controls the read-only TUI / metrics surface.
type DashboardConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	MetricsAddr string `mapstructure:"metrics_addr"`
}

// TelemetryConfig controls where structured log lines go beyond stdout.
// When GCPProject is set, every entry also ships synchronously to Cloud
// Logging instead of relying on a VM logging agent to scrape stdout.
type TelemetryConfig struct {
	GCPProject string `mapstructure:"gcp_project"`
	LogID      string `mapstructure:"log_id"`
}

// PolicyConfig controls the OPA gate consulted during approve_plan.
type PolicyConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	BundlePath string `mapstructure:"bundle_path"`
}

// AnalyticsConfig controls the opt-in posthog telemetry sink.
type AnalyticsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	APIKey  string `mapstructure:"api_key"`
	Endpoint string `mapstructure:"endpoint"`
}

// Load loads configuration from any file viper was told to read plus
// environment overrides, then applies defaults.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = StoreFile
	}
	if cfg.Store.FilePath == "" {
		cfg.Store.FilePath = "./orcaspine-state.json"
	}
	if cfg.Store.RedisKey == "" {
		cfg.Store.RedisKey = "orcaspine:state"
	}

	if cfg.Planner.Backend == "" {
		cfg.Planner.Backend = PlannerAnthropic
	}
	if cfg.Planner.Model == "" {
		switch cfg.Planner.Backend {
		case PlannerOpenAI:
			cfg.Planner.Model = "gpt-4o"
		default:
			cfg.Planner.Model = "claude-sonnet-4-5"
		}
	}
	if cfg.Planner.MaxTokens == 0 {
		cfg.Planner.MaxTokens = 4096
	}

	if cfg.Executor.Backend == "" {
		cfg.Executor.Backend = ExecutorDocker
	}
	if cfg.Executor.WorkDir == "" {
		cfg.Executor.WorkDir = "./orcaspine-work"
	}
	if cfg.Executor.EventType == "" {
		cfg.Executor.EventType = "orcaspine-task"
	}

	if cfg.Dashboard.MetricsAddr == "" {
		cfg.Dashboard.MetricsAddr = ":9090"
	}

	if cfg.Telemetry.LogID == "" {
		cfg.Telemetry.LogID = "orcaspine"
	}

	if cfg.Secrets.Backend == "" {
		cfg.Secrets.Backend = SecretsEnv
	}
	if cfg.Secrets.EnvFile == "" {
		cfg.Secrets.EnvFile = ".env"
	}
}

// Validate checks invariants that must hold regardless of which command
// is about to run.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case StoreFile, StoreRedis:
	default:
		return fmt.Errorf("config: invalid store backend %q (must be file or redis)", c.Store.Backend)
	}
	if c.Store.Backend == StoreRedis && c.Store.RedisAddr == "" {
		return fmt.Errorf("config: store.redis_addr is required when store.backend is redis")
	}

	switch c.Planner.Backend {
	case PlannerAnthropic, PlannerOpenAI:
	default:
		return fmt.Errorf("config: invalid planner backend %q (must be anthropic or openai)", c.Planner.Backend)
	}

	switch c.Executor.Backend {
	case ExecutorDocker, ExecutorRemote:
	default:
		return fmt.Errorf("config: invalid executor backend %q (must be docker or remote_dispatch)", c.Executor.Backend)
	}

	switch c.Secrets.Backend {
	case SecretsEnv, SecretsGCP:
	default:
		return fmt.Errorf("config: invalid secrets backend %q (must be env or gcp)", c.Secrets.Backend)
	}

	return nil
}

// ValidateForRemoteDispatch performs the additional checks required
// before the remote_dispatch executor can actually mint a GitHub App
// token and fire a repository_dispatch event.
func (c *Config) ValidateForRemoteDispatch() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Executor.Backend != ExecutorRemote {
		return nil
	}
	if c.Executor.Owner == "" || c.Executor.Repo == "" {
		return fmt.Errorf("config: executor.owner and executor.repo are required for the remote_dispatch executor")
	}
	if c.GitHub.AppID == 0 {
		return fmt.Errorf("config: github.app_id is required for the remote_dispatch executor")
	}
	if c.GitHub.InstallationID == 0 {
		return fmt.Errorf("config: github.installation_id is required for the remote_dispatch executor")
	}
	if c.GitHub.PrivateKeySecret == "" {
		return fmt.Errorf("config: github.private_key_secret is required for the remote_dispatch executor")
	}
	return nil
}
