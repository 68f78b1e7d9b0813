package config

import "testing"

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
		errMsg  string
	}{
		{
			name: "defaults validate cleanly",
			config: Config{
				Store:    StoreConfig{Backend: StoreFile},
				Planner:  PlannerConfig{Backend: PlannerAnthropic},
				Executor: ExecutorConfig{Backend: ExecutorDocker},
				Secrets:  SecretsConfig{Backend: SecretsEnv},
			},
			wantErr: false,
		},
		{
			name:    "invalid store backend",
			config:  Config{Store: StoreConfig{Backend: "sqlite"}},
			wantErr: true,
			errMsg:  "invalid store backend",
		},
		{
			name:    "redis backend without address",
			config:  Config{Store: StoreConfig{Backend: StoreRedis}, Planner: PlannerConfig{Backend: PlannerAnthropic}, Executor: ExecutorConfig{Backend: ExecutorDocker}},
			wantErr: true,
			errMsg:  "redis_addr is required",
		},
		{
			name: "redis backend with address",
			config: Config{
				Store:    StoreConfig{Backend: StoreRedis, RedisAddr: "localhost:6379"},
				Planner:  PlannerConfig{Backend: PlannerAnthropic},
				Executor: ExecutorConfig{Backend: ExecutorDocker},
				Secrets:  SecretsConfig{Backend: SecretsEnv},
			},
			wantErr: false,
		},
		{
			name: "invalid planner backend",
			config: Config{
				Store:    StoreConfig{Backend: StoreFile},
				Planner:  PlannerConfig{Backend: "grok"},
				Executor: ExecutorConfig{Backend: ExecutorDocker},
			},
			wantErr: true,
			errMsg:  "invalid planner backend",
		},
		{
			name: "invalid executor backend",
			config: Config{
				Store:    StoreConfig{Backend: StoreFile},
				Planner:  PlannerConfig{Backend: PlannerAnthropic},
				Executor: ExecutorConfig{Backend: "kubernetes"},
			},
			wantErr: true,
			errMsg:  "invalid executor backend",
		},
		{
			name: "invalid secrets backend",
			config: Config{
				Store:    StoreConfig{Backend: StoreFile},
				Planner:  PlannerConfig{Backend: PlannerAnthropic},
				Executor: ExecutorConfig{Backend: ExecutorDocker},
				Secrets:  SecretsConfig{Backend: "vault"},
			},
			wantErr: true,
			errMsg:  "invalid secrets backend",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Validate() error = nil, want error containing %q", tt.errMsg)
				}
				if !containsString(err.Error(), tt.errMsg) {
					t.Errorf("Validate() error = %q, want error containing %q", err.Error(), tt.errMsg)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestConfigValidateForRemoteDispatch(t *testing.T) {
	base := func() Config {
		return Config{
			Store:    StoreConfig{Backend: StoreFile},
			Planner:  PlannerConfig{Backend: PlannerAnthropic},
			Executor: ExecutorConfig{Backend: ExecutorRemote, Owner: "andywolf", Repo: "orcaspine"},
			Secrets:  SecretsConfig{Backend: SecretsEnv},
			GitHub: GitHubConfig{
				AppID:            123,
				InstallationID:   456,
				PrivateKeySecret: "projects/test/secrets/key",
			},
		}
	}

	t.Run("docker executor skips github checks entirely", func(t *testing.T) {
		cfg := base()
		cfg.Executor.Backend = ExecutorDocker
		cfg.GitHub = GitHubConfig{}
		if err := cfg.ValidateForRemoteDispatch(); err != nil {
			t.Errorf("ValidateForRemoteDispatch() error = %v, want nil", err)
		}
	})

	t.Run("remote dispatch with full config", func(t *testing.T) {
		cfg := base()
		if err := cfg.ValidateForRemoteDispatch(); err != nil {
			t.Errorf("ValidateForRemoteDispatch() error = %v, want nil", err)
		}
	})

	t.Run("remote dispatch missing owner and repo", func(t *testing.T) {
		cfg := base()
		cfg.Executor.Owner = ""
		cfg.Executor.Repo = ""
		err := cfg.ValidateForRemoteDispatch()
		if err == nil || !containsString(err.Error(), "owner and executor.repo are required") {
			t.Errorf("ValidateForRemoteDispatch() error = %v, want owner/repo error", err)
		}
	})

	t.Run("remote dispatch missing app id", func(t *testing.T) {
		cfg := base()
		cfg.GitHub.AppID = 0
		err := cfg.ValidateForRemoteDispatch()
		if err == nil || !containsString(err.Error(), "app_id is required") {
			t.Errorf("ValidateForRemoteDispatch() error = %v, want app_id error", err)
		}
	})

	t.Run("remote dispatch missing installation id", func(t *testing.T) {
		cfg := base()
		cfg.GitHub.InstallationID = 0
		err := cfg.ValidateForRemoteDispatch()
		if err == nil || !containsString(err.Error(), "installation_id is required") {
			t.Errorf("ValidateForRemoteDispatch() error = %v, want installation_id error", err)
		}
	})

	t.Run("remote dispatch missing private key secret", func(t *testing.T) {
		cfg := base()
		cfg.GitHub.PrivateKeySecret = ""
		err := cfg.ValidateForRemoteDispatch()
		if err == nil || !containsString(err.Error(), "private_key_secret is required") {
			t.Errorf("ValidateForRemoteDispatch() error = %v, want private_key_secret error", err)
		}
	})
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	applyDefaults(&cfg)

	if cfg.Store.Backend != StoreFile {
		t.Errorf("Store.Backend = %q, want %q", cfg.Store.Backend, StoreFile)
	}
	if cfg.Store.FilePath == "" {
		t.Error("Store.FilePath default not applied")
	}
	if cfg.Planner.Backend != PlannerAnthropic {
		t.Errorf("Planner.Backend = %q, want %q", cfg.Planner.Backend, PlannerAnthropic)
	}
	if cfg.Planner.Model != "claude-sonnet-4-5" {
		t.Errorf("Planner.Model = %q, want claude-sonnet-4-5", cfg.Planner.Model)
	}
	if cfg.Planner.MaxTokens != 4096 {
		t.Errorf("Planner.MaxTokens = %d, want 4096", cfg.Planner.MaxTokens)
	}
	if cfg.Executor.Backend != ExecutorDocker {
		t.Errorf("Executor.Backend = %q, want %q", cfg.Executor.Backend, ExecutorDocker)
	}
	if cfg.Dashboard.MetricsAddr == "" {
		t.Error("Dashboard.MetricsAddr default not applied")
	}
	if cfg.Telemetry.LogID != "orcaspine" {
		t.Errorf("Telemetry.LogID = %q, want orcaspine", cfg.Telemetry.LogID)
	}
	if cfg.Secrets.Backend != SecretsEnv {
		t.Errorf("Secrets.Backend = %q, want %q", cfg.Secrets.Backend, SecretsEnv)
	}
	if cfg.Secrets.EnvFile != ".env" {
		t.Errorf("Secrets.EnvFile = %q, want .env", cfg.Secrets.EnvFile)
	}
}

func TestApplyDefaultsPicksOpenAIModelForOpenAIBackend(t *testing.T) {
	cfg := Config{Planner: PlannerConfig{Backend: PlannerOpenAI}}
	applyDefaults(&cfg)

	if cfg.Planner.Model != "gpt-4o" {
		t.Errorf("Planner.Model = %q, want gpt-4o", cfg.Planner.Model)
	}
}

func TestApplyDefaultsDoesNotOverrideExplicitValues(t *testing.T) {
	cfg := Config{Planner: PlannerConfig{Backend: PlannerAnthropic, Model: "claude-opus-4", MaxTokens: 8192}}
	applyDefaults(&cfg)

	if cfg.Planner.Model != "claude-opus-4" {
		t.Errorf("Planner.Model = %q, want unchanged claude-opus-4", cfg.Planner.Model)
	}
	if cfg.Planner.MaxTokens != 8192 {
		t.Errorf("Planner.MaxTokens = %d, want unchanged 8192", cfg.Planner.MaxTokens)
	}
}

func containsString(s, substr string) bool {
	if substr == "" {
		return true
	}
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
