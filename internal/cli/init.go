package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/andywolf/orcaspine/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize project configuration",
	Long: `Initialize orcaspine configuration for the current directory.

This creates a .orcaspine.yaml file naming the project, the state
store, and the planner and executor backends. Every value can still be
overridden per-run with ORCASPINE_* environment variables.

Example:
  orcaspine init --project p1 --goal "Build a scheduling tool"
  orcaspine init --project p1 --store redis --redis-addr localhost:6379
  orcaspine init --project p1 --planner openai --force`,
	RunE: initProject,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().String("project", "", "project id (required)")
	initCmd.Flags().String("goal", "", "one-line project goal")
	initCmd.Flags().String("store", "file", "state store backend (file, redis)")
	initCmd.Flags().String("state-file", "./orcaspine-state.json", "state file path for the file store")
	initCmd.Flags().String("redis-addr", "", "redis address for the redis store")
	initCmd.Flags().String("planner", "anthropic", "planner backend (anthropic, openai)")
	initCmd.Flags().String("executor", "docker", "executor backend (docker, remote_dispatch)")
	initCmd.Flags().String("image", "", "container image for the docker executor")
	initCmd.Flags().Bool("require-execution-approval", false, "pause for approval before dispatching execution tasks")
	initCmd.Flags().Bool("require-retry-approval", true, "pause for approval before retrying failed tasks")
	initCmd.Flags().Bool("force", false, "overwrite existing config")
	_ = initCmd.MarkFlagRequired("project")
}

// scaffoldConfig is the subset of config.Config the init command writes
// out. Keys match the mapstructure names viper reads back in.
type scaffoldConfig struct {
	Project struct {
		ID   string `yaml:"id"`
		Goal string `yaml:"goal,omitempty"`
	} `yaml:"project"`
	Store struct {
		Backend   string `yaml:"backend"`
		FilePath  string `yaml:"file_path,omitempty"`
		RedisAddr string `yaml:"redis_addr,omitempty"`
	} `yaml:"store"`
	Planner struct {
		Backend string `yaml:"backend"`
	} `yaml:"planner"`
	Executor struct {
		Backend string `yaml:"backend"`
		Image   string `yaml:"image,omitempty"`
	} `yaml:"executor"`
	Settings struct {
		RequireExecutionApproval bool `yaml:"require_execution_approval"`
		RequireRetryApproval     bool `yaml:"require_retry_approval"`
	} `yaml:"settings"`
}

func initProject(cmd *cobra.Command, args []string) error {
	configPath := filepath.Join(".", ".orcaspine.yaml")

	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", configPath)
	}

	var sc scaffoldConfig
	sc.Project.ID, _ = cmd.Flags().GetString("project")
	sc.Project.Goal, _ = cmd.Flags().GetString("goal")
	sc.Store.Backend, _ = cmd.Flags().GetString("store")
	sc.Planner.Backend, _ = cmd.Flags().GetString("planner")
	sc.Executor.Backend, _ = cmd.Flags().GetString("executor")
	sc.Executor.Image, _ = cmd.Flags().GetString("image")
	sc.Settings.RequireExecutionApproval, _ = cmd.Flags().GetBool("require-execution-approval")
	sc.Settings.RequireRetryApproval, _ = cmd.Flags().GetBool("require-retry-approval")

	switch config.StoreBackend(sc.Store.Backend) {
	case config.StoreFile:
		sc.Store.FilePath, _ = cmd.Flags().GetString("state-file")
	case config.StoreRedis:
		sc.Store.RedisAddr, _ = cmd.Flags().GetString("redis-addr")
		if sc.Store.RedisAddr == "" {
			return fmt.Errorf("--redis-addr is required when --store is redis")
		}
	default:
		return fmt.Errorf("invalid store backend %q (must be file or redis)", sc.Store.Backend)
	}

	switch config.PlannerBackend(sc.Planner.Backend) {
	case config.PlannerAnthropic, config.PlannerOpenAI:
	default:
		return fmt.Errorf("invalid planner backend %q (must be anthropic or openai)", sc.Planner.Backend)
	}
	switch config.ExecutorBackend(sc.Executor.Backend) {
	case config.ExecutorDocker, config.ExecutorRemote:
	default:
		return fmt.Errorf("invalid executor backend %q (must be docker or remote_dispatch)", sc.Executor.Backend)
	}

	data, err := yaml.Marshal(&sc)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	fmt.Printf("Created %s\n", configPath)
	return nil
}
