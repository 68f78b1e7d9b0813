// Package cli wires cobra subcommands onto the orchestrator façade, one
// subcommand per intent type plus status/serve-dashboard. Each command
// loads config, builds a Facade against it, and issues exactly one
// HandleIntent call — the façade, not this package, owns serialization
// and persistence.
package cli

import (
	"fmt"
	"os"

	"github.com/andywolf/orcaspine/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "orcaspine",
	Short: "orcaspine - a local, human-in-the-loop agent orchestrator",
	Long: `orcaspine drives a project from a one-line goal through planning,
human approval, and execution by dispatching tasks to a planner and
executor backend and applying their results through a pure state
machine.

Example:
  orcaspine create --project p1 --goal "Build a scheduling tool"
  orcaspine status`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Version = version.Short()
	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .orcaspine.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable verbose output")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error getting working directory:", err)
			os.Exit(1)
		}
		viper.AddConfigPath(cwd)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".orcaspine")
	}

	viper.SetEnvPrefix("ORCASPINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}
