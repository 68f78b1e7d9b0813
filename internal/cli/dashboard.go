package cli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/andywolf/orcaspine/internal/config"
	"github.com/andywolf/orcaspine/internal/dashboard"
	"github.com/andywolf/orcaspine/internal/store"
	"github.com/andywolf/orcaspine/internal/telemetry"
)

// redisPollInterval is how often the dashboard reloads when the
// configured store has no filesystem change signal to watch.
const redisPollInterval = 2 * time.Second

var dashboardCmd = &cobra.Command{
	Use:   "serve-dashboard",
	Short: "Run a read-only terminal dashboard over the project's state",
	Long: `serve-dashboard starts a read-only TUI that reloads whenever
the configured store's committed state changes. It never issues
intents - drive the project with the other subcommands or the mcp
server and watch it here.

Example:
  orcaspine serve-dashboard --metrics-addr :9090`,
	RunE: runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
	dashboardCmd.Flags().String("metrics-addr", "", "serve orcaspine_state_version on this address, e.g. :9090 (overrides dashboard.metrics_addr)")
}

func runDashboard(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	st, err := buildStore(cfg)
	if err != nil {
		return err
	}

	metricsAddr, _ := cmd.Flags().GetString("metrics-addr")
	if metricsAddr == "" {
		metricsAddr = cfg.Dashboard.MetricsAddr
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	initial, err := st.Load(ctx)
	if err != nil {
		return fmt.Errorf("load initial state: %w", err)
	}

	m := dashboard.New(cfg.Project.ID, initial)
	program := tea.NewProgram(m, tea.WithAltScreen())

	if cfg.Store.Backend == config.StoreRedis {
		dashboard.PollStore(ctx, program, st, redisPollInterval)
	} else if err := dashboard.WatchFile(ctx, program, st, cfg.Store.FilePath); err != nil {
		return fmt.Errorf("watch state file: %w", err)
	}

	if cfg.Dashboard.Enabled && metricsAddr != "" {
		reg := prometheus.NewRegistry()
		metrics := telemetry.NewMetrics(reg)
		go serveMetrics(ctx, metricsAddr, reg, st, metrics.StateVersion)
	}

	_, err = program.Run()
	return err
}

// serveMetrics exposes orcaspine_state_version on addr, polling st
// independently of the dashboard's own reload cycle so the metrics
// surface survives even if the TUI isn't currently redrawing.
func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry, st store.Store, stateVersion prometheus.Gauge) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	go func() {
		ticker := time.NewTicker(redisPollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if s, err := st.Load(ctx); err == nil && s != nil {
					stateVersion.Set(float64(s.Version))
				}
			}
		}
	}()

	_ = srv.ListenAndServe()
}
