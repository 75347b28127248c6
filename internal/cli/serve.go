package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/reftree/pkg/api"
	"github.com/matzehuels/reftree/pkg/forest"
	"github.com/matzehuels/reftree/pkg/observability"
)

// newMetricsRegistry returns a registry with runtime collectors and installs
// Prometheus-backed hooks for every observability surface.
func newMetricsRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	hooks := observability.NewPrometheusHooks(reg)
	observability.SetAnalyticsHooks(hooks)
	observability.SetSimulationHooks(hooks)
	observability.SetHTTPHooks(hooks)
	return reg
}

func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [network.json]",
		Short: "Serve a referral network over HTTP",
		Long: `Serve a referral network over HTTP.

The network starts from the given file, or empty when no file is given.
Changes made through the API live in memory only.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			f := forest.New()
			if len(args) == 1 {
				if f, err = loadNetwork(cmd.Context(), args[0]); err != nil {
					return err
				}
			}

			reg := newMetricsRegistry()
			defer observability.Reset()

			srv, err := api.New(f, cfg, api.WithLogger(c.Logger), api.WithGatherer(reg))
			if err != nil {
				return err
			}
			return srv.ListenAndServe(cmd.Context(), cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config, default :8080)")
	return cmd
}
