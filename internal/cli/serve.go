package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/genogram/pkg/observability"
	"github.com/matzehuels/genogram/pkg/server"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noCache   bool
		noStore   bool
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout API over HTTP",
		Long: `Serve the layout API over HTTP until interrupted.

Endpoints: POST /v1/layout, POST /v1/render, /v1/families, GET /healthz
and GET /metrics. See the server package documentation for details.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := server.Options{Runner: runner, Logger: c.Logger}
			if !noStore {
				st, err := c.openStore(ctx)
				if err != nil {
					return err
				}
				defer st.Close()
				opts.Store = st
			}
			if !noMetrics {
				m := observability.NewMetrics()
				observability.SetPipelineHooks(m)
				observability.SetCacheHooks(m)
				observability.SetHTTPHooks(m)
				defer observability.Reset()
				opts.Metrics = m
			}

			printInfo("Listening on %s", styleValue.Render(cfg.Server.Addr))
			return server.New(opts).ListenAndServe(ctx, cfg.Server.Addr, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "disable the /v1/families endpoints")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable /metrics")

	return cmd
}
