package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/adlayout/internal/metrics"
	"github.com/matzehuels/adlayout/internal/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noCache, noMetrics bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the composition API over HTTP",
		Example: `  adlayout serve
  adlayout serve --addr :9090 --no-cache`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr != "" {
				c.Config.Server.Addr = addr
			}

			var rec *metrics.Recorder
			if !noMetrics {
				rec = metrics.New()
				rec.Register()
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			c.Logger.Info("serving",
				"cache", c.Config.Cache.Backend,
				"store", c.Config.Store.Backend,
				"vision", c.Config.Vision.Analyzer)
			srv := server.New(c.Config, runner, c.newEngine(), st, rec, c.Logger)
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable the /metrics endpoint")
	return cmd
}
