package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rshade/metallca/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	var (
		addr      string
		noReports bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the assessment JSON API",
		Long: `Serve the assessment pipeline over HTTP:

  GET  /health              liveness and version
  GET  /tables              reference tables and accepted values
  POST /calculate           assess one input record
  /reports                  create, list, show and delete saved reports

The server stops gracefully on SIGINT or SIGTERM.`,
		Example: `  metallca serve
  metallca serve --addr 0.0.0.0:9000 --no-reports`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := configFrom(cmd)
			if !cmd.Flags().Changed("addr") {
				addr = cfg.Server.Addr
			}

			assessor, tables, err := buildAssessor(cfg.Config, nil)
			if err != nil {
				return err
			}

			opts := server.Options{
				Assessor:       assessor,
				Tables:         tables,
				Logger:         *loggerFrom(cmd),
				RequestTimeout: cfg.Server.RequestTimeout,
				AllowedOrigins: cfg.Server.AllowedOrigins,
				Version:        cmd.Root().Version,
			}
			if !noReports {
				store, storeErr := openStore(cfg.Config)
				if storeErr != nil {
					return storeErr
				}
				opts.Store = store
			}

			h, err := server.NewHandler(opts)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.Run(ctx, server.New(addr, h))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config server.addr)")
	cmd.Flags().BoolVar(&noReports, "no-reports", false, "do not mount the /reports endpoints")

	return cmd
}
