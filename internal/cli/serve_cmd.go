package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/finboard/finboard/internal/app"
	"github.com/spf13/cobra"
)

func newServeCmd(a *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard JSON API locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.deps.Config.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return app.NewApplication(a.deps).Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address, overrides server.addr")

	return cmd
}
