package commands

import (
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/datalens/internal/web"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Serve starts the HTTP API on PORT (default 8000). SIGINT or SIGTERM
stops it after running analyses finish or SERVER_SHUTDOWN_TIMEOUT elapses.`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := configFrom(cmd.Context())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, closeStore, err := newService(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"dataset", cfg.Dataset.Path,
		"history_enabled", svc.HistoryEnabled(),
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	return web.NewServer(svc, cfg).Run(ctx)
}
