package cli

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	modalerts "github.com/carebridge/opsnotify/modules/alerts"
	"github.com/carebridge/opsnotify/pkg/httpserver"
	"github.com/carebridge/opsnotify/pkg/logger"
	"github.com/carebridge/opsnotify/svc/alerts"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dispatcher and the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log := newLogger(cfg)
			ctx := cmd.Context()

			a, err := buildApp(ctx, cfg, log)
			if err != nil {
				log.ErrorContext(ctx, "startup failed", logger.Error(err))
				return err
			}
			defer a.close()

			opts := []modalerts.Option{
				modalerts.WithGate(alerts.NewRoleGate(cfg.PrivilegedRole)),
				modalerts.WithLogger(log),
				modalerts.WithReadinessChecks(2*time.Second, a.checks...),
			}
			if cfg.GatewaySecret != "" {
				opts = append(opts, modalerts.WithGatewaySecret(cfg.GatewaySecret))
			}
			mod, err := modalerts.New(a.store, a.hub, opts...)
			if err != nil {
				return err
			}
			srv := httpserver.NewFromConfig(cfg.HTTP, mod.Router(), httpserver.WithLogger(log))

			g, ctx := errgroup.WithContext(ctx)
			g.Go(a.dispatcher.Run(ctx))
			g.Go(srv.Run(ctx))
			if a.relay != nil {
				g.Go(a.relay.Run(ctx))
			}
			if a.monitor != nil {
				g.Go(a.monitor.Run(ctx))
			}

			log.InfoContext(ctx, "opsnotify running",
				slog.String("store", cfg.Store),
				logger.Role(cfg.PrivilegedRole),
			)
			err = g.Wait()
			log.InfoContext(ctx, "opsnotify stopped", logger.Error(err))
			return err
		},
	}
}
