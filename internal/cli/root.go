// Package cli holds the opsnotify command tree.
package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/carebridge/opsnotify/pkg/clientip"
	"github.com/carebridge/opsnotify/pkg/logger"
	"github.com/carebridge/opsnotify/pkg/requestid"
)

var (
	version = "dev"
	commit  = "none"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "opsnotify",
		Short:         "Operational notification service for the admin console",
		Long:          "opsnotify persists administrative and security events, streams them to connected consoles and escalates the critical ones.",
		Version:       version + " (" + commit + ")",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMigrateCmd())
	return cmd
}

// Execute runs the command tree bound to ctx.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newLogger(cfg Config) *slog.Logger {
	l := logger.New(
		logger.WithEnvironment(cfg.AppEnv, cfg.ServiceName),
		logger.WithConfig(cfg.Log),
		logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()),
	)
	logger.SetAsDefault(l)
	return l
}
