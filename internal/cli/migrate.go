package cli

import (
	"github.com/spf13/cobra"

	"github.com/carebridge/opsnotify/db/migrations"
	"github.com/carebridge/opsnotify/pkg/config"
	"github.com/carebridge/opsnotify/pkg/pg"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply PostgreSQL schema migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log := newLogger(cfg)

			var pgCfg pg.Config
			if err := config.Load(&pgCfg); err != nil {
				return err
			}
			pool, err := pg.Connect(cmd.Context(), pgCfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := pg.Migrate(cmd.Context(), pool, migrations.FS, ".", pgCfg, log); err != nil {
				return err
			}
			log.InfoContext(cmd.Context(), "migrations applied")
			return nil
		},
	}
}
