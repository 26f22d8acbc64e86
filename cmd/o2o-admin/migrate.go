package main

import (
	"fmt"

	"github.com/msomdec/o2o-admin/internal/repository/sqlite"
	"github.com/msomdec/o2o-admin/internal/repository/sqlite/migrations"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		db, err := sqlite.New(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()

		if err := db.Migrate(cmd.Context()); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}

		version, dirty, err := migrations.Version(db.SqlDB)
		if err != nil {
			return fmt.Errorf("read schema version: %w", err)
		}
		log.Info().Str("database", cfg.Database.Path).Uint("version", version).Bool("dirty", dirty).Msg("database is up to date")
		return nil
	},
}
