package cli

import (
	"fmt"

	"github.com/attarhouse/attarhouse-api/internal/config"
	"github.com/attarhouse/attarhouse-api/internal/infrastructure/database"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			db, err := connect(cfg, "migrate")
			if err != nil {
				return err
			}
			defer closeDB(db)

			if err := database.AutoMigrate(db); err != nil {
				return err
			}
			if err := database.SeedDefaultData(db, cfg.Tax.DefaultGSTRate); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
			return nil
		},
	}
}

// connect opens the postgres database; the memory driver has nothing to migrate
func connect(cfg *config.Config, command string) (*gorm.DB, error) {
	if cfg.Database.Driver != config.DriverPostgres {
		return nil, fmt.Errorf("%s needs DB_DRIVER=%s, got %q", command, config.DriverPostgres, cfg.Database.Driver)
	}
	return database.NewPostgresDB(&cfg.Database, cfg.App.Debug)
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
