package cli

import (
	"errors"
	"fmt"

	"github.com/attarhouse/attarhouse-api/internal/config"
	"github.com/attarhouse/attarhouse-api/internal/infrastructure/database"
	"github.com/attarhouse/attarhouse-api/internal/infrastructure/seed"
	"github.com/spf13/cobra"
)

func newSeedCmd(opts *rootOptions) *cobra.Command {
	var (
		file   string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load parties, catalog, stock and prices from a YAML fixture",
		Long: "Load a fixture into the database. Rows that already exist are left " +
			"untouched, so seeding the same file twice is safe.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			if file == "" {
				file = cfg.Seed.File
			}
			if file == "" {
				return errors.New("no fixture given (use --file or SEED_FILE)")
			}

			ds, err := seed.LoadFile(file)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d parties, %d products, %d sets, %d attars, %d stock rows, %d prices\n",
				file, len(ds.Parties), len(ds.Products), len(ds.GiftSets), len(ds.Attars), len(ds.Stocks), len(ds.Prices))
			if dryRun || cfg.Database.Driver == config.DriverMemory {
				fmt.Fprintln(out, "Fixture is valid; nothing written")
				return nil
			}

			db, err := connect(cfg, "seed")
			if err != nil {
				return err
			}
			defer closeDB(db)

			if err := database.AutoMigrate(db); err != nil {
				return err
			}
			if err := database.SeedDataset(db, ds); err != nil {
				return err
			}
			fmt.Fprintln(out, "Fixture loaded")
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "fixture file (defaults to SEED_FILE)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate the fixture without writing it")
	return cmd
}
