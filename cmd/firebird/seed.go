package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spacesedan/firebird/config"
	"github.com/spacesedan/firebird/internal/db"
)

var seedCmd = &cobra.Command{
	Use:   "seed <campaigns.yaml>",
	Short: "Load campaigns from a YAML file into the configured store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		campaigns, err := db.LoadSeedFile(args[0])
		if err != nil {
			return err
		}

		var cleanup closers
		defer cleanup.Close()

		store, err := openStore(cmd.Context(), cfg, &cleanup)
		if err != nil {
			return err
		}
		if err := db.Seed(cmd.Context(), store, campaigns); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d campaigns into %s\n", len(campaigns), cfg.StoreBackend)
		return nil
	},
}
