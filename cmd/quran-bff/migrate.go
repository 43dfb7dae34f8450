package main

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quran-bff/internal/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database tables and indexes",
	Long:  "Applies the schema. Safe to run repeatedly; serve applies it on startup as well.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(envFile)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		db, err := connectDatabase(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.InitSchema(ctx); err != nil {
			return err
		}
		log.Println("Schema is up to date")
		return nil
	},
}
