package main

import (
	"ChannelTrack-Backend/internal/database"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, sync := setup()
		defer sync()

		db, err := database.NewConnection(&cfg.Database, log)
		if err != nil {
			return err
		}
		defer func() {
			if err := database.Close(db, log); err != nil {
				log.Error("failed to close database connection", zap.Error(err))
			}
		}()

		if err := database.AutoMigrate(db, log); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		return nil
	},
}
