// Package main provides the entry point for the ChannelTrack link tracking service.
//
//	@title			ChannelTrack API
//	@version		1.0.0
//	@description	Link tracking and subscriber attribution for Telegram channels.
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT Authorization header. Format: "Bearer {token}"
//
//	@securityDefinitions.apikey	BotToken
//	@in							header
//	@name						X-Bot-Token
//	@description				Shared secret of the channel bot
package main

import (
	"ChannelTrack-Backend/internal/config"
	"ChannelTrack-Backend/pkg/logger"
	"fmt"
	lg "log"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "backend",
	Short: "Telegram channel link tracking service",
	// без подкоманды запускаем сервер
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(tokenCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup загружает конфиг и создает логгер; sync нужно вызвать перед выходом
func setup() (*config.Config, *zap.Logger, func()) {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env, cfg.Log)
	sync := func() {
		if err := log.Sync(); err != nil {
			lg.Printf("ERROR: failed to sync zap logger: %v\n", err)
		}
	}
	return cfg, log, sync
}
