package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/insightdelivered/statement-parser/internal/api"
	"github.com/insightdelivered/statement-parser/internal/config"
	"github.com/insightdelivered/statement-parser/internal/logger"
)

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		bootLog := logger.New(logger.Options{})
		bootLog.Fatal().Err(err).Msg("invalid server configuration")
	}

	log := logger.New(logger.Options{JSON: true}).Level(logger.ParseLevel(cfg.LogLevel))

	h := &api.Handler{Log: log, Delimiter: cfg.Delimiter}
	if cfg.LayoutPath != "" {
		layout, err := config.LoadLayout(cfg.LayoutPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.LayoutPath).Msg("failed to load layout")
		}
		h.Layout = &layout
	}

	app := api.NewApp(h, cfg.MaxUploadBytes)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info().Msg("shutting down")
		if err := app.Shutdown(); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	log.Info().Str("port", cfg.Port).Str("version", api.Version).Msg("starting server")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
