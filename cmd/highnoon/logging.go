package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/spf13/viper"

	"github.com/dmitrymomot/highnoon/core/logger"
)

func setupLogging() {
	l := logger.New(os.Stdout, logger.Config{
		Level:     viper.GetString("log.level"),
		Format:    logger.Format(viper.GetString("log.format")),
		AddSource: viper.GetBool("log.add_source"),
	})
	slog.SetDefault(l)

	log.SetFlags(0)
	log.SetOutput(slog.NewLogLogger(l.Handler(), slog.LevelInfo).Writer())
}
