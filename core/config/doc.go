// Package config loads typed configuration from environment variables using
// caarlos0/env struct tags. A .env file is read once on first use (godotenv).
//
//	var cfg server.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
//	var logCfg logger.Config
//	config.MustLoad(&logCfg) // panics on failure, for startup code
//
// Every struct type is parsed only once; later loads of the same type return
// the cached value, so a configuration is consistent across the process.
// Different types are cached independently.
package config
