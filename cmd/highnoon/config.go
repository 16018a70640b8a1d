package main

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/dmitrymomot/highnoon/core/config"
	"github.com/dmitrymomot/highnoon/core/server"
	"github.com/dmitrymomot/highnoon/core/session"
)

func init() {
	setDefaults()
}

func setDefaults() {
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	viper.SetDefault("session.cookie_name", "simple_sid")
	viper.SetDefault("session.ttl", "5m")
	viper.SetDefault("session.store", session.StoreMemory)
	viper.SetDefault("session.secure", false)
	viper.SetDefault("session.redis_url", "redis://localhost:6379/0")
	viper.SetDefault("session.redis_prefix", session.DefaultRedisPrefix)
	viper.SetDefault("session.redis_retry", "1s")
	viper.SetDefault("session.redis_wait", "10s")

	viper.SetDefault("request.timeout", "30s")
	viper.SetDefault("request.body_limit", 4<<20)

	viper.SetDefault("cors.enabled", false)
	viper.SetDefault("cors.allowed_origins", []string{"*"})
}

func bindFlag(key string, flag *pflag.Flag) {
	if flag == nil {
		return
	}
	if err := viper.BindPFlag(key, flag); err != nil {
		slog.Warn("failed to bind flag", "flag", flag.Name, "err", err)
	}
}

func readConfig(cmd *cobra.Command) {
	configFile, _ := cmd.Flags().GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("highnoon")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("HIGHNOON")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			slog.Warn("error reading config file", "err", err)
		}
	}
}

// serverConfig starts from the SERVER_* environment and applies the
// HIGHNOON_SERVER_* keys and flags on top.
func serverConfig() (server.Config, error) {
	cfg, err := config.Get[server.Config]()
	if err != nil {
		return cfg, err
	}
	if viper.IsSet("server.addr") {
		cfg.Addr = viper.GetString("server.addr")
	}
	if viper.IsSet("server.shutdown_timeout") {
		cfg.ShutdownTimeout = viper.GetDuration("server.shutdown_timeout")
	}
	if viper.IsSet("server.tls_cert") {
		cfg.TLSCertFile = viper.GetString("server.tls_cert")
	}
	if viper.IsSet("server.tls_key") {
		cfg.TLSKeyFile = viper.GetString("server.tls_key")
	}
	return cfg, nil
}

func sessionConfig() session.Config {
	return session.Config{
		CookieName:    viper.GetString("session.cookie_name"),
		TTL:           viper.GetDuration("session.ttl"),
		Store:         viper.GetString("session.store"),
		RedisURL:      viper.GetString("session.redis_url"),
		RedisPrefix:   viper.GetString("session.redis_prefix"),
		RedisRetry:    viper.GetDuration("session.redis_retry"),
		RedisWaitTime: viper.GetDuration("session.redis_wait"),
	}
}
