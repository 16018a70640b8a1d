package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/highnoon/core/cookie"
	"github.com/dmitrymomot/highnoon/core/router"
	"github.com/dmitrymomot/highnoon/core/server"
	"github.com/dmitrymomot/highnoon/core/session"
	"github.com/dmitrymomot/highnoon/middleware"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the demo HTTP server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default: $SERVER_ADDR or :8080, env: HIGHNOON_SERVER_ADDR)")
	serveCmd.Flags().String("static-dir", "", "directory served below /static (env: HIGHNOON_STATIC_DIR)")
	serveCmd.Flags().String("session-store", "", "session store: memory, redis (env: HIGHNOON_SESSION_STORE)")

	bindFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	bindFlag("static.dir", serveCmd.Flags().Lookup("static-dir"))
	bindFlag("session.store", serveCmd.Flags().Lookup("session-store"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := slog.Default()

	app, err := buildApp(ctx, log)
	if err != nil {
		return err
	}
	d, err := app.Build()
	if err != nil {
		return fmt.Errorf("build app: %w", err)
	}

	srvCfg, err := serverConfig()
	if err != nil {
		return fmt.Errorf("load server config: %w", err)
	}
	srv, err := server.NewFromConfig(srvCfg, server.WithLogger(log))
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	for _, r := range d.Routes() {
		log.Debug("route registered", slog.String("method", r.Method), slog.String("pattern", r.Pattern))
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(srv.Run(ctx, d))

	if err := g.Wait(); err != nil {
		log.Error("server stopped", slog.Any("err", err))
		return err
	}
	log.Info("server stopped")
	return nil
}

// buildApp wires the demo app from the current configuration. Nothing is
// bound to a port.
func buildApp(ctx context.Context, log *slog.Logger) (*router.App[*State, *Context], error) {
	cookies, err := cookie.New(cookieSecrets(log), cookie.WithSecure(viper.GetBool("session.secure")))
	if err != nil {
		return nil, fmt.Errorf("create cookie manager: %w", err)
	}

	sessions, err := session.NewFromConfig(ctx, sessionConfig(), cookies, session.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("create session manager: %w", err)
	}

	deps := appDeps{
		logger:    log,
		sessions:  sessions,
		staticDir: viper.GetString("static.dir"),
		timeout:   viper.GetDuration("request.timeout"),
		bodyLimit: viper.GetInt64("request.body_limit"),
	}
	if viper.GetBool("cors.enabled") {
		var cfg middleware.CORSConfig
		if err := viper.UnmarshalKey("cors", &cfg); err != nil {
			return nil, fmt.Errorf("parse cors config: %w", err)
		}
		deps.cors = &cfg
	}

	return newApp(deps), nil
}

// cookieSecrets returns the configured secrets or, when none are set, a
// random one that lives as long as the process.
func cookieSecrets(log *slog.Logger) []string {
	if s := viper.GetStringSlice("cookie.secrets"); len(s) > 0 {
		return s
	}

	b := make([]byte, 32)
	_, _ = rand.Read(b)
	log.Warn("no cookie secret configured, sessions will not survive a restart")
	return []string{hex.EncodeToString(b)}
}
