package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/vidshelf/internal/repositories"
	"github.com/desertthunder/vidshelf/internal/server"
	"github.com/desertthunder/vidshelf/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the JSON API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(); err != nil {
		return err
	}

	sessions, err := r.sessions(ctx)
	if err != nil {
		return err
	}

	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Server.Addr()
	}

	srv := server.New(server.Deps{
		Users:    r.users,
		Library:  r.engine,
		Durable:  r.durable,
		Sessions: sessions,
		Searcher: r.searcher,
		APIKey:   r.config.YouTube.APIKey,
		Logger:   shared.WithLogger(r.logger, "component", "http"),
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r.writePlain("Serving on http://%s (Ctrl+C to stop)\n", addr)
	if cmd.Bool("open") {
		if err := shared.OpenBrowser(fmt.Sprintf("http://%s/health", addr)); err != nil {
			r.logger.Warn("failed to open browser", "error", err)
		}
	}

	return srv.ListenAndServe(ctx, addr)
}

// sessions picks the per-cookie session backend named by the config.
func (r *Runner) sessions(ctx context.Context) (*server.Sessions, error) {
	cfg := r.config.Session
	secure := r.config.Server.SecureCookies
	if cfg.Backend != "redis" {
		return server.NewMemorySessions(r.logger, cfg.TTLDuration()).Secure(secure), nil
	}

	client, err := repositories.ConnectRedis(ctx, repositories.RedisConfig{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	r.closers = append(r.closers, client)
	r.logger.Info("using redis sessions", "addr", cfg.RedisAddr, "ttl", cfg.TTLDuration())
	return server.NewRedisSessions(client, cfg.TTLDuration(), r.logger).Secure(secure), nil
}
