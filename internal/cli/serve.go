package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	_ "net/http/pprof"

	"github.com/abgdnv/productctl/internal/app"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web console",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.withEnvironment(cmd, o.streams.Out, func(ctx context.Context, env *environment) error {
				env.logger.Info("Configuration loaded", "config", env.cfg.String())
				deps := app.SetupDependencies(env.cfg, env.logger)
				httpServer := app.SetupConsoleServer(deps, env.cfg)
				env.logger.Info("Console is using products API", "url", env.cfg.API.BaseURL)
				return runServers(ctx, env, httpServer)
			})
		},
	}
}

func newDevAPICmd(o *rootOptions) *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:   "dev-api",
		Short: "Run an in-memory products API for local use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.withEnvironment(cmd, o.streams.Out, func(ctx context.Context, env *environment) error {
				if cmd.Flags().Changed("seed") {
					env.cfg.DevAPI.Seed = seed
				}
				httpServer := app.SetupDevAPIServer(env.cfg, env.logger)
				return runServers(ctx, env, httpServer)
			})
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "Start with a few sample products")
	return cmd
}

// runServers serves httpServer, and pprof when enabled, until ctx is cancelled, then shuts
// them down within shutdown.timeout.
func runServers(ctx context.Context, env *environment, httpServer *http.Server) error {
	logger, cfg := env.logger, env.cfg
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP server listening", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})
	// gracefully shutdown HTTP server on context cancellation
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down HTTP server...")
		return shutdown(httpServer, cfg.Shutdown.Timeout)
	})

	if cfg.PProf.Enabled {
		pprofServer := app.PProfServer(cfg.PProf)
		g.Go(func() error {
			logger.Info("Pprof server listening", slog.String("addr", pprofServer.Addr))
			if err := pprofServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("pprof server failed: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gCtx.Done()
			logger.Info("Shutting down pprof server...")
			return shutdown(pprofServer, cfg.Shutdown.Timeout)
		})
	} else {
		logger.Info("Pprof server is disabled")
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("errgroup encountered an error: %w", err)
	}
	logger.Info("Servers stopped gracefully")
	return nil
}

func shutdown(srv *http.Server, timeout time.Duration) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
