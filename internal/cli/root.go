// Package cli implements the productctl command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/abgdnv/productctl/internal/config"
	"github.com/abgdnv/productctl/pkg/bootstrap"
	"github.com/abgdnv/productctl/pkg/telemetry"
	"github.com/spf13/cobra"
)

const serviceName = "productctl"

// reportedError is a failure the user was already told about through the notifier.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// Streams are the standard streams of a command run.
type Streams struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

type rootOptions struct {
	apiURL   string
	logLevel string
	streams  Streams
}

// environment is what every command needs once flags and configuration are resolved.
type environment struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCmd builds the productctl command tree.
func NewRootCmd(streams Streams) *cobra.Command {
	opts := &rootOptions{streams: streams}

	root := &cobra.Command{
		Use:   serviceName,
		Short: "productctl manages the products of a json-server style API",
		Long: `productctl lists, creates, updates and deletes products through a REST JSON API.

It runs either as a web console (serve) or as one-shot commands. Configuration is read
from config.yaml, .env and CONSOLE_* environment variables; flags override both.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(streams.In)
	root.SetOut(streams.Out)
	root.SetErr(streams.ErrOut)

	root.PersistentFlags().StringVar(&opts.apiURL, "api-url", "", "Products collection URL (default from api.baseurl)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (default from log.level)")

	root.AddCommand(
		newListCmd(opts),
		newCreateCmd(opts),
		newUpdateCmd(opts),
		newDeleteCmd(opts),
		newServeCmd(opts),
		newDevAPICmd(opts),
	)
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string, streams Streams) int {
	root := NewRootCmd(streams)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			_, _ = fmt.Fprintln(streams.ErrOut, "Error:", err)
		}
		return 1
	}
	return 0
}

// StdStreams returns the process streams.
func StdStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, ErrOut: os.Stderr}
}

// withEnvironment loads configuration, applies flag overrides, installs logging and
// tracing, runs fn and flushes traces.
func (o *rootOptions) withEnvironment(cmd *cobra.Command, logTo io.Writer, fn func(ctx context.Context, env *environment) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cmd.Flags().Changed("api-url") {
		cfg.API.BaseURL = o.apiURL
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := bootstrap.NewLoggerTo(logTo, cfg.Log.Level)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	shutdown, err := telemetry.Setup(ctx, serviceName, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("failed to set up telemetry: %w", err)
	}
	defer func() {
		if err := shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("Error shutting down tracer provider", "error", err)
		}
	}()

	return fn(ctx, &environment{cfg: cfg, logger: logger})
}
