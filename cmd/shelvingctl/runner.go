package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	jsoniter "github.com/json-iterator/go"
	"github.com/urfave/cli/v3"

	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/app"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/shell/config"
)

const (
	appName         = "shelvingctl"
	defaultConfig   = "shelving.toml"
	flagConfig      = "config"
	exitInvalid     = 2
	exitNotFound    = 3
	exitConflict    = 4
	exitCapacity    = 5
	exitUnspecified = 1
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Runner holds the dependencies of all commands. Each action opens the configured
// event store, builds the application on it and closes everything when done.
type Runner struct {
	logger *log.Logger
	output io.Writer
}

type RunnerOpts struct {
	Logger *log.Logger
	Output io.Writer
}

func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	}

	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		logger: opts.Logger,
		output: opts.Output,
	}
}

// Command is the root command with every subcommand registered.
func (r *Runner) Command() *cli.Command {
	return &cli.Command{
		Name:    appName,
		Usage:   "Manage bookcases, shelves and the books on them",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "Path to the configuration file; the defaults apply when it does not exist",
				Value:   defaultConfig,
			},
		},
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		initConfigCommand, bookcaseCommand, shelfCommand, catalogCommand, reconcileCommand, seedCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

type appAction func(ctx context.Context, cmd *cli.Command, a *app.App, cfg config.Config) error

// withApp turns action into a cli action that runs against a freshly opened application.
func (r *Runner) withApp(action appAction) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := r.loadConfig(cmd.String(flagConfig))
		if err != nil {
			return err
		}

		level, err := log.ParseLevel(cfg.Log.Level)
		if err != nil {
			return err
		}
		r.logger.SetLevel(level)
		r.logger.SetReportCaller(cfg.Log.ReportCaller)

		tel := newTelemetry(cfg.Observability, r.logger)
		defer func() {
			if shutdownErr := tel.Shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
				r.logger.Warn("shutting down telemetry failed", "error", shutdownErr)
			}
		}()

		slogger := slog.New(r.logger)
		observers := config.Observers{Logger: slogger, ContextualLogger: slogger}
		appOpts := []app.Option{
			app.WithLogger(slogger),
			app.WithContextualLogger(slogger),
			app.WithCascadePolicy(cfg.CascadePolicy()),
			app.WithRetryOptions(cfg.RetryOptions()...),
			app.WithStaleAfter(cfg.Reconcile.StaleAfter.Duration),
		}

		if tel != nil {
			metrics := tel.metrics(appName)
			tracing := tel.tracing(appName)
			contextualLogger := tel.contextualLogger()
			observers.Metrics = metrics
			observers.Tracing = tracing
			observers.ContextualLogger = contextualLogger
			appOpts = append(appOpts,
				app.WithMetrics(metrics),
				app.WithTracing(tracing),
				app.WithContextualLogger(contextualLogger),
			)
		}

		store, err := cfg.Storage.OpenEventStore(ctx, observers)
		if err != nil {
			return err
		}
		defer store.Close()

		a, err := app.New(store.EventStore, appOpts...)
		if err != nil {
			return err
		}

		return action(ctx, cmd, a, cfg)
	}
}

func (r *Runner) loadConfig(path string) (config.Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		r.logger.Debug("config file not found, using defaults", "path", path)
		return config.DefaultConfig(), nil
	}

	return config.LoadConfig(path)
}

func (r *Runner) writeJSON(data any) error {
	output, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err = r.output.Write(append(output, '\n')); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return nil
}

func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, core.ErrInvalidArgument):
		return exitInvalid
	case errors.Is(err, core.ErrNotFound):
		return exitNotFound
	case errors.Is(err, core.ErrCapacityExceeded):
		return exitCapacity
	case errors.Is(err, core.ErrConflict):
		return exitConflict
	default:
		return exitUnspecified
	}
}
