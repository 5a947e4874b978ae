package main

import (
	"context"
	"errors"

	"github.com/urfave/cli/v3"

	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/app"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/shell/config"
)

func reconcileCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "reconcile",
		Usage: "Finish interrupted bookcase creations and deletions and repair dangling placements",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "watch", Usage: "Keep reconciling at the configured interval until interrupted"},
		},
		Action: r.withApp(r.Reconcile),
	}
}

func (r *Runner) Reconcile(ctx context.Context, cmd *cli.Command, a *app.App, cfg config.Config) error {
	if cmd.Bool("watch") {
		r.logger.Info("reconciling", "interval", cfg.Reconcile.Interval.Duration)

		err := a.Reconciler().Run(ctx, cfg.Reconcile.Interval.Duration)
		if errors.Is(err, context.Canceled) {
			return nil
		}

		return err
	}

	report, err := a.Reconciler().ReconcileOnce(ctx)
	if writeErr := r.writeJSON(report); writeErr != nil {
		return errors.Join(err, writeErr)
	}

	return err
}
