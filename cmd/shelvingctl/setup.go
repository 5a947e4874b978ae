package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/shell/config"
)

func initConfigCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "init-config",
		Usage:  "Write the default configuration file",
		Action: r.InitConfig,
	}
}

// InitConfig writes the example configuration to the --config path.
func (r *Runner) InitConfig(_ context.Context, cmd *cli.Command) error {
	path := cmd.String(flagConfig)
	if err := config.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)

	return nil
}
