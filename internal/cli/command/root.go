// Package command defines the authctl operator commands. They talk to
// Postgres and Redis directly with the service's own configuration.
package command

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/piercey/auth-service/internal/config"
	"github.com/piercey/auth-service/internal/observability"
)

// Build information, set via ldflags.
var (
	Version = "dev"
	Commit  = "unknown"
)

const (
	metaConfig = "config"
	metaLogger = "logger"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "authctl",
		Usage:   "auth-service operator tool",
		Version: fmt.Sprintf("%s (commit: %s)", Version, Commit),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"V"},
				Usage:   "Log to stdout while running",
			},
		},
		Commands: []*cli.Command{
			MigrateCommand(),
			IdentityCommand(),
			SessionCommand(),
		},
		Before: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := zap.NewNop()
			if c.Bool("verbose") {
				if logger, err = observability.NewLogger(cfg.Logger); err != nil {
					return err
				}
			}
			c.App.Metadata[metaConfig] = cfg
			c.App.Metadata[metaLogger] = logger
			return nil
		},
	}
}

func configFrom(c *cli.Context) *config.Config {
	cfg, _ := c.App.Metadata[metaConfig].(*config.Config)
	return cfg
}

func loggerFrom(c *cli.Context) *zap.Logger {
	if logger, ok := c.App.Metadata[metaLogger].(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}
