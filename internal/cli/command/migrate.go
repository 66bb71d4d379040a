package command

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/piercey/auth-service/internal/persistence"
)

// MigrateCommand returns the migrate subcommand group.
func MigrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply or roll back the database schema",
		Subcommands: []*cli.Command{
			{
				Name:   "up",
				Usage:  "Apply all pending migrations",
				Action: migrateAction(persistence.MigrateUp),
			},
			{
				Name:   "down",
				Usage:  "Roll back every migration",
				Action: migrateAction(persistence.MigrateDown),
			},
		},
	}
}

func migrateAction(direction string) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg := configFrom(c)
		if cfg.Postgres.DSN == "" {
			return errors.New("POSTGRES_DSN is not set")
		}
		if err := persistence.RunMigrations(cfg.Postgres.DSN, direction, loggerFrom(c)); err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "migrations %s: done\n", direction)
		return nil
	}
}
