package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/piercey/auth-service/internal/persistence"
	"github.com/piercey/auth-service/internal/session"
)

// SessionCommand returns the session subcommand group.
func SessionCommand() *cli.Command {
	return &cli.Command{
		Name:    "session",
		Aliases: []string{"sess"},
		Usage:   "Inspect and revoke session records",
		Subcommands: []*cli.Command{
			{
				Name:      "show",
				Usage:     "Show whether an identity has a live session",
				ArgsUsage: "IDENTITY_ID",
				Action:    sessionShow,
			},
			{
				Name:      "revoke",
				Usage:     "Evict the session of an identity",
				ArgsUsage: "IDENTITY_ID",
				Action:    sessionRevoke,
			},
		},
	}
}

func openSessionStore(c *cli.Context) (*session.RedisStore, func(), error) {
	id := c.Args().First()
	if id == "" {
		return nil, nil, errors.New("IDENTITY_ID is required")
	}
	cfg := configFrom(c)
	r := persistence.NewRedis(cfg.Redis, loggerFrom(c))
	store := session.NewRedisStore(r.Client, cfg.Auth.SessionNamespace, cfg.Auth.SessionTTL())
	return store, r.Close, nil
}

func sessionShow(c *cli.Context) error {
	store, closeFn, err := openSessionStore(c)
	if err != nil {
		return err
	}
	defer closeFn()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id := c.Args().First()
	_, found, err := store.Get(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		fmt.Fprintf(c.App.Writer, "%s: no session\n", id)
		return nil
	}
	ttl, err := store.TTL(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "%s: active, expires in %s\n", id, ttl.Round(time.Second))
	return nil
}

func sessionRevoke(c *cli.Context) error {
	store, closeFn, err := openSessionStore(c)
	if err != nil {
		return err
	}
	defer closeFn()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id := c.Args().First()
	if err := store.Evict(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "%s: session revoked\n", id)
	return nil
}
