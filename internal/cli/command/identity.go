package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/piercey/auth-service/internal/auth"
	"github.com/piercey/auth-service/internal/domain"
	"github.com/piercey/auth-service/internal/persistence"
	"github.com/piercey/auth-service/internal/repository"
)

// IdentityCommand returns the identity subcommand group.
func IdentityCommand() *cli.Command {
	return &cli.Command{
		Name:    "identity",
		Aliases: []string{"id"},
		Usage:   "Manage local identities and their credentials",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create an identity with a password",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Usage: "Login name", Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Password", Required: true, EnvVars: []string{"AUTHCTL_PASSWORD"}},
					&cli.StringFlag{Name: "id", Usage: "Fixed identity id (UUID); random when omitted"},
					&cli.StringSliceFlag{Name: "role", Aliases: []string{"r"}, Usage: "Role id to assign; repeatable"},
				},
				Action: identityCreate,
			},
			{
				Name:      "passwd",
				Usage:     "Set the password of an identity",
				ArgsUsage: "IDENTITY_ID",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "New password", Required: true, EnvVars: []string{"AUTHCTL_PASSWORD"}},
				},
				Action: identityPasswd,
			},
		},
	}
}

func validIdentityID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("identity id %q is not a UUID", id)
	}
	return nil
}

type directory struct {
	identities  repository.IdentityRepository
	credentials repository.CredentialRepository
	roles       repository.RoleRepository
	close       func()
}

func openDirectory(ctx context.Context, c *cli.Context) (*directory, error) {
	cfg := configFrom(c)
	if cfg.Postgres.DSN == "" {
		return nil, errors.New("POSTGRES_DSN is not set")
	}
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, loggerFrom(c))
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	pool := pg.PoolHandle()
	return &directory{
		identities:  repository.NewIdentityRepository(pool),
		credentials: repository.NewCredentialRepository(pool),
		roles:       repository.NewRoleRepository(pool),
		close:       pg.Close,
	}, nil
}

func identityCreate(c *cli.Context) error {
	id := c.String("id")
	if id != "" {
		if err := validIdentityID(id); err != nil {
			return err
		}
	}
	for _, roleID := range c.StringSlice("role") {
		if err := validIdentityID(roleID); err != nil {
			return fmt.Errorf("role: %w", err)
		}
	}

	hash, err := auth.HashPassword(auth.CredentialDigest(c.String("password")), configFrom(c).Auth.BcryptCost)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dir, err := openDirectory(ctx, c)
	if err != nil {
		return err
	}
	defer dir.close()

	identity := &domain.Identity{ID: id, Username: c.String("username"), Active: true}
	if err := dir.identities.Create(ctx, identity); err != nil {
		return fmt.Errorf("create identity: %w", err)
	}
	if err := dir.credentials.Upsert(ctx, &domain.Credential{IdentityID: identity.ID, PasswordHash: hash}); err != nil {
		return fmt.Errorf("store credential: %w", err)
	}
	for _, roleID := range c.StringSlice("role") {
		if err := dir.roles.Assign(ctx, identity.ID, roleID); err != nil {
			return fmt.Errorf("assign role %s: %w", roleID, err)
		}
	}

	fmt.Fprintf(c.App.Writer, "created identity %s (%s)\n", identity.ID, identity.Username)
	return nil
}

func identityPasswd(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return errors.New("IDENTITY_ID is required")
	}
	if err := validIdentityID(id); err != nil {
		return err
	}

	hash, err := auth.HashPassword(auth.CredentialDigest(c.String("password")), configFrom(c).Auth.BcryptCost)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dir, err := openDirectory(ctx, c)
	if err != nil {
		return err
	}
	defer dir.close()

	if _, err := dir.identities.GetByID(ctx, id); err != nil {
		return fmt.Errorf("identity %s: %w", id, err)
	}
	if err := dir.credentials.Upsert(ctx, &domain.Credential{IdentityID: id, PasswordHash: hash}); err != nil {
		return fmt.Errorf("store credential: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "password updated for %s\n", id)
	return nil
}
