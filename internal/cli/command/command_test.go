package command

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/piercey/auth-service/internal/session"
)

const identityID = "0191c825-3a39-75d2-a90f-8e9bbde70698"

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := App()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"authctl"}, args...))
	return out.String(), err
}

func setupEnv(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	t.Setenv("APP_ENV", "development")
	t.Setenv("REDIS_ADDR", mr.Addr())
	t.Setenv("POSTGRES_DSN", "")
	return mr
}

func TestCommandTree(t *testing.T) {
	names := map[string][]string{}
	for _, cmd := range App().Commands {
		for _, sub := range cmd.Subcommands {
			names[cmd.Name] = append(names[cmd.Name], sub.Name)
		}
	}
	require.ElementsMatch(t, []string{"up", "down"}, names["migrate"])
	require.ElementsMatch(t, []string{"create", "passwd"}, names["identity"])
	require.ElementsMatch(t, []string{"show", "revoke"}, names["session"])
}

func TestSessionShowAndRevoke(t *testing.T) {
	mr := setupEnv(t)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := session.NewRedisStore(client, "auth-token", 10*time.Minute)

	out, err := runApp(t, "session", "show", identityID)
	require.NoError(t, err)
	require.Contains(t, out, "no session")

	require.NoError(t, store.Put(context.Background(), identityID, "a", "r"))

	out, err = runApp(t, "session", "show", identityID)
	require.NoError(t, err)
	require.Contains(t, out, "active, expires in 10m0s")

	out, err = runApp(t, "sess", "revoke", identityID)
	require.NoError(t, err)
	require.Contains(t, out, "session revoked")

	_, found, err := store.Get(context.Background(), identityID)
	require.NoError(t, err)
	require.False(t, found)
}

func TestSessionRequiresIdentity(t *testing.T) {
	setupEnv(t)
	_, err := runApp(t, "session", "show")
	require.ErrorContains(t, err, "IDENTITY_ID is required")
}

func TestIdentityCommandsValidateInput(t *testing.T) {
	setupEnv(t)

	_, err := runApp(t, "identity", "create", "--username", "admin", "--password", "pw", "--id", "not-a-uuid")
	require.ErrorContains(t, err, "is not a UUID")

	_, err = runApp(t, "identity", "create", "--username", "admin", "--password", "pw")
	require.ErrorContains(t, err, "POSTGRES_DSN is not set")

	_, err = runApp(t, "identity", "passwd", "--password", "pw")
	require.ErrorContains(t, err, "IDENTITY_ID is required")
}

func TestMigrateRequiresDSN(t *testing.T) {
	setupEnv(t)
	_, err := runApp(t, "migrate", "up")
	require.ErrorContains(t, err, "POSTGRES_DSN is not set")
}
