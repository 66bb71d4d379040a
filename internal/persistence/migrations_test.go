package persistence

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(migrationFS, "migrations")
	require.NoError(t, err)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		}
	}
	require.NotEmpty(t, ups)
	require.Equal(t, ups, downs)
}

func TestSeedGrantsAdminFullUsersEntitlement(t *testing.T) {
	raw, err := fs.ReadFile(migrationFS, "migrations/000002_seed_roles.up.sql")
	require.NoError(t, err)
	require.Contains(t, string(raw), "('0192204c-e839-7d0a-95da-2565baa55a15', 'Users', '{CREATE,READ,UPDATE,DELETE}')")
}

func TestRunMigrationsRejectsBadInput(t *testing.T) {
	require.NoError(t, RunMigrations("", MigrateUp, zap.NewNop()))
	require.ErrorContains(t, RunMigrations("postgres://localhost/auth", "sideways", zap.NewNop()), "direction must be up or down")
}
