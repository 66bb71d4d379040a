package service_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/piercey/auth-service/internal/auth"
	"github.com/piercey/auth-service/internal/config"
	"github.com/piercey/auth-service/internal/domain"
	"github.com/piercey/auth-service/internal/events"
	"github.com/piercey/auth-service/internal/repository"
	"github.com/piercey/auth-service/internal/service"
	"github.com/piercey/auth-service/internal/session"
	apperrors "github.com/piercey/auth-service/pkg/util/errorutil"
)

const (
	adminID  = "0191c825-3a39-706e-abef-17b7ca1027f5"
	userID   = "0191c825-3a39-75d2-a90f-8e9bbde70698"
	otherID  = "0191c825-3a39-7869-8b36-27827431f6e2"
	adminRID = "0192204c-e839-7d0a-95da-2565baa55a15"
	userRID  = "0192204c-e839-7f74-8ed8-432e89e25763"
)

var baseTime = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeRegistry struct {
	byUsername map[string][]domain.Identity
}

func (f *fakeRegistry) FindByUsername(_ context.Context, username string) ([]domain.Identity, error) {
	return f.byUsername[strings.ToLower(username)], nil
}

type fakeProvider struct {
	digests map[string]string
	// vouchFor, when set, is returned instead of the authenticated identity.
	vouchFor string
	err      error
}

func (f *fakeProvider) Authenticate(_ context.Context, identity, passwordDigest string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if want, ok := f.digests[identity]; !ok || want != passwordDigest {
		return "", apperrors.NewUnauthorized("invalid credentials")
	}
	if f.vouchFor != "" {
		return f.vouchFor, nil
	}
	return identity, nil
}

func (f *fakeProvider) AuthenticateRefresh(_ context.Context, refreshToken string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.vouchFor != "" {
		return f.vouchFor, nil
	}
	return auth.SubjectFromToken(refreshToken), nil
}

type fakeRoles struct {
	assocs map[string][]domain.RoleAssociation
	roles  map[string]domain.Role
}

func (f *fakeRoles) FindRoleAssociationsByIdentity(_ context.Context, identity string) ([]domain.RoleAssociation, error) {
	return f.assocs[identity], nil
}

func (f *fakeRoles) FindRole(_ context.Context, roleID string) (*domain.Role, error) {
	role, ok := f.roles[roleID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &role, nil
}

func fullPermission(resource string) domain.Permission {
	return domain.Permission{Resource: resource, Actions: domain.AllActions}
}

type testEnv struct {
	svc      *service.TokenService
	mr       *miniredis.Miniredis
	store    *session.RedisStore
	clock    *fakeClock
	provider *fakeProvider
	roles    *fakeRoles
	logs     *observer.ObservedLogs

	mu     sync.Mutex
	events []events.Event
}

func (e *testEnv) published(eventType events.EventType) []events.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []events.Event
	for _, ev := range e.events {
		if ev.Type == eventType {
			out = append(out, ev)
		}
	}
	return out
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)

	env := &testEnv{
		mr:    mr,
		store: session.NewRedisStore(client, "auth-token", 10*time.Minute),
		clock: &fakeClock{now: baseTime},
		provider: &fakeProvider{digests: map[string]string{
			adminID: auth.CredentialDigest("admin-pass"),
			userID:  auth.CredentialDigest("user-pass"),
			otherID: auth.CredentialDigest("other-pass"),
		}},
		roles: &fakeRoles{
			assocs: map[string][]domain.RoleAssociation{
				adminID: {{ID: "a1", IdentityID: adminID, RoleID: adminRID}},
				userID: {
					{ID: "a2", IdentityID: userID, RoleID: "0192204c-0000-0000-0000-000000000000"},
					{ID: "a3", IdentityID: userID, RoleID: userRID},
				},
			},
			roles: map[string]domain.Role{
				adminRID: {ID: adminRID, Name: "Admin", Permissions: []domain.Permission{
					fullPermission("Users"), fullPermission("Data"), fullPermission("Documents"),
				}},
				userRID: {ID: userRID, Name: "Normal User", Permissions: []domain.Permission{
					fullPermission("Data"), fullPermission("Documents"),
				}},
			},
		},
		logs: logs,
	}

	registry := &fakeRegistry{byUsername: map[string][]domain.Identity{
		"admin":    {{ID: adminID, Username: "admin", Active: true}},
		"gpiercey": {{ID: userID, Username: "gpiercey", Active: true}},
		"jdoe":     {{ID: otherID, Username: "jdoe", Active: true}},
		"twin":     {{ID: adminID, Username: "twin"}, {ID: userID, Username: "twin"}},
		"blank":    {{ID: "", Username: "blank"}},
	}}

	dispatcher := events.NewInMemoryDispatcher(logger)
	for _, typ := range []events.EventType{
		events.EventSessionIssued, events.EventSessionRefreshed, events.EventLoggedOut,
		events.EventSessionRevoked, events.EventValidationFailed,
	} {
		dispatcher.Subscribe(typ, func(_ context.Context, ev events.Event) error {
			env.mu.Lock()
			defer env.mu.Unlock()
			env.events = append(env.events, ev)
			return nil
		})
	}

	cfg := config.AuthConfig{
		TokenSecret:          "jn&=S;z5s)XE9Pg<pNu(!M+Gmd}qT42tw",
		TokenIssuer:          "auth-service",
		TokenLifespanMinutes: 120,
		SessionTTLMinutes:    10,
		RevokeResource:       "Users",
	}
	env.svc = service.NewTokenService(cfg, service.TokenDependencies{
		Registry:   registry,
		Provider:   env.provider,
		Roles:      env.roles,
		Sessions:   env.store,
		Dispatcher: dispatcher,
		Logger:     logger,
		Clock:      env.clock.Now,
	})
	return env
}

func (e *testEnv) login(t *testing.T, username, password string) *domain.TokenPair {
	t.Helper()
	pair, err := e.svc.AcquireTokens(context.Background(), service.TokenRequest{Username: username, Password: password})
	require.NoError(t, err)
	return pair
}
