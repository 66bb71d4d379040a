package observability

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()

	m.RecordTokensIssued("password")
	m.RecordTokensIssued("password")
	m.RecordTokensIssued("refresh_token")
	m.RecordValidationFailure("token_mismatch")
	m.RecordSessionEvicted("logout")
	m.RecordRequest("/api/oauth/token", "POST", 200, 15*time.Millisecond)
	m.RecordError("/api/oauth/token", "POST", "UNAUTHORIZED")

	require.Equal(t, 2.0, testutil.ToFloat64(m.tokensIssued.WithLabelValues("password")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.tokensIssued.WithLabelValues("refresh_token")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.validationFailures.WithLabelValues("token_mismatch")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.sessionsEvicted.WithLabelValues("logout")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/api/oauth/token", "POST", "200")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues("/api/oauth/token", "POST", "UNAUTHORIZED")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.RecordTokensIssued("password")
		m.RecordValidationFailure("expired")
		m.RecordSessionEvicted("revoke")
		m.RecordRequest("/", "GET", 200, time.Millisecond)
		m.RecordError("/", "GET", "X")
		m.ObserveOperation("validate", "ok", time.Millisecond)
	})
	require.Nil(t, m.Registry())
}

func TestMetricsHandlerExposesCollectors(t *testing.T) {
	m := NewMetrics()
	m.RecordTokensIssued("password")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `auth_token_pairs_issued_total{grant="password"} 1`)
}

func TestTrackRecordsOutcome(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)
	m := NewMetrics()

	func() (err error) {
		defer Track(logger, m, "logout")(&err)
		return errors.New("boom")
	}()
	func() (err error) {
		defer Track(logger, m, "logout")(&err)
		return nil
	}()

	require.Equal(t, 2, testutil.CollectAndCount(m.operations))
	entries := logs.FilterMessage("operation finished").All()
	require.Len(t, entries, 2)
	require.Equal(t, "error", entries[0].ContextMap()["outcome"])
	require.Equal(t, "ok", entries[1].ContextMap()["outcome"])
}
