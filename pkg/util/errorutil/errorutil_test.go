package errorutil_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	apperrors "github.com/piercey/auth-service/pkg/util/errorutil"
)

func TestNewUnauthorizedReasonKeepsReason(t *testing.T) {
	reason := errors.New("token mismatch")
	err := apperrors.NewUnauthorizedReason(reason)

	require.ErrorIs(t, err, reason)
	require.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))

	de := apperrors.ToDomainError(err)
	require.Equal(t, http.StatusUnauthorized, de.HTTPStatus)
	require.Equal(t, "unauthorized", de.PublicMessage())
}

func TestToDomainError(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		require.Nil(t, apperrors.ToDomainError(nil))
	})

	t.Run("wrapped domain error", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", apperrors.NewForbidden("nope"))
		de := apperrors.ToDomainError(err)
		require.Equal(t, apperrors.CodeForbidden, de.Code)
		require.Equal(t, http.StatusForbidden, de.HTTPStatus)
	})

	t.Run("no rows", func(t *testing.T) {
		de := apperrors.ToDomainError(pgx.ErrNoRows)
		require.Equal(t, apperrors.CodeNotFound, de.Code)
	})

	t.Run("unknown error is internal", func(t *testing.T) {
		cause := errors.New("redis down")
		de := apperrors.ToDomainError(cause)
		require.Equal(t, apperrors.CodeInternal, de.Code)
		require.ErrorIs(t, de, cause)
		require.Equal(t, "internal server error", de.PublicMessage())
	})
}

func TestHasCode(t *testing.T) {
	require.True(t, apperrors.HasCode(apperrors.NewValidationError("bad", nil), apperrors.CodeValidation))
	require.False(t, apperrors.HasCode(errors.New("plain"), apperrors.CodeValidation))
}
