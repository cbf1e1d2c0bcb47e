package apierror

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-server/internal/apperrors"
)

func TestFromService(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"unauthorized", apperrors.ErrUnauthorized, http.StatusUnauthorized},
		{"not found", apperrors.NotFound("account"), http.StatusNotFound},
		{"validation", apperrors.Validation("amount", "must be greater than zero"), http.StatusBadRequest},
		{"conflict", apperrors.Conflict(apperrors.Storage("commit", errors.New("serialization"))), http.StatusConflict},
		{"storage", apperrors.Storage("insert", errors.New("boom")), http.StatusInternalServerError},
		{"untyped", errors.New("boom"), http.StatusInternalServerError},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FromService(tt.err, "failed")
			var statusErr huma.StatusError
			require.True(t, errors.As(err, &statusErr))
			assert.Equal(t, tt.status, statusErr.GetStatus())
		})
	}

	assert.NoError(t, FromService(nil, "failed"))
}

func TestFromService_ValidationField(t *testing.T) {
	err := FromService(apperrors.Validation("amount", "must be greater than zero"), "failed")

	var model *huma.ErrorModel
	require.True(t, errors.As(err, &model))
	require.Len(t, model.Errors, 1)
	assert.Equal(t, "body.amount", model.Errors[0].Location)
	assert.Equal(t, "must be greater than zero", model.Errors[0].Message)
}
