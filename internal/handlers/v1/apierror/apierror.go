// Package apierror maps service errors onto huma status errors.
package apierror

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-server/internal/apperrors"
)

// FromService converts err into a huma error. msg is used for server side
// failures; client errors carry the error's own message.
func FromService(err error, msg string) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, apperrors.ErrUnauthorized):
		return huma.Error401Unauthorized("unauthorized")
	case errors.Is(err, apperrors.ErrNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, apperrors.ErrValidation):
		var appErr *apperrors.Error
		if errors.As(err, &appErr) && appErr.Field != "" {
			return huma.Error400BadRequest(err.Error(), &huma.ErrorDetail{
				Message:  appErr.Detail,
				Location: "body." + appErr.Field,
			})
		}
		return huma.Error400BadRequest(err.Error())
	// Conflict wraps the last storage error, so it is matched first.
	case errors.Is(err, apperrors.ErrConflict):
		return huma.Error409Conflict("concurrent update, retry the request")
	case errors.Is(err, context.DeadlineExceeded):
		return huma.Error504GatewayTimeout(msg)
	case errors.Is(err, context.Canceled):
		return huma.Error503ServiceUnavailable(msg)
	}

	logrus.WithError(err).Error("apierror.FromService.internal")
	return huma.Error500InternalServerError(msg)
}
