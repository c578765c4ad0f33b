package http

import (
	"errors"
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/cancellation"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// renderError maps domain and application errors to HTTP status codes and
// writes the JSON error body.
func renderError(ctx echo.Context, err error) error {
	status := statusFor(err)
	return ctx.JSON(status, errorResponse{
		Code:    status,
		Message: err.Error(),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound),
		errors.Is(err, commands.ErrOrderNotFound),
		errors.Is(err, commands.ErrPartnerNotFound),
		errors.Is(err, commands.ErrDeliveryNotFound),
		errors.Is(err, commands.ErrRequestNotFound):
		return http.StatusNotFound

	case errors.Is(err, commands.ErrDeliveryAlreadyAssigned),
		errors.Is(err, errs.ErrVersionConflict),
		errors.Is(err, cancellation.ErrAlreadyResolved),
		errors.Is(err, delivery.ErrInvalidTransition):
		return http.StatusConflict

	case errors.Is(err, delivery.ErrNotOffered):
		return http.StatusForbidden

	case errors.Is(err, delivery.ErrInvalidOtp):
		return http.StatusUnprocessableEntity

	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, delivery.ErrReasonTooShort),
		errors.Is(err, order.ErrOrderNotPacked),
		errors.Is(err, services.ErrPartnerUnavailable),
		errors.Is(err, services.ErrNoHubInRange):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}
