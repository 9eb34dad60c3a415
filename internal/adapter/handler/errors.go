package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/srgjo27/enterprise_booking/internal/core/domain"
	"github.com/srgjo27/enterprise_booking/internal/core/ports"
	"github.com/srgjo27/enterprise_booking/internal/core/services"
)

func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrBookingNotFound),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrPickupCodeNotFound),
		errors.Is(err, domain.ErrNotificationNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrBookingNotEditable),
		errors.Is(err, ports.ErrStatusConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidProductID),
		errors.Is(err, services.ErrInvalidBookingID):
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

func writeError(c echo.Context, logger *slog.Logger, err error) error {
	code := statusOf(err)
	if code == http.StatusInternalServerError {
		logger.Error("request failed", "method", c.Request().Method, "path", c.Path(), "err", err)
		return c.JSON(code, echo.Map{"error": "internal server error"})
	}

	return c.JSON(code, echo.Map{"error": err.Error()})
}
