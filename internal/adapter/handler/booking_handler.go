package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/srgjo27/enterprise_booking/internal/core/domain"
	"github.com/srgjo27/enterprise_booking/internal/core/services"
)

type BookingHandler struct {
	svc    *services.BookingService
	logger *slog.Logger
}

func NewBookingHandler(svc *services.BookingService, logger *slog.Logger) *BookingHandler {
	return &BookingHandler{svc: svc, logger: logger}
}

type changeStatusRequest struct {
	Status string `json:"status"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *BookingHandler) CreateBooking(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req services.CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json body"})
	}

	resp, err := h.svc.CreateBooking(c.Request().Context(), actor, req)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	return c.JSON(http.StatusCreated, resp)
}

func (h *BookingHandler) GetBooking(c echo.Context) error {
	actor, bookingID, err := h.target(c)
	if err != nil {
		return err
	}

	resp, err := h.svc.GetBooking(c.Request().Context(), actor, bookingID)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) ChangeStatus(c echo.Context) error {
	actor, bookingID, err := h.target(c)
	if err != nil {
		return err
	}

	var req changeStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json body"})
	}

	to, err := domain.ParseBookingStatus(req.Status)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	resp, err := h.svc.ChangeStatus(c.Request().Context(), actor, bookingID, to)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) UpdateQuantity(c echo.Context) error {
	actor, bookingID, err := h.target(c)
	if err != nil {
		return err
	}

	var req updateQuantityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json body"})
	}

	resp, err := h.svc.UpdateQuantity(c.Request().Context(), actor, bookingID, req.Quantity)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) GetPickupCode(c echo.Context) error {
	actor, bookingID, err := h.target(c)
	if err != nil {
		return err
	}

	resp, err := h.svc.GetPickupCode(c.Request().Context(), actor, bookingID)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, resp)
}

// target resolves the caller and the :id path parameter.
func (h *BookingHandler) target(c echo.Context) (domain.Actor, uuid.UUID, error) {
	actor, err := actorFrom(c)
	if err != nil {
		return domain.Actor{}, uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return domain.Actor{}, uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, services.ErrInvalidBookingID.Error())
	}

	return actor, bookingID, nil
}
