package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/srgjo27/enterprise_booking/internal/core/domain"
)

// CacheInvalidator drops cached reference data so the next read goes to the
// source of truth.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, productIDs ...uuid.UUID) error
}

type AdminHandler struct {
	cache  CacheInvalidator
	logger *slog.Logger
}

// NewAdminHandler accepts a nil cache when no reference cache is configured.
func NewAdminHandler(cache CacheInvalidator, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{cache: cache, logger: logger}
}

type invalidateRequest struct {
	ProductIDs []string `json:"product_ids"`
}

// InvalidateReferenceCache is called by staff after products, enterprise
// owners or the staff roster change in the account backend.
func (h *AdminHandler) InvalidateReferenceCache(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if !actor.IsStaff() {
		return writeError(c, h.logger, domain.ErrForbidden)
	}

	var req invalidateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ids := make([]uuid.UUID, 0, len(req.ProductIDs))
	for _, raw := range req.ProductIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id " + raw})
		}
		ids = append(ids, id)
	}

	if h.cache == nil {
		return c.NoContent(http.StatusNoContent)
	}

	if err := h.cache.Invalidate(c.Request().Context(), ids...); err != nil {
		return writeError(c, h.logger, err)
	}

	h.logger.Info("reference cache invalidated", "by", actor.UserID, "products", len(ids))

	return c.NoContent(http.StatusNoContent)
}
