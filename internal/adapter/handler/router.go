package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// RegisterRoutes mounts health, metrics and the authenticated /v1 API.
func RegisterRoutes(e *echo.Echo, bookings *BookingHandler, notifications *NotificationHandler, admin *AdminHandler, gatherer prometheus.Gatherer, jwtSecret string) {
	e.GET("/healthz", Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	v1 := e.Group("/v1", JWTAuth(jwtSecret))

	v1.POST("/bookings", bookings.CreateBooking)
	v1.GET("/bookings/:id", bookings.GetBooking)
	v1.PATCH("/bookings/:id/status", bookings.ChangeStatus)
	v1.PATCH("/bookings/:id/quantity", bookings.UpdateQuantity)
	v1.GET("/bookings/:id/pickup-code", bookings.GetPickupCode)

	v1.GET("/notifications", notifications.List)
	v1.POST("/notifications/:id/read", notifications.MarkRead)
	v1.DELETE("/notifications/:id", notifications.Delete)

	v1.POST("/admin/reference-cache/invalidate", admin.InvalidateReferenceCache)
}
