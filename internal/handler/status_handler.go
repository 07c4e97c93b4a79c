package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/openfleet/service-rental/internal/domain/status"
	"github.com/openfleet/service-rental/internal/response"
)

// StatusHandler exposes the status catalogs so clients can render pickers
// without hardcoding codes.
type StatusHandler struct {
	catalog *status.Catalog
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(catalog *status.Catalog) *StatusHandler {
	return &StatusHandler{catalog: catalog}
}

// RegisterRoutes registers the status catalog routes.
func (h *StatusHandler) RegisterRoutes(r *gin.RouterGroup) {
	statuses := r.Group("/api/v1/statuses")
	{
		statuses.GET("/cars", h.ListCarStatuses)
		statuses.GET("/bookings", h.ListBookingStatuses)
	}
}

// ListCarStatuses handles GET /api/v1/statuses/cars.
func (h *StatusHandler) ListCarStatuses(c *gin.Context) {
	response.Success(c, h.catalog.CarStatusTypes())
}

// ListBookingStatuses handles GET /api/v1/statuses/bookings.
func (h *StatusHandler) ListBookingStatuses(c *gin.Context) {
	response.Success(c, h.catalog.BookingStatusTypes())
}
