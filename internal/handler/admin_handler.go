package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/openfleet/service-rental/internal/application"
	"github.com/openfleet/service-rental/internal/auth"
	"github.com/openfleet/service-rental/internal/middleware"
	"github.com/openfleet/service-rental/internal/response"
)

// AdminHandler handles admin HTTP requests for operational reporting.
type AdminHandler struct {
	bookings *application.BookingService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(bookings *application.BookingService) *AdminHandler {
	return &AdminHandler{bookings: bookings}
}

// RegisterRoutes registers admin routes behind JWT auth and the admin role.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	admin := r.Group("/api/v1/admin")
	admin.Use(middleware.AuthMiddleware(jwtManager), middleware.RequireRole("admin"))
	{
		admin.GET("/stats/bookings", h.GetBookingStats)
	}
}

// GetBookingStats handles GET /api/v1/admin/stats/bookings.
func (h *AdminHandler) GetBookingStats(c *gin.Context) {
	stats, err := h.bookings.GetBookingStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}
