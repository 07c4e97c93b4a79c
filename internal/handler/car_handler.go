package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/openfleet/service-rental/internal/application"
	"github.com/openfleet/service-rental/internal/auth"
	"github.com/openfleet/service-rental/internal/middleware"
	"github.com/openfleet/service-rental/internal/response"
)

// CarHandler handles HTTP requests for fleet management.
type CarHandler struct {
	service *application.CarService
}

// NewCarHandler creates a new CarHandler.
func NewCarHandler(service *application.CarService) *CarHandler {
	return &CarHandler{service: service}
}

// RegisterRoutes registers car routes. Reads are public, mutations require
// an admin token.
func (h *CarHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	cars := r.Group("/api/v1/cars")
	{
		cars.GET("", h.ListCars)
		cars.GET("/:id", h.GetCar)
	}

	admin := r.Group("/api/v1/cars")
	admin.Use(middleware.AuthMiddleware(jwtManager), middleware.RequireRole("admin"))
	{
		admin.POST("", h.CreateCar)
		admin.PUT("/:id", h.UpdateCar)
		admin.DELETE("/:id", h.DeleteCar)
		admin.POST("/:id/repair", h.StartRepair)
		admin.DELETE("/:id/repair", h.CompleteRepair)
	}
}

// ListCars handles GET /api/v1/cars.
func (h *CarHandler) ListCars(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.service.ListCars(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Page, result.Limit, result.Total)
}

// GetCar handles GET /api/v1/cars/:id.
func (h *CarHandler) GetCar(c *gin.Context) {
	id, ok := parseID(c, "invalid car ID")
	if !ok {
		return
	}

	result, err := h.service.GetCar(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CreateCar handles POST /api/v1/cars.
func (h *CarHandler) CreateCar(c *gin.Context) {
	var req application.CarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateCar(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateCar handles PUT /api/v1/cars/:id.
func (h *CarHandler) UpdateCar(c *gin.Context) {
	id, ok := parseID(c, "invalid car ID")
	if !ok {
		return
	}

	var req application.CarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateCar(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteCar handles DELETE /api/v1/cars/:id.
func (h *CarHandler) DeleteCar(c *gin.Context) {
	id, ok := parseID(c, "invalid car ID")
	if !ok {
		return
	}

	if err := h.service.DeleteCar(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// StartRepair handles POST /api/v1/cars/:id/repair.
func (h *CarHandler) StartRepair(c *gin.Context) {
	id, ok := parseID(c, "invalid car ID")
	if !ok {
		return
	}

	if err := h.service.StartRepair(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"car_id": id, "status": "under_repair"})
}

// CompleteRepair handles DELETE /api/v1/cars/:id/repair.
func (h *CarHandler) CompleteRepair(c *gin.Context) {
	id, ok := parseID(c, "invalid car ID")
	if !ok {
		return
	}

	if err := h.service.CompleteRepair(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.service.GetCar(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
