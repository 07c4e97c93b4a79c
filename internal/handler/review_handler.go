package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/openfleet/service-rental/internal/application"
	"github.com/openfleet/service-rental/internal/response"
)

// ReviewHandler handles HTTP requests for customer reviews.
type ReviewHandler struct {
	service *application.ReviewService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(service *application.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// RegisterRoutes registers all review routes on the given router group.
func (h *ReviewHandler) RegisterRoutes(r *gin.RouterGroup) {
	reviews := r.Group("/api/v1/reviews")
	{
		reviews.POST("", h.CreateReview)
		reviews.GET("", h.ListReviews)
		reviews.GET("/:id", h.GetReview)
		reviews.PUT("/:id", h.UpdateReview)
		reviews.DELETE("/:id", h.DeleteReview)
	}
}

// CreateReview handles POST /api/v1/reviews.
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var req application.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateReview(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListReviews handles GET /api/v1/reviews.
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.service.ListReviews(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Page, result.Limit, result.Total)
}

// GetReview handles GET /api/v1/reviews/:id.
func (h *ReviewHandler) GetReview(c *gin.Context) {
	id, ok := parseID(c, "invalid review ID")
	if !ok {
		return
	}

	result, err := h.service.GetReview(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateReview handles PUT /api/v1/reviews/:id.
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	id, ok := parseID(c, "invalid review ID")
	if !ok {
		return
	}

	var req application.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateReview(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteReview handles DELETE /api/v1/reviews/:id.
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	id, ok := parseID(c, "invalid review ID")
	if !ok {
		return
	}

	if err := h.service.DeleteReview(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
