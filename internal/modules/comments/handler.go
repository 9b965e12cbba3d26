package comments

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"photoshare/internal/middleware"
	"photoshare/internal/pkg/request"
	"photoshare/internal/pkg/response"
)

type CreateRequest struct {
	ImageID int64  `json:"image_id" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type UpdateRequest struct {
	Content string `json:"content" binding:"required"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	g := protected.Group("/comments")
	{
		g.POST("", h.Create)
		g.GET("/:id", h.Get)
		g.PUT("/:id", h.Update)
		g.DELETE("/:id", h.Delete)
	}
	protected.GET("/images/:id/comments", h.ListByImage)
}

// Create godoc
// @Summary Comment on an image
// @Tags Comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateRequest true "image_id, content (max 250)"
// @Success 201 {object} map[string]interface{}
// @Failure 400,403,404 {object} map[string]interface{}
// @Router /comments [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	comment, err := h.service.Create(c.Request.Context(), middleware.Principal(c), req.ImageID, req.Content)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, comment)
}

// Get godoc
// @Summary Get a comment
// @Tags Comments
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /comments/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	comment, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, comment)
}

// ListByImage godoc
// @Summary List the comments of an image
// @Tags Comments
// @Security BearerAuth
// @Param id path int true "Image ID"
// @Param skip query int false "Offset"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /images/{id}/comments [get]
func (h *Handler) ListByImage(c *gin.Context) {
	imageID, ok := request.ID(c, "id")
	if !ok {
		return
	}
	list, err := h.service.ListByImage(c.Request.Context(), imageID, request.Page(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, list)
}

// Update godoc
// @Summary Edit a comment
// @Description Owner or admin.
// @Tags Comments
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Param request body UpdateRequest true "content"
// @Success 200 {object} map[string]interface{}
// @Failure 400,403,404 {object} map[string]interface{}
// @Router /comments/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	comment, err := h.service.Update(c.Request.Context(), middleware.Principal(c), id, req.Content)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, comment)
}

// Delete godoc
// @Summary Delete a comment
// @Description Owner, moderator or admin.
// @Tags Comments
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403,404 {object} map[string]interface{}
// @Router /comments/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	comment, err := h.service.Delete(c.Request.Context(), middleware.Principal(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, comment)
}
