package tags

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"photoshare/internal/middleware"
	"photoshare/internal/pkg/request"
	"photoshare/internal/pkg/response"
)

type TagRequest struct {
	Name string `json:"name" binding:"required"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	g := protected.Group("/tags")
	{
		g.POST("", h.Create)
		g.GET("", h.List)
		g.GET("/:id", h.Get)
		g.PUT("/:id", h.Update)
		g.DELETE("/:id", h.Delete)
	}
}

// Create godoc
// @Summary Create a tag or return the existing one
// @Tags Tags
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TagRequest true "name (max 25)"
// @Success 200,201 {object} map[string]interface{}
// @Failure 400,403 {object} map[string]interface{}
// @Router /tags [post]
func (h *Handler) Create(c *gin.Context) {
	var req TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	tag, created, err := h.service.Create(c.Request.Context(), middleware.Principal(c), req.Name)
	if err != nil {
		response.FromError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	response.Success(c, status, tag)
}

// List godoc
// @Summary List tags
// @Tags Tags
// @Security BearerAuth
// @Param skip query int false "Offset"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {object} map[string]interface{}
// @Router /tags [get]
func (h *Handler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context(), request.Page(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, list)
}

// Get godoc
// @Summary Get a tag
// @Tags Tags
// @Security BearerAuth
// @Param id path int true "Tag ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /tags/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	tag, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, tag)
}

// Update godoc
// @Summary Rename a tag
// @Description Moderator or admin.
// @Tags Tags
// @Security BearerAuth
// @Param id path int true "Tag ID"
// @Param request body TagRequest true "new name"
// @Success 200 {object} map[string]interface{}
// @Failure 400,403,404,409 {object} map[string]interface{}
// @Router /tags/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	var req TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	tag, err := h.service.Rename(c.Request.Context(), middleware.Principal(c), id, req.Name)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, tag)
}

// Delete godoc
// @Summary Delete a tag and its image links
// @Description Moderator or admin.
// @Tags Tags
// @Security BearerAuth
// @Param id path int true "Tag ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403,404 {object} map[string]interface{}
// @Router /tags/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	tag, err := h.service.Delete(c.Request.Context(), middleware.Principal(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, tag)
}
