package transform

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"photoshare/internal/middleware"
	"photoshare/internal/pkg/request"
	"photoshare/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.PATCH("/images/:id/transform/:effect", h.Apply)
}

// Apply godoc
// @Summary Apply a canned effect to an image
// @Tags Images
// @Produce json
// @Security BearerAuth
// @Param id path int true "Image ID"
// @Param effect path string true "grayscale, auto_color, sepia, blur or brown_outline"
// @Success 200 {object} map[string]interface{}
// @Failure 400,403,404,502 {object} map[string]interface{}
// @Router /images/{id}/transform/{effect} [patch]
func (h *Handler) Apply(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	effect, err := ParseEffect(c.Param("effect"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	img, err := h.service.Apply(c.Request.Context(), middleware.Principal(c), id, effect)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, img)
}
