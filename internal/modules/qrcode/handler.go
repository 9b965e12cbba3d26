package qrcode

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"photoshare/internal/middleware"
	"photoshare/internal/pkg/request"
	"photoshare/internal/pkg/response"
)

type PreviewRequest struct {
	Data string `json:"data" binding:"required"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup, limit gin.HandlerFunc) {
	protected.POST("/images/:id/qrcode", limit, h.GetOrCreate)
	protected.POST("/qrcode/preview", limit, h.Preview)
}

// GetOrCreate godoc
// @Summary Get or generate the QR code of an image
// @Description The code encodes the image URL. Generated once, then served from the store.
// @Tags QRCode
// @Produce json
// @Security BearerAuth
// @Param id path int true "Image ID"
// @Success 200,201 {object} map[string]interface{}
// @Failure 403,404,429,502 {object} map[string]interface{}
// @Router /images/{id}/qrcode [post]
func (h *Handler) GetOrCreate(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}

	code, created, err := h.service.GetOrCreate(c.Request.Context(), middleware.Principal(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	response.Success(c, status, code)
}

// Preview godoc
// @Summary Render a one-off QR code
// @Description Nothing is stored; the uploaded preview URL is returned.
// @Tags QRCode
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PreviewRequest true "data to encode"
// @Success 201 {object} map[string]interface{}
// @Failure 400,429,502 {object} map[string]interface{}
// @Router /qrcode/preview [post]
func (h *Handler) Preview(c *gin.Context) {
	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	asset, err := h.service.Preview(c.Request.Context(), middleware.Principal(c), req.Data)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"url": asset.URL, "public_id": asset.PublicID})
}
