package images

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"photoshare/internal/middleware"
	"photoshare/internal/pkg/access"
	"photoshare/internal/pkg/request"
	"photoshare/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterProtectedRoutes mounts the image routes. limit throttles upload
// and single-image reads.
func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup, limit gin.HandlerFunc) {
	g := protected.Group("/images")
	{
		g.POST("", middleware.RequireRoles(access.Members), limit, h.Create)
		g.GET("", h.List)
		g.GET("/:id", limit, h.Get)
		g.PUT("/:id", h.Update)
		g.DELETE("/:id", h.Delete)
	}
}

// Create godoc
// @Summary Upload an image
// @Tags Images
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image (jpeg, png, gif, webp; max 10 MiB)"
// @Param description formData string false "Description (max 250)"
// @Param tags formData []string false "Up to 5 tags"
// @Success 201 {object} map[string]interface{}
// @Failure 400,401,403,502 {object} map[string]interface{}
// @Router /images [post]
func (h *Handler) Create(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "no file provided")
		return
	}
	if fileHeader.Size > MaxUploadSize {
		response.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", ErrFileTooLarge.Error())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "cannot read file")
		return
	}
	defer file.Close()

	img, err := h.service.Create(c.Request.Context(), middleware.Principal(c), CreateInput{
		Description: c.PostForm("description"),
		Tags:        formTags(c),
		File:        file,
		Filename:    fileHeader.Filename,
		Size:        fileHeader.Size,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, img)
}

// List godoc
// @Summary List images
// @Tags Images
// @Produce json
// @Security BearerAuth
// @Param tag query string false "Only images carrying this tag"
// @Param user_id query int false "Only images uploaded by this user"
// @Param skip query int false "Offset"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {object} map[string]interface{}
// @Router /images [get]
func (h *Handler) List(c *gin.Context) {
	owner, ok := request.OptionalID(c, "user_id")
	if !ok {
		return
	}
	list, err := h.service.List(c.Request.Context(), c.Query("tag"), owner, request.Page(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, list)
}

// Get godoc
// @Summary Get an image with its tags and QR code
// @Tags Images
// @Produce json
// @Security BearerAuth
// @Param id path int true "Image ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /images/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	img, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, img)
}

// Update godoc
// @Summary Update description and/or tags
// @Tags Images
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Image ID"
// @Param request body UpdateRequest true "Fields to change"
// @Success 200 {object} map[string]interface{}
// @Failure 400,403,404 {object} map[string]interface{}
// @Router /images/{id} [put]
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

	img, err := h.service.Update(c.Request.Context(), middleware.Principal(c), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, img)
}

// Delete godoc
// @Summary Delete an image
// @Description Owner, moderator or admin. Removes the QR code, comments and tag links too.
// @Tags Images
// @Produce json
// @Security BearerAuth
// @Param id path int true "Image ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403,404 {object} map[string]interface{}
// @Router /images/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	img, err := h.service.Delete(c.Request.Context(), middleware.Principal(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, img)
}

// formTags accepts repeated "tags" fields, comma-separated values, or both.
func formTags(c *gin.Context) []string {
	var out []string
	for _, v := range c.PostFormArray("tags") {
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				out = append(out, t)
			}
		}
	}
	return out
}
