package users

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"photoshare/internal/domain"
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

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	g := protected.Group("/users")
	{
		g.GET("/me", h.Me)
		g.GET("", middleware.RequireRoles(access.Members), h.List)
		g.PATCH("/role", middleware.AdminOnly(), h.AssignRole)
	}
}

// Me godoc
// @Summary Current account
// @Tags Users
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /users/me [get]
func (h *Handler) Me(c *gin.Context) {
	response.Success(c, http.StatusOK, middleware.Principal(c))
}

// List godoc
// @Summary List accounts
// @Tags Users
// @Security BearerAuth
// @Param skip query int false "Offset"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {object} map[string]interface{}
// @Router /users [get]
func (h *Handler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context(), middleware.Principal(c), request.Page(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, list)
}

// AssignRole godoc
// @Summary Change an account's role
// @Description Admin only. Assigning the current role is a no-op.
// @Tags Users
// @Security BearerAuth
// @Param request body AssignRoleRequest true "email, role"
// @Success 200 {object} AssignRoleResult
// @Failure 400,403,404 {object} map[string]interface{}
// @Router /users/role [patch]
func (h *Handler) AssignRole(c *gin.Context) {
	var req AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	role, ok := domain.ParseRole(req.Role)
	if !ok {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown role")
		return
	}

	res, err := h.service.AssignRole(c.Request.Context(), middleware.Principal(c), req.Email, role)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}
