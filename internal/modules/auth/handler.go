package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"photoshare/internal/middleware"
	"photoshare/internal/pkg/response"
)

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/signup", h.Signup)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh", h.Refresh)
		authGroup.GET("/confirm/:token", h.ConfirmEmail)
		authGroup.POST("/request-email", h.RequestEmail)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.POST("/auth/logout", h.Logout)
}

// Signup godoc
// @Summary Create an account
// @Description Creates an unconfirmed account and sends an email confirmation token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body SignupRequest true "username, email, password"
// @Success 201 {object} map[string]interface{}
// @Failure 400,409 {object} map[string]interface{}
// @Router /auth/signup [post]
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	user, err := h.service.Signup(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"user":   user,
		"detail": "User successfully created. Check your email for confirmation.",
	})
}

// Login godoc
// @Summary Log in
// @Description Exchanges email and password for an access and a refresh token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "email, password"
// @Success 200 {object} TokenResponse
// @Failure 400,401 {object} map[string]interface{}
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	tokens, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, tokens)
}

// Refresh godoc
// @Summary Rotate tokens
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "refresh_token"
// @Success 200 {object} TokenResponse
// @Failure 400,401 {object} map[string]interface{}
// @Router /auth/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	tokens, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, tokens)
}

// ConfirmEmail godoc
// @Summary Confirm an email address
// @Tags Auth
// @Produce json
// @Param token path string true "Email token"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /auth/confirm/{token} [get]
func (h *Handler) ConfirmEmail(c *gin.Context) {
	msg, err := h.service.ConfirmEmail(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": msg})
}

// RequestEmail godoc
// @Summary Re-send the confirmation email
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body RequestEmailRequest true "email"
// @Success 200 {object} map[string]interface{}
// @Router /auth/request-email [post]
func (h *Handler) RequestEmail(c *gin.Context) {
	var req RequestEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	msg, err := h.service.RequestEmail(c.Request.Context(), req.Email)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": msg})
}

// Logout godoc
// @Summary Revoke the stored refresh token
// @Tags Auth
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	principal := middleware.Principal(c)
	if principal == nil {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated")
		return
	}
	if err := h.service.Logout(c.Request.Context(), principal.ID); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "logged out"})
}
