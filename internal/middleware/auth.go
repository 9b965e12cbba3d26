package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"photoshare/internal/domain"
	"photoshare/internal/pkg/jwt"
	"photoshare/internal/pkg/response"
)

const principalKey = "user"

// UserLoader resolves the account behind a token.
type UserLoader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// JWTAuth validates the bearer access token and loads the account it names.
// The role comes from the stored account, not the token, so role changes
// apply to tokens already issued.
func JWTAuth(jwtService *jwt.Service, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Authorization header is required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
			response.Error(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateToken(parts[1])
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Could not validate credentials")
			c.Abort()
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				log.Printf("auth_user_lookup_failed user_id=%d err=%v", claims.UserID, err)
			}
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Could not validate credentials")
			c.Abort()
			return
		}

		c.Set("user_id", user.ID)
		c.Set("role", string(user.Role))
		c.Set(principalKey, user)
		c.Next()
	}
}

// Principal returns the authenticated account, or nil outside JWTAuth.
func Principal(c *gin.Context) *domain.User {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}
