// Package app wires repositories, services and handlers into a gin engine.
package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"photoshare/internal/middleware"
	"photoshare/internal/modules/auth"
	"photoshare/internal/modules/comments"
	"photoshare/internal/modules/images"
	"photoshare/internal/modules/qrcode"
	"photoshare/internal/modules/tags"
	"photoshare/internal/modules/transform"
	"photoshare/internal/modules/users"
	jwtsvc "photoshare/internal/pkg/jwt"
	"photoshare/internal/pkg/media"
	"photoshare/internal/pkg/qr"
	"photoshare/internal/pkg/ratelimit"
	"photoshare/internal/pkg/response"
	"photoshare/internal/repository"
)

type Deps struct {
	DB      *gorm.DB
	JWT     *jwtsvc.Service
	Media   media.Host
	Limiter ratelimit.Limiter
	Mailer  auth.Mailer
	QR      *qr.Renderer

	CORSOrigins []string
	// StaticDir is served under StaticPath when set (disk media driver).
	StaticDir  string
	StaticPath string
}

// NewRouter builds the HTTP surface under /api/v1. Everything except the
// auth entry points requires a bearer token.
func NewRouter(d Deps) *gin.Engine {
	userRepo := repository.NewUserRepository(d.DB)
	imageRepo := repository.NewImageRepository(d.DB)
	tagRepo := repository.NewTagRepository(d.DB)
	commentRepo := repository.NewCommentRepository(d.DB)
	qrRepo := repository.NewQRCodeRepository(d.DB)

	renderer := d.QR
	if renderer == nil {
		renderer = qr.NewRenderer()
	}
	limiter := d.Limiter
	if limiter == nil {
		limiter = ratelimit.NewMemoryLimiter(10, time.Minute)
	}
	mailer := d.Mailer
	if mailer == nil {
		mailer = auth.LogMailer{}
	}

	authHandler := auth.NewHandler(auth.NewService(userRepo, d.JWT, mailer))
	usersHandler := users.NewHandler(users.NewService(userRepo))
	imagesHandler := images.NewHandler(images.NewService(imageRepo, d.Media))
	tagsHandler := tags.NewHandler(tags.NewService(tagRepo))
	commentsHandler := comments.NewHandler(comments.NewService(commentRepo, imageRepo))
	qrHandler := qrcode.NewHandler(qrcode.NewService(imageRepo, qrRepo, renderer, d.Media))
	transformHandler := transform.NewHandler(transform.NewService(imageRepo, d.Media))

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.CORS(d.CORSOrigins))

	r.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})
	if d.StaticDir != "" && d.StaticPath != "" {
		r.Static(d.StaticPath, d.StaticDir)
	}

	v1 := r.Group("/api/v1")
	authHandler.RegisterPublicRoutes(v1)

	protected := v1.Group("")
	protected.Use(middleware.JWTAuth(d.JWT, userRepo))
	{
		imageLimit := ratelimit.Middleware(limiter, "images")
		qrLimit := ratelimit.Middleware(limiter, "qrcode")

		authHandler.RegisterProtectedRoutes(protected)
		usersHandler.RegisterProtectedRoutes(protected)
		imagesHandler.RegisterProtectedRoutes(protected, imageLimit)
		transformHandler.RegisterProtectedRoutes(protected)
		tagsHandler.RegisterProtectedRoutes(protected)
		commentsHandler.RegisterProtectedRoutes(protected)
		qrHandler.RegisterProtectedRoutes(protected, qrLimit)
	}

	return r
}
