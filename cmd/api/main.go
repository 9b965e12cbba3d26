package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"photoshare/internal/app"
	"photoshare/internal/config"
	"photoshare/internal/database"
	"photoshare/internal/modules/auth"
	jwtsvc "photoshare/internal/pkg/jwt"
	"photoshare/internal/pkg/media"
	"photoshare/internal/pkg/qr"
	"photoshare/internal/pkg/ratelimit"
	"photoshare/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if config.IsProdLike(cfg.AppEnv) {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	ctx := context.Background()

	host, err := media.New(ctx, cfg)
	if err != nil {
		log.Fatalf("media: %v", err)
	}

	var limiter ratelimit.Limiter
	if cfg.RedisURL != "" {
		client, err := ratelimit.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer client.Close()
		limiter = ratelimit.NewRedisLimiter(client, cfg.RateLimitRequests, cfg.RateLimitWindow)
		log.Println("ratelimit: redis")
	} else {
		limiter = ratelimit.NewMemoryLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
		log.Println("ratelimit: in-memory")
	}

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL).
		WithRefreshTTL(cfg.JWTRefreshTTL).
		WithEmailTTL(cfg.EmailTokenTTL)

	deps := app.Deps{
		DB:          db,
		JWT:         j,
		Media:       host,
		Limiter:     limiter,
		QR:          qr.NewRenderer(qr.WithSize(cfg.QRSize)),
		Mailer:      auth.LogMailer{BaseURL: cfg.PublicBaseURL},
		CORSOrigins: cfg.CORSAllowedOrigins,
	}
	if disk, ok := host.(*media.DiskHost); ok {
		deps.StaticDir = disk.BaseDir()
		deps.StaticPath = cfg.Disk.PublicBase
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           app.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("listening on %s (env=%s media=%s)", cfg.HTTPAddr, cfg.AppEnv, cfg.MediaDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
