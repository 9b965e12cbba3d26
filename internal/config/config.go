package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultJWTSecret = "change-me-jwt-secret"

	MediaCloudinary = "cloudinary"
	MediaS3         = "s3"
	MediaDisk       = "disk"
)

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PublicURL       string
}

type DiskConfig struct {
	UploadDir  string
	PublicBase string
}

type Config struct {
	AppEnv        string
	HTTPAddr      string
	PublicBaseURL string
	DatabaseURL   string
	JWTSecret     string
	JWTAccessTTL  time.Duration
	JWTRefreshTTL time.Duration
	EmailTokenTTL time.Duration

	MediaDriver string
	Cloudinary  CloudinaryConfig
	S3          S3Config
	Disk        DiskConfig

	RedisURL          string
	RateLimitRequests int
	RateLimitWindow   time.Duration

	CORSAllowedOrigins []string

	// QRSize is the edge length in pixels of rendered QR codes.
	QRSize int
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Println("config: loaded .env")
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return FromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("PUBLIC_BASE_URL", "http://localhost:8080")
	v.SetDefault("DATABASE_URL", "photoshare.db")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_ACCESS_TTL", "15m")
	v.SetDefault("JWT_REFRESH_TTL", "168h")
	v.SetDefault("EMAIL_TOKEN_TTL", "168h")
	v.SetDefault("MEDIA_DRIVER", MediaDisk)
	v.SetDefault("S3_REGION", "auto")
	v.SetDefault("DISK_UPLOAD_DIR", "./uploads")
	v.SetDefault("DISK_PUBLIC_BASE", "/static/uploads")
	v.SetDefault("RATE_LIMIT_REQUESTS", 10)
	v.SetDefault("RATE_LIMIT_WINDOW", "1m")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("QR_SIZE", 256)
}

// FromViper builds and validates a Config from an already populated viper
// instance. Tests use it with v.Set.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppEnv:        strings.ToLower(strings.TrimSpace(v.GetString("APP_ENV"))),
		HTTPAddr:      strings.TrimSpace(v.GetString("HTTP_ADDR")),
		PublicBaseURL: strings.TrimRight(strings.TrimSpace(v.GetString("PUBLIC_BASE_URL")), "/"),
		DatabaseURL:   strings.TrimSpace(v.GetString("DATABASE_URL")),
		JWTSecret:     strings.TrimSpace(v.GetString("JWT_SECRET")),
		MediaDriver:   strings.ToLower(strings.TrimSpace(v.GetString("MEDIA_DRIVER"))),
		Cloudinary: CloudinaryConfig{
			CloudName: v.GetString("CLOUDINARY_NAME"),
			APIKey:    v.GetString("CLOUDINARY_API_KEY"),
			APISecret: v.GetString("CLOUDINARY_API_SECRET"),
		},
		S3: S3Config{
			Bucket:          v.GetString("S3_BUCKET"),
			Region:          v.GetString("S3_REGION"),
			Endpoint:        v.GetString("S3_ENDPOINT"),
			AccessKeyID:     v.GetString("S3_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("S3_SECRET_ACCESS_KEY"),
			PublicURL:       v.GetString("S3_PUBLIC_URL"),
		},
		Disk: DiskConfig{
			UploadDir:  v.GetString("DISK_UPLOAD_DIR"),
			PublicBase: v.GetString("DISK_PUBLIC_BASE"),
		},
		RedisURL:          strings.TrimSpace(v.GetString("REDIS_URL")),
		RateLimitRequests: v.GetInt("RATE_LIMIT_REQUESTS"),
		QRSize:            v.GetInt("QR_SIZE"),
	}

	var err error
	if cfg.JWTAccessTTL, err = parseDuration(v, "JWT_ACCESS_TTL"); err != nil {
		return nil, err
	}
	if cfg.JWTRefreshTTL, err = parseDuration(v, "JWT_REFRESH_TTL"); err != nil {
		return nil, err
	}
	if cfg.EmailTokenTTL, err = parseDuration(v, "EMAIL_TOKEN_TTL"); err != nil {
		return nil, err
	}
	if cfg.RateLimitWindow, err = parseDuration(v, "RATE_LIMIT_WINDOW"); err != nil {
		return nil, err
	}

	for _, o := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.JWTAccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.JWTRefreshTTL <= 0 {
		return fmt.Errorf("JWT_REFRESH_TTL must be > 0")
	}
	if cfg.EmailTokenTTL <= 0 {
		return fmt.Errorf("EMAIL_TOKEN_TTL must be > 0")
	}
	if cfg.RateLimitRequests <= 0 || cfg.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be > 0")
	}
	if cfg.QRSize < 64 || cfg.QRSize > 2048 {
		return fmt.Errorf("QR_SIZE must be between 64 and 2048")
	}

	switch cfg.MediaDriver {
	case MediaCloudinary:
		if cfg.Cloudinary.CloudName == "" || cfg.Cloudinary.APIKey == "" || cfg.Cloudinary.APISecret == "" {
			return fmt.Errorf("CLOUDINARY_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required for MEDIA_DRIVER=cloudinary")
		}
	case MediaS3:
		if cfg.S3.Bucket == "" || cfg.S3.PublicURL == "" {
			return fmt.Errorf("S3_BUCKET and S3_PUBLIC_URL are required for MEDIA_DRIVER=s3")
		}
	case MediaDisk:
		if cfg.Disk.UploadDir == "" {
			return fmt.Errorf("DISK_UPLOAD_DIR must not be empty")
		}
	default:
		return fmt.Errorf("MEDIA_DRIVER must be one of: cloudinary, s3, disk")
	}

	if IsProdLike(cfg.AppEnv) {
		if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if cfg.MediaDriver == MediaDisk {
			return fmt.Errorf("in prod/release MEDIA_DRIVER=disk is not allowed")
		}
	}

	return nil
}

func IsProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func parseDuration(v *viper.Viper, name string) (time.Duration, error) {
	value := strings.TrimSpace(v.GetString(name))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}
