package media

import (
	"context"
	"fmt"

	"photoshare/internal/config"
)

// New builds the host selected by MEDIA_DRIVER.
func New(ctx context.Context, cfg *config.Config) (Host, error) {
	switch cfg.MediaDriver {
	case config.MediaCloudinary:
		return NewCloudinaryHost(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
	case config.MediaS3:
		return NewS3Host(ctx, S3Options{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			PublicURL:       cfg.S3.PublicURL,
		})
	case config.MediaDisk:
		return NewDiskHost(cfg.Disk.UploadDir, cfg.Disk.PublicBase), nil
	default:
		return nil, fmt.Errorf("unknown media driver %q", cfg.MediaDriver)
	}
}
