package media

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryHost is an explicitly constructed client; credentials live on
// the instance, never in package state.
type CloudinaryHost struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryHost(cloudName, apiKey, apiSecret string) (*CloudinaryHost, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true
	return &CloudinaryHost{cld: cld}, nil
}

func (h *CloudinaryHost) Upload(ctx context.Context, in UploadInput) (*Asset, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var file interface{} = in.Body
	if in.FilePath != "" {
		file = in.FilePath
	}

	params := uploader.UploadParams{
		PublicID:  in.PublicID,
		Overwrite: api.Bool(in.Overwrite),
	}
	resp, err := h.cld.Upload.Upload(ctx, file, params)
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary upload: %s", resp.Error.Message)
	}
	if resp.SecureURL == "" {
		return nil, errors.New("cloudinary upload: response has no secure_url")
	}

	return &Asset{URL: resp.SecureURL, PublicID: resp.PublicID}, nil
}

func (h *CloudinaryHost) TransformURL(_ context.Context, publicID, transformation string) (string, error) {
	img, err := h.cld.Image(publicID)
	if err != nil {
		return "", fmt.Errorf("cloudinary image %q: %w", publicID, err)
	}
	img.Transformation = transformation

	url, err := img.String()
	if err != nil {
		return "", fmt.Errorf("cloudinary transform %q: %w", publicID, err)
	}
	if url == "" {
		return "", fmt.Errorf("cloudinary transform %q: empty url", publicID)
	}
	return url, nil
}

func (h *CloudinaryHost) Destroy(ctx context.Context, publicID string) error {
	resp, err := h.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("cloudinary destroy %q: %w", publicID, err)
	}
	if resp.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy %q: %s", publicID, resp.Error.Message)
	}
	return nil
}
