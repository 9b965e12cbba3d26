package qrcode

import (
	"context"
	"errors"
	"fmt"
	"log"
	"unicode/utf8"

	"github.com/google/uuid"

	"photoshare/internal/domain"
	"photoshare/internal/pkg/access"
	"photoshare/internal/pkg/media"
	"photoshare/internal/pkg/qr"
)

const MaxPreviewData = 1024

type ImageReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Image, error)
}

type CodeRepository interface {
	GetByImageID(ctx context.Context, imageID int64) (*domain.QRCode, error)
	Create(ctx context.Context, qr *domain.QRCode) error
}

type Renderer interface {
	Render(data string) (*qr.Artifact, error)
}

// Service generates QR codes that encode an image's URL. Each image gets at
// most one code; later requests return the stored row.
type Service struct {
	images   ImageReader
	codes    CodeRepository
	renderer Renderer
	host     media.Host
}

func NewService(images ImageReader, codes CodeRepository, renderer Renderer, host media.Host) *Service {
	return &Service{images: images, codes: codes, renderer: renderer, host: host}
}

// GetOrCreate returns the image's QR code, generating it on first use. The
// bool reports whether this call created the row.
//
// Two first requests may race. Both upload to the same public id and the
// unique index on image_id lets one insert win; the loser reads back the
// winner's row.
func (s *Service) GetOrCreate(ctx context.Context, principal *domain.User, imageID int64) (*domain.QRCode, bool, error) {
	if err := access.Members.Check(principal); err != nil {
		return nil, false, err
	}

	img, err := s.images.GetByID(ctx, imageID)
	if err != nil {
		return nil, false, err
	}

	existing, err := s.codes.GetByImageID(ctx, img.ID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, err
	}

	asset, err := s.renderAndUpload(ctx, img.FileURL, imagePublicID(img.ID), true)
	if err != nil {
		return nil, false, err
	}

	row := &domain.QRCode{URL: asset.URL, PublicID: asset.PublicID, ImageID: img.ID}
	if err := s.codes.Create(ctx, row); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			winner, rerr := s.codes.GetByImageID(ctx, img.ID)
			if rerr != nil {
				return nil, false, rerr
			}
			return winner, false, nil
		}
		return nil, false, err
	}
	return row, true, nil
}

// Preview renders caller-supplied data and uploads it without persisting
// anything.
func (s *Service) Preview(ctx context.Context, principal *domain.User, data string) (*media.Asset, error) {
	if err := access.Members.Check(principal); err != nil {
		return nil, err
	}
	if data == "" {
		return nil, fmt.Errorf("%w: data must not be empty", domain.ErrValidation)
	}
	if utf8.RuneCountInString(data) > MaxPreviewData {
		return nil, fmt.Errorf("%w: data is longer than %d characters", domain.ErrValidation, MaxPreviewData)
	}

	publicID := fmt.Sprintf("qrcodes/previews/%s/%s", principal.Username, uuid.New().String())
	return s.renderAndUpload(ctx, data, publicID, false)
}

// renderAndUpload writes the symbol to a temp file that is removed on every
// exit path.
func (s *Service) renderAndUpload(ctx context.Context, data, publicID string, overwrite bool) (*media.Asset, error) {
	artifact, err := s.renderer.Render(data)
	if err != nil {
		return nil, fmt.Errorf("%w: render qr: %v", domain.ErrUpstream, err)
	}
	defer artifact.Cleanup()

	asset, err := s.host.Upload(ctx, media.UploadInput{
		FilePath:    artifact.Path,
		Filename:    "qrcode.png",
		ContentType: "image/png",
		PublicID:    publicID,
		Overwrite:   overwrite,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: upload qr: %v", domain.ErrUpstream, err)
	}
	if asset == nil || asset.URL == "" {
		return nil, fmt.Errorf("%w: upload qr: empty url", domain.ErrUpstream)
	}
	log.Printf("qr_uploaded public_id=%s", asset.PublicID)
	return asset, nil
}

func imagePublicID(imageID int64) string {
	return fmt.Sprintf("qrcodes/image_%d", imageID)
}
