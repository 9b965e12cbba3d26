package transform

import (
	"context"
	"fmt"
	"log"

	"photoshare/internal/domain"
	"photoshare/internal/pkg/access"
	"photoshare/internal/pkg/media"
	"photoshare/internal/repository"
)

type ImageRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Image, error)
	Update(ctx context.Context, id int64, upd repository.ImageUpdate) (*domain.Image, error)
}

// Service points an image's file URL at a host-side transformation of the
// original upload. Effects are always derived from the original public id,
// so applying a second effect replaces the first.
type Service struct {
	images ImageRepository
	host   media.Host
}

func NewService(images ImageRepository, host media.Host) *Service {
	return &Service{images: images, host: host}
}

func (s *Service) Apply(ctx context.Context, principal *domain.User, imageID int64, effect Effect) (*domain.Image, error) {
	img, err := s.images.GetByID(ctx, imageID)
	if err != nil {
		return nil, err
	}
	if err := access.Members.Check(principal); err != nil {
		return nil, err
	}
	if !access.CanModify(principal, img.UserID) {
		return nil, domain.ErrForbidden
	}
	if img.PublicID == "" {
		return nil, fmt.Errorf("%w: image %d has no hosted asset", domain.ErrUpstream, img.ID)
	}

	url, err := s.host.TransformURL(ctx, img.PublicID, effect.Transformation())
	if err != nil {
		return nil, fmt.Errorf("%w: transform %s: %v", domain.ErrUpstream, effect, err)
	}
	if url == "" {
		return nil, fmt.Errorf("%w: transform %s: empty url", domain.ErrUpstream, effect)
	}

	updated, err := s.images.Update(ctx, img.ID, repository.ImageUpdate{FileURL: &url})
	if err != nil {
		return nil, err
	}
	log.Printf("image_transformed image_id=%d effect=%s", img.ID, effect)
	return updated, nil
}
