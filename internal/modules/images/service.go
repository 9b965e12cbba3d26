package images

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"photoshare/internal/domain"
	"photoshare/internal/pkg/access"
	"photoshare/internal/pkg/media"
	"photoshare/internal/repository"
)

// Service owns image metadata; the bytes live on the media host.
type Service struct {
	images ImageRepository
	host   media.Host
}

func NewService(images ImageRepository, host media.Host) *Service {
	return &Service{images: images, host: host}
}

// Create validates everything it can before the upload, then persists the
// row. If the row cannot be written the uploaded asset is removed.
func (s *Service) Create(ctx context.Context, principal *domain.User, in CreateInput) (*domain.Image, error) {
	if err := access.Members.Check(principal); err != nil {
		return nil, err
	}
	if err := domain.ValidateText("description", in.Description, domain.MaxDescriptionLen); err != nil {
		return nil, err
	}
	tags, err := domain.NormalizeTags(in.Tags)
	if err != nil {
		return nil, err
	}
	if in.File == nil || in.Size == 0 {
		return nil, ErrEmptyFile
	}
	if in.Size > MaxUploadSize {
		return nil, ErrFileTooLarge
	}
	mimeType, err := media.DetectContentType(in.File)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if !media.AllowedImageTypes[mimeType] {
		return nil, ErrInvalidMimeType
	}

	asset, err := s.host.Upload(ctx, media.UploadInput{
		Body:        in.File,
		Filename:    in.Filename,
		ContentType: mimeType,
		PublicID:    fmt.Sprintf("images/%d/%s", principal.ID, uuid.New().String()),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: upload image: %v", domain.ErrUpstream, err)
	}

	img := &domain.Image{
		FileURL:     asset.URL,
		PublicID:    asset.PublicID,
		Description: in.Description,
		UserID:      principal.ID,
	}
	if err := s.images.Create(ctx, img, tags); err != nil {
		s.destroy(ctx, asset.PublicID)
		return nil, err
	}
	return img, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Image, error) {
	return s.images.GetByID(ctx, id)
}

// List filters by tag name when tag is non-empty and by uploader when
// ownerID is non-zero.
func (s *Service) List(ctx context.Context, tag string, ownerID int64, page repository.Page) ([]domain.Image, error) {
	f := repository.ImageFilter{UserID: ownerID}
	if tag != "" {
		name, err := domain.NormalizeTagName(tag)
		if err != nil {
			return nil, err
		}
		f.Tag = name
	}
	return s.images.List(ctx, f, page)
}

// Update changes the description and/or replaces the tag set. Only the owner
// or an admin may update, and guests never.
func (s *Service) Update(ctx context.Context, principal *domain.User, id int64, req UpdateRequest) (*domain.Image, error) {
	img, err := s.images.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Members.Check(principal); err != nil {
		return nil, err
	}
	if !access.CanModify(principal, img.UserID) {
		return nil, domain.ErrForbidden
	}

	upd := repository.ImageUpdate{}
	if req.Description != nil {
		if err := domain.ValidateText("description", *req.Description, domain.MaxDescriptionLen); err != nil {
			return nil, err
		}
		upd.Description = req.Description
	}
	if req.Tags != nil {
		tags, err := domain.NormalizeTags(*req.Tags)
		if err != nil {
			return nil, err
		}
		upd.TagNames = &tags
	}
	return s.images.Update(ctx, id, upd)
}

// Delete removes the image and everything hanging off it. Remote assets are
// removed afterwards on a best-effort basis.
func (s *Service) Delete(ctx context.Context, principal *domain.User, id int64) (*domain.Image, error) {
	img, err := s.images.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Members.Check(principal); err != nil {
		return nil, err
	}
	if !access.CanDelete(principal, img.UserID) {
		return nil, domain.ErrForbidden
	}

	deleted, err := s.images.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	s.destroy(ctx, deleted.PublicID)
	if deleted.QRCode != nil {
		s.destroy(ctx, deleted.QRCode.PublicID)
	}
	return deleted, nil
}

func (s *Service) destroy(ctx context.Context, publicID string) {
	if publicID == "" {
		return
	}
	if err := s.host.Destroy(ctx, publicID); err != nil {
		log.Printf("media_destroy_failed public_id=%s err=%v", publicID, err)
	}
}
