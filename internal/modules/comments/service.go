package comments

import (
	"context"
	"fmt"
	"strings"

	"photoshare/internal/domain"
	"photoshare/internal/pkg/access"
	"photoshare/internal/repository"
)

type CommentRepository interface {
	Create(ctx context.Context, c *domain.Comment) error
	GetByID(ctx context.Context, id int64) (*domain.Comment, error)
	ListByImage(ctx context.Context, imageID int64, page repository.Page) ([]domain.Comment, error)
	Update(ctx context.Context, id int64, upd repository.CommentUpdate) (*domain.Comment, error)
	Delete(ctx context.Context, id int64) (*domain.Comment, error)
}

type ImageChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type Service struct {
	comments CommentRepository
	images   ImageChecker
}

func NewService(comments CommentRepository, images ImageChecker) *Service {
	return &Service{comments: comments, images: images}
}

func (s *Service) Create(ctx context.Context, principal *domain.User, imageID int64, content string) (*domain.Comment, error) {
	if err := access.Members.Check(principal); err != nil {
		return nil, err
	}
	content, err := validContent(content)
	if err != nil {
		return nil, err
	}
	if err := s.requireImage(ctx, imageID); err != nil {
		return nil, err
	}

	c := &domain.Comment{Content: content, UserID: principal.ID, ImageID: imageID}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Comment, error) {
	return s.comments.GetByID(ctx, id)
}

func (s *Service) ListByImage(ctx context.Context, imageID int64, page repository.Page) ([]domain.Comment, error) {
	if err := s.requireImage(ctx, imageID); err != nil {
		return nil, err
	}
	return s.comments.ListByImage(ctx, imageID, page)
}

// Update edits the content and stamps edited_at. Owner or admin only.
func (s *Service) Update(ctx context.Context, principal *domain.User, id int64, content string) (*domain.Comment, error) {
	c, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanModify(principal, c.UserID) {
		return nil, domain.ErrForbidden
	}
	content, err = validContent(content)
	if err != nil {
		return nil, err
	}
	return s.comments.Update(ctx, id, repository.CommentUpdate{Content: &content})
}

// Delete is allowed for the owner, moderators and admins.
func (s *Service) Delete(ctx context.Context, principal *domain.User, id int64) (*domain.Comment, error) {
	c, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanDelete(principal, c.UserID) {
		return nil, domain.ErrForbidden
	}
	return s.comments.Delete(ctx, id)
}

func (s *Service) requireImage(ctx context.Context, imageID int64) error {
	ok, err := s.images.Exists(ctx, imageID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: image %d", domain.ErrNotFound, imageID)
	}
	return nil
}

func validContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", fmt.Errorf("%w: content must not be empty", domain.ErrValidation)
	}
	if err := domain.ValidateText("content", content, domain.MaxCommentLength); err != nil {
		return "", err
	}
	return content, nil
}
