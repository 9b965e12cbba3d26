package tags

import (
	"context"

	"photoshare/internal/domain"
	"photoshare/internal/pkg/access"
	"photoshare/internal/repository"
)

type TagRepository interface {
	FindOrCreate(ctx context.Context, name string) (*domain.Tag, bool, error)
	GetByID(ctx context.Context, id int64) (*domain.Tag, error)
	List(ctx context.Context, page repository.Page) ([]domain.Tag, error)
	Rename(ctx context.Context, id int64, name string) (*domain.Tag, error)
	Delete(ctx context.Context, id int64) (*domain.Tag, error)
}

// Service manages tags. Names are shared: creating an existing name returns
// the existing row.
type Service struct {
	tags TagRepository
}

func NewService(tags TagRepository) *Service {
	return &Service{tags: tags}
}

func (s *Service) Create(ctx context.Context, principal *domain.User, name string) (*domain.Tag, bool, error) {
	if err := access.Members.Check(principal); err != nil {
		return nil, false, err
	}
	n, err := domain.NormalizeTagName(name)
	if err != nil {
		return nil, false, err
	}
	return s.tags.FindOrCreate(ctx, n)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Tag, error) {
	return s.tags.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, page repository.Page) ([]domain.Tag, error) {
	return s.tags.List(ctx, page)
}

// Rename is for moderators and admins. Renaming onto a taken name conflicts.
func (s *Service) Rename(ctx context.Context, principal *domain.User, id int64, name string) (*domain.Tag, error) {
	if _, err := s.tags.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := access.Staff.Check(principal); err != nil {
		return nil, err
	}
	n, err := domain.NormalizeTagName(name)
	if err != nil {
		return nil, err
	}
	return s.tags.Rename(ctx, id, n)
}

func (s *Service) Delete(ctx context.Context, principal *domain.User, id int64) (*domain.Tag, error) {
	if _, err := s.tags.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := access.Staff.Check(principal); err != nil {
		return nil, err
	}
	return s.tags.Delete(ctx, id)
}
