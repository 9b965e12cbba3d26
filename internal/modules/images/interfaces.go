package images

import (
	"context"

	"photoshare/internal/domain"
	"photoshare/internal/repository"
)

type ImageRepository interface {
	Create(ctx context.Context, img *domain.Image, tagNames []string) error
	GetByID(ctx context.Context, id int64) (*domain.Image, error)
	List(ctx context.Context, f repository.ImageFilter, page repository.Page) ([]domain.Image, error)
	Update(ctx context.Context, id int64, upd repository.ImageUpdate) (*domain.Image, error)
	Delete(ctx context.Context, id int64) (*domain.Image, error)
}
