package repository

import (
	"context"
	"fmt"
	"time"

	"photoshare/internal/domain"

	"gorm.io/gorm"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

type CommentUpdate struct {
	Content *string
}

// Create sets both timestamps to now; EditedAt starts equal to CreatedAt.
func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) error {
	now := time.Now().UTC()
	c.CreatedAt = now
	c.EditedAt = now
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	var c domain.Comment
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, notFound(err, fmt.Sprintf("comment %d", id))
	}
	return &c, nil
}

func (r *CommentRepository) ListByImage(ctx context.Context, imageID int64, page Page) ([]domain.Comment, error) {
	page = page.Normalize()
	comments := []domain.Comment{}
	err := r.db.WithContext(ctx).
		Where("image_id = ?", imageID).
		Order("id ASC").
		Offset(page.Skip).
		Limit(page.Limit).
		Find(&comments).Error
	return comments, err
}

func (r *CommentRepository) Update(ctx context.Context, id int64, upd CommentUpdate) (*domain.Comment, error) {
	if upd.Content == nil {
		return r.GetByID(ctx, id)
	}
	tx := r.db.WithContext(ctx).
		Model(&domain.Comment{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"content":   *upd.Content,
			"edited_at": time.Now().UTC(),
		})
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: comment %d", domain.ErrNotFound, id)
	}
	return r.GetByID(ctx, id)
}

func (r *CommentRepository) Delete(ctx context.Context, id int64) (*domain.Comment, error) {
	c, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Delete(&domain.Comment{}, id).Error; err != nil {
		return nil, err
	}
	return c, nil
}
