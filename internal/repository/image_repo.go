package repository

import (
	"context"
	"fmt"
	"time"

	"photoshare/internal/domain"

	"gorm.io/gorm"
)

type ImageRepository struct {
	db *gorm.DB
}

func NewImageRepository(db *gorm.DB) *ImageRepository {
	return &ImageRepository{db: db}
}

// ImageUpdate lists the mutable image fields; nil means unchanged.
type ImageUpdate struct {
	Description *string
	FileURL     *string
	TagNames    *[]string
}

type ImageFilter struct {
	Tag    string
	UserID int64
}

// Create persists img together with its tags, reusing existing tag rows.
func (r *ImageRepository) Create(ctx context.Context, img *domain.Image, tagNames []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, _, err := resolveTags(tx, tagNames)
		if err != nil {
			return err
		}
		img.Tags = tags
		img.QRCode = nil
		if err := tx.Omit("Tags.*").Create(img).Error; err != nil {
			return err
		}
		return nil
	})
}

func (r *ImageRepository) GetByID(ctx context.Context, id int64) (*domain.Image, error) {
	var img domain.Image
	err := r.db.WithContext(ctx).
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.id ASC") }).
		Preload("QRCode").
		First(&img, id).Error
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("image %d", id))
	}
	return &img, nil
}

func (r *ImageRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Image{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *ImageRepository) List(ctx context.Context, f ImageFilter, page Page) ([]domain.Image, error) {
	page = page.Normalize()

	q := r.db.WithContext(ctx).Model(&domain.Image{})
	if f.Tag != "" {
		q = q.Where("images.id IN (?)",
			r.db.Table("image_tags").
				Select("image_tags.image_id").
				Joins("JOIN tags ON tags.id = image_tags.tag_id").
				Where("tags.name = ?", f.Tag))
	}
	if f.UserID > 0 {
		q = q.Where("images.user_id = ?", f.UserID)
	}

	images := []domain.Image{}
	err := q.
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.id ASC") }).
		Preload("QRCode").
		Order("images.id ASC").
		Offset(page.Skip).
		Limit(page.Limit).
		Find(&images).Error
	return images, err
}

// Update applies upd and returns the refreshed image. Replacing the tag set
// happens in the same transaction as the column updates.
func (r *ImageRepository) Update(ctx context.Context, id int64, upd ImageUpdate) (*domain.Image, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		img := domain.Image{ID: id}
		if err := tx.Select("id").First(&img, id).Error; err != nil {
			return notFound(err, fmt.Sprintf("image %d", id))
		}

		updates := map[string]any{"updated_at": time.Now().UTC()}
		if upd.Description != nil {
			updates["description"] = *upd.Description
		}
		if upd.FileURL != nil {
			updates["file_url"] = *upd.FileURL
		}
		if err := tx.Model(&domain.Image{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}

		if upd.TagNames != nil {
			tags, _, err := resolveTags(tx, *upd.TagNames)
			if err != nil {
				return err
			}
			if err := tx.Model(&img).Association("Tags").Replace(tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes the image with its QR row, comments and tag links, and
// returns the snapshot taken before deletion.
func (r *ImageRepository) Delete(ctx context.Context, id int64) (*domain.Image, error) {
	snapshot, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("image_id = ?", id).Delete(&domain.QRCode{}).Error; err != nil {
			return err
		}
		if err := tx.Where("image_id = ?", id).Delete(&domain.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM image_tags WHERE image_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Image{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: image %d", domain.ErrNotFound, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}
