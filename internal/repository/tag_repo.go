package repository

import (
	"context"
	"fmt"
	"strings"

	"photoshare/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

// FindOrCreate returns the tag named name, inserting it when missing. A
// concurrent insert of the same name is absorbed by the unique index.
func (r *TagRepository) FindOrCreate(ctx context.Context, name string) (*domain.Tag, bool, error) {
	var tag domain.Tag
	var created bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, fresh, err := resolveTags(tx, []string{name})
		if err != nil {
			return err
		}
		tag = tags[0]
		created = fresh > 0
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &tag, created, nil
}

func (r *TagRepository) GetByID(ctx context.Context, id int64) (*domain.Tag, error) {
	var tag domain.Tag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, notFound(err, "tag")
	}
	return &tag, nil
}

func (r *TagRepository) GetByName(ctx context.Context, name string) (*domain.Tag, error) {
	var tag domain.Tag
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&tag).Error; err != nil {
		return nil, notFound(err, "tag")
	}
	return &tag, nil
}

func (r *TagRepository) List(ctx context.Context, page Page) ([]domain.Tag, error) {
	page = page.Normalize()
	tags := []domain.Tag{}
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Offset(page.Skip).
		Limit(page.Limit).
		Find(&tags).Error
	return tags, err
}

func (r *TagRepository) Rename(ctx context.Context, id int64, name string) (*domain.Tag, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Tag{}).Where("id = ?", id).Update("name", name)
	if tx.Error != nil {
		if IsUniqueViolation(tx.Error) {
			return nil, fmt.Errorf("%w: tag %q already exists", domain.ErrConflict, name)
		}
		return nil, tx.Error
	}
	return r.GetByID(ctx, id)
}

// Delete removes the tag and its image links, returning the deleted row.
func (r *TagRepository) Delete(ctx context.Context, id int64) (*domain.Tag, error) {
	var tag domain.Tag
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&tag, id).Error; err != nil {
			return notFound(err, "tag")
		}
		if err := tx.Exec("DELETE FROM image_tags WHERE tag_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Tag{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// resolveTags maps names to rows inside tx, creating the missing ones. It
// returns the tags in input order and how many were inserted.
func resolveTags(tx *gorm.DB, names []string) ([]domain.Tag, int, error) {
	out := make([]domain.Tag, 0, len(names))
	inserted := 0
	for _, name := range names {
		candidate := domain.Tag{Name: strings.TrimSpace(name)}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&candidate)
		if res.Error != nil {
			return nil, 0, res.Error
		}
		if res.RowsAffected > 0 {
			inserted++
		}

		var tag domain.Tag
		if err := tx.Where("name = ?", candidate.Name).First(&tag).Error; err != nil {
			return nil, 0, err
		}
		out = append(out, tag)
	}
	return out, inserted, nil
}
