package repository

import (
	"context"
	"fmt"

	"photoshare/internal/domain"

	"gorm.io/gorm"
)

type QRCodeRepository struct {
	db *gorm.DB
}

func NewQRCodeRepository(db *gorm.DB) *QRCodeRepository {
	return &QRCodeRepository{db: db}
}

func (r *QRCodeRepository) GetByImageID(ctx context.Context, imageID int64) (*domain.QRCode, error) {
	var qr domain.QRCode
	if err := r.db.WithContext(ctx).Where("image_id = ?", imageID).First(&qr).Error; err != nil {
		return nil, notFound(err, fmt.Sprintf("qr code for image %d", imageID))
	}
	return &qr, nil
}

// Create inserts qr. Losing the race on the image_id unique index yields
// domain.ErrConflict so the caller can read back the winner.
func (r *QRCodeRepository) Create(ctx context.Context, qr *domain.QRCode) error {
	if err := r.db.WithContext(ctx).Create(qr).Error; err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: qr code for image %d already exists", domain.ErrConflict, qr.ImageID)
		}
		return err
	}
	return nil
}

func (r *QRCodeRepository) CountByImageID(ctx context.Context, imageID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.QRCode{}).Where("image_id = ?", imageID).Count(&n).Error
	return n, err
}
