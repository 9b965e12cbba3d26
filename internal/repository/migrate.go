package repository

import (
	"gorm.io/gorm"

	"photoshare/internal/domain"
)

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel{},
		&domain.Tag{},
		&domain.Image{},
		&domain.Comment{},
		&domain.QRCode{},
	)
}
