package domain

import "time"

const (
	MaxTagsPerImage   = 5
	MaxTagNameLength  = 25
	MaxCommentLength  = 250
	MaxDescriptionLen = 250
)

// Image is a reference to a file kept by the external media host. The store
// only holds the delivery URL and the host's opaque public id.
type Image struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	FileURL     string    `json:"file_url" gorm:"size:500"`
	PublicID    string    `json:"public_id" gorm:"size:255"`
	Description string    `json:"description" gorm:"size:250"`
	UserID      int64     `json:"user_id" gorm:"index;not null"`
	Tags        []Tag     `json:"tags" gorm:"many2many:image_tags;constraint:OnDelete:CASCADE"`
	QRCode      *QRCode   `json:"qrcode,omitempty" gorm:"foreignKey:ImageID;constraint:OnDelete:CASCADE"`
	Comments    []Comment `json:"-" gorm:"foreignKey:ImageID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Image) TableName() string { return "images" }

type Tag struct {
	ID   int64  `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:25;uniqueIndex;not null"`
}

func (Tag) TableName() string { return "tags" }

type Comment struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Content   string    `json:"content" gorm:"size:250;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
	EditedAt  time.Time `json:"edited_at"`
	UserID    int64     `json:"user_id" gorm:"index;not null"`
	ImageID   int64     `json:"image_id" gorm:"index;not null"`
}

func (Comment) TableName() string { return "comments" }

// QRCode is the derived asset cached for an image. ImageID is unique: at most
// one row exists per image.
type QRCode struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	URL       string    `json:"url" gorm:"size:500;not null"`
	PublicID  string    `json:"public_id" gorm:"size:255"`
	ImageID   int64     `json:"image_id" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (QRCode) TableName() string { return "qr_codes" }
