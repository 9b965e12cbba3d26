package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"photoshare/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	Username     string    `gorm:"column:username;size:50;uniqueIndex;not null"`
	Email        string    `gorm:"column:email;size:250;uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password_hash;size:255;not null"`
	AvatarURL    *string   `gorm:"column:avatar_url;size:255"`
	RefreshToken *string   `gorm:"column:refresh_token;size:512"`
	Confirmed    bool      `gorm:"column:confirmed;not null;default:false"`
	Role         string    `gorm:"column:role;size:20;not null;default:user"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`

	// Only declared so migrations create the users foreign keys.
	Images   []domain.Image   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Comments []domain.Comment `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (userModel) TableName() string { return "users" }

// UserUpdate lists the mutable user fields; nil means unchanged. An empty
// RefreshToken clears the stored token.
type UserUpdate struct {
	RefreshToken *string
	Confirmed    *bool
	Role         *domain.UserRole
	AvatarURL    *string
}

func toDomainUser(m userModel) *domain.User {
	var avatar, refresh string
	if m.AvatarURL != nil {
		avatar = *m.AvatarURL
	}
	if m.RefreshToken != nil {
		refresh = *m.RefreshToken
	}

	return &domain.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		AvatarURL:    avatar,
		RefreshToken: refresh,
		Confirmed:    m.Confirmed,
		Role:         domain.UserRole(m.Role),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toUserModel(u *domain.User) userModel {
	email := strings.TrimSpace(strings.ToLower(u.Email))

	var avatar, refresh *string
	if u.AvatarURL != "" {
		v := u.AvatarURL
		avatar = &v
	}
	if u.RefreshToken != "" {
		v := u.RefreshToken
		refresh = &v
	}
	role := u.Role
	if role == "" {
		role = domain.RoleUser
	}

	return userModel{
		ID:           u.ID,
		Username:     strings.TrimSpace(u.Username),
		Email:        email,
		PasswordHash: u.PasswordHash,
		AvatarURL:    avatar,
		RefreshToken: refresh,
		Confirmed:    u.Confirmed,
		Role:         string(role),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		if IsUniqueViolation(tx.Error) {
			return fmt.Errorf("%w: account already exists", domain.ErrConflict)
		}
		return tx.Error
	}
	*u = *toDomainUser(m)
	return nil
}

// Register inserts u and promotes it to admin when no other account exists.
// The count and the insert share a transaction; on Postgres the users table
// is locked for its duration so concurrent registrations serialize.
func (r *UserRepository) Register(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec("LOCK TABLE users IN SHARE ROW EXCLUSIVE MODE").Error; err != nil {
				return err
			}
		}
		var count int64
		if err := tx.Model(&userModel{}).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			m.Role = string(domain.RoleAdmin)
		}
		return tx.Create(&m).Error
	})
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: account already exists", domain.ErrConflict)
		}
		return err
	}
	*u = *toDomainUser(m)
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&m)
	if tx.Error != nil {
		return nil, notFound(tx.Error, "user")
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, notFound(tx.Error, "user")
	}
	return toDomainUser(m), nil
}

// ExistsByEmailOrUsername is checked before signup; the unique indexes still
// guard the insert.
func (r *UserRepository) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("LOWER(email) = ? OR username = ?", strings.ToLower(strings.TrimSpace(email)), strings.TrimSpace(username)).
		Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) List(ctx context.Context, page Page) ([]domain.User, error) {
	page = page.Normalize()

	var rows []userModel
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Offset(page.Skip).
		Limit(page.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.User, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainUser(m))
	}
	return out, nil
}

// Update applies the non-nil fields of upd and returns the refreshed row.
func (r *UserRepository) Update(ctx context.Context, id int64, upd UserUpdate) (*domain.User, error) {
	updates := map[string]any{}
	if upd.RefreshToken != nil {
		if *upd.RefreshToken == "" {
			updates["refresh_token"] = nil
		} else {
			updates["refresh_token"] = *upd.RefreshToken
		}
	}
	if upd.Confirmed != nil {
		updates["confirmed"] = *upd.Confirmed
	}
	if upd.Role != nil {
		updates["role"] = string(*upd.Role)
	}
	if upd.AvatarURL != nil {
		updates["avatar_url"] = *upd.AvatarURL
	}
	if len(updates) == 0 {
		return r.GetByID(ctx, id)
	}
	updates["updated_at"] = time.Now().UTC()

	tx := r.db.WithContext(ctx).Model(&userModel{}).Where("id = ?", id).Updates(updates)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: user %d", domain.ErrNotFound, id)
	}
	return r.GetByID(ctx, id)
}

// ClearRefreshTokens revokes stored refresh tokens, for one email or for
// everyone when email is empty.
func (r *UserRepository) ClearRefreshTokens(ctx context.Context, email string) (int64, error) {
	q := r.db.WithContext(ctx).Model(&userModel{}).Where("refresh_token IS NOT NULL")
	if email != "" {
		q = q.Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email)))
	}
	tx := q.Update("refresh_token", nil)
	return tx.RowsAffected, tx.Error
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, what)
	}
	return err
}
