package auth

import (
	"context"
	"log"

	"photoshare/internal/domain"
	"photoshare/internal/pkg/jwt"
	"photoshare/internal/repository"
)

// UserRepository — only the methods the auth service uses
type UserRepository interface {
	Register(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
	Update(ctx context.Context, id int64, upd repository.UserUpdate) (*domain.User, error)
}

type TokenIssuer interface {
	GenerateToken(userID int64, role string) (string, error)
	GenerateRefreshToken(userID int64, role string) (string, error)
	GenerateEmailToken(email string) (string, error)
	ValidateScoped(token string, scope jwt.Scope) (*jwt.Claims, error)
}

// Mailer delivers the email confirmation token.
type Mailer interface {
	SendConfirmation(ctx context.Context, email, username, token string) error
}

// LogMailer writes the confirmation token to the log instead of sending mail.
type LogMailer struct {
	BaseURL string
}

func (m LogMailer) SendConfirmation(_ context.Context, email, username, token string) error {
	log.Printf("[DEV-EMAIL] confirm email=%s username=%s url=%s/api/v1/auth/confirm/%s", email, username, m.BaseURL, token)
	return nil
}
