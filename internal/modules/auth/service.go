package auth

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"photoshare/internal/domain"
	"photoshare/internal/pkg/jwt"
	"photoshare/internal/pkg/validator"
	"photoshare/internal/repository"
)

// Service contains all business logic for authentication
type Service struct {
	users  UserRepository
	tokens TokenIssuer
	mailer Mailer
}

func NewService(users UserRepository, tokens TokenIssuer, mailer Mailer) *Service {
	return &Service{users: users, tokens: tokens, mailer: mailer}
}

// Signup creates an unconfirmed account and mails a confirmation token. The
// first account ever created becomes admin.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*domain.User, error) {
	email := normalizeEmail(req.Email)
	username := strings.TrimSpace(req.Username)
	if err := validator.Check(SignupRequest{Username: username, Email: email, Password: req.Password}); err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByEmailOrUsername(ctx, email, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAccountExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// The repository promotes the first account to admin.
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		AvatarURL:    gravatarURL(email),
		Role:         domain.RoleUser,
	}
	if err := s.users.Register(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, ErrAccountExists
		}
		return nil, err
	}

	if err := s.sendConfirmation(ctx, user); err != nil {
		// The account exists; the user can ask for another token.
		log.Printf("auth_confirmation_send_failed email=%s err=%v", user.Email, err)
	}
	return user, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidEmail
		}
		return nil, err
	}
	if !user.Confirmed {
		return nil, ErrEmailNotConfirmed
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidPassword
	}
	return s.issue(ctx, user)
}

// Refresh rotates both tokens. A token that validates but no longer matches
// the stored one is treated as reuse and clears the stored token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	claims, err := s.tokens.ValidateScoped(refreshToken, jwt.ScopeRefresh)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		empty := ""
		if _, err := s.users.Update(ctx, user.ID, repository.UserUpdate{RefreshToken: &empty}); err != nil {
			return nil, err
		}
		return nil, ErrInvalidRefreshToken
	}

	return s.issue(ctx, user)
}

func (s *Service) ConfirmEmail(ctx context.Context, token string) (string, error) {
	claims, err := s.tokens.ValidateScoped(token, jwt.ScopeEmail)
	if err != nil || claims.Email == "" {
		return "", ErrVerificationFailed
	}

	user, err := s.users.GetByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", ErrVerificationFailed
		}
		return "", err
	}
	if user.Confirmed {
		return MsgEmailAlreadyConfirmed, nil
	}

	confirmed := true
	if _, err := s.users.Update(ctx, user.ID, repository.UserUpdate{Confirmed: &confirmed}); err != nil {
		return "", err
	}
	return MsgEmailConfirmed, nil
}

// RequestEmail re-sends the confirmation token. Unknown emails get the same
// answer as known ones.
func (s *Service) RequestEmail(ctx context.Context, email string) (string, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return MsgCheckEmail, nil
		}
		return "", err
	}
	if user.Confirmed {
		return MsgEmailAlreadyConfirmed, nil
	}
	if err := s.sendConfirmation(ctx, user); err != nil {
		return "", fmt.Errorf("%w: mailer: %v", domain.ErrUpstream, err)
	}
	return MsgCheckEmail, nil
}

func (s *Service) Logout(ctx context.Context, userID int64) error {
	empty := ""
	_, err := s.users.Update(ctx, userID, repository.UserUpdate{RefreshToken: &empty})
	return err
}

func (s *Service) issue(ctx context.Context, user *domain.User) (*TokenResponse, error) {
	access, err := s.tokens.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}
	if _, err := s.users.Update(ctx, user.ID, repository.UserUpdate{RefreshToken: &refresh}); err != nil {
		return nil, err
	}
	return &TokenResponse{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

func (s *Service) sendConfirmation(ctx context.Context, user *domain.User) error {
	token, err := s.tokens.GenerateEmailToken(user.Email)
	if err != nil {
		return err
	}
	return s.mailer.SendConfirmation(ctx, user.Email, user.Username, token)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func gravatarURL(email string) string {
	sum := md5.Sum([]byte(normalizeEmail(email)))
	return "https://www.gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?d=identicon"
}
