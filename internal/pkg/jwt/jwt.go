package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Scope string

const (
	ScopeAccess  Scope = "access_token"
	ScopeRefresh Scope = "refresh_token"
	ScopeEmail   Scope = "email_token"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrInvalidScope = errors.New("invalid scope for token")
)

type Service struct {
	secret     []byte
	ttl        time.Duration
	refreshTTL time.Duration
	emailTTL   time.Duration
}

type Claims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	Email  string `json:"email,omitempty"`
	Scope  Scope  `json:"scope"`
	jwtlib.RegisteredClaims
}

func New(secret string, ttl time.Duration) *Service {
	return &Service{
		secret:     []byte(secret),
		ttl:        ttl,
		refreshTTL: 7 * 24 * time.Hour,
		emailTTL:   7 * 24 * time.Hour,
	}
}

// WithRefreshTTL and WithEmailTTL override the defaults of seven days.
func (s *Service) WithRefreshTTL(ttl time.Duration) *Service {
	s.refreshTTL = ttl
	return s
}

func (s *Service) WithEmailTTL(ttl time.Duration) *Service {
	s.emailTTL = ttl
	return s
}

func (s *Service) GenerateToken(userID int64, role string) (string, error) {
	return s.sign(Claims{UserID: userID, Role: role, Scope: ScopeAccess}, s.ttl)
}

func (s *Service) GenerateRefreshToken(userID int64, role string) (string, error) {
	return s.sign(Claims{UserID: userID, Role: role, Scope: ScopeRefresh}, s.refreshTTL)
}

func (s *Service) GenerateEmailToken(email string) (string, error) {
	return s.sign(Claims{Email: email, Scope: ScopeEmail}, s.emailTTL)
}

func (s *Service) sign(claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwtlib.RegisteredClaims{
		ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwtlib.NewNumericDate(now),
		ID:        uuid.NewString(),
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken parses an access token.
func (s *Service) ValidateToken(tokenStr string) (*Claims, error) {
	return s.ValidateScoped(tokenStr, ScopeAccess)
}

func (s *Service) ValidateScoped(tokenStr string, scope Scope) (*Claims, error) {
	token, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (any, error) {
		return s.secret, nil
	}, jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if claims.Scope != scope {
		return nil, ErrInvalidScope
	}

	return claims, nil
}
