package auth

import (
	"fmt"

	"photoshare/internal/domain"
)

var (
	ErrAccountExists       = fmt.Errorf("%w: account already exists", domain.ErrConflict)
	ErrInvalidEmail        = fmt.Errorf("%w: invalid email", domain.ErrUnauthenticated)
	ErrEmailNotConfirmed   = fmt.Errorf("%w: email not confirmed", domain.ErrUnauthenticated)
	ErrInvalidPassword     = fmt.Errorf("%w: invalid password", domain.ErrUnauthenticated)
	ErrInvalidRefreshToken = fmt.Errorf("%w: invalid refresh token", domain.ErrUnauthenticated)
	ErrVerificationFailed  = fmt.Errorf("%w: verification error", domain.ErrValidation)
)

const (
	MsgEmailConfirmed        = "email confirmed"
	MsgEmailAlreadyConfirmed = "your email is already confirmed"
	MsgCheckEmail            = "check your email for confirmation"
)
