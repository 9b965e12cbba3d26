package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"photoshare/internal/domain"
	"photoshare/internal/repository"
)

type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, id int64, upd repository.UserUpdate) (*domain.User, error)
}

type TagStore interface {
	FindOrCreate(ctx context.Context, name string) (*domain.Tag, bool, error)
}

type SeedOptions struct {
	AdminEmail    string
	AdminPassword string
	Demo          bool
}

type SeedResult struct {
	Users int
	Tags  int
}

var starterTags = []string{"nature", "city", "portrait", "travel", "food"}

const (
	demoEmail      = "demo@photoshare.local"
	moderatorEmail = "moderator@photoshare.local"
	demoPassword   = "demo1234"
)

// Seed is idempotent: accounts and tags that already exist are left alone
// and not counted.
func Seed(ctx context.Context, users UserStore, tags TagStore, opts SeedOptions) (SeedResult, error) {
	var res SeedResult

	created, err := ensureUser(ctx, users, "admin", opts.AdminEmail, opts.AdminPassword, domain.RoleAdmin)
	if err != nil {
		return res, fmt.Errorf("seed admin: %w", err)
	}
	if created {
		res.Users++
	}
	if !opts.Demo {
		return res, nil
	}

	for _, acc := range []struct {
		username, email string
		role            domain.UserRole
	}{
		{"demouser", demoEmail, domain.RoleUser},
		{"moderator", moderatorEmail, domain.RoleModerator},
	} {
		created, err = ensureUser(ctx, users, acc.username, acc.email, demoPassword, acc.role)
		if err != nil {
			return res, fmt.Errorf("seed %s: %w", acc.username, err)
		}
		if created {
			res.Users++
		}
	}

	for _, name := range starterTags {
		_, created, err := tags.FindOrCreate(ctx, name)
		if err != nil {
			return res, fmt.Errorf("seed tag %q: %w", name, err)
		}
		if created {
			res.Tags++
		}
	}
	return res, nil
}

func ensureUser(ctx context.Context, users UserStore, username, email, password string, role domain.UserRole) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := users.GetByEmail(ctx, email); err == nil {
		log.Printf("seed: %s exists, skipping", email)
		return false, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	u := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Confirmed:    true,
		Role:         role,
	}
	if err := users.Create(ctx, u); err != nil {
		return false, err
	}
	log.Printf("seed: created %s (%s)", email, role)
	return true, nil
}

// AssignRole sets the role of the account with the given email. The bool
// reports whether anything changed.
func AssignRole(ctx context.Context, users UserStore, email, role string) (*domain.User, bool, error) {
	r, ok := domain.ParseRole(role)
	if !ok {
		return nil, false, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, role)
	}
	u, err := users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, false, err
	}
	if u.Role == r {
		return u, false, nil
	}
	updated, err := users.Update(ctx, u.ID, repository.UserUpdate{Role: &r})
	if err != nil {
		return nil, false, err
	}
	return updated, true, nil
}
