package users

import (
	"context"
	"fmt"

	"photoshare/internal/domain"
	"photoshare/internal/pkg/access"
	"photoshare/internal/repository"
)

const (
	MsgRoleAlreadyAssigned = "the role has already been assigned to this user"
	msgRoleAssigned        = "role %s assigned to %s"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, page repository.Page) ([]domain.User, error)
	Update(ctx context.Context, id int64, upd repository.UserUpdate) (*domain.User, error)
}

type Service struct {
	users UserRepository
}

func NewService(users UserRepository) *Service {
	return &Service{users: users}
}

func (s *Service) List(ctx context.Context, principal *domain.User, page repository.Page) ([]domain.User, error) {
	if err := access.Members.Check(principal); err != nil {
		return nil, err
	}
	return s.users.List(ctx, page)
}

// AssignRole sets the role of the account behind email. Assigning the role
// it already holds writes nothing.
func (s *Service) AssignRole(ctx context.Context, principal *domain.User, email string, role domain.UserRole) (*AssignRoleResult, error) {
	if err := access.Admins.Check(principal); err != nil {
		return nil, err
	}
	if _, ok := domain.ParseRole(string(role)); !ok {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, role)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user.Role == role {
		return &AssignRoleResult{Message: MsgRoleAlreadyAssigned, Changed: false}, nil
	}

	if _, err := s.users.Update(ctx, user.ID, repository.UserUpdate{Role: &role}); err != nil {
		return nil, err
	}
	return &AssignRoleResult{Message: fmt.Sprintf(msgRoleAssigned, role, user.Email), Changed: true}, nil
}
