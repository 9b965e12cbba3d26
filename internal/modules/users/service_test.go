package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"photoshare/internal/domain"
	"photoshare/internal/repository"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) List(ctx context.Context, page repository.Page) ([]domain.User, error) {
	args := m.Called(ctx, page)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, id int64, upd repository.UserUpdate) (*domain.User, error) {
	args := m.Called(ctx, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

var (
	admin     = &domain.User{ID: 1, Role: domain.RoleAdmin}
	moderator = &domain.User{ID: 2, Role: domain.RoleModerator}
	guest     = &domain.User{ID: 3, Role: domain.RoleGuest}
)

func TestAssignRole_NonAdminForbidden(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewService(repo)

	_, err := svc.AssignRole(context.Background(), moderator, "a@x.com", domain.RoleAdmin)

	assert.ErrorIs(t, err, domain.ErrForbidden)
	repo.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
}

func TestAssignRole_SameRoleIsNoop(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewService(repo)
	repo.On("GetByEmail", mock.Anything, "a@x.com").Return(&domain.User{ID: 9, Email: "a@x.com", Role: domain.RoleAdmin}, nil)

	res, err := svc.AssignRole(context.Background(), admin, "a@x.com", domain.RoleAdmin)

	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, MsgRoleAlreadyAssigned, res.Message)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestAssignRole_Changes(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewService(repo)
	repo.On("GetByEmail", mock.Anything, "a@x.com").Return(&domain.User{ID: 9, Email: "a@x.com", Role: domain.RoleUser}, nil)
	repo.On("Update", mock.Anything, int64(9), mock.MatchedBy(func(u repository.UserUpdate) bool {
		return u.Role != nil && *u.Role == domain.RoleModerator
	})).Return(&domain.User{ID: 9, Role: domain.RoleModerator}, nil)

	res, err := svc.AssignRole(context.Background(), admin, "a@x.com", domain.RoleModerator)

	require.NoError(t, err)
	assert.True(t, res.Changed)
	repo.AssertExpectations(t)
}

func TestAssignRole_UnknownUser(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewService(repo)
	repo.On("GetByEmail", mock.Anything, "ghost@x.com").Return(nil, domain.ErrNotFound)

	_, err := svc.AssignRole(context.Background(), admin, "ghost@x.com", domain.RoleUser)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAssignRole_InvalidRole(t *testing.T) {
	svc := NewService(new(mockUserRepo))
	_, err := svc.AssignRole(context.Background(), admin, "a@x.com", domain.UserRole("root"))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestList_GuestsDenied(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewService(repo)

	_, err := svc.List(context.Background(), guest, repository.Page{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	repo.On("List", mock.Anything, repository.Page{Limit: 10}).Return([]domain.User{*admin}, nil)
	list, err := svc.List(context.Background(), admin, repository.Page{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
