package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"photoshare/internal/domain"
)

func TestRoleGate_Allows(t *testing.T) {
	admin := &domain.User{ID: 1, Role: domain.RoleAdmin}
	moderator := &domain.User{ID: 2, Role: domain.RoleModerator}
	user := &domain.User{ID: 3, Role: domain.RoleUser}
	guest := &domain.User{ID: 4, Role: domain.RoleGuest}

	cases := []struct {
		name      string
		gate      RoleGate
		principal *domain.User
		want      bool
	}{
		{"empty set denies admin", NewRoleGate(), admin, false},
		{"empty set denies user", NewRoleGate(), user, false},
		{"nil principal denied", Admins, nil, false},
		{"admin gate denies moderator", Admins, moderator, false},
		{"admin gate allows admin", Admins, admin, true},
		{"staff gate allows moderator", Staff, moderator, true},
		{"staff gate denies user", Staff, user, false},
		{"members gate denies guest", Members, guest, false},
		{"members gate allows user", Members, user, true},
		{"no implicit admin override", NewRoleGate(domain.RoleUser), admin, false},
		{"full set allows guest", NewRoleGate(domain.Roles...), guest, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.gate.Allows(tc.principal))
		})
	}
}

func TestRoleGate_CheckReturnsForbidden(t *testing.T) {
	err := NewRoleGate().Check(&domain.User{Role: domain.RoleAdmin})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	assert.NoError(t, Admins.Check(&domain.User{Role: domain.RoleAdmin}))
}

func TestOwnershipRules(t *testing.T) {
	owner := &domain.User{ID: 2, Role: domain.RoleUser}
	other := &domain.User{ID: 1, Role: domain.RoleUser}
	moderator := &domain.User{ID: 5, Role: domain.RoleModerator}
	admin := &domain.User{ID: 9, Role: domain.RoleAdmin}

	assert.True(t, CanModify(owner, 2))
	assert.False(t, CanModify(other, 2))
	assert.False(t, CanModify(moderator, 2))
	assert.True(t, CanModify(admin, 2))
	assert.False(t, CanModify(nil, 2))

	assert.True(t, CanDelete(owner, 2))
	assert.False(t, CanDelete(other, 2))
	assert.True(t, CanDelete(moderator, 2))
	assert.True(t, CanDelete(admin, 2))
	assert.False(t, CanDelete(&domain.User{ID: 3, Role: domain.RoleGuest}, 2))
	assert.False(t, CanDelete(nil, 2))
}
