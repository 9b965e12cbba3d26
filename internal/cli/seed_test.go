package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"photoshare/internal/database/dbtest"
	"photoshare/internal/domain"
	"photoshare/internal/repository"
)

func setup(t *testing.T) (*repository.UserRepository, *repository.TagRepository) {
	t.Helper()
	db := dbtest.Open(t)
	require.NoError(t, repository.Migrate(db))
	return repository.NewUserRepository(db), repository.NewTagRepository(db)
}

func TestSeed_Idempotent(t *testing.T) {
	users, tags := setup(t)
	ctx := context.Background()
	opts := SeedOptions{AdminEmail: "Root@Example.com", AdminPassword: "secret99", Demo: true}

	res, err := Seed(ctx, users, tags, opts)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{Users: 3, Tags: len(starterTags)}, res)

	admin, err := users.GetByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	assert.True(t, admin.Confirmed)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("secret99")))

	res, err = Seed(ctx, users, tags, opts)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{}, res)

	all, err := users.List(ctx, repository.Page{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mod, err := users.GetByEmail(ctx, moderatorEmail)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleModerator, mod.Role)
}

func TestSeed_AdminOnly(t *testing.T) {
	users, tags := setup(t)

	res, err := Seed(context.Background(), users, tags, SeedOptions{AdminEmail: "a@b.co", AdminPassword: "pw1234"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Users)
	assert.Zero(t, res.Tags)
}

func TestAssignRole(t *testing.T) {
	users, tags := setup(t)
	ctx := context.Background()
	_, err := Seed(ctx, users, tags, SeedOptions{AdminEmail: "a@b.co", AdminPassword: "pw1234", Demo: true})
	require.NoError(t, err)

	u, changed, err := AssignRole(ctx, users, demoEmail, "moderator")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, domain.RoleModerator, u.Role)

	_, changed, err = AssignRole(ctx, users, demoEmail, "moderator")
	require.NoError(t, err)
	assert.False(t, changed)

	_, _, err = AssignRole(ctx, users, demoEmail, "superuser")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, _, err = AssignRole(ctx, users, "nobody@example.com", "user")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
