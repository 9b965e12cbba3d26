package repository_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"photoshare/internal/database/dbtest"
	"photoshare/internal/domain"
	"photoshare/internal/repository"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := dbtest.Open(t)
	require.NoError(t, repository.Migrate(db))
	return db
}

// contentDB is a migrated database with accounts 1 and 2 in place.
func contentDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := setupDB(t)
	dbtest.Users(t, db, &domain.User{ID: 1}, &domain.User{ID: 2})
	return db
}

func newImage(t *testing.T, repo *repository.ImageRepository, owner int64, desc string, tags ...string) *domain.Image {
	t.Helper()
	img := &domain.Image{FileURL: "https://cdn/x.png", PublicID: "images/x", Description: desc, UserID: owner}
	require.NoError(t, repo.Create(context.Background(), img, tags))
	return img
}

func TestPage_Normalize(t *testing.T) {
	assert.Equal(t, repository.Page{Skip: 0, Limit: 10}, repository.Page{Skip: -1, Limit: 0}.Normalize())
	assert.Equal(t, repository.Page{Skip: 3, Limit: 100}, repository.Page{Skip: 3, Limit: 500}.Normalize())
	assert.Equal(t, repository.Page{Skip: 3, Limit: 7}, repository.Page{Skip: 3, Limit: 7}.Normalize())
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUserRepository(setupDB(t))

	u := &domain.User{Username: "alice", Email: "alice@example.com", PasswordHash: "h", Role: domain.RoleUser}
	require.NoError(t, repo.Create(ctx, u))
	assert.NotZero(t, u.ID)

	dup := &domain.User{Username: "alice2", Email: "alice@example.com", PasswordHash: "h", Role: domain.RoleUser}
	assert.ErrorIs(t, repo.Create(ctx, dup), domain.ErrConflict)

	got, err := repo.GetByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	exists, err := repo.ExistsByEmailOrUsername(ctx, "other@example.com", "alice")
	require.NoError(t, err)
	assert.True(t, exists)

	token := "refresh-1"
	role := domain.RoleModerator
	confirmed := true
	updated, err := repo.Update(ctx, u.ID, repository.UserUpdate{RefreshToken: &token, Role: &role, Confirmed: &confirmed})
	require.NoError(t, err)
	assert.Equal(t, "refresh-1", updated.RefreshToken)
	assert.Equal(t, domain.RoleModerator, updated.Role)
	assert.True(t, updated.Confirmed)

	n, err := repo.ClearRefreshTokens(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	got, _ = repo.GetByID(ctx, u.ID)
	assert.Empty(t, got.RefreshToken)

	_, err = repo.Update(ctx, 999, repository.UserUpdate{Role: &role})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	all, err := repo.List(ctx, repository.Page{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUserRepository_ListPagination(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUserRepository(setupDB(t))
	for _, name := range []string{"user1", "user2", "user3"} {
		require.NoError(t, repo.Create(ctx, &domain.User{Username: name, Email: name + "@x.com", PasswordHash: "h", Role: domain.RoleUser}))
	}

	page, err := repo.List(ctx, repository.Page{Skip: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "user2", page[0].Username)

	page, err = repo.List(ctx, repository.Page{Skip: 10, Limit: 5})
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestUserRepository_RegisterPromotesFirstAccount(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUserRepository(setupDB(t))

	first := &domain.User{Username: "alice", Email: "alice@example.com", PasswordHash: "h", Role: domain.RoleUser}
	require.NoError(t, repo.Register(ctx, first))
	assert.Equal(t, domain.RoleAdmin, first.Role)

	second := &domain.User{Username: "bobby", Email: "bob@example.com", PasswordHash: "h", Role: domain.RoleUser}
	require.NoError(t, repo.Register(ctx, second))
	assert.Equal(t, domain.RoleUser, second.Role)

	dup := &domain.User{Username: "bobby", Email: "bob2@example.com", PasswordHash: "h", Role: domain.RoleUser}
	assert.ErrorIs(t, repo.Register(ctx, dup), domain.ErrConflict)
}

func TestUserRepository_ConcurrentRegisterSingleAdmin(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUserRepository(setupDB(t))

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("user%d", i)
			errs <- repo.Register(ctx, &domain.User{Username: name, Email: name + "@example.com", PasswordHash: "h", Role: domain.RoleUser})
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	users, err := repo.List(ctx, repository.Page{Limit: 100})
	require.NoError(t, err)
	require.Len(t, users, n)
	admins := 0
	for _, u := range users {
		if u.Role == domain.RoleAdmin {
			admins++
		}
	}
	assert.Equal(t, 1, admins)
}

func TestImageRepository_SharedTagReuse(t *testing.T) {
	ctx := context.Background()
	db := contentDB(t)
	images := repository.NewImageRepository(db)
	tags := repository.NewTagRepository(db)

	a := newImage(t, images, 1, "one", "sunset")
	b := newImage(t, images, 2, "two", "sunset", "beach")

	all, err := tags.List(ctx, repository.Page{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	gotA, err := images.GetByID(ctx, a.ID)
	require.NoError(t, err)
	gotB, err := images.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, gotA.Tags[0].ID, gotB.Tags[0].ID)
	assert.Equal(t, "sunset", gotB.Tags[0].Name)
	assert.Equal(t, "beach", gotB.Tags[1].Name)
}

func TestImageRepository_ListFilterAndOrder(t *testing.T) {
	ctx := context.Background()
	images := repository.NewImageRepository(contentDB(t))

	first := newImage(t, images, 1, "a", "cat")
	newImage(t, images, 1, "b", "dog")
	third := newImage(t, images, 2, "c", "cat", "dog")

	list, err := images.List(ctx, repository.ImageFilter{Tag: "cat"}, repository.Page{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, third.ID, list[1].ID)
	assert.Len(t, list[1].Tags, 2)

	list, err = images.List(ctx, repository.ImageFilter{UserID: 2}, repository.Page{})
	require.NoError(t, err)
	require.Len(t, list, 1)

	list, err = images.List(ctx, repository.ImageFilter{}, repository.Page{Skip: 2})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, third.ID, list[0].ID)
}

func TestImageRepository_Update(t *testing.T) {
	ctx := context.Background()
	images := repository.NewImageRepository(contentDB(t))
	img := newImage(t, images, 1, "old", "a", "b")

	desc := "new"
	names := []string{"b", "c"}
	got, err := images.Update(ctx, img.ID, repository.ImageUpdate{Description: &desc, TagNames: &names})
	require.NoError(t, err)
	assert.Equal(t, "new", got.Description)
	require.Len(t, got.Tags, 2)
	assert.ElementsMatch(t, []string{"b", "c"}, []string{got.Tags[0].Name, got.Tags[1].Name})

	url := "https://cdn/gray.png"
	got, err = images.Update(ctx, img.ID, repository.ImageUpdate{FileURL: &url})
	require.NoError(t, err)
	assert.Equal(t, url, got.FileURL)
	assert.Len(t, got.Tags, 2, "tags untouched")

	_, err = images.Update(ctx, 999, repository.ImageUpdate{Description: &desc})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestImageRepository_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	db := contentDB(t)
	images := repository.NewImageRepository(db)
	comments := repository.NewCommentRepository(db)
	qrs := repository.NewQRCodeRepository(db)
	tags := repository.NewTagRepository(db)

	img := newImage(t, images, 1, "x", "keep")
	other := newImage(t, images, 1, "y", "keep")
	require.NoError(t, comments.Create(ctx, &domain.Comment{Content: "hi", UserID: 2, ImageID: img.ID}))
	require.NoError(t, comments.Create(ctx, &domain.Comment{Content: "stay", UserID: 2, ImageID: other.ID}))
	require.NoError(t, qrs.Create(ctx, &domain.QRCode{URL: "https://cdn/qr.png", PublicID: "qrcodes/image_1", ImageID: img.ID}))

	deleted, err := images.Delete(ctx, img.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted.QRCode)
	assert.Equal(t, "qrcodes/image_1", deleted.QRCode.PublicID)

	_, err = images.GetByID(ctx, img.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	n, _ := qrs.CountByImageID(ctx, img.ID)
	assert.Zero(t, n)
	left, _ := comments.ListByImage(ctx, img.ID, repository.Page{})
	assert.Empty(t, left)
	kept, _ := comments.ListByImage(ctx, other.ID, repository.Page{})
	assert.Len(t, kept, 1)

	var links int64
	db.Table("image_tags").Where("image_id = ?", img.ID).Count(&links)
	assert.Zero(t, links)

	_, err = tags.GetByName(ctx, "keep")
	assert.NoError(t, err, "shared tag survives")

	_, err = images.Delete(ctx, img.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQRCodeRepository_UniquePerImage(t *testing.T) {
	ctx := context.Background()
	db := contentDB(t)
	images := repository.NewImageRepository(db)
	qrs := repository.NewQRCodeRepository(db)
	img := newImage(t, images, 1, "x")

	require.NoError(t, qrs.Create(ctx, &domain.QRCode{URL: "u1", ImageID: img.ID}))
	err := qrs.Create(ctx, &domain.QRCode{URL: "u2", ImageID: img.ID})
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := qrs.GetByImageID(ctx, img.ID)
	require.NoError(t, err)
	assert.Equal(t, "u1", got.URL)

	_, err = qrs.GetByImageID(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTagRepository(t *testing.T) {
	ctx := context.Background()
	db := contentDB(t)
	tags := repository.NewTagRepository(db)
	images := repository.NewImageRepository(db)

	tag, created, err := tags.FindOrCreate(ctx, "sunset")
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := tags.FindOrCreate(ctx, "sunset")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, tag.ID, again.ID)

	other, _, err := tags.FindOrCreate(ctx, "beach")
	require.NoError(t, err)

	_, err = tags.Rename(ctx, other.ID, "sunset")
	assert.ErrorIs(t, err, domain.ErrConflict)

	renamed, err := tags.Rename(ctx, other.ID, "sea")
	require.NoError(t, err)
	assert.Equal(t, "sea", renamed.Name)

	_, err = tags.Rename(ctx, 999, "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	img := newImage(t, images, 1, "x", "sunset", "sea")
	_, err = tags.Delete(ctx, tag.ID)
	require.NoError(t, err)

	got, err := images.GetByID(ctx, img.ID)
	require.NoError(t, err)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "sea", got.Tags[0].Name)

	_, err = tags.Delete(ctx, tag.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCommentRepository(t *testing.T) {
	ctx := context.Background()
	db := contentDB(t)
	repo := repository.NewCommentRepository(db)
	img := newImage(t, repository.NewImageRepository(db), 2, "x")

	c := &domain.Comment{Content: "first", UserID: 1, ImageID: img.ID}
	require.NoError(t, repo.Create(ctx, c))
	assert.Equal(t, c.CreatedAt, c.EditedAt)

	time.Sleep(5 * time.Millisecond)
	content := "edited"
	got, err := repo.Update(ctx, c.ID, repository.CommentUpdate{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Content)
	assert.True(t, got.EditedAt.After(got.CreatedAt))

	_, err = repo.Update(ctx, 999, repository.CommentUpdate{Content: &content})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	deleted, err := repo.Delete(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", deleted.Content)

	_, err = repo.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestForeignKeys_RejectDanglingReferences(t *testing.T) {
	ctx := context.Background()
	db := contentDB(t)
	images := repository.NewImageRepository(db)
	comments := repository.NewCommentRepository(db)

	err := images.Create(ctx, &domain.Image{FileURL: "https://cdn/x.png", PublicID: "images/x", UserID: 9999}, nil)
	assert.Error(t, err, "unknown owner")

	err = comments.Create(ctx, &domain.Comment{Content: "hi", UserID: 1, ImageID: 12345})
	assert.Error(t, err, "unknown image")

	img := newImage(t, images, 1, "x")
	err = comments.Create(ctx, &domain.Comment{Content: "hi", UserID: 9999, ImageID: img.ID})
	assert.Error(t, err, "unknown author")

	list, err := images.List(ctx, repository.ImageFilter{}, repository.Page{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestForeignKeys_AccountRemovalCascades(t *testing.T) {
	ctx := context.Background()
	db := contentDB(t)
	images := repository.NewImageRepository(db)
	comments := repository.NewCommentRepository(db)

	mine := newImage(t, images, 1, "mine")
	theirs := newImage(t, images, 2, "theirs")
	require.NoError(t, comments.Create(ctx, &domain.Comment{Content: "on theirs", UserID: 1, ImageID: theirs.ID}))
	require.NoError(t, comments.Create(ctx, &domain.Comment{Content: "on mine", UserID: 2, ImageID: mine.ID}))

	require.NoError(t, db.Exec("DELETE FROM users WHERE id = ?", 1).Error)

	_, err := images.GetByID(ctx, mine.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	left, err := comments.ListByImage(ctx, theirs.ID, repository.Page{})
	require.NoError(t, err)
	assert.Empty(t, left)
}
