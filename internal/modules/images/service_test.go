package images

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photoshare/internal/database/dbtest"
	"photoshare/internal/domain"
	"photoshare/internal/pkg/media/mediatest"
	"photoshare/internal/repository"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDRfake-image-data")

var (
	owner     = &domain.User{ID: 42, Role: domain.RoleUser}
	stranger  = &domain.User{ID: 1, Role: domain.RoleUser}
	moderator = &domain.User{ID: 7, Role: domain.RoleModerator}
	admin     = &domain.User{ID: 9, Role: domain.RoleAdmin}
	guest     = &domain.User{ID: 11, Role: domain.RoleGuest}
)

func setup(t *testing.T) (*Service, *repository.ImageRepository, *mediatest.Host) {
	t.Helper()
	db := dbtest.Open(t)
	require.NoError(t, repository.Migrate(db))
	dbtest.Users(t, db, owner, stranger, moderator, admin, guest, &domain.User{ID: 2})
	repo := repository.NewImageRepository(db)
	host := mediatest.New()
	return NewService(repo, host), repo, host
}

func upload(desc string, tags ...string) CreateInput {
	return CreateInput{
		Description: desc,
		Tags:        tags,
		File:        bytes.NewReader(pngBytes),
		Filename:    "beach.png",
		Size:        int64(len(pngBytes)),
	}
}

func TestCreate(t *testing.T) {
	svc, _, host := setup(t)

	img, err := svc.Create(context.Background(), owner, upload("beach", "Sunset", "sunset", "sea"))
	require.NoError(t, err)

	assert.Equal(t, int64(42), img.UserID)
	assert.True(t, strings.HasPrefix(img.PublicID, "images/42/"))
	assert.Equal(t, "https://media.test/"+img.PublicID, img.FileURL)
	require.Len(t, img.Tags, 2)
	assert.Equal(t, "sunset", img.Tags[0].Name)

	require.Equal(t, 1, host.UploadCount())
	assert.Equal(t, "image/png", host.Uploads[0].ContentType)
	assert.Equal(t, pngBytes, host.Payloads[img.PublicID])
}

func TestCreate_ValidationBeforeUpload(t *testing.T) {
	svc, _, host := setup(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, owner, upload("x", "a", "b", "c", "d", "e", "f"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Create(ctx, owner, upload(strings.Repeat("d", domain.MaxDescriptionLen+1)))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Create(ctx, owner, upload("x", strings.Repeat("t", 26)))
	assert.ErrorIs(t, err, domain.ErrValidation)

	text := CreateInput{File: strings.NewReader("just text"), Size: 9, Filename: "a.txt"}
	_, err = svc.Create(ctx, owner, text)
	assert.ErrorIs(t, err, ErrInvalidMimeType)

	big := upload("x")
	big.Size = MaxUploadSize + 1
	_, err = svc.Create(ctx, owner, big)
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = svc.Create(ctx, owner, CreateInput{})
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = svc.Create(ctx, guest, upload("x"))
	assert.ErrorIs(t, err, domain.ErrForbidden)

	assert.Zero(t, host.UploadCount())
}

func TestCreate_UploadFailure(t *testing.T) {
	svc, repo, host := setup(t)
	host.FailUpload = true

	_, err := svc.Create(context.Background(), owner, upload("x"))
	assert.ErrorIs(t, err, domain.ErrUpstream)

	list, err := repo.List(context.Background(), repository.ImageFilter{}, repository.Page{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUpdate_Ownership(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()
	img, err := svc.Create(ctx, owner, upload("old", "a"))
	require.NoError(t, err)

	desc := "new"
	_, err = svc.Update(ctx, stranger, img.ID, UpdateRequest{Description: &desc})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.Update(ctx, moderator, img.ID, UpdateRequest{Description: &desc})
	assert.ErrorIs(t, err, domain.ErrForbidden, "moderators may delete but not edit")

	tags := []string{"B", "c"}
	got, err := svc.Update(ctx, owner, img.ID, UpdateRequest{Description: &desc, Tags: &tags})
	require.NoError(t, err)
	assert.Equal(t, "new", got.Description)
	require.Len(t, got.Tags, 2)

	got, err = svc.Update(ctx, admin, img.ID, UpdateRequest{Description: &desc})
	require.NoError(t, err)
	assert.Len(t, got.Tags, 2)
}

func TestNotFoundBeatsForbidden(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()
	desc := "x"

	for _, p := range []*domain.User{stranger, guest, admin} {
		_, err := svc.Update(ctx, p, 999, UpdateRequest{Description: &desc})
		assert.ErrorIs(t, err, domain.ErrNotFound)
		_, err = svc.Delete(ctx, p, 999)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	}

	img, err := svc.Create(ctx, owner, upload("beach"))
	require.NoError(t, err)
	_, err = svc.Update(ctx, guest, img.ID, UpdateRequest{Description: &desc})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = svc.Delete(ctx, guest, img.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDelete(t *testing.T) {
	svc, repo, host := setup(t)
	ctx := context.Background()
	img, err := svc.Create(ctx, &domain.User{ID: 2, Role: domain.RoleUser}, upload("beach"))
	require.NoError(t, err)

	_, err = svc.Delete(ctx, stranger, img.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = repo.GetByID(ctx, img.ID)
	require.NoError(t, err, "no row removed")

	host.FailDestroy = true
	deleted, err := svc.Delete(ctx, moderator, img.ID)
	require.NoError(t, err, "remote cleanup failure is not surfaced")
	assert.Equal(t, img.ID, deleted.ID)
	assert.Contains(t, host.Destroyed, img.PublicID)

	_, err = repo.GetByID(ctx, img.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList_TagFilter(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, owner, upload("a", "cat"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, owner, upload("b", "dog"))
	require.NoError(t, err)

	list, err := svc.List(ctx, " CAT ", 0, repository.Page{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a", list[0].Description)

	list, err = svc.List(ctx, "", 0, repository.Page{})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestList_OwnerFilter(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, owner, upload("mine", "cat"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, stranger, upload("theirs", "cat"))
	require.NoError(t, err)

	list, err := svc.List(ctx, "", stranger.ID, repository.Page{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "theirs", list[0].Description)

	list, err = svc.List(ctx, "cat", owner.ID, repository.Page{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "mine", list[0].Description)

	list, err = svc.List(ctx, "", admin.ID, repository.Page{})
	require.NoError(t, err)
	assert.Empty(t, list)
}
