package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/tests/testutil"
)

type fakeStorage struct {
	objects map[string]bool
}

func (s *fakeStorage) GenerateUploadURL(_ context.Context, key, _ string, expiresIn time.Duration) (string, time.Time, error) {
	return "https://storage.test/put/" + key, time.Now().Add(expiresIn), nil
}

func (s *fakeStorage) GenerateDownloadURL(_ context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	return "https://storage.test/get/" + key, time.Now().Add(expiresIn), nil
}

func (s *fakeStorage) DeleteObject(_ context.Context, key string) error {
	delete(s.objects, key)
	return nil
}

func (s *fakeStorage) ObjectExists(_ context.Context, key string) (bool, error) {
	return s.objects[key], nil
}

func newMediaService(t *testing.T) (*catalogapp.MediaService, *catalogapp.BrandService, *fakeStorage) {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	rel := persistence.DefaultRelations()
	deps := catalogapp.Deps{
		Scope:  persistence.NewGormTransactionScope(db, rel),
		Repos:  persistence.NewRepositories(db, rel),
		Events: testutil.NewRecordingPublisher(),
		Logger: zap.NewNop(),
	}
	storage := &fakeStorage{objects: make(map[string]bool)}
	categories := catalogapp.NewCategoryService(deps, nil)
	return catalogapp.NewMediaService(deps, storage, catalogapp.DefaultMediaConfig()),
		catalogapp.NewBrandService(deps, categories),
		storage
}

func TestMediaService_UploadLifecycle(t *testing.T) {
	media, brands, storage := newMediaService(t)
	ctx := context.Background()

	b, errs, err := brands.Save(ctx, "", catalogapp.BrandInput{Name: strPtr("Acme")})
	requireClean(t, errs, err)

	upload, errs, err := media.CreateUpload(ctx, catalogapp.MediaUploadInput{
		OwnerTable:  "brands",
		Owner:       b.ID.String(),
		FileName:    "Logo.PNG",
		ContentType: "image/png",
	})
	requireClean(t, errs, err)
	assert.Contains(t, upload.ObjectKey, "brands/"+b.ID.String()+"/")
	assert.Equal(t, "https://storage.test/put/"+upload.ObjectKey, upload.UploadURL)
	assert.True(t, upload.ExpiresAt.After(time.Now()))

	_, errs, err = media.ConfirmUpload(ctx, upload.MediaID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Uploaded file not found."}, messages(errs, "object_key"))

	listed, err := media.ListForOwner(ctx, "brands", b.ID)
	require.NoError(t, err)
	assert.Empty(t, listed)

	storage.objects[upload.ObjectKey] = true
	confirmed, errs, err := media.ConfirmUpload(ctx, upload.MediaID)
	requireClean(t, errs, err)
	assert.Equal(t, shared.StatusActive, confirmed.Status)

	_, errs, err = media.ConfirmUpload(ctx, upload.MediaID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Upload is already confirmed."}, messages(errs, "status"))

	listed, err = media.ListForOwner(ctx, "brands", b.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "https://storage.test/get/"+upload.ObjectKey, listed[0].URL)
}

func TestMediaService_RejectsBadUploads(t *testing.T) {
	media, brands, _ := newMediaService(t)
	ctx := context.Background()

	_, errs, err := media.CreateUpload(ctx, catalogapp.MediaUploadInput{
		OwnerTable:  "brands",
		Owner:       uuid.NewString(),
		FileName:    "logo.png",
		ContentType: "image/png",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Owner not found."}, messages(errs, "owner"))

	b, errs, err := brands.Save(ctx, "", catalogapp.BrandInput{Name: strPtr("Acme")})
	requireClean(t, errs, err)

	_, errs, err = media.CreateUpload(ctx, catalogapp.MediaUploadInput{
		OwnerTable:  "brands",
		Owner:       b.ID.String(),
		FileName:    "page.html",
		ContentType: "text/html",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Value 'text/html' is not a valid choice."}, messages(errs, "content_type"))
}
