package catalog_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/storage"
)

func TestMediaService_UploadConfirmAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	store := storage.NewMemoryObjectStorage("https://cdn.test")
	media := catalogapp.NewMediaService(f.deps, store, catalogapp.DefaultMediaConfig())
	brand := f.brand(t, "Fresh Farms")

	upload, errs, err := media.CreateUpload(ctx, catalogapp.MediaUploadInput{
		OwnerTable:  "brands",
		Owner:       brand.ID.String(),
		FileName:    "Logo Final.PNG",
		ContentType: "image/png",
	})
	requireClean(t, errs, err)
	assert.True(t, strings.HasPrefix(upload.ObjectKey, "brands/"+brand.ID.String()+"/"))
	assert.True(t, strings.HasPrefix(upload.UploadURL, "https://cdn.test/"+upload.ObjectKey+"?"))

	_, errs, err = media.ConfirmUpload(ctx, upload.MediaID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Uploaded file not found."}, messages(errs, "object_key"))

	require.NoError(t, store.Put(ctx, upload.ObjectKey, []byte("png"), "image/png"))
	confirmed, errs, err := media.ConfirmUpload(ctx, upload.MediaID)
	requireClean(t, errs, err)
	assert.Equal(t, shared.StatusActive, confirmed.Status)

	_, errs, err = media.ConfirmUpload(ctx, upload.MediaID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Upload is already confirmed."}, messages(errs, "status"))

	views, err := media.ListForOwner(ctx, "brands", brand.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Contains(t, views[0].URL, "op=get")

	_, errs, err = media.Delete(ctx, upload.MediaID)
	requireClean(t, errs, err)
	exists, err := store.ObjectExists(ctx, upload.ObjectKey)
	require.NoError(t, err)
	assert.False(t, exists)

	views, err = media.ListForOwner(ctx, "brands", brand.ID)
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestMediaService_CreateUploadValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	media := catalogapp.NewMediaService(f.deps, storage.NewMemoryObjectStorage(""), catalogapp.DefaultMediaConfig())
	brand := f.brand(t, "Hill Dairy")

	_, errs, err := media.CreateUpload(ctx, catalogapp.MediaUploadInput{
		OwnerTable: "brands", Owner: uuid.NewString(), FileName: "a.png", ContentType: "image/png",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Owner not found."}, messages(errs, "owner"))

	_, errs, err = media.CreateUpload(ctx, catalogapp.MediaUploadInput{
		OwnerTable: "brands", Owner: brand.ID.String(), FileName: "a.exe", ContentType: "application/x-msdownload",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, messages(errs, "content_type"))
}
