package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/application/mutation"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ObjectStorageService is the object store holding catalog media
type ObjectStorageService interface {
	// GenerateUploadURL returns a presigned PUT URL and its expiry
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
	// GenerateDownloadURL returns a presigned GET URL and its expiry
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	DeleteObject(ctx context.Context, storageKey string) error
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// MediaConfig holds presign lifetimes
type MediaConfig struct {
	UploadURLExpiry   time.Duration
	DownloadURLExpiry time.Duration
}

// DefaultMediaConfig returns the default presign lifetimes
func DefaultMediaConfig() MediaConfig {
	return MediaConfig{
		UploadURLExpiry:   15 * time.Minute,
		DownloadURLExpiry: time.Hour,
	}
}

// MediaView is a media record with a presigned download URL
type MediaView struct {
	catalog.Media
	URL string `json:"url"`
}

// MediaService handles uploads of catalog images and documents
type MediaService struct {
	Deps
	storage ObjectStorageService
	config  MediaConfig
}

// NewMediaService creates a new MediaService
func NewMediaService(deps Deps, storage ObjectStorageService, config MediaConfig) *MediaService {
	return &MediaService{Deps: deps, storage: storage, config: config}
}

func fetchMedia(ctx context.Context, repos mutation.Repositories, id uuid.UUID, manager shared.Manager) (*catalog.Media, error) {
	return repos.Media().FindByID(ctx, id, manager)
}

// ownerExists checks that a visible row of table has id
func ownerExists(ctx context.Context, repos mutation.Repositories, table string, id uuid.UUID) (bool, error) {
	var err error
	switch table {
	case "departments":
		_, err = repos.Departments().FindByID(ctx, id, shared.ManagerDefault)
	case "categories":
		_, err = repos.Categories().FindByID(ctx, id, shared.ManagerDefault)
	case "brands":
		_, err = repos.Brands().FindByID(ctx, id, shared.ManagerDefault)
	case "product_templates":
		_, err = repos.Templates().FindByID(ctx, id, shared.ManagerDefault)
	case "product_masters":
		_, err = repos.Masters().FindByID(ctx, id, shared.ManagerDefault)
	default:
		return false, nil
	}
	if errors.Is(err, shared.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// CreateUpload records a pending media row and returns a presigned URL to upload its content
func (s *MediaService) CreateUpload(ctx context.Context, input MediaUploadInput) (*MediaUpload, mutation.Errors, error) {
	m := mutation.Model[*catalog.Media, MediaUploadInput]{
		New: func(ctx context.Context, repos mutation.Repositories, in MediaUploadInput, errs *mutation.Errors) (*catalog.Media, error) {
			ownerID, ok := parseID(in.Owner)
			if !ok || ownerID == uuid.Nil {
				errs.Add("owner", "Owner not found.")
				return nil, nil
			}
			exists, err := ownerExists(ctx, repos, in.OwnerTable, ownerID)
			if err != nil {
				return nil, err
			}
			if !exists {
				errs.Add("owner", "Owner not found.")
				return nil, nil
			}
			return catalog.NewMedia(in.OwnerTable, ownerID, in.FileName, in.ContentType), nil
		},
		Clean: func(ctx context.Context, repos mutation.Repositories, media *catalog.Media, in MediaUploadInput, _ *mutation.Errors) error {
			media.AltText = in.AltText
			count, err := repos.Media().Count(ctx, shared.Filter{Filters: map[string]interface{}{
				catalog.FilterOwnerTable: media.OwnerTable,
				catalog.FilterOwnerID:    media.OwnerID,
			}})
			if err != nil {
				return err
			}
			media.SortOrder = int(count)
			return nil
		},
		Save: func(ctx context.Context, repos mutation.Repositories, media *catalog.Media) error {
			return repos.Media().Save(ctx, media)
		},
		Events: s.Events,
	}
	media, errs, err := m.Perform(ctx, s.Scope, "", input)
	if err != nil || !errs.Empty() {
		return nil, errs, err
	}
	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, media.ObjectKey, media.ContentType, s.config.UploadURLExpiry)
	if err != nil {
		return nil, nil, err
	}
	return &MediaUpload{
		MediaID:   media.ID.String(),
		ObjectKey: media.ObjectKey,
		UploadURL: url,
		ExpiresAt: expiresAt,
	}, errs, nil
}

// ConfirmUpload activates a pending media row once its object is in storage
func (s *MediaService) ConfirmUpload(ctx context.Context, id string) (*catalog.Media, mutation.Errors, error) {
	m := mutation.Model[*catalog.Media, struct{}]{
		Fetch: fetchMedia,
		Clean: func(ctx context.Context, _ mutation.Repositories, media *catalog.Media, _ struct{}, errs *mutation.Errors) error {
			if media.Status != shared.StatusPending {
				errs.Add("status", "Upload is already confirmed.")
				return nil
			}
			ok, err := s.storage.ObjectExists(ctx, media.ObjectKey)
			if err != nil {
				return err
			}
			if !ok {
				errs.Add("object_key", "Uploaded file not found.")
				return nil
			}
			media.Status = shared.StatusActive
			return nil
		},
		Save: func(ctx context.Context, repos mutation.Repositories, media *catalog.Media) error {
			return repos.Media().Save(ctx, media)
		},
		Events: s.Events,
	}
	if id == "" {
		return nil, nil, &mutation.NodeNotFoundError{ID: id}
	}
	return m.Perform(ctx, s.Scope, id, struct{}{})
}

// Delete removes a media row and then its stored object
func (s *MediaService) Delete(ctx context.Context, id string) (*catalog.Media, mutation.Errors, error) {
	d := mutation.Delete[*catalog.Media]{Fetch: fetchMedia, Events: s.Events}
	media, errs, err := d.Perform(ctx, s.Scope, id)
	if err != nil || !errs.Empty() {
		return media, errs, err
	}
	if err := s.storage.DeleteObject(ctx, media.ObjectKey); err != nil {
		s.log().Warn("failed to delete media object", zap.String("object_key", media.ObjectKey), zap.Error(err))
	}
	return media, errs, nil
}

// ListForOwner returns the active media of one catalog record with download URLs
func (s *MediaService) ListForOwner(ctx context.Context, table string, ownerID uuid.UUID) ([]MediaView, error) {
	f := shared.Filter{
		Limit:   shared.MaxLimit,
		Manager: shared.ManagerActive,
		Filters: map[string]interface{}{
			catalog.FilterOwnerTable: table,
			catalog.FilterOwnerID:    ownerID,
		},
	}
	items, err := s.Repos.Media().FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]MediaView, 0, len(items))
	for _, media := range items {
		url, _, err := s.storage.GenerateDownloadURL(ctx, media.ObjectKey, s.config.DownloadURLExpiry)
		if err != nil {
			return nil, err
		}
		out = append(out, MediaView{Media: media, URL: url})
	}
	return out, nil
}
