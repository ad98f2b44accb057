package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 answers the handful of path-style calls the storage makes
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]bool
	buckets map[string]bool
}

func newFakeS3(t *testing.T) (*fakeS3, *httptest.Server) {
	f := &fakeS3{objects: map[string]bool{}, buckets: map[string]bool{}}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeS3) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	bucket, key, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/"), "/")
	switch {
	case key == "" && r.Method == http.MethodHead:
		if !f.buckets[bucket] {
			w.WriteHeader(http.StatusNotFound)
			return
		}
	case key == "" && r.Method == http.MethodPut:
		f.buckets[bucket] = true
	case r.Method == http.MethodHead:
		if !f.objects[bucket+"/"+key] {
			w.WriteHeader(http.StatusNotFound)
			return
		}
	case r.Method == http.MethodPut:
		f.objects[bucket+"/"+key] = true
	case r.Method == http.MethodDelete:
		delete(f.objects, bucket+"/"+key)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (f *fakeS3) hasBucket(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.buckets[name]
}

func testConfig(endpoint string) config.StorageConfig {
	return config.StorageConfig{
		Endpoint:        endpoint,
		Bucket:          "media",
		AccessKeyID:     "test-key",
		SecretAccessKey: "test-secret",
		UsePathStyle:    true,
	}
}

func TestNewS3ObjectStorage_Validation(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		mutate  func(*config.StorageConfig)
		wantErr string
	}{
		{"missing bucket", func(c *config.StorageConfig) { c.Bucket = "" }, "bucket is required"},
		{"missing access key", func(c *config.StorageConfig) { c.AccessKeyID = "" }, "access key is required"},
		{"missing secret", func(c *config.StorageConfig) { c.SecretAccessKey = "" }, "secret key is required"},
		{"bad endpoint", func(c *config.StorageConfig) { c.Endpoint = "http://" }, "invalid storage endpoint"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig("http://localhost:9000")
			tt.mutate(&cfg)
			_, err := NewS3ObjectStorage(ctx, cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("defaults", func(t *testing.T) {
		cfg := testConfig("")
		s, err := NewS3ObjectStorage(ctx, cfg)
		require.NoError(t, err)
		assert.Equal(t, "media", s.Bucket())
		assert.Equal(t, defaultPresignExpiry, s.presignExpiry)
	})
}

func TestNormalizeEndpoint(t *testing.T) {
	got, err := normalizeEndpoint("minio.internal:9000")
	require.NoError(t, err)
	assert.Equal(t, "https://minio.internal:9000", got)

	got, err = normalizeEndpoint("http://localhost:9000")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", got)
}

func TestS3ObjectStorage_PresignedURLs(t *testing.T) {
	ctx := context.Background()
	s, err := NewS3ObjectStorage(ctx, testConfig("http://localhost:9000"), WithPresignExpiry(5*time.Minute))
	require.NoError(t, err)

	before := time.Now()
	upload, expiresAt, err := s.GenerateUploadURL(ctx, "brands/logo.png", "image/png", 0)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(upload, "http://localhost:9000/media/brands/logo.png?"), upload)
	assert.Contains(t, upload, "X-Amz-Signature=")
	assert.Contains(t, upload, "X-Amz-Expires=300")
	assert.WithinDuration(t, before.Add(5*time.Minute), expiresAt, 5*time.Second)

	download, _, err := s.GenerateDownloadURL(ctx, "brands/logo.png", time.Hour)
	require.NoError(t, err)
	assert.Contains(t, download, "X-Amz-Expires=3600")

	_, _, err = s.GenerateUploadURL(ctx, "", "image/png", 0)
	assert.ErrorIs(t, err, ErrEmptyKey)
	_, _, err = s.GenerateDownloadURL(ctx, "", 0)
	assert.ErrorIs(t, err, ErrEmptyKey)
}

func TestS3ObjectStorage_ObjectLifecycle(t *testing.T) {
	ctx := context.Background()
	fake, srv := newFakeS3(t)
	s, err := NewS3ObjectStorage(ctx, testConfig(srv.URL))
	require.NoError(t, err)

	require.NoError(t, s.EnsureBucket(ctx))
	assert.True(t, fake.hasBucket("media"))
	require.NoError(t, s.EnsureBucket(ctx))

	exists, err := s.ObjectExists(ctx, "masters/a.jpg")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, s.Put(ctx, "masters/a.jpg", []byte("jpeg"), "image/jpeg"))
	exists, err = s.ObjectExists(ctx, "masters/a.jpg")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, s.DeleteObject(ctx, "masters/a.jpg"))
	exists, err = s.ObjectExists(ctx, "masters/a.jpg")
	require.NoError(t, err)
	assert.False(t, exists)

	assert.ErrorIs(t, s.DeleteObject(ctx, ""), ErrEmptyKey)
	_, err = s.ObjectExists(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyKey)
}

func TestMemoryObjectStorage(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryObjectStorage("https://cdn.test")
	m.now = func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }

	url, expiresAt, err := m.GenerateUploadURL(ctx, "brands/x.png", "image/png", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/brands/x.png?expires=2024-05-01T00%3A01%3A00Z&op=put", url)
	assert.Equal(t, m.now().Add(time.Minute), expiresAt)

	exists, err := m.ObjectExists(ctx, "brands/x.png")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, m.Put(ctx, "brands/x.png", nil, "image/png"))
	exists, _ = m.ObjectExists(ctx, "brands/x.png")
	assert.True(t, exists)

	require.NoError(t, m.DeleteObject(ctx, "brands/x.png"))
	exists, _ = m.ObjectExists(ctx, "brands/x.png")
	assert.False(t, exists)

	_, _, err = m.GenerateDownloadURL(ctx, "", 0)
	assert.ErrorIs(t, err, ErrEmptyKey)
}
