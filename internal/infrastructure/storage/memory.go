package storage

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
)

var _ catalogapp.ObjectStorageService = (*MemoryObjectStorage)(nil)

// MemoryObjectStorage is used when no bucket is configured. Objects live in
// process memory and are served under BaseURL once Register mounts it.
type MemoryObjectStorage struct {
	BaseURL string

	mu      sync.RWMutex
	objects map[string]memoryObject
	now     func() time.Time
}

type memoryObject struct {
	data        []byte
	contentType string
}

// NewMemoryObjectStorage creates an empty store
func NewMemoryObjectStorage(baseURL string) *MemoryObjectStorage {
	if baseURL == "" {
		baseURL = "http://localhost:9000/media"
	}
	return &MemoryObjectStorage{BaseURL: strings.TrimSuffix(baseURL, "/"), objects: make(map[string]memoryObject), now: time.Now}
}

func (m *MemoryObjectStorage) sign(verb, key string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, ErrEmptyKey
	}
	if expiresIn <= 0 {
		expiresIn = defaultPresignExpiry
	}
	expiresAt := m.now().Add(expiresIn)
	q := url.Values{"op": {verb}, "expires": {expiresAt.UTC().Format(time.RFC3339)}}
	return m.BaseURL + "/" + key + "?" + q.Encode(), expiresAt, nil
}

// GenerateUploadURL returns a PUT URL served by Register
func (m *MemoryObjectStorage) GenerateUploadURL(_ context.Context, key, _ string, expiresIn time.Duration) (string, time.Time, error) {
	return m.sign("put", key, expiresIn)
}

// GenerateDownloadURL returns a GET URL served by Register
func (m *MemoryObjectStorage) GenerateDownloadURL(_ context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	return m.sign("get", key, expiresIn)
}

// Put stores a copy of data under key
func (m *MemoryObjectStorage) Put(_ context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = memoryObject{data: append([]byte(nil), data...), contentType: contentType}
	return nil
}

// DeleteObject forgets key
func (m *MemoryObjectStorage) DeleteObject(_ context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// ObjectExists reports whether key holds an object
func (m *MemoryObjectStorage) ObjectExists(_ context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[key]
	return ok, nil
}

// Register serves the signed URLs under path: GET reads an object and PUT
// uploads one. Unsigned, expired or mismatched requests are refused.
func (m *MemoryObjectStorage) Register(r gin.IRoutes, path string) {
	path = strings.TrimSuffix(path, "/")
	r.GET(path+"/*key", m.download)
	r.PUT(path+"/*key", m.upload)
}

func (m *MemoryObjectStorage) authorize(c *gin.Context, op string) (string, bool) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	expires, err := time.Parse(time.RFC3339, c.Query("expires"))
	if key == "" || c.Query("op") != op || err != nil || m.now().After(expires) {
		c.AbortWithStatus(http.StatusForbidden)
		return "", false
	}
	return key, true
}

func (m *MemoryObjectStorage) download(c *gin.Context) {
	key, ok := m.authorize(c, "get")
	if !ok {
		return
	}
	m.mu.RLock()
	obj, found := m.objects[key]
	m.mu.RUnlock()
	if !found {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	contentType := obj.contentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Data(http.StatusOK, contentType, obj.data)
}

func (m *MemoryObjectStorage) upload(c *gin.Context) {
	key, ok := m.authorize(c, "put")
	if !ok {
		return
	}
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.AbortWithStatus(http.StatusRequestEntityTooLarge)
		return
	}
	if err := m.Put(c.Request.Context(), key, data, c.ContentType()); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	c.Status(http.StatusOK)
}
