package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add stores table", "add_stores_table"},
		{"Add-Stores-Table", "add_stores_table"},
		{"ADD_STORES_TABLE", "add_stores_table"},
		{"add__stores__table", "add_stores_table"},
		{"Offer Codes 2", "offer_codes_2"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("-- test"), 0o644))
	}
}

func TestCreateMigration_NumbersAfterHighestVersion(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir,
		"000001_catalog.up.sql", "000001_catalog.down.sql",
		"000004_orders.up.sql", "000004_orders.down.sql",
	)

	c, err := CreateMigration(dir, "Add offer codes", "Unique coupon codes per store")
	require.NoError(t, err)
	assert.Equal(t, uint(5), c.Version)
	assert.Equal(t, "add_offer_codes", c.Name)
	assert.Equal(t, filepath.Join(dir, "000005_add_offer_codes.up.sql"), c.UpPath)
	assert.Equal(t, filepath.Join(dir, "000005_add_offer_codes.down.sql"), c.DownPath)

	up, err := os.ReadFile(c.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- add_offer_codes (up)")
	assert.Contains(t, string(up), "-- Unique coupon codes per store")

	down, err := os.ReadFile(c.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "(down)")
}

func TestCreateMigration_EmptyDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "migrations")

	c, err := CreateMigration(dir, "init", "")
	require.NoError(t, err)
	assert.Equal(t, uint(1), c.Version)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	up, err := os.ReadFile(c.UpPath)
	require.NoError(t, err)
	assert.NotContains(t, string(up), "\n-- \n")
}

func TestCreateMigration_RejectsBlankName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	assert.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir,
		"000002_identity.up.sql", "000002_identity.down.sql",
		"000001_catalog.up.sql", "000001_catalog.down.sql",
		"000003_commerce.up.sql",
		"README.md", ".gitkeep", "embed.go",
	)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "000009_dir.up.sql"), 0o755))

	entries, err := ListMigrations(os.DirFS(dir))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, Entry{Version: 1, Name: "catalog", HasUp: true, HasDown: true}, entries[0])
	assert.Equal(t, Entry{Version: 2, Name: "identity", HasUp: true, HasDown: true}, entries[1])
	assert.Equal(t, Entry{Version: 3, Name: "commerce", HasUp: true}, entries[2])
	assert.Equal(t, "000003_commerce", entries[2].FileName())
}

func TestListMigrations_ConflictingNames(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "000001_catalog.up.sql", "000001_brands.down.sql")

	_, err := ListMigrations(os.DirFS(dir))
	assert.ErrorContains(t, err, "version 1")
}

func TestListMigrations_MissingDirectory(t *testing.T) {
	entries, err := ListMigrations(os.DirFS(filepath.Join(t.TempDir(), "absent")))
	require.NoError(t, err)
	assert.Empty(t, entries)
}
