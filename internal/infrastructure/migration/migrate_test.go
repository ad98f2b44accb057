package migration

import (
	"io/fs"
	"strings"
	"sync"
	"testing"

	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm/schema"
)

func TestEmbeddedMigrations_ArePaired(t *testing.T) {
	entries, err := ListMigrations(migrations.Files)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for i, e := range entries {
		assert.Equal(t, uint(i+1), e.Version, "versions are contiguous")
		assert.True(t, e.HasUp && e.HasDown, "%s needs both directions", e.FileName())
	}
}

func TestEmbeddedMigrations_CoverEveryModel(t *testing.T) {
	var up strings.Builder
	require.NoError(t, fs.WalkDir(migrations.Files, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".up.sql") {
			return err
		}
		b, err := fs.ReadFile(migrations.Files, path)
		up.Write(b)
		return err
	}))
	sql := up.String()

	cache := &sync.Map{}
	for _, model := range persistence.Models() {
		s, err := schema.Parse(model, cache, schema.NamingStrategy{})
		require.NoError(t, err)
		assert.Contains(t, sql, "CREATE TABLE "+s.Table+" (", "table for %s", s.Name)
		for _, rel := range s.Relationships.Many2Many {
			assert.Contains(t, sql, "CREATE TABLE "+rel.JoinTable.Table+" (")
		}
	}
}

func TestDirURL(t *testing.T) {
	_, err := dirURL("")
	assert.Error(t, err)

	u, err := dirURL("migrations")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "file:///"))
	assert.True(t, strings.HasSuffix(u, "/migrations"))
}

func TestZapMigrateLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := zapMigrateLogger{log: zap.New(core).Sugar(), verbose: true}

	l.Printf("Finished 1/u catalog (read %v, ran %v)\n", "2ms", "40ms")
	assert.True(t, l.Verbose())
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "Finished 1/u catalog (read 2ms, ran 40ms)", logs.All()[0].Message)
}
