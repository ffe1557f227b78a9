package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contourline/leadscore-cli/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func saveProfile(t *testing.T, s *SQLiteStore, id, category string, createdAt time.Time) {
	t.Helper()
	require.NoError(t, s.SaveProfile(context.Background(), &model.Profile{
		ID:          id,
		Category:    category,
		Text:        "perfil " + id,
		SourceFiles: []string{"ganhos.csv"},
		CreatedAt:   createdAt,
	}))
}

func TestSQLiteStore_SaveAndLatest(t *testing.T) {
	s := newTestSQLiteStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	saveProfile(t, s, "p-old", "estetica", now.Add(-time.Hour))
	saveProfile(t, s, "p-new", "estetica", now)

	p, err := s.LatestProfile(context.Background(), "estetica")
	require.NoError(t, err)
	assert.Equal(t, "p-new", p.ID)
	assert.Equal(t, "perfil p-new", p.Text)
	assert.Equal(t, []string{"ganhos.csv"}, p.SourceFiles)
}

func TestSQLiteStore_LatestProfile_NotFound(t *testing.T) {
	s := newTestSQLiteStore(t)

	_, err := s.LatestProfile(context.Background(), "unknown")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_CategoriesAreIsolated(t *testing.T) {
	s := newTestSQLiteStore(t)
	now := time.Now().UTC()

	saveProfile(t, s, "p-est", "estetica", now)
	saveProfile(t, s, "p-med", "medica", now)

	p, err := s.LatestProfile(context.Background(), "medica")
	require.NoError(t, err)
	assert.Equal(t, "p-med", p.ID)
}

func TestSQLiteStore_ListProfiles(t *testing.T) {
	s := newTestSQLiteStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	saveProfile(t, s, "p-1", "estetica", now.Add(-2*time.Hour))
	saveProfile(t, s, "p-2", "estetica", now.Add(-time.Hour))
	saveProfile(t, s, "p-3", "medica", now)

	profiles, err := s.ListProfiles(context.Background(), "estetica", 0)
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "p-2", profiles[0].ID)
	assert.Equal(t, "p-1", profiles[1].ID)

	all, err := s.ListProfiles(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	limited, err := s.ListProfiles(context.Background(), "", 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "p-3", limited[0].ID)
}

func TestSQLiteStore_SaveIsAppendOnly(t *testing.T) {
	s := newTestSQLiteStore(t)
	now := time.Now().UTC()

	saveProfile(t, s, "p-1", "estetica", now)
	saveProfile(t, s, "p-2", "estetica", now.Add(time.Minute))

	profiles, err := s.ListProfiles(context.Background(), "estetica", 0)
	require.NoError(t, err)
	assert.Len(t, profiles, 2)
}

func TestNew_DriverSelection(t *testing.T) {
	dir := t.TempDir()

	s, err := New(context.Background(), Config{Driver: "sqlite", DatabaseURL: filepath.Join(dir, "a.db")})
	require.NoError(t, err)
	require.IsType(t, &SQLiteStore{}, s)
	s.Close()

	_, err = New(context.Background(), Config{Driver: "postgres"})
	assert.Error(t, err)

	_, err = New(context.Background(), Config{Driver: "oracle"})
	assert.Error(t, err)
}
