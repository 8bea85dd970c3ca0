package blob

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the behavior every driver must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	got, err := s.ReadMany(ctx, []string{"@taskpile/aisles", "@taskpile/items"})
	require.NoError(t, err)
	assert.Empty(t, got, "absent keys are omitted")

	err = s.WriteMany(ctx, map[string][]byte{
		"@taskpile/aisles": []byte(`["Dairy"]`),
		"@taskpile/items":  []byte(`{}`),
	})
	require.NoError(t, err)

	got, err = s.ReadMany(ctx, []string{"@taskpile/aisles", "@taskpile/items", "missing"})
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{
		"@taskpile/aisles": []byte(`["Dairy"]`),
		"@taskpile/items":  []byte(`{}`),
	}, got)

	// Overwrite one key, the other stays.
	require.NoError(t, s.WriteMany(ctx, map[string][]byte{"@taskpile/aisles": []byte(`["Dairy","Bakery"]`)}))
	got, err = s.ReadMany(ctx, []string{"@taskpile/aisles", "@taskpile/items"})
	require.NoError(t, err)
	assert.Equal(t, `["Dairy","Bakery"]`, string(got["@taskpile/aisles"]))
	assert.Equal(t, `{}`, string(got["@taskpile/items"]))

	err = s.WriteMany(ctx, map[string][]byte{"../escape": []byte(`x`)})
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestMemoryStore(t *testing.T) {
	s := NewMemory()
	assert.Equal(t, DriverMemory, s.Driver())
	exerciseStore(t, s)
}

func TestMemoryStoreCopiesPayloads(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	payload := []byte(`[]`)
	require.NoError(t, s.WriteMany(ctx, map[string][]byte{"k": payload}))
	payload[0] = 'x'

	got, err := s.ReadMany(ctx, []string{"k"})
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got["k"]))
}

func TestMemoryStoreCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemory().ReadMany(ctx, []string{"k"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFilesystemStore(t *testing.T) {
	root := filepath.Join(t.TempDir(), "blobs")
	s, err := NewFilesystem(root)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, DriverFilesystem, s.Driver())
	exerciseStore(t, s)
	assert.FileExists(t, filepath.Join(root, "@taskpile", "items.json"))
}

func TestFilesystemStoreReopen(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()

	s, err := NewFilesystem(root)
	require.NoError(t, err)
	require.NoError(t, s.WriteMany(ctx, map[string][]byte{"state": []byte(`["Produce"]`)}))

	reopened, err := NewFilesystem(root)
	require.NoError(t, err)
	got, err := reopened.ReadMany(ctx, []string{"state"})
	require.NoError(t, err)
	assert.Equal(t, `["Produce"]`, string(got["state"]))
}

func TestSQLiteStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "data", "shop.db")
	s, err := NewSQLite(dbPath)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, DriverSQLite, s.Driver())
	exerciseStore(t, s)
	assert.FileExists(t, dbPath)
}

func TestSQLiteStoreEmptyKeys(t *testing.T) {
	s, err := NewSQLite(filepath.Join(t.TempDir(), "shop.db"))
	require.NoError(t, err)
	defer s.Close()

	got, err := s.ReadMany(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSanitizeKey(t *testing.T) {
	tests := []struct {
		key     string
		want    string
		wantErr bool
	}{
		{"@taskpile/items", "@taskpile/items", false},
		{"a//b", "a/b", false},
		{"", "", true},
		{"   ", "", true},
		{"/etc/passwd", "", true},
		{"a/../../b", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := sanitizeKey(tt.key)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidKey)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
