package gotmpl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storageFactory builds a fresh backend for the shared contract tests.
type storageFactory func(t *testing.T) TemplateStorage

func storageBackends() map[string]storageFactory {
	return map[string]storageFactory{
		StorageDriverNameMemory: func(t *testing.T) TemplateStorage {
			return NewMemoryStorage()
		},
		StorageDriverNameFilesystem: func(t *testing.T) TemplateStorage {
			storage, err := NewFilesystemStorage(t.TempDir())
			require.NoError(t, err)
			return storage
		},
	}
}

func TestStorage_SaveGetRoundtrip(t *testing.T) {
	for name, factory := range storageBackends() {
		t.Run(name, func(t *testing.T) {
			storage := factory(t)
			defer storage.Close()
			ctx := context.Background()

			saved := &StoredTemplate{
				Name:     "greeting",
				Source:   `Hello {{.name}}`,
				Metadata: map[string]string{"author": "test"},
			}
			require.NoError(t, storage.Save(ctx, saved))

			got, err := storage.Get(ctx, "greeting")
			require.NoError(t, err)
			assert.Equal(t, "greeting", got.Name)
			assert.Equal(t, `Hello {{.name}}`, got.Source)
			assert.Equal(t, "test", got.Metadata["author"])
			assert.False(t, got.CreatedAt.IsZero())
			assert.False(t, got.UpdatedAt.IsZero())
		})
	}
}

func TestStorage_SaveOverwritesKeepingCreatedAt(t *testing.T) {
	for name, factory := range storageBackends() {
		t.Run(name, func(t *testing.T) {
			storage := factory(t)
			defer storage.Close()
			ctx := context.Background()

			require.NoError(t, storage.Save(ctx, &StoredTemplate{Name: "t", Source: "v1"}))
			first, err := storage.Get(ctx, "t")
			require.NoError(t, err)

			require.NoError(t, storage.Save(ctx, &StoredTemplate{Name: "t", Source: "v2"}))
			second, err := storage.Get(ctx, "t")
			require.NoError(t, err)

			assert.Equal(t, "v2", second.Source)
			assert.Equal(t, first.CreatedAt, second.CreatedAt)
		})
	}
}

func TestStorage_GetMissing(t *testing.T) {
	for name, factory := range storageBackends() {
		t.Run(name, func(t *testing.T) {
			storage := factory(t)
			defer storage.Close()

			_, err := storage.Get(context.Background(), "missing")
			assert.Error(t, err)
		})
	}
}

func TestStorage_ListSorted(t *testing.T) {
	for name, factory := range storageBackends() {
		t.Run(name, func(t *testing.T) {
			storage := factory(t)
			defer storage.Close()
			ctx := context.Background()

			for _, tmplName := range []string{"zeta", "alpha", "mid"} {
				require.NoError(t, storage.Save(ctx, &StoredTemplate{Name: tmplName, Source: "x"}))
			}

			names, err := storage.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"alpha", "mid", "zeta"}, names)
		})
	}
}

func TestStorage_DeleteAndExists(t *testing.T) {
	for name, factory := range storageBackends() {
		t.Run(name, func(t *testing.T) {
			storage := factory(t)
			defer storage.Close()
			ctx := context.Background()

			require.NoError(t, storage.Save(ctx, &StoredTemplate{Name: "t", Source: "x"}))

			exists, err := storage.Exists(ctx, "t")
			require.NoError(t, err)
			assert.True(t, exists)

			require.NoError(t, storage.Delete(ctx, "t"))

			exists, err = storage.Exists(ctx, "t")
			require.NoError(t, err)
			assert.False(t, exists)

			assert.Error(t, storage.Delete(ctx, "t"))
		})
	}
}

func TestStorage_EmptyNameRejected(t *testing.T) {
	for name, factory := range storageBackends() {
		t.Run(name, func(t *testing.T) {
			storage := factory(t)
			defer storage.Close()

			err := storage.Save(context.Background(), &StoredTemplate{Name: "", Source: "x"})
			assert.Error(t, err)
		})
	}
}

func TestStorage_ClosedRejectsOperations(t *testing.T) {
	for name, factory := range storageBackends() {
		t.Run(name, func(t *testing.T) {
			storage := factory(t)
			require.NoError(t, storage.Close())
			ctx := context.Background()

			_, err := storage.Get(ctx, "t")
			assert.Error(t, err)
			assert.Error(t, storage.Save(ctx, &StoredTemplate{Name: "t", Source: "x"}))
			_, err = storage.List(ctx)
			assert.Error(t, err)
		})
	}
}

func TestStorage_CancelledContext(t *testing.T) {
	storage := NewMemoryStorage()
	defer storage.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := storage.Get(ctx, "t")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryStorage_GetReturnsCopy(t *testing.T) {
	storage := NewMemoryStorage()
	defer storage.Close()
	ctx := context.Background()

	require.NoError(t, storage.Save(ctx, &StoredTemplate{
		Name:     "t",
		Source:   "x",
		Metadata: map[string]string{"k": "v"},
	}))

	got, err := storage.Get(ctx, "t")
	require.NoError(t, err)
	got.Metadata["k"] = "mutated"

	fresh, err := storage.Get(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, "v", fresh.Metadata["k"])
}

func TestFilesystemStorage_RejectsUnsafeNames(t *testing.T) {
	storage, err := NewFilesystemStorage(t.TempDir())
	require.NoError(t, err)
	defer storage.Close()
	ctx := context.Background()

	for _, name := range []string{"../escape", "a/b", "a\\b", "with space"} {
		_, err := storage.Get(ctx, name)
		assert.Error(t, err, name)
	}
}

func TestOpenStorage_DriverRegistry(t *testing.T) {
	assert.Contains(t, ListStorageDrivers(), StorageDriverNameMemory)
	assert.Contains(t, ListStorageDrivers(), StorageDriverNameFilesystem)
	assert.Contains(t, ListStorageDrivers(), StorageDriverNamePostgres)

	storage, err := OpenStorage(StorageDriverNameMemory, "")
	require.NoError(t, err)
	require.NoError(t, storage.Close())

	_, err = OpenStorage("bogus", "")
	assert.Error(t, err)
}
