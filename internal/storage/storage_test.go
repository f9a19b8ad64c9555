package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the behavior every backend must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, KeyToken)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, KeyToken, "tok-1"))
	require.NoError(t, s.Set(ctx, KeyUser, `{"id":"1"}`))

	v, err := s.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", v)

	require.NoError(t, s.Set(ctx, KeyToken, "tok-2"))
	v, err = s.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "tok-2", v)

	require.NoError(t, s.Delete(ctx, KeyToken, KeyUser))
	_, err = s.Get(ctx, KeyToken)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(ctx, KeyUser)
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting absent keys is not an error.
	assert.NoError(t, s.Delete(ctx, KeyToken))
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	exerciseStore(t, s)
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	s, err := NewFileStore(path)
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")

	first, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, KeyToken, "persisted"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	second, err := NewFileStore(path)
	require.NoError(t, err)
	v, err := second.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "persisted", v)
}

func TestFileStore_RemovesEmptyFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")

	s, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, KeyToken, "x"))
	require.NoError(t, s.Delete(ctx, KeyToken))

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s, err := NewFileStore(path)
	require.NoError(t, err)

	_, err = s.Get(context.Background(), KeyToken)
	require.ErrorIs(t, err, ErrCorrupt)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestFileStore_CorruptFileIsReplaced(t *testing.T) {
	ctx := context.Background()

	t.Run("set", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
		s, err := NewFileStore(path)
		require.NoError(t, err)

		require.NoError(t, s.Set(ctx, KeyToken, "tok"))
		got, err := s.Get(ctx, KeyToken)
		require.NoError(t, err)
		assert.Equal(t, "tok", got)
	})

	t.Run("delete", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
		s, err := NewFileStore(path)
		require.NoError(t, err)

		require.NoError(t, s.Delete(ctx, KeyToken, KeyUser))
		_, err = os.Stat(path)
		assert.True(t, os.IsNotExist(err))
		_, err = s.Get(ctx, KeyToken)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)

	s, err := NewRedisStore(context.Background(), "redis://"+mr.Addr(), "")
	require.NoError(t, err)
	defer s.Close()

	exerciseStore(t, s)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr := miniredis.RunT(t)

	s, err := NewRedisStore(context.Background(), "redis://"+mr.Addr(), "test:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set(context.Background(), KeyToken, "abc"))
	got, err := mr.Get("test:token")
	require.NoError(t, err)
	assert.Equal(t, "abc", got)
}

func TestRedisStore_BadURL(t *testing.T) {
	_, err := NewRedisStore(context.Background(), "not-a-url", "")
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Options{Driver: DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(ctx, Options{Driver: DriverFile, Path: filepath.Join(t.TempDir(), "s.json")})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	mr := miniredis.RunT(t)
	s, err = Open(ctx, Options{Driver: DriverRedis, RedisURL: "redis://" + mr.Addr()})
	require.NoError(t, err)
	assert.IsType(t, &RedisStore{}, s)
	_ = s.Close()

	_, err = Open(ctx, Options{Driver: "etcd"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage driver")
}
