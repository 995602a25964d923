package credstore_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pigmykit/go-agent-client/credstore"
	interrors "github.com/pigmykit/go-agent-client/internal/errors"
)

func newTestStore(t *testing.T) (*credstore.FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.bin")
	store, err := credstore.NewFileStore(path, "test-passphrase")
	require.NoError(t, err)
	return store, path
}

func storedFixture() credstore.StoredSession {
	return credstore.StoredSession{
		UserJSON:  []byte(`{"agentno": "9822475463", "agentname": "ram"}`),
		Token:     "tok-1",
		Timestamp: time.Date(2026, 8, 31, 9, 30, 0, 0, time.UTC),
	}
}

func TestNewFileStore(t *testing.T) {
	t.Run("requires path", func(t *testing.T) {
		_, err := credstore.NewFileStore("", "key")
		require.Error(t, err)
	})

	t.Run("requires passphrase", func(t *testing.T) {
		_, err := credstore.NewFileStore("/tmp/x", "")
		require.Error(t, err)
	})
}

func TestFileStore(t *testing.T) {
	t.Run("save then load round-trips", func(t *testing.T) {
		store, _ := newTestStore(t)

		require.NoError(t, store.Save(storedFixture()))

		loaded, err := store.Load()
		require.NoError(t, err)
		require.NotNil(t, loaded)
		require.Equal(t, storedFixture().UserJSON, loaded.UserJSON)
		require.Equal(t, "tok-1", loaded.Token)
		require.Equal(t, storedFixture().Timestamp.UnixMilli(), loaded.Timestamp.UnixMilli())
	})

	t.Run("load with nothing stored reports absent", func(t *testing.T) {
		store, _ := newTestStore(t)

		loaded, err := store.Load()
		require.NoError(t, err)
		require.Nil(t, loaded)
	})

	t.Run("a session missing a key reads as absent", func(t *testing.T) {
		store, _ := newTestStore(t)

		missingToken := storedFixture()
		missingToken.Token = ""
		require.NoError(t, store.Save(missingToken))

		loaded, err := store.Load()
		require.NoError(t, err)
		require.Nil(t, loaded)
	})

	t.Run("save replaces the previous session", func(t *testing.T) {
		store, _ := newTestStore(t)
		require.NoError(t, store.Save(storedFixture()))

		replaced := storedFixture()
		replaced.Token = "tok-2"
		require.NoError(t, store.Save(replaced))

		loaded, err := store.Load()
		require.NoError(t, err)
		require.Equal(t, "tok-2", loaded.Token)
	})

	t.Run("clear is idempotent", func(t *testing.T) {
		store, _ := newTestStore(t)
		require.NoError(t, store.Save(storedFixture()))

		require.NoError(t, store.Clear())
		require.NoError(t, store.Clear())

		loaded, err := store.Load()
		require.NoError(t, err)
		require.Nil(t, loaded)
	})

	t.Run("file is not plaintext on disk", func(t *testing.T) {
		store, path := newTestStore(t)
		require.NoError(t, store.Save(storedFixture()))

		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		require.NotContains(t, string(raw), "tok-1")
		require.NotContains(t, string(raw), "9822475463")
	})

	t.Run("mangled file reports corruption", func(t *testing.T) {
		store, path := newTestStore(t)
		require.NoError(t, store.Save(storedFixture()))
		require.NoError(t, os.WriteFile(path, []byte("not an encrypted session"), 0o600))

		_, err := store.Load()
		require.ErrorIs(t, err, interrors.ErrStorageCorrupt)
	})

	t.Run("wrong passphrase reports corruption", func(t *testing.T) {
		store, path := newTestStore(t)
		require.NoError(t, store.Save(storedFixture()))

		other, err := credstore.NewFileStore(path, "a-different-passphrase")
		require.NoError(t, err)
		_, err = other.Load()
		require.ErrorIs(t, err, interrors.ErrStorageCorrupt)
	})

	t.Run("creates the parent directory on save", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "session.bin")
		store, err := credstore.NewFileStore(path, "test-passphrase")
		require.NoError(t, err)

		require.NoError(t, store.Save(storedFixture()))
		loaded, err := store.Load()
		require.NoError(t, err)
		require.NotNil(t, loaded)
	})
}
