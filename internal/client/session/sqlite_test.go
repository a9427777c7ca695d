package session

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mvbri/sistema-gestion-soporte-sub000/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T, path string) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_LoadEmpty(t *testing.T) {
	store := openTestStore(t, filepath.Join(t.TempDir(), "session.db"))

	sess, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestSQLiteStore_SaveLoadClear(t *testing.T) {
	store := openTestStore(t, filepath.Join(t.TempDir(), "session.db"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &Session{
		Token: "tok-u1",
		User:  &domain.User{UserID: "u1", Email: "maria@example.com"},
	}))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "tok-u1", got.Token)
	assert.Equal(t, "u1", got.User.UserID)

	require.NoError(t, store.Clear(ctx))
	got, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteStore_SaveOverwrites(t *testing.T) {
	store := openTestStore(t, filepath.Join(t.TempDir(), "session.db"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &Session{Token: "tok-old"}))
	require.NoError(t, store.Save(ctx, &Session{Token: "tok-new"}))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "tok-new", got.Token)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")
	ctx := context.Background()

	first := openTestStore(t, path)
	require.NoError(t, first.Save(ctx, &Session{Token: "tok-u1"}))
	require.NoError(t, first.Close())

	second := openTestStore(t, path)
	got, err := second.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "tok-u1", got.Token)
}
