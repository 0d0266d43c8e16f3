package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/doormanhq/doorman/internal/session/domain"
	"github.com/doormanhq/doorman/internal/session/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "doorman-test.db") + "?_busy_timeout=5000"
	s, err := NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func TestUsers_CreateAndGet(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	u := domain.User{
		ID:           "01J0000000000000000000TEST",
		Email:        "A@X.com",
		Name:         "Ada",
		Role:         "admin",
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
	}
	require.NoError(t, s.Users().CreateUser(ctx, u))

	t.Run("by id", func(t *testing.T) {
		got, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "a@x.com", got.Email, "email stored lowercase")
		require.Equal(t, u.Name, got.Name)
		require.Equal(t, u.Role, got.Role)
		require.Equal(t, u.PasswordHash, got.PasswordHash)
		require.False(t, got.CreatedAt.IsZero())
	})

	t.Run("by email is case insensitive", func(t *testing.T) {
		got, err := s.Users().GetUserByEmail(ctx, "  a@X.COM ")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
	})
}

func TestUsers_NotFound(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Users().GetUserByID(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Users().GetUserByEmail(ctx, "nobody@x.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsers_DuplicateEmail(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	u := domain.User{ID: "01J0000000000000000000DUP1", Email: "dup@x.com", PasswordHash: "h"}
	require.NoError(t, s.Users().CreateUser(ctx, u))

	u2 := domain.User{ID: "01J0000000000000000000DUP2", Email: "DUP@x.com", PasswordHash: "h"}
	require.ErrorIs(t, s.Users().CreateUser(ctx, u2), store.ErrAlreadyExists)
}

func TestUsers_Delete(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	u := domain.User{ID: "01J0000000000000000000DEL1", Email: "del@x.com", PasswordHash: "h"}
	require.NoError(t, s.Users().CreateUser(ctx, u))
	require.NoError(t, s.Users().DeleteUser(ctx, u.ID))

	_, err := s.Users().GetUserByID(ctx, u.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	// Deleting an already-deleted user is not an error.
	require.NoError(t, s.Users().DeleteUser(ctx, u.ID))
}

func TestUsers_IsEmpty(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	empty, err := s.Users().IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	require.NoError(t, s.Users().CreateUser(ctx, domain.User{
		ID: "01J0000000000000000000EMP1", Email: "e@x.com", PasswordHash: "h",
	}))

	empty, err = s.Users().IsEmpty(ctx)
	require.NoError(t, err)
	require.False(t, empty)
}

func TestStore_Ping(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	require.NoError(t, s.Ping(context.Background()))
}
