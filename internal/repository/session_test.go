package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessions(t *testing.T) {
	ctx := context.Background()

	t.Run("Saves and loads a session", func(t *testing.T) {
		repo := NewSessionRepository()
		session := &Session{ID: "game-1", CreatedAt: time.Now()}

		// When: the session is saved
		err := repo.Save(ctx, session)
		require.NoError(t, err)

		// Then: it comes back by id
		got, err := repo.GetByID(ctx, "game-1")
		require.NoError(t, err)
		assert.Same(t, session, got)
		assert.Equal(t, 1, repo.Count(ctx))
	})

	t.Run("Returns ErrSessionNotFound for a missing id", func(t *testing.T) {
		repo := NewSessionRepository()

		_, err := repo.GetByID(ctx, "missing")
		require.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("Overwrites a session saved twice", func(t *testing.T) {
		repo := NewSessionRepository()
		require.NoError(t, repo.Save(ctx, &Session{ID: "game-1"}))

		updated := &Session{ID: "game-1", CreatedAt: time.Now()}
		require.NoError(t, repo.Save(ctx, updated))

		got, err := repo.GetByID(ctx, "game-1")
		require.NoError(t, err)
		assert.Same(t, updated, got)
		assert.Equal(t, 1, repo.Count(ctx))
	})

	t.Run("Deletes a session", func(t *testing.T) {
		repo := NewSessionRepository()
		require.NoError(t, repo.Save(ctx, &Session{ID: "game-1"}))

		// When: the session is deleted
		err := repo.DeleteByID(ctx, "game-1")
		require.NoError(t, err)

		// Then: it is gone and a second delete fails
		_, err = repo.GetByID(ctx, "game-1")
		require.ErrorIs(t, err, ErrSessionNotFound)
		require.ErrorIs(t, repo.DeleteByID(ctx, "game-1"), ErrSessionNotFound)
		assert.Zero(t, repo.Count(ctx))
	})
}
