package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/deduction-backend/internal/apperror"
	"github.com/rocketscienceinc/deduction-backend/internal/deduction"
	"github.com/rocketscienceinc/deduction-backend/internal/entity"
	"github.com/rocketscienceinc/deduction-backend/internal/repository"
)

func newTestManager() *SessionManager {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	return NewSessionManager(
		logger,
		repository.NewSessionRepository(),
		entity.NewStandardDeck(),
		3, 3,
		deduction.DefaultTuning(),
		deduction.StrategyRuleAugmented,
	)
}

func startTestGame(t *testing.T, manager *SessionManager) string {
	t.Helper()

	sessionID, err := manager.StartGame(context.Background(), []string{"You", "Alice", "Bob"})
	require.NoError(t, err)

	return sessionID
}

func TestSessionManager_StartGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Starts a game with a fresh session id", func(t *testing.T) {
		manager := newTestManager()

		sessionID := startTestGame(t, manager)

		// Then: the id is a valid uuid and the session is live
		_, err := uuid.Parse(sessionID)
		require.NoError(t, err)
		assert.Equal(t, 1, manager.ActiveSessions(ctx))
	})

	t.Run("Every game gets its own session", func(t *testing.T) {
		manager := newTestManager()

		first := startTestGame(t, manager)
		second := startTestGame(t, manager)

		assert.NotEqual(t, first, second)
		assert.Equal(t, 2, manager.ActiveSessions(ctx))
	})

	t.Run("Rejects an invalid seat list", func(t *testing.T) {
		manager := newTestManager()

		_, err := manager.StartGame(ctx, []string{"You", "Alice"})
		require.ErrorIs(t, err, apperror.ErrPlayerCount)
		assert.Zero(t, manager.ActiveSessions(ctx))
	})
}

func TestSessionManager_EndGame(t *testing.T) {
	ctx := context.Background()
	manager := newTestManager()
	sessionID := startTestGame(t, manager)

	// When: the game ends
	err := manager.EndGame(ctx, sessionID)
	require.NoError(t, err)

	// Then: the session is gone and further calls fail
	assert.Zero(t, manager.ActiveSessions(ctx))
	require.ErrorIs(t, manager.EndGame(ctx, sessionID), repository.ErrSessionNotFound)
	_, err = manager.Suggestions(ctx, sessionID)
	require.ErrorIs(t, err, repository.ErrSessionNotFound)
}

func TestSessionManager_RecordSuggestion(t *testing.T) {
	ctx := context.Background()

	t.Run("Applies the event to the session's ledger", func(t *testing.T) {
		manager := newTestManager()
		sessionID := startTestGame(t, manager)

		// When: Alice shows Plum to You
		err := manager.RecordSuggestion(ctx, sessionID, "You", "Plum", "Knife", "Library", "Alice", "Plum")
		require.NoError(t, err)

		// Then: the event is logged and the hard fact derived
		log, err := manager.Suggestions(ctx, sessionID)
		require.NoError(t, err)
		require.Len(t, log, 1)
		assert.Equal(t, "Plum", log[0].ShownCard)

		known, _, err := manager.PlayerCards(ctx, sessionID, "Alice")
		require.NoError(t, err)
		assert.Equal(t, []string{"Plum"}, known)

		global, err := manager.GlobalKnownCards(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, []string{"Plum"}, global)
	})

	t.Run("Passes ledger rejections through", func(t *testing.T) {
		manager := newTestManager()
		sessionID := startTestGame(t, manager)

		err := manager.RecordSuggestion(ctx, sessionID, "You", "Plum", "Knife", "Library", "You", "")
		require.ErrorIs(t, err, deduction.ErrSelfRefutation)

		log, err := manager.Suggestions(ctx, sessionID)
		require.NoError(t, err)
		assert.Empty(t, log)
	})

	t.Run("Fails for an unknown session", func(t *testing.T) {
		manager := newTestManager()

		err := manager.RecordSuggestion(ctx, "missing", "You", "Plum", "Knife", "Library", "", "")
		require.ErrorIs(t, err, repository.ErrSessionNotFound)
	})
}

func TestSessionManager_SetupCalls(t *testing.T) {
	ctx := context.Background()
	manager := newTestManager()
	sessionID := startTestGame(t, manager)

	// When: the viewer's hand and the table cards are recorded
	require.NoError(t, manager.SetOwnCards(ctx, sessionID, []string{"Plum", "Rope", "Study"}))
	remainder := []string{"Mustard", "White", "Peacock", "Candlestick", "Revolver", "Ballroom", "Conservatory", "Lounge", "Hall"}
	require.NoError(t, manager.SetRemainderCards(ctx, sessionID, remainder))

	// Then: twelve cards are resolved before the first suggestion
	global, err := manager.GlobalKnownCards(ctx, sessionID)
	require.NoError(t, err)
	assert.Len(t, global, 12)

	// Then: a remainder card cannot be claimed again
	err = manager.SetOwnCards(ctx, sessionID, []string{"Mustard", "Knife", "Kitchen"})
	require.ErrorIs(t, err, apperror.ErrCardKnown)
}

func TestSessionManager_SolutionQueries(t *testing.T) {
	ctx := context.Background()
	manager := newTestManager()
	sessionID := startTestGame(t, manager)

	require.NoError(t, manager.RecordSuggestion(ctx, sessionID, "You", "Scarlett", "Rope", "Kitchen", "", ""))

	probs, err := manager.SolutionProbabilities(ctx, sessionID)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, probs[entity.CategorySuspect]["Scarlett"], 1e-6)

	solution, err := manager.MostLikelySolution(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, "Rope", solution[entity.CategoryWeapon])

	// Then: a non-positive threshold falls back to the configured default
	confident, err := manager.IsSolutionConfident(ctx, sessionID, 0)
	require.NoError(t, err)
	assert.True(t, confident)
}

func TestSessionManager_HandQueries(t *testing.T) {
	ctx := context.Background()
	manager := newTestManager()
	sessionID := startTestGame(t, manager)

	require.NoError(t, manager.RecordSuggestion(ctx, sessionID, "You", "Plum", "Knife", "Library", "Alice", "Plum"))

	t.Run("MostLikelyCards defaults to the configured top count", func(t *testing.T) {
		ranked, err := manager.MostLikelyCards(ctx, sessionID, "Alice", 0)
		require.NoError(t, err)
		require.Len(t, ranked, 3)
		assert.Equal(t, "Plum", ranked[0].Card)
		assert.InDelta(t, 1.0, ranked[0].Probability, 1e-6)
	})

	t.Run("CardsAboveThreshold filters the hand", func(t *testing.T) {
		certain, err := manager.CardsAboveThreshold(ctx, sessionID, "Alice", 0.99)
		require.NoError(t, err)
		require.Len(t, certain, 1)
		assert.Equal(t, "Plum", certain[0].Card)
	})

	t.Run("Rejects an unknown player", func(t *testing.T) {
		_, _, err := manager.PlayerCards(ctx, sessionID, "Mallory")
		require.ErrorIs(t, err, apperror.ErrUnknownPlayer)
	})
}
