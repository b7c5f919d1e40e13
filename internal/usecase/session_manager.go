package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/deduction-backend/internal/deduction"
	"github.com/rocketscienceinc/deduction-backend/internal/entity"
	"github.com/rocketscienceinc/deduction-backend/internal/repository"
)

type sessionRepo interface {
	Save(ctx context.Context, session *repository.Session) error
	GetByID(ctx context.Context, id string) (*repository.Session, error)
	DeleteByID(ctx context.Context, id string) error
	Count(ctx context.Context) int
}

// SessionManager is the external surface of the engine: it owns game
// sessions and serializes access so one suggestion event is fully
// applied before the next call, mutating or reading, is accepted.
type SessionManager struct {
	logger   *slog.Logger
	sessions sessionRepo

	deck      *entity.Deck
	handSize  int
	topLikely int
	tuning    deduction.Tuning
	strategy  deduction.StrategyKind

	mu sync.Mutex
}

func NewSessionManager(logger *slog.Logger, sessions sessionRepo, deck *entity.Deck, handSize, topLikely int, tuning deduction.Tuning, strategy deduction.StrategyKind) *SessionManager {
	return &SessionManager{
		logger: logger.With("component", "session_manager"),

		sessions:  sessions,
		deck:      deck,
		handSize:  handSize,
		topLikely: topLikely,
		tuning:    tuning,
		strategy:  strategy,
	}
}

// StartGame creates a session for the given seat order. The first name
// is the local viewer. Returns the new session ID.
func (that *SessionManager) StartGame(ctx context.Context, playerNames []string) (string, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	ledger, err := deduction.NewGameLedger(that.deck, playerNames, that.handSize, that.tuning, that.strategy)
	if err != nil {
		return "", fmt.Errorf("failed to start game: %w", err)
	}

	session := &repository.Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Ledger:    ledger,
	}

	if err = that.sessions.Save(ctx, session); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}

	that.logger.Info("game started", "session_id", session.ID, "players", len(playerNames))

	return session.ID, nil
}

// EndGame discards a session.
func (that *SessionManager) EndGame(ctx context.Context, sessionID string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.sessions.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	that.logger.Info("game ended", "session_id", sessionID)

	return nil
}

// SetOwnCards records the viewer's dealt hand.
func (that *SessionManager) SetOwnCards(ctx context.Context, sessionID string, cards []string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, err := that.getSession(ctx, sessionID)
	if err != nil {
		return err
	}

	if err = session.Ledger.SetOwnCards(cards); err != nil {
		return fmt.Errorf("failed to set own cards: %w", err)
	}

	that.logger.Info("own cards recorded", "session_id", sessionID, "cards", len(cards))

	return nil
}

// SetRemainderCards records the face-up table cards.
func (that *SessionManager) SetRemainderCards(ctx context.Context, sessionID string, cards []string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, err := that.getSession(ctx, sessionID)
	if err != nil {
		return err
	}

	if err = session.Ledger.SetRemainderCards(cards); err != nil {
		return fmt.Errorf("failed to set remainder cards: %w", err)
	}

	that.logger.Info("remainder cards recorded", "session_id", sessionID, "cards", len(cards))

	return nil
}

// RecordSuggestion applies one suggestion event atomically. Pass an
// empty responder when nobody refuted and an empty shownCard when the
// refuting card stayed hidden.
func (that *SessionManager) RecordSuggestion(ctx context.Context, sessionID, suggester, suspect, weapon, room, responder, shownCard string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, err := that.getSession(ctx, sessionID)
	if err != nil {
		return err
	}

	if err = session.Ledger.RecordSuggestion(suggester, suspect, weapon, room, responder, shownCard); err != nil {
		return fmt.Errorf("failed to record suggestion: %w", err)
	}

	that.logger.Info("suggestion recorded",
		"session_id", sessionID,
		"suggester", suggester,
		"refuted", responder != "",
		"card_shown", shownCard != "",
	)

	return nil
}

// Suggestions returns the chronological suggestion log.
func (that *SessionManager) Suggestions(ctx context.Context, sessionID string) ([]entity.Suggestion, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, err := that.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return session.Ledger.Suggestions(), nil
}

// PlayerCards returns a player's certainly-held and certainly-not-held
// cards.
func (that *SessionManager) PlayerCards(ctx context.Context, sessionID, player string) (known, cannotHave []string, err error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, err := that.getSession(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	return session.Ledger.PlayerCards(player)
}

// GlobalKnownCards returns every card with a certain holder.
func (that *SessionManager) GlobalKnownCards(ctx context.Context, sessionID string) ([]string, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, err := that.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return session.Ledger.GlobalKnownCards(), nil
}

// SolutionProbabilities returns the per-category solution distributions.
func (that *SessionManager) SolutionProbabilities(ctx context.Context, sessionID string) (map[entity.Category]map[string]float64, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, err := that.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return session.Ledger.SolutionProbabilities(), nil
}

// MostLikelySolution returns the current best solution guess.
func (that *SessionManager) MostLikelySolution(ctx context.Context, sessionID string) (map[entity.Category]string, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, err := that.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return session.Ledger.MostLikelySolution(), nil
}

// IsSolutionConfident reports whether the solution guess clears the
// threshold; non-positive threshold means the configured default.
func (that *SessionManager) IsSolutionConfident(ctx context.Context, sessionID string, threshold float64) (bool, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, err := that.getSession(ctx, sessionID)
	if err != nil {
		return false, err
	}

	return session.Ledger.IsSolutionConfident(threshold), nil
}

// MostLikelyCards returns a player's n most likely cards; non-positive n
// means the configured default.
func (that *SessionManager) MostLikelyCards(ctx context.Context, sessionID, player string, n int) ([]deduction.CardProbability, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, err := that.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if n <= 0 {
		n = that.topLikely
	}

	return session.Ledger.MostLikelyCards(player, n), nil
}

// CardsAboveThreshold returns a player's cards at or above threshold.
func (that *SessionManager) CardsAboveThreshold(ctx context.Context, sessionID, player string, threshold float64) ([]deduction.CardProbability, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, err := that.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return session.Ledger.CardsAboveThreshold(player, threshold), nil
}

// ActiveSessions returns how many sessions are live.
func (that *SessionManager) ActiveSessions(ctx context.Context) int {
	return that.sessions.Count(ctx)
}

func (that *SessionManager) getSession(ctx context.Context, sessionID string) (*repository.Session, error) {
	session, err := that.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session by id: %w", err)
	}

	return session, nil
}
