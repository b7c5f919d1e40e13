package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rocketscienceinc/deduction-backend/internal/deduction"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is one live game and its deduction state. Sessions exist only
// in memory and die with the process.
type Session struct {
	ID        string
	CreatedAt time.Time
	Ledger    *deduction.GameLedger
}

type SessionRepository interface {
	Save(ctx context.Context, session *Session) error
	GetByID(ctx context.Context, id string) (*Session, error)
	DeleteByID(ctx context.Context, id string) error
	Count(ctx context.Context) int
}

type memorySessions struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionRepository() SessionRepository {
	return &memorySessions{
		sessions: make(map[string]*Session),
	}
}

func (that *memorySessions) Save(_ context.Context, session *Session) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.sessions[session.ID] = session

	return nil
}

func (that *memorySessions) GetByID(_ context.Context, id string) (*Session, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	session, ok := that.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}

	return session, nil
}

func (that *memorySessions) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.sessions[id]; !ok {
		return ErrSessionNotFound
	}

	delete(that.sessions, id)

	return nil
}

func (that *memorySessions) Count(_ context.Context) int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.sessions)
}
