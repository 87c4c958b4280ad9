package out

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/improdutividade/artia/internal/modules/ledger/domain"
	ledgerout "github.com/improdutividade/artia/internal/modules/ledger/port/out"
	apperrors "github.com/improdutividade/artia/internal/platform/errors"
)

// MemorySessionStore keeps sessions for the lifetime of the process.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
	current  string
}

func NewMemorySessionStore() ledgerout.SessionStore {
	return &MemorySessionStore{sessions: map[string]domain.Session{}}
}

func (s *MemorySessionStore) Save(_ context.Context, session domain.Session) error {
	if session.ID == "" {
		return fmt.Errorf("%w: empty session id", apperrors.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = cloneSession(session)
	return nil
}

func (s *MemorySessionStore) Load(_ context.Context, sessionID string) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return domain.Session{}, fmt.Errorf("%w: %s", apperrors.ErrSessionNotFound, sessionID)
	}
	return cloneSession(session), nil
}

func (s *MemorySessionStore) List(_ context.Context) ([]domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		out = append(out, cloneSession(session))
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.Before(out[b].CreatedAt) })
	return out, nil
}

func (s *MemorySessionStore) SetCurrent(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return fmt.Errorf("%w: %s", apperrors.ErrSessionNotFound, sessionID)
	}
	s.current = sessionID
	return nil
}

func (s *MemorySessionStore) Current(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == "" {
		return "", fmt.Errorf("%w: no current session", apperrors.ErrSessionNotFound)
	}
	return s.current, nil
}

// cloneSession detaches the ledger slices and open pointer from the caller.
func cloneSession(in domain.Session) domain.Session {
	out := in
	out.Ledger.History = append([]domain.ActivityRecord{}, in.Ledger.History...)
	if in.Ledger.Open != nil {
		open := *in.Ledger.Open
		out.Ledger.Open = &open
	}
	return out
}
