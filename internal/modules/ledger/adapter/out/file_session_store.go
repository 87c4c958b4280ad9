package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/improdutividade/artia/internal/modules/ledger/domain"
	ledgerout "github.com/improdutividade/artia/internal/modules/ledger/port/out"
	apperrors "github.com/improdutividade/artia/internal/platform/errors"
)

const (
	sessionExt  = ".yaml"
	currentFile = "current"
)

// FileSessionStore keeps one YAML document per session under <data>/sessions.
type FileSessionStore struct {
	dir string
	log zerolog.Logger
}

func NewFileSessionStore(dataDir string, log zerolog.Logger) ledgerout.SessionStore {
	return &FileSessionStore{dir: filepath.Join(dataDir, "sessions"), log: log}
}

func (s *FileSessionStore) Save(_ context.Context, session domain.Session) error {
	path, err := s.sessionPath(session.ID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	payload, err := yaml.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (s *FileSessionStore) Load(_ context.Context, sessionID string) (domain.Session, error) {
	path, err := s.sessionPath(sessionID)
	if err != nil {
		return domain.Session{}, err
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Session{}, fmt.Errorf("%w: %s", apperrors.ErrSessionNotFound, sessionID)
		}
		return domain.Session{}, fmt.Errorf("read session: %w", err)
	}
	session := domain.Session{}
	if err := yaml.Unmarshal(payload, &session); err != nil {
		return domain.Session{}, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	if session.ID == "" {
		return domain.Session{}, fmt.Errorf("%w: %s", apperrors.ErrSessionNotFound, sessionID)
	}
	return session, nil
}

// List returns every readable session, oldest first. Unreadable documents are
// logged and skipped.
func (s *FileSessionStore) List(ctx context.Context) ([]domain.Session, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	out := make([]domain.Session, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), sessionExt) {
			continue
		}
		session, err := s.Load(ctx, strings.TrimSuffix(e.Name(), sessionExt))
		if err != nil {
			s.log.Warn().Err(err).Str("file", filepath.Join(s.dir, e.Name())).Msg("skipping unreadable session")
			continue
		}
		out = append(out, session)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.Before(out[b].CreatedAt) })
	return out, nil
}

func (s *FileSessionStore) SetCurrent(_ context.Context, sessionID string) error {
	if _, err := s.sessionPath(sessionID); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, currentFile), []byte(sessionID+"\n"), 0o644); err != nil {
		return fmt.Errorf("write current session: %w", err)
	}
	return nil
}

func (s *FileSessionStore) Current(_ context.Context) (string, error) {
	payload, err := os.ReadFile(filepath.Join(s.dir, currentFile))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: no current session", apperrors.ErrSessionNotFound)
		}
		return "", fmt.Errorf("read current session: %w", err)
	}
	sessionID := strings.TrimSpace(string(payload))
	if sessionID == "" {
		return "", fmt.Errorf("%w: no current session", apperrors.ErrSessionNotFound)
	}
	return sessionID, nil
}

func (s *FileSessionStore) sessionPath(sessionID string) (string, error) {
	if sessionID == "" || strings.ContainsAny(sessionID, `/\`) || strings.HasPrefix(sessionID, ".") {
		return "", fmt.Errorf("%w: session id %q", apperrors.ErrInvalidInput, sessionID)
	}
	return filepath.Join(s.dir, sessionID+sessionExt), nil
}
