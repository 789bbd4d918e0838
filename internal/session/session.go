// Package session tracks GDB/MI output streams fed in incrementally.
//
// A Manager owns a bounded set of Sessions identified by uuid. Each Session
// decodes the lines it is fed and folds the resulting records into a
// Tracker. Sessions idle for longer than the configured timeout are closed
// by a background cleanup loop.
package session

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ctagard/gdbmi/internal/stream"
	"github.com/ctagard/gdbmi/pkg/errors"
	"github.com/ctagard/gdbmi/pkg/types"
)

// Session is one tracked MI stream
type Session struct {
	ID        string
	Name      string
	CreatedAt time.Time

	mu         sync.Mutex
	opts       stream.Options
	tracker    *Tracker
	lines      int
	failed     int
	updatedAt  time.Time
	lastActive time.Time
	partial    string
}

// Feed decodes text and applies every record to the session state. Text
// may hold several lines; an unterminated trailing line is buffered until
// the next Feed or Flush.
func (s *Session) Feed(text string, now time.Time) []*stream.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastActive = now
	text = s.partial + text
	s.partial = ""

	lines := strings.Split(text, "\n")
	if last := len(lines) - 1; lines[last] != "" {
		s.partial = lines[last]
	}
	return s.decodeLocked(lines[:len(lines)-1], now)
}

// Flush decodes any buffered partial line
func (s *Session) Flush(now time.Time) []*stream.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.partial == "" {
		return nil
	}
	line := s.partial
	s.partial = ""
	s.lastActive = now
	return s.decodeLocked([]string{line}, now)
}

func (s *Session) decodeLocked(lines []string, now time.Time) []*stream.Entry {
	var out []*stream.Entry
	for _, raw := range lines {
		s.lines++
		e, ok := s.opts.Decode(s.lines, raw)
		if !ok {
			continue
		}
		if e.Err != nil {
			s.failed++
		}
		if e.Object != nil {
			s.tracker.Apply(e.Object)
		}
		out = append(out, e)
	}
	if len(out) > 0 {
		s.updatedAt = now
	}
	return out
}

// Info returns summary information for the session
func (s *Session) Info() types.SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.infoLocked()
}

func (s *Session) infoLocked() types.SessionInfo {
	return types.SessionInfo{
		SessionID: s.ID,
		Name:      s.Name,
		State:     s.tracker.State(),
		Lines:     s.lines,
		Errors:    s.failed,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.updatedAt,
	}
}

// State returns a snapshot of the tracked state
func (s *Session) State() types.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := types.SessionState{SessionInfo: s.infoLocked()}
	s.tracker.Fill(&st)
	return st
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Manager manages multiple sessions
type Manager struct {
	sessions map[string]*Session
	mu       sync.RWMutex

	maxSessions    int
	sessionTimeout time.Duration
	opts           stream.Options
	logger         *slog.Logger
	now            func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

// NewManager creates a new session manager. Every session decodes with
// opts; semantic mapping is always enabled so records reach the tracker.
func NewManager(maxSessions int, sessionTimeout time.Duration, opts stream.Options) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	opts.Semantic = true
	m := &Manager{
		sessions:       make(map[string]*Session),
		maxSessions:    maxSessions,
		sessionTimeout: sessionTimeout,
		opts:           opts,
		logger:         opts.Logger,
		now:            time.Now,
		ctx:            ctx,
		cancel:         cancel,
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}

	go m.cleanupLoop()

	return m
}

// cleanupLoop periodically closes idle sessions
func (m *Manager) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.cleanupExpiredSessions()
		}
	}
}

// cleanupExpiredSessions removes sessions idle longer than the timeout
func (m *Manager) cleanupExpiredSessions() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for id, s := range m.sessions {
		if now.Sub(s.idleSince()) > m.sessionTimeout {
			m.logger.Debug("closing idle session", "session", id, "idle", now.Sub(s.idleSince()))
			delete(m.sessions, id)
		}
	}
}

// CreateSession creates a new session
func (m *Manager) CreateSession(name string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sessions) >= m.maxSessions {
		return nil, errors.SessionLimitReached(m.maxSessions)
	}

	now := m.now()
	s := &Session{
		ID:         uuid.New().String(),
		Name:       name,
		CreatedAt:  now,
		opts:       m.opts,
		tracker:    NewTracker(),
		lastActive: now,
	}

	m.sessions[s.ID] = s
	return s, nil
}

// GetSession retrieves a session by ID
func (m *Manager) GetSession(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, errors.SessionNotFound(id)
	}

	return s, nil
}

// ListSessions returns all sessions, oldest first
func (m *Manager) ListSessions() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})

	return sessions
}

// CloseSession removes a session
func (m *Manager) CloseSession(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return errors.SessionNotFound(id)
	}
	delete(m.sessions, id)
	return nil
}

// Now returns the manager's clock reading
func (m *Manager) Now() time.Time {
	return m.now()
}

// Close stops the cleanup loop and drops all sessions
func (m *Manager) Close() {
	m.cancel()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions = make(map[string]*Session)
}
