package editor

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid"
	"github.com/sirupsen/logrus"

	"github.com/ironsheep/photo-studio-mcp/internal/imaging"
)

// ErrSessionNotFound is returned for an unknown, closed or evicted session ID.
var ErrSessionNotFound = errors.New("editor session not found")

// Session limits used by NewManager.
const (
	DefaultMaxSessions = 16
	DefaultIdleTimeout = 30 * time.Minute
)

// entry is an open session and the last time a client touched it.
type entry struct {
	session *Session
	used    time.Time
}

// Manager owns the open sessions of a server.
//
// Each session keeps a full image per history step, so the manager bounds
// them two ways: sessions idle for longer than IdleTimeout are dropped, and
// opening a session beyond MaxSessions evicts the least recently used one.
type Manager struct {
	// Loader is handed to every new session.
	Loader *imaging.Loader
	// MaxHistory overrides DefaultMaxHistory for new sessions when > 0.
	MaxHistory int
	// MaxSessions caps the number of open sessions; <= 0 means no cap.
	MaxSessions int
	// IdleTimeout expires untouched sessions; <= 0 disables expiry.
	IdleTimeout time.Duration
	Log         logrus.FieldLogger

	now      func() time.Time
	mu       sync.Mutex
	sessions map[string]*entry
}

// NewManager returns an empty manager with the default limits.
func NewManager(loader *imaging.Loader, log logrus.FieldLogger) *Manager {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Manager{
		Loader:      loader,
		MaxSessions: DefaultMaxSessions,
		IdleTimeout: DefaultIdleTimeout,
		Log:         log,
		sessions:    make(map[string]*entry),
	}
}

// Open starts a session on b under a fresh random ID.
func (m *Manager) Open(b *imaging.Buffer) (*Session, error) {
	id, err := gonanoid.Nanoid()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}

	s := NewSession(id, b, m.Loader)
	s.log = m.logger()
	if m.MaxHistory > 0 {
		s.limit = m.MaxHistory
	}

	m.mu.Lock()
	if m.sessions == nil {
		m.sessions = make(map[string]*entry)
	}
	now := m.clock()
	m.expire(now)
	for m.MaxSessions > 0 && len(m.sessions) >= m.MaxSessions {
		m.evictOldest()
	}
	m.sessions[id] = &entry{session: s, used: now}
	m.mu.Unlock()

	m.logger().WithFields(logrus.Fields{
		"session": id,
		"width":   b.Width(),
		"height":  b.Height(),
	}).Debug("editor session opened")
	return s, nil
}

// Get returns the session with the given ID and marks it as used.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.clock()
	m.expire(now)
	e, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	e.used = now
	return e.session, nil
}

// Close forgets the session with the given ID.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(m.sessions, id)
	m.logger().WithField("session", id).Debug("editor session closed")
	return nil
}

// IDs lists the open sessions in sorted order.
func (m *Manager) IDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expire(m.clock())
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// expire drops sessions idle for longer than IdleTimeout. m.mu must be held.
func (m *Manager) expire(now time.Time) {
	if m.IdleTimeout <= 0 {
		return
	}
	for id, e := range m.sessions {
		if now.Sub(e.used) > m.IdleTimeout {
			delete(m.sessions, id)
			m.logger().WithField("session", id).Info("editor session expired")
		}
	}
}

// evictOldest drops the least recently used session. m.mu must be held.
func (m *Manager) evictOldest() {
	var oldest string
	var at time.Time
	for id, e := range m.sessions {
		if oldest == "" || e.used.Before(at) {
			oldest, at = id, e.used
		}
	}
	if oldest == "" {
		return
	}
	delete(m.sessions, oldest)
	m.logger().WithField("session", oldest).Info("editor session evicted")
}

func (m *Manager) clock() time.Time {
	if m.now != nil {
		return m.now()
	}
	return time.Now()
}

func (m *Manager) logger() logrus.FieldLogger {
	if m.Log == nil {
		return logrus.StandardLogger()
	}
	return m.Log
}
