package service

import (
	"context"
	"log/slog"
	"sync"
	"time"
	"weak"

	"golang.org/x/sync/singleflight"

	"github.com/rasulshaikhdev/techgear-hub/internal/catalog"
	"github.com/rasulshaikhdev/techgear-hub/internal/notify"
	"github.com/rasulshaikhdev/techgear-hub/internal/repository"
	"github.com/rasulshaikhdev/techgear-hub/pkg/logger"
)

// DefaultSession is used when a request names no session. Its keys are
// stored without a namespace.
const DefaultSession = "default"

// DefaultMaxSessions bounds how many idle sessions are held in memory.
const DefaultMaxSessions = 1024

// Session bundles one shopper's storefront, toast and preferences.
type Session struct {
	ID          string
	Storefront  *Storefront
	Toast       *notify.Toast
	Preferences *Preferences

	lastUsed time.Time
	refs     int
}

// SessionConfig configures a Sessions registry.
type SessionConfig struct {
	Catalog       *catalog.Catalog
	Store         repository.KV
	Events        EventPublisher
	Logger        *slog.Logger
	ToastDuration time.Duration
	MaxSessions   int
}

// Sessions lazily creates and caches one Session per session id. There is
// never more than one live Session for an id: sessions in use are not
// evicted, and an evicted session that somebody still holds is revived
// instead of rebuilt. Sessions are restored from the store on first use.
type Sessions struct {
	mu      sync.Mutex
	cfg     SessionConfig
	items   map[string]*Session
	evicted map[string]weak.Pointer[Session]
	group   singleflight.Group
	now     func() time.Time
}

// NewSessions creates an empty registry.
func NewSessions(cfg SessionConfig) *Sessions {
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = DefaultMaxSessions
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Discard()
	}
	return &Sessions{
		cfg:     cfg,
		items:   make(map[string]*Session),
		evicted: make(map[string]weak.Pointer[Session]),
		now:     time.Now,
	}
}

// Get returns the session for id without holding it in use. An empty id
// selects DefaultSession.
func (s *Sessions) Get(ctx context.Context, id string) *Session {
	sess, release := s.Acquire(ctx, id)
	release()
	return sess
}

// Acquire returns the session for id, creating it on first use, and marks
// it in use until release is called. A session in use is never evicted.
// release is safe to call more than once.
func (s *Sessions) Acquire(ctx context.Context, id string) (sess *Session, release func()) {
	if id == "" {
		id = DefaultSession
	}

	s.mu.Lock()
	sess = s.lookupLocked(id)
	if sess != nil {
		sess.refs++
		s.mu.Unlock()
		return sess, s.releaser(sess)
	}
	s.mu.Unlock()

	// Store reads happen outside the registry lock and concurrent first
	// requests for one id share a single build. A canceled request must not
	// leave a session loaded as empty.
	buildCtx := context.WithoutCancel(ctx)
	v, _, _ := s.group.Do(id, func() (any, error) {
		return s.build(buildCtx, id), nil
	})
	built := v.(*Session)

	s.mu.Lock()
	sess = s.lookupLocked(id)
	if sess == nil {
		sess = built
		s.insertLocked(sess)
	} else if sess != built {
		built.Toast.Stop()
	}
	sess.refs++
	s.mu.Unlock()
	return sess, s.releaser(sess)
}

func (s *Sessions) releaser(sess *Session) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			sess.refs--
			sess.lastUsed = s.now()
		})
	}
}

// lookupLocked finds the live session for id, reviving it from the evicted
// set when it is still referenced.
func (s *Sessions) lookupLocked(id string) *Session {
	if sess, ok := s.items[id]; ok {
		sess.lastUsed = s.now()
		return sess
	}
	p, ok := s.evicted[id]
	if !ok {
		return nil
	}
	delete(s.evicted, id)
	sess := p.Value()
	if sess == nil {
		return nil
	}
	sess.lastUsed = s.now()
	s.insertLocked(sess)
	s.cfg.Logger.Debug("session revived", slog.String("session_id", id))
	return sess
}

func (s *Sessions) build(ctx context.Context, id string) *Session {
	kv := s.cfg.Store
	if id != DefaultSession {
		kv = repository.WithNamespace(kv, repository.SessionPrefix(id))
	}
	toast := notify.New(s.cfg.ToastDuration)
	sess := &Session{
		ID:    id,
		Toast: toast,
		Storefront: NewStorefront(ctx, Options{
			SessionID: id,
			Catalog:   s.cfg.Catalog,
			Store:     kv,
			Notifier:  toast,
			Events:    s.cfg.Events,
			Logger:    s.cfg.Logger,
		}),
		Preferences: NewPreferences(kv, s.cfg.Logger),
	}
	s.cfg.Logger.Debug("session started", slog.String("session_id", id))
	return sess
}

func (s *Sessions) insertLocked(sess *Session) {
	if len(s.items) >= s.cfg.MaxSessions {
		s.evictLocked()
	}
	sess.lastUsed = s.now()
	s.items[sess.ID] = sess
	activeSessions.Set(float64(len(s.items)))
}

// evictLocked drops the least recently used idle session. When every session
// is in use the registry grows past MaxSessions until one is released.
func (s *Sessions) evictLocked() {
	for id, p := range s.evicted {
		if p.Value() == nil {
			delete(s.evicted, id)
		}
	}

	var oldest *Session
	for _, sess := range s.items {
		if sess.refs > 0 {
			continue
		}
		if oldest == nil || sess.lastUsed.Before(oldest.lastUsed) {
			oldest = sess
		}
	}
	if oldest == nil {
		s.cfg.Logger.Debug("all sessions in use, registry over capacity", slog.Int("sessions", len(s.items)))
		return
	}
	oldest.Toast.Stop()
	delete(s.items, oldest.ID)
	s.evicted[oldest.ID] = weak.Make(oldest)
	s.cfg.Logger.Debug("session evicted", slog.String("session_id", oldest.ID))
}

// Len returns the number of cached sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Close stops every session's toast timer and empties the registry.
func (s *Sessions) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.items {
		sess.Toast.Stop()
		delete(s.items, id)
	}
	for id, p := range s.evicted {
		if sess := p.Value(); sess != nil {
			sess.Toast.Stop()
		}
		delete(s.evicted, id)
	}
	activeSessions.Set(0)
}
