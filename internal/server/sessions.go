package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vidshelf/internal/repositories"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionCookie names the browser-session cookie carrying the session id.
const SessionCookie = "vidshelf_session"

// Sessions maps browser-session cookies to session-scoped document stores.
//
// The cookie has no Max-Age or Expires, so it dies with the browser session.
type Sessions struct {
	open   func(id string) repositories.Documents
	logger *log.Logger
	secure bool
	memory *memorySessions
}

// NewMemorySessions keeps session documents in process memory.
//
// A session is stored on its first write and dropped once it is emptied or idle for longer than ttl.
// A zero ttl keeps idle sessions until they are emptied.
func NewMemorySessions(logger *log.Logger, ttl time.Duration) *Sessions {
	m := &memorySessions{
		ttl:    ttl,
		now:    time.Now,
		stores: make(map[string]*memorySession),
	}
	return &Sessions{
		logger: logger,
		memory: m,
		open: func(id string) repositories.Documents {
			return memoryDocuments{id: id, sessions: m}
		},
	}
}

// NewRedisSessions keeps session documents in Redis under vidshelf:session:<id>, expiring after ttl.
func NewRedisSessions(client redis.UniversalClient, ttl time.Duration, logger *log.Logger) *Sessions {
	return &Sessions{
		logger: logger,
		open: func(id string) repositories.Documents {
			return repositories.NewRedisDocuments(client, "vidshelf:session:"+id, ttl)
		},
	}
}

// Secure marks issued cookies as HTTPS-only.
func (s *Sessions) Secure(secure bool) *Sessions {
	s.secure = secure
	return s
}

// Store returns the session store for the request, issuing a new session cookie when none is valid.
func (s *Sessions) Store(w http.ResponseWriter, r *http.Request) *repositories.Store {
	id := ""
	if c, err := r.Cookie(SessionCookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			id = c.Value
		}
	}

	if id == "" {
		id = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			Secure:   s.secure,
			SameSite: http.SameSiteLaxMode,
		})
		s.logger.Debug("issued session", "id", id)
	}

	return repositories.NewStore(s.open(id), s.logger)
}

const sweepInterval = time.Minute

type memorySession struct {
	docs *repositories.MemoryDocuments
	seen time.Time
}

// memorySessions holds the in-process session stores keyed by session id.
type memorySessions struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	stores map[string]*memorySession
	swept  time.Time
}

// lookup returns the live store for id, creating it only when create is set. Callers hold mu.
func (m *memorySessions) lookup(id string, create bool) *repositories.MemoryDocuments {
	now := m.now()
	m.sweep(now)

	sess, ok := m.stores[id]
	if ok && m.expired(sess, now) {
		delete(m.stores, id)
		ok = false
	}
	if !ok {
		if !create {
			return nil
		}
		sess = &memorySession{docs: repositories.NewMemoryDocuments()}
		m.stores[id] = sess
	}
	sess.seen = now
	return sess.docs
}

func (m *memorySessions) expired(sess *memorySession, now time.Time) bool {
	return m.ttl > 0 && now.Sub(sess.seen) > m.ttl
}

func (m *memorySessions) sweep(now time.Time) {
	if m.ttl <= 0 || now.Sub(m.swept) < sweepInterval {
		return
	}
	m.swept = now
	for id, sess := range m.stores {
		if m.expired(sess, now) {
			delete(m.stores, id)
		}
	}
}

func (m *memorySessions) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stores)
}

// memoryDocuments is the [repositories.Documents] view of one memory session.
type memoryDocuments struct {
	id       string
	sessions *memorySessions
}

func (d memoryDocuments) Get(ctx context.Context, key string) (string, bool, error) {
	d.sessions.mu.Lock()
	defer d.sessions.mu.Unlock()
	docs := d.sessions.lookup(d.id, false)
	if docs == nil {
		return "", false, nil
	}
	return docs.Get(ctx, key)
}

func (d memoryDocuments) Set(ctx context.Context, key, value string) error {
	d.sessions.mu.Lock()
	defer d.sessions.mu.Unlock()
	return d.sessions.lookup(d.id, true).Set(ctx, key, value)
}

func (d memoryDocuments) Delete(ctx context.Context, key string) error {
	d.sessions.mu.Lock()
	defer d.sessions.mu.Unlock()
	docs := d.sessions.lookup(d.id, false)
	if docs == nil {
		return nil
	}
	if err := docs.Delete(ctx, key); err != nil {
		return err
	}
	if docs.Len() == 0 {
		delete(d.sessions.stores, d.id)
	}
	return nil
}

func (d memoryDocuments) Clear(_ context.Context) error {
	d.sessions.mu.Lock()
	defer d.sessions.mu.Unlock()
	delete(d.sessions.stores, d.id)
	return nil
}
