package httpserver

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"todecor/internal/cart"
	"todecor/internal/checkout"
)

// SessionCookie names the cookie carrying the anonymous session id. The
// session id keys cart persistence, so the cart survives restarts and
// re-visits for as long as the cookie lives.
const SessionCookie = "todecor_session"

const sessionCtxKey = "todecor.session"

const sessionCookieMaxAge = 60 * 60 * 24 * 30

// Idle sessions are dropped from memory after sessionIdleTTL; the sweep runs
// opportunistically on Get, at most once per sessionSweepEvery. Eviction only
// frees the in-memory pair — the durable cart state lives in the persistence
// adapter and is reloaded on the session's next request.
const (
	sessionIdleTTL    = 2 * time.Hour
	sessionSweepEvery = 5 * time.Minute
)

// PersistenceFactory builds the cart persistence for one session.
type PersistenceFactory func(sessionID string) cart.Persistence

// CheckoutFactory builds a fresh checkout state machine for one session.
type CheckoutFactory func() *checkout.Checkout

// Session bundles the per-session state: the cart store and the checkout
// state machine bound to it.
type Session struct {
	ID       string
	Cart     *cart.Store
	Checkout *checkout.Checkout
}

type sessionEntry struct {
	session  *Session
	lastSeen time.Time
}

// SessionManager hands out Sessions keyed by session id, creating them
// lazily. Carts are loaded from persistence on first access, and entries
// idle past sessionIdleTTL are evicted so cookie-less clients minting a
// fresh id per request cannot grow the map without bound.
type SessionManager struct {
	mu          sync.Mutex
	sessions    map[string]*sessionEntry
	persistence PersistenceFactory
	checkout    CheckoutFactory
	logger      *log.Logger
	now         func() time.Time
	lastSweep   time.Time
}

func NewSessionManager(persistence PersistenceFactory, checkoutFactory CheckoutFactory, logger *log.Logger) *SessionManager {
	return &SessionManager{
		sessions:    make(map[string]*sessionEntry),
		persistence: persistence,
		checkout:    checkoutFactory,
		logger:      logger,
		now:         time.Now,
	}
}

// Get returns the session for id, creating it on first use.
func (m *SessionManager) Get(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.sweepLocked(now)
	if e, ok := m.sessions[id]; ok {
		e.lastSeen = now
		return e.session
	}
	s := &Session{
		ID:       id,
		Cart:     cart.NewStore(m.persistence(id), m.logger),
		Checkout: m.checkout(),
	}
	m.sessions[id] = &sessionEntry{session: s, lastSeen: now}
	return s
}

func (m *SessionManager) sweepLocked(now time.Time) {
	if now.Sub(m.lastSweep) < sessionSweepEvery {
		return
	}
	m.lastSweep = now
	evicted := 0
	for id, e := range m.sessions {
		if now.Sub(e.lastSeen) > sessionIdleTTL {
			delete(m.sessions, id)
			evicted++
		}
	}
	if evicted > 0 && m.logger != nil {
		m.logger.Printf("sessions: evicted %d idle, %d live", evicted, len(m.sessions))
	}
}

// sessionMiddleware resolves the caller's session from the session cookie,
// minting a new id when absent, and stashes the Session in the gin context.
func sessionMiddleware(manager *SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(SessionCookie)
		if err != nil || id == "" {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, id, sessionCookieMaxAge, "/", "", false, true)
		}
		c.Set(sessionCtxKey, manager.Get(id))
		c.Next()
	}
}

func currentSession(c *gin.Context) *Session {
	v, _ := c.Get(sessionCtxKey)
	s, _ := v.(*Session)
	return s
}
