package security

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/poseidon-capital/console/types"
)

// Session is a live login held by the [Registry].
type Session struct {
	Token     string
	Username  string
	Role      types.Role
	CreatedAt time.Time
	LastSeen  time.Time
}

// Registry tracks live sessions in memory. It keeps at most one session per
// username: registering a user who already holds a session evicts the older
// one, so the newest login always wins.
type Registry struct {
	mu      sync.Mutex
	idle    time.Duration
	now     func() time.Time
	token   func() string
	byToken map[string]*Session
	byUser  map[string]string
}

// RegistryOption customises a Registry.
type RegistryOption func(*Registry)

// WithClock replaces the registry's time source.
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) { r.now = now }
}

// WithTokenSource replaces the registry's token generator.
func WithTokenSource(token func() string) RegistryOption {
	return func(r *Registry) { r.token = token }
}

// NewRegistry returns a registry whose sessions expire after idle without a
// lookup. A non-positive idle disables expiry.
func NewRegistry(idle time.Duration, opts ...RegistryOption) *Registry {
	r := &Registry{
		idle:    idle,
		now:     time.Now,
		token:   uuid.NewString,
		byToken: make(map[string]*Session),
		byUser:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register opens a session for username, evicting any session the user
// already holds, and returns it.
func (r *Registry) Register(username string, role types.Role) Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweepLocked(now)

	if prior, ok := r.byUser[username]; ok {
		delete(r.byToken, prior)
	}

	s := &Session{
		Token:     r.token(),
		Username:  username,
		Role:      role,
		CreatedAt: now,
		LastSeen:  now,
	}
	r.byToken[s.Token] = s
	r.byUser[username] = s.Token
	return *s
}

// Lookup returns the live session for token and refreshes its idle timer.
// Expired, superseded and unknown tokens report false.
func (r *Registry) Lookup(token string) (Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byToken[token]
	if !ok {
		return Session{}, false
	}
	now := r.now()
	if r.expired(s, now) {
		r.removeLocked(s)
		return Session{}, false
	}
	s.LastSeen = now
	return *s, true
}

// Invalidate ends the session identified by token. Unknown tokens are ignored.
func (r *Registry) Invalidate(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.byToken[token]; ok {
		r.removeLocked(s)
	}
}

// InvalidateUser ends the session held by username, if any.
func (r *Registry) InvalidateUser(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if token, ok := r.byUser[username]; ok {
		if s, ok := r.byToken[token]; ok {
			r.removeLocked(s)
			return
		}
		delete(r.byUser, username)
	}
}

// Len returns the number of sessions currently held, expired ones included
// until they are swept.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byToken)
}

func (r *Registry) expired(s *Session, now time.Time) bool {
	return r.idle > 0 && now.Sub(s.LastSeen) > r.idle
}

func (r *Registry) removeLocked(s *Session) {
	delete(r.byToken, s.Token)
	if r.byUser[s.Username] == s.Token {
		delete(r.byUser, s.Username)
	}
}

func (r *Registry) sweepLocked(now time.Time) {
	for _, s := range r.byToken {
		if r.expired(s, now) {
			r.removeLocked(s)
		}
	}
}
