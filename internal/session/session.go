package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	cache "github.com/CodeAndHammer/venkovorto/internal/cache"
	constants "github.com/CodeAndHammer/venkovorto/internal/constants"
	util "github.com/CodeAndHammer/venkovorto/internal/util"
)

// ErrTerminated rejects mutation of a dead session.
var ErrTerminated = errors.New("session terminated")

// Session is one player's chain of accepted words plus score and liveness.
// The embedded mutex serializes the resolver's duplicate-check through
// mutation sequence for this one session; distinct sessions never contend.
//
// The seed word is not stored in Words, so Score == len(Words) always.
type Session struct {
	sync.Mutex
	ID    string
	Words []string
	Score int
	Alive bool

	lastAccess time.Time // guarded by the Store mutex, not the session mutex
}

// CurrentWord returns the last accepted word, or the seed for a fresh chain.
// Caller must hold the session lock.
func (s *Session) CurrentWord() string {
	if len(s.Words) == 0 {
		return constants.SeedWord
	}
	return s.Words[len(s.Words)-1]
}

// ContainsWord reports whether word was already used this session. The seed
// word always counts as used. Comparison shares the cache key normalization
// so casing can never bypass the duplicate rule. Caller must hold the
// session lock.
func (s *Session) ContainsWord(word string) bool {
	normalized := cache.Normalize(word)
	if normalized == cache.Normalize(constants.SeedWord) {
		return true
	}
	for _, w := range s.Words {
		if cache.Normalize(w) == normalized {
			return true
		}
	}
	return false
}

// Append accepts a word into the chain and bumps the score. Caller must hold
// the session lock.
func (s *Session) Append(word string) error {
	if !s.Alive {
		return ErrTerminated
	}
	s.Words = append(s.Words, word)
	s.Score++
	return nil
}

// MarkDead terminates the session. Terminated is absorbing: no later call
// revives the chain. Caller must hold the session lock.
func (s *Session) MarkDead() {
	s.Alive = false
}

// Store holds all live sessions keyed by id, with sliding idle expiry. An
// expired session is indistinguishable from one that never existed: a stale
// id yields a brand-new session under a brand-new id.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// GetOrCreate returns the session for id, or a fresh one (with a fresh uuid)
// when id is empty, unknown, or idle past the TTL. The bool reports whether
// a new session was allocated.
func (s *Store) GetOrCreate(id string) (*Session, bool) {
	now := s.now()

	if id != "" {
		s.mu.Lock()
		sess, ok := s.sessions[id]
		if ok {
			if now.Sub(sess.lastAccess) > s.ttl {
				delete(s.sessions, id)
			} else {
				sess.lastAccess = now
				s.mu.Unlock()
				return sess, false
			}
		}
		s.mu.Unlock()
	}

	sess := &Session{
		ID:         uuid.NewString(),
		Words:      []string{},
		Alive:      true,
		lastAccess: now,
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	util.LogInfo("Created new session: %s", sess.ID)
	return sess, true
}

// Touch resets the idle TTL. Called after every successful mutating
// operation (sliding expiration).
func (s *Store) Touch(id string) {
	s.mu.Lock()
	if sess, ok := s.sessions[id]; ok {
		sess.lastAccess = s.now()
	}
	s.mu.Unlock()
}

// Count reports the number of live (non-expired) session entries.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// CleanupExpired drops sessions idle past the TTL and returns how many went.
func (s *Store) CleanupExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for id, sess := range s.sessions {
		if sess.lastAccess.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		util.LogInfo("Cleaned up %d expired sessions", removed)
	}
	return removed
}

// StartCleanup runs CleanupExpired on a ticker.
func (s *Store) StartCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for range ticker.C {
			s.CleanupExpired()
		}
	}()
	util.LogInfo("Started session cleanup goroutine")
}
