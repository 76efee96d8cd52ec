package service

import (
	"sync"
	"time"

	"recycle-rewards-backend/internal/features/wallet/models"
)

// session holds one wallet modal's transient state. Every field behind mu;
// the epoch counter detects resolutions arriving after the session was
// reset, which must land as no-ops.
type session struct {
	mu sync.Mutex

	userID     string
	state      models.SessionState
	kind       models.RedemptionKind
	amount     string
	inputError string
	request    *models.RedemptionRequest

	epoch      uint64
	resetTimer *time.Timer
	touchedAt  time.Time
}

func newSession(userID string) *session {
	return &session{
		userID:    userID,
		state:     models.StateMenu,
		touchedAt: time.Now(),
	}
}

// resetLocked returns the session to a clean menu and invalidates any
// in-flight submission or pending reset timer. Caller holds mu.
func (s *session) resetLocked() {
	s.epoch++
	s.state = models.StateMenu
	s.kind = ""
	s.amount = ""
	s.inputError = ""
	s.request = nil
	if s.resetTimer != nil {
		s.resetTimer.Stop()
		s.resetTimer = nil
	}
	s.touchedAt = time.Now()
}

// viewLocked snapshots the session for the client. Caller holds mu.
func (s *session) viewLocked() *models.SessionView {
	return &models.SessionView{
		State:   s.state,
		Kind:    s.kind,
		Amount:  s.amount,
		Error:   s.inputError,
		Request: s.request,
	}
}

// sessionStore owns the live wallet sessions, one per user.
type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

func newSessionStore() *sessionStore {
	return &sessionStore{
		sessions: make(map[string]*session),
	}
}

func (st *sessionStore) get(userID string) (*session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[userID]
	return s, ok
}

func (st *sessionStore) getOrCreate(userID string) *session {
	st.mu.Lock()
	defer st.mu.Unlock()
	if s, ok := st.sessions[userID]; ok {
		return s
	}
	s := newSession(userID)
	st.sessions[userID] = s
	return s
}

// sweep drops sessions idle beyond ttl. Sessions with a submission in
// flight are left alone; the epoch guard makes their eventual resolution
// harmless either way.
func (st *sessionStore) sweep(ttl time.Duration) int {
	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	cutoff := time.Now().Add(-ttl)
	for userID, s := range st.sessions {
		s.mu.Lock()
		idle := s.touchedAt.Before(cutoff) && s.state != models.StateProcessing
		if idle && s.resetTimer != nil {
			s.resetTimer.Stop()
		}
		s.mu.Unlock()

		if idle {
			delete(st.sessions, userID)
			removed++
		}
	}
	return removed
}
