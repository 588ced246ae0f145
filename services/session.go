package services

import (
	"fmt"
	"log"
	"sync"
	"time"

	"gwc-community-system/models"
	"gwc-community-system/utils"

	"gorm.io/gorm"
)

// RoleSource selects how the admin flag is resolved. Exactly one strategy is
// active per process; the two can disagree, so they are never mixed.
type RoleSource string

const (
	// RoleSourceClaim trusts the admin claim embedded in the session token.
	RoleSourceClaim RoleSource = "claim"
	// RoleSourceRecord looks up users.role on first resolution.
	RoleSourceRecord RoleSource = "record"
)

// ParseRoleSource validates the ROLE_SOURCE setting. An unknown value is a
// configuration error, not a silent default.
func ParseRoleSource(s string) (RoleSource, error) {
	switch RoleSource(s) {
	case RoleSourceClaim, RoleSourceRecord:
		return RoleSource(s), nil
	case "":
		return RoleSourceRecord, nil
	}
	return "", fmt.Errorf("invalid ROLE_SOURCE %q (want claim or record)", s)
}

// SessionSnapshot is the resolved identity handed to every consumer: one
// consistent view of who the caller is and whether they are an admin.
type SessionSnapshot struct {
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	PhotoURL    string    `json:"photo_url"`
	IsAdmin     bool      `json:"is_admin"`
	ResolvedAt  time.Time `json:"resolved_at"`
}

// SessionStore resolves the admin flag once per user session and caches the
// snapshot for instant subsequent reads. Sign-out revokes every token issued
// before it, so clearing propagates before any protected action is reachable.
type SessionStore struct {
	source RoleSource

	// lookupRole fetches (role, displayName, photoURL) for the record
	// strategy. Injected so tests can stub the database away.
	lookupRole func(userID string) (models.User, error)

	mu            sync.RWMutex
	snapshots     map[string]SessionSnapshot
	revokedBefore map[string]time.Time
	elevatedAt    map[string]time.Time
}

// elevationWindow is how long a re-authentication stays fresh for sensitive
// actions (password change, account deletion).
const elevationWindow = 5 * time.Minute

func NewSessionStore(db *gorm.DB, source RoleSource) *SessionStore {
	return &SessionStore{
		source: source,
		lookupRole: func(userID string) (models.User, error) {
			var u models.User
			err := db.First(&u, "id = ?", userID).Error
			return u, err
		},
		snapshots:     make(map[string]SessionSnapshot),
		revokedBefore: make(map[string]time.Time),
		elevatedAt:    make(map[string]time.Time),
	}
}

// Resolve returns the session snapshot for the given validated claims,
// resolving the admin flag on first sight and reusing the cached snapshot
// afterwards. Resolution failure degrades to not-admin, never admin.
func (s *SessionStore) Resolve(claims *utils.Claims) SessionSnapshot {
	s.mu.RLock()
	snap, ok := s.snapshots[claims.UserID]
	s.mu.RUnlock()
	if ok {
		return snap
	}

	snap = SessionSnapshot{
		UserID:      claims.UserID,
		DisplayName: claims.DisplayName,
		ResolvedAt:  time.Now(),
	}

	switch s.source {
	case RoleSourceClaim:
		snap.IsAdmin = claims.Admin
	case RoleSourceRecord:
		u, err := s.lookupRole(claims.UserID)
		if err != nil {
			// Fail closed: an unreadable role is no role.
			log.Printf("[SESSION] role lookup failed for %s: %v", claims.UserID, err)
			snap.IsAdmin = false
		} else {
			snap.IsAdmin = u.Role == models.RoleAdmin
			snap.DisplayName = u.DisplayName
			snap.PhotoURL = u.PhotoURL
		}
	}

	s.mu.Lock()
	// Another request may have resolved meanwhile; first one wins so every
	// consumer sees the same snapshot.
	if existing, ok := s.snapshots[claims.UserID]; ok {
		s.mu.Unlock()
		return existing
	}
	s.snapshots[claims.UserID] = snap
	s.mu.Unlock()
	return snap
}

// Revoked reports whether a token issued at issuedAt has been signed out.
func (s *SessionStore) Revoked(userID string, issuedAt time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cutoff, ok := s.revokedBefore[userID]
	return ok && !issuedAt.After(cutoff)
}

// SignOut clears the cached snapshot and revokes all tokens issued up to now.
func (s *SessionStore) SignOut(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, userID)
	delete(s.elevatedAt, userID)
	s.revokedBefore[userID] = time.Now()
}

// Invalidate drops the cached snapshot so the next request re-resolves,
// without revoking tokens. Used after role or profile changes.
func (s *SessionStore) Invalidate(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, userID)
}

// Elevate records a successful re-authentication.
func (s *SessionStore) Elevate(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elevatedAt[userID] = time.Now()
}

// Elevated reports whether the user re-authenticated recently enough for a
// sensitive action.
func (s *SessionStore) Elevated(userID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	at, ok := s.elevatedAt[userID]
	return ok && time.Since(at) < elevationWindow
}
