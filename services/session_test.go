package services

import (
	"errors"
	"testing"
	"time"

	"gwc-community-system/models"
	"gwc-community-system/utils"
)

func newTestStore(source RoleSource, lookup func(string) (models.User, error)) *SessionStore {
	return &SessionStore{
		source:        source,
		lookupRole:    lookup,
		snapshots:     make(map[string]SessionSnapshot),
		revokedBefore: make(map[string]time.Time),
		elevatedAt:    make(map[string]time.Time),
	}
}

func TestResolveClaimSourceTrustsToken(t *testing.T) {
	t.Parallel()

	store := newTestStore(RoleSourceClaim, func(string) (models.User, error) {
		t.Fatal("claim strategy must not touch the user record")
		return models.User{}, nil
	})

	snap := store.Resolve(&utils.Claims{UserID: "u1", DisplayName: "Ava", Admin: true})
	if !snap.IsAdmin {
		t.Fatalf("unexpected admin flag: got=%v want=true", snap.IsAdmin)
	}
	if snap.DisplayName != "Ava" {
		t.Fatalf("unexpected display name: got=%q want=%q", snap.DisplayName, "Ava")
	}
}

func TestResolveRecordSourceReadsRole(t *testing.T) {
	t.Parallel()

	store := newTestStore(RoleSourceRecord, func(id string) (models.User, error) {
		return models.User{ID: id, Role: models.RoleAdmin, DisplayName: "Record Name"}, nil
	})

	// The token claims no admin; the record says otherwise and wins.
	snap := store.Resolve(&utils.Claims{UserID: "u1", DisplayName: "Token Name", Admin: false})
	if !snap.IsAdmin {
		t.Fatalf("unexpected admin flag: got=%v want=true", snap.IsAdmin)
	}
	if snap.DisplayName != "Record Name" {
		t.Fatalf("unexpected display name: got=%q want=%q", snap.DisplayName, "Record Name")
	}
}

func TestResolveFailsClosedOnLookupError(t *testing.T) {
	t.Parallel()

	store := newTestStore(RoleSourceRecord, func(string) (models.User, error) {
		return models.User{}, errors.New("db down")
	})

	snap := store.Resolve(&utils.Claims{UserID: "u1", Admin: true})
	if snap.IsAdmin {
		t.Fatal("lookup failure must never grant admin")
	}
}

func TestResolveCachesFirstSnapshot(t *testing.T) {
	t.Parallel()

	calls := 0
	store := newTestStore(RoleSourceRecord, func(id string) (models.User, error) {
		calls++
		return models.User{ID: id, Role: models.RoleUser}, nil
	})

	claims := &utils.Claims{UserID: "u1"}
	store.Resolve(claims)
	store.Resolve(claims)
	store.Resolve(claims)

	if calls != 1 {
		t.Fatalf("unexpected lookup count: got=%d want=1", calls)
	}
}

func TestInvalidateForcesReresolution(t *testing.T) {
	t.Parallel()

	role := models.RoleUser
	store := newTestStore(RoleSourceRecord, func(id string) (models.User, error) {
		return models.User{ID: id, Role: role}, nil
	})

	claims := &utils.Claims{UserID: "u1"}
	if snap := store.Resolve(claims); snap.IsAdmin {
		t.Fatal("expected non-admin before promotion")
	}

	role = models.RoleAdmin
	store.Invalidate("u1")
	if snap := store.Resolve(claims); !snap.IsAdmin {
		t.Fatal("expected admin after invalidate and re-resolve")
	}
}

func TestSignOutRevokesEarlierTokens(t *testing.T) {
	t.Parallel()

	store := newTestStore(RoleSourceClaim, nil)
	issued := time.Now()

	if store.Revoked("u1", issued) {
		t.Fatal("token revoked before any sign-out")
	}

	store.SignOut("u1")
	if !store.Revoked("u1", issued) {
		t.Fatal("token issued before sign-out must be revoked")
	}
	if store.Revoked("u1", time.Now().Add(time.Second)) {
		t.Fatal("token issued after sign-out must be accepted")
	}
	if store.Revoked("u2", issued) {
		t.Fatal("sign-out leaked to another user")
	}
}

func TestSignOutDropsSnapshotAndElevation(t *testing.T) {
	t.Parallel()

	store := newTestStore(RoleSourceClaim, nil)
	store.Resolve(&utils.Claims{UserID: "u1", Admin: true})
	store.Elevate("u1")

	store.SignOut("u1")

	if store.Elevated("u1") {
		t.Fatal("elevation must not survive sign-out")
	}
	store.mu.RLock()
	_, cached := store.snapshots["u1"]
	store.mu.RUnlock()
	if cached {
		t.Fatal("snapshot must not survive sign-out")
	}
}

func TestElevationRequiresRecentReauth(t *testing.T) {
	t.Parallel()

	store := newTestStore(RoleSourceClaim, nil)

	if store.Elevated("u1") {
		t.Fatal("never-elevated user reported elevated")
	}

	store.Elevate("u1")
	if !store.Elevated("u1") {
		t.Fatal("freshly elevated user reported not elevated")
	}

	store.mu.Lock()
	store.elevatedAt["u1"] = time.Now().Add(-elevationWindow - time.Second)
	store.mu.Unlock()
	if store.Elevated("u1") {
		t.Fatal("stale elevation must expire")
	}
}

func TestParseRoleSource(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in      string
		want    RoleSource
		wantErr bool
	}{
		{"claim", RoleSourceClaim, false},
		{"record", RoleSourceRecord, false},
		{"", RoleSourceRecord, false},
		{"both", "", true},
	}
	for _, tc := range cases {
		got, err := ParseRoleSource(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseRoleSource(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseRoleSource(%q): unexpected error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseRoleSource(%q): got=%q want=%q", tc.in, got, tc.want)
		}
	}
}
