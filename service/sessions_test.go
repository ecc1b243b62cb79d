package service

import (
	"context"
	"testing"
	"time"

	"github.com/shelfshare/shelfshare/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeSessionStore struct {
	sessions map[string]*models.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*models.Session)}
}

func (f *fakeSessionStore) PutSession(ctx context.Context, session *models.Session) error {
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeSessionStore) SessionByID(ctx context.Context, id string) (*models.Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, nil
	}
	return s, nil
}

func (f *fakeSessionStore) DeleteSession(ctx context.Context, id string) error {
	delete(f.sessions, id)
	return nil
}

func testUser() models.SessionUser {
	return models.SessionUser{ID: primitive.NewObjectID(), Username: "alice"}
}

func TestSessionIssueAndResolve(t *testing.T) {
	store := newFakeSessionStore()
	svc := NewSessionService(store, "test-secret")
	ctx := context.Background()

	cookie, session, err := svc.Issue(ctx, testUser())
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if got := session.ExpiresAt.Sub(session.IssuedAt); got != SessionTTL {
		t.Errorf("session lifetime = %v, want %v", got, SessionTTL)
	}

	resolved, err := svc.Resolve(ctx, cookie)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if resolved == nil || resolved.User.Username != "alice" {
		t.Fatalf("resolved session = %+v", resolved)
	}
}

func TestSessionRejectsTamperedCookie(t *testing.T) {
	store := newFakeSessionStore()
	issuer := NewSessionService(store, "secret-a")
	verifier := NewSessionService(store, "secret-b")
	ctx := context.Background()

	cookie, _, err := issuer.Issue(ctx, testUser())
	if err != nil {
		t.Fatal(err)
	}
	resolved, err := verifier.Resolve(ctx, cookie)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != nil {
		t.Error("cookie signed with a different secret was accepted")
	}
	if resolved, _ := issuer.Resolve(ctx, "garbage.cookie.value"); resolved != nil {
		t.Error("garbage cookie was accepted")
	}
}

func TestSessionExpiresAfter24Hours(t *testing.T) {
	store := newFakeSessionStore()
	svc := NewSessionService(store, "test-secret")
	ctx := context.Background()

	issued := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return issued }
	cookie, _, err := svc.Issue(ctx, testUser())
	if err != nil {
		t.Fatal(err)
	}

	svc.Now = func() time.Time { return issued.Add(23 * time.Hour) }
	if resolved, _ := svc.Resolve(ctx, cookie); resolved == nil {
		t.Fatal("session expired early")
	}

	svc.Now = func() time.Time { return issued.Add(24*time.Hour + time.Minute) }
	if resolved, _ := svc.Resolve(ctx, cookie); resolved != nil {
		t.Fatal("session still valid past its lifetime")
	}
}

func TestSessionRecordExpiryDecides(t *testing.T) {
	// Even a cookie whose signature and exp still verify is dead once the
	// stored record says so.
	store := newFakeSessionStore()
	svc := NewSessionService(store, "test-secret")
	ctx := context.Background()

	cookie, session, err := svc.Issue(ctx, testUser())
	if err != nil {
		t.Fatal(err)
	}
	store.sessions[session.ID].ExpiresAt = svc.Now().Add(-time.Minute)
	if resolved, _ := svc.Resolve(ctx, cookie); resolved != nil {
		t.Fatal("expired record still resolves")
	}
	if _, ok := store.sessions[session.ID]; ok {
		t.Error("expired record not cleaned up")
	}
}

func TestSessionRevoke(t *testing.T) {
	store := newFakeSessionStore()
	svc := NewSessionService(store, "test-secret")
	ctx := context.Background()

	cookie, session, err := svc.Issue(ctx, testUser())
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Revoke(ctx, cookie); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	if _, ok := store.sessions[session.ID]; ok {
		t.Error("revoked record still stored")
	}
	if resolved, _ := svc.Resolve(ctx, cookie); resolved != nil {
		t.Error("revoked session still resolves")
	}
}
