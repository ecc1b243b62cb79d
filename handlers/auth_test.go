package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shelfshare/shelfshare/middleware"
	"github.com/shelfshare/shelfshare/models"
	"github.com/shelfshare/shelfshare/service"
	"github.com/shelfshare/shelfshare/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeUserStore struct {
	users map[string]*models.User
}

func (f *fakeUserStore) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func (f *fakeUserStore) CreateUser(ctx context.Context, user *models.User) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	stored := *user
	stored.ID = id
	f.users[user.Username] = &stored
	return id, nil
}

type fakeSessionStore struct {
	sessions map[string]*models.Session
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

// testTemplates writes the minimal auth pages into a temp dir so the
// handlers can render without the full view set.
func testTemplates(t *testing.T) *templates.Manager {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"signup.html", "signin.html"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("<p>{{.Message}}</p>"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return templates.NewManager(dir)
}

func newAuthHandler(t *testing.T) (*AuthHandler, *fakeUserStore, *fakeSessionStore) {
	t.Helper()
	users := &fakeUserStore{users: make(map[string]*models.User)}
	sessions := &fakeSessionStore{sessions: make(map[string]*models.Session)}
	h := &AuthHandler{
		Credentials: service.NewCredentialService(users),
		Sessions:    service.NewSessionService(sessions, "test-secret"),
		Templates:   testTemplates(t),
	}
	return h, users, sessions
}

func postForm(handler http.HandlerFunc, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func TestPostSignup(t *testing.T) {
	h, users, sessions := newAuthHandler(t)

	rr := postForm(h.PostSignup, "/signup", url.Values{
		"username":        {"alice"},
		"password":        {"hunter22"},
		"confirmPassword": {"hunter22"},
	})
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want redirect", rr.Code)
	}
	if loc := rr.Header().Get("Location"); !strings.HasPrefix(loc, "/signin") {
		t.Errorf("redirect to %q", loc)
	}
	if users.users["alice"] == nil {
		t.Fatal("user not persisted")
	}
	if len(sessions.sessions) != 1 {
		t.Errorf("expected a session, got %d", len(sessions.sessions))
	}
	var cookie string
	for _, c := range rr.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			cookie = c.Value
			if !c.HttpOnly {
				t.Error("session cookie not httpOnly")
			}
		}
	}
	if cookie == "" {
		t.Error("session cookie not set")
	}
}

func TestPostSignupRejectsDuplicate(t *testing.T) {
	h, _, sessions := newAuthHandler(t)

	form := url.Values{
		"username":        {"alice"},
		"password":        {"hunter22"},
		"confirmPassword": {"hunter22"},
	}
	postForm(h.PostSignup, "/signup", form)
	sessionsBefore := len(sessions.sessions)

	rr := postForm(h.PostSignup, "/signup", form)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want re-rendered form", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Username already exists") {
		t.Errorf("body = %q", rr.Body.String())
	}
	if len(sessions.sessions) != sessionsBefore {
		t.Error("conflicting signup established a session")
	}
}

func TestPostSignupValidation(t *testing.T) {
	h, users, _ := newAuthHandler(t)

	rr := postForm(h.PostSignup, "/signup", url.Values{
		"username":        {"alice"},
		"password":        {"hunter22"},
		"confirmPassword": {"different"},
	})
	if !strings.Contains(rr.Body.String(), "Passwords do not match.") {
		t.Errorf("body = %q", rr.Body.String())
	}
	if len(users.users) != 0 {
		t.Error("invalid signup persisted a user")
	}
}

func TestPostSigninGenericMessage(t *testing.T) {
	h, _, _ := newAuthHandler(t)
	postForm(h.PostSignup, "/signup", url.Values{
		"username":        {"alice"},
		"password":        {"hunter22"},
		"confirmPassword": {"hunter22"},
	})

	wrongPass := postForm(h.PostSignin, "/signin", url.Values{
		"username": {"alice"},
		"password": {"nope"},
	})
	unknownUser := postForm(h.PostSignin, "/signin", url.Values{
		"username": {"nobody"},
		"password": {"hunter22"},
	})
	if wrongPass.Body.String() != unknownUser.Body.String() {
		t.Errorf("responses differ: %q vs %q", wrongPass.Body.String(), unknownUser.Body.String())
	}
	if !strings.Contains(wrongPass.Body.String(), "Invalid username or password.") {
		t.Errorf("body = %q", wrongPass.Body.String())
	}
}

func TestPostSigninSuccessThenLogout(t *testing.T) {
	h, _, sessions := newAuthHandler(t)
	postForm(h.PostSignup, "/signup", url.Values{
		"username":        {"alice"},
		"password":        {"hunter22"},
		"confirmPassword": {"hunter22"},
	})

	rr := postForm(h.PostSignin, "/signin", url.Values{
		"username": {"alice"},
		"password": {"hunter22"},
	})
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/" {
		t.Fatalf("status=%d location=%q", rr.Code, rr.Header().Get("Location"))
	}
	var cookie *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("no session cookie")
	}

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(cookie)
	out := httptest.NewRecorder()
	h.Logout(out, req)
	if out.Code != http.StatusSeeOther {
		t.Fatalf("logout status = %d", out.Code)
	}
	// signup + signin issued two sessions; logout must have revoked the
	// signin one.
	if len(sessions.sessions) != 1 {
		t.Errorf("sessions after logout = %d, want 1", len(sessions.sessions))
	}
	for _, c := range out.Result().Cookies() {
		if c.Name == middleware.SessionCookie && c.MaxAge >= 0 {
			t.Error("session cookie not cleared")
		}
	}
}
