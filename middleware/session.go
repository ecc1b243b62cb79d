package middleware

import (
	"context"
	"log"
	"net/http"

	"github.com/shelfshare/shelfshare/models"
	"github.com/shelfshare/shelfshare/service"
)

type contextKey string

const sessionKey contextKey = "session"

// SessionCookie is the name of the session cookie.
const SessionCookie = "session"

// LoadSession resolves the session cookie (when present) and stores the
// session in the request context. It never rejects; handlers and the
// guards below decide what an anonymous request may do.
func LoadSession(sessions *service.SessionService) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			session, err := sessions.Resolve(r.Context(), cookie.Value)
			if err != nil {
				log.Printf("session lookup failed: %v", err)
				next.ServeHTTP(w, r)
				return
			}
			if session == nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), sessionKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth redirects anonymous page requests to the signin form.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := SessionFromContext(r.Context()); !ok {
			http.Redirect(w, r, "/signin", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuthJSON rejects anonymous API requests with a 401 JSON body.
func RequireAuthJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := SessionFromContext(r.Context()); !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"unauthorized"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func SessionFromContext(ctx context.Context) (*models.Session, bool) {
	s, ok := ctx.Value(sessionKey).(*models.Session)
	return s, ok
}

// UserFromContext is a convenience for handlers that only need the
// session's user subset.
func UserFromContext(ctx context.Context) (models.SessionUser, bool) {
	s, ok := SessionFromContext(ctx)
	if !ok {
		return models.SessionUser{}, false
	}
	return s.User, true
}

// SetSessionCookie writes the httpOnly session cookie.
func SetSessionCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	SetSessionCookie(w, "", -1)
}
