package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shelfshare/shelfshare/models"
)

// SessionTTL is the absolute session lifetime.
const SessionTTL = 24 * time.Hour

// SessionStore is the persistence capability for session records.
type SessionStore interface {
	PutSession(ctx context.Context, session *models.Session) error
	SessionByID(ctx context.Context, id string) (*models.Session, error)
	DeleteSession(ctx context.Context, id string) error
}

type sessionClaims struct {
	SID string `json:"sid"`
	jwt.RegisteredClaims
}

// SessionService issues and resolves browser sessions. The cookie value is
// a signed envelope around the session id; the stored record decides
// validity, so deleting it revokes the session even before the cookie
// expires.
type SessionService struct {
	Store  SessionStore
	Secret string
	Now    func() time.Time
}

func NewSessionService(store SessionStore, secret string) *SessionService {
	return &SessionService{Store: store, Secret: secret, Now: time.Now}
}

// Issue creates a session record for the user and returns the signed
// cookie value alongside it.
func (s *SessionService) Issue(ctx context.Context, user models.SessionUser) (string, *models.Session, error) {
	now := s.Now()
	session := &models.Session{
		ID:        uuid.NewString(),
		User:      user,
		IssuedAt:  now,
		ExpiresAt: now.Add(SessionTTL),
	}
	if err := s.Store.PutSession(ctx, session); err != nil {
		return "", nil, err
	}
	claims := &sessionClaims{
		SID: session.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	value, err := token.SignedString([]byte(s.Secret))
	if err != nil {
		return "", nil, err
	}
	return value, session, nil
}

// Resolve maps a cookie value back to its live session. Tampered, unknown
// and expired cookies all yield (nil, nil); an expired record is deleted
// on the way out.
func (s *SessionService) Resolve(ctx context.Context, cookieValue string) (*models.Session, error) {
	sid, ok := s.unwrap(cookieValue)
	if !ok {
		return nil, nil
	}
	session, err := s.Store.SessionByID(ctx, sid)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}
	if session.Expired(s.Now()) {
		_ = s.Store.DeleteSession(ctx, sid)
		return nil, nil
	}
	return session, nil
}

// Revoke destroys the session record behind the cookie value.
func (s *SessionService) Revoke(ctx context.Context, cookieValue string) error {
	sid, ok := s.unwrap(cookieValue)
	if !ok {
		return nil
	}
	return s.Store.DeleteSession(ctx, sid)
}

// unwrap verifies the cookie signature and extracts the session id.
func (s *SessionService) unwrap(cookieValue string) (string, bool) {
	token, err := jwt.ParseWithClaims(cookieValue, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.Secret), nil
	}, jwt.WithTimeFunc(func() time.Time { return s.Now() }))
	if err != nil || !token.Valid {
		return "", false
	}
	claims, ok := token.Claims.(*sessionClaims)
	if !ok || claims.SID == "" {
		return "", false
	}
	return claims.SID, true
}
