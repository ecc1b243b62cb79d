package models

import "time"

// Session binds a browser to a user for at most 24 hours. The cookie only
// carries the session ID; this record decides validity, so deleting it
// revokes the session immediately.
type Session struct {
	ID        string      `bson:"_id" json:"id"`
	User      SessionUser `bson:"user" json:"user"`
	IssuedAt  time.Time   `bson:"issuedAt" json:"issuedAt"`
	ExpiresAt time.Time   `bson:"expiresAt" json:"expiresAt"`
}

// Expired reports whether the session is past its absolute lifetime.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
