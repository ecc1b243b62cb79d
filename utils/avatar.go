package utils

import "strings"

// The four placeholder avatars, one per username bucket.
const (
	avatarAG    = "https://cdn-icons-png.flaticon.com/512/2921/2921826.png"
	avatarHM    = "https://cdn-icons-png.flaticon.com/512/2921/2921837.png"
	avatarNT    = "https://cdn-icons-png.flaticon.com/512/2921/2921828.png"
	avatarOther = "https://cdn-icons-png.flaticon.com/512/2921/2921840.png"
)

// DefaultAvatar picks a placeholder image from the lowercase first
// character of the username: [a-g], [h-m], [n-t], and everything else
// (u-z, digits, symbols, empty). Deterministic and total.
func DefaultAvatar(username string) string {
	if username == "" {
		return avatarOther
	}
	first := strings.ToLower(username[:1])[0]
	switch {
	case first >= 'a' && first <= 'g':
		return avatarAG
	case first >= 'h' && first <= 'm':
		return avatarHM
	case first >= 'n' && first <= 't':
		return avatarNT
	default:
		return avatarOther
	}
}
