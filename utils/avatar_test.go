package utils

import "testing"

func TestDefaultAvatarBuckets(t *testing.T) {
	tests := []struct {
		username string
		want     string
	}{
		{"alice", "https://cdn-icons-png.flaticon.com/512/2921/2921826.png"},
		{"Greg", "https://cdn-icons-png.flaticon.com/512/2921/2921826.png"},
		{"harry", "https://cdn-icons-png.flaticon.com/512/2921/2921837.png"},
		{"Mona", "https://cdn-icons-png.flaticon.com/512/2921/2921837.png"},
		{"nina", "https://cdn-icons-png.flaticon.com/512/2921/2921828.png"},
		{"Tom", "https://cdn-icons-png.flaticon.com/512/2921/2921828.png"},
		{"ursula", "https://cdn-icons-png.flaticon.com/512/2921/2921840.png"},
		{"Zoe123", "https://cdn-icons-png.flaticon.com/512/2921/2921840.png"},
		{"7up", "https://cdn-icons-png.flaticon.com/512/2921/2921840.png"},
		{"_underscore", "https://cdn-icons-png.flaticon.com/512/2921/2921840.png"},
		{"", "https://cdn-icons-png.flaticon.com/512/2921/2921840.png"},
	}
	for _, tt := range tests {
		if got := DefaultAvatar(tt.username); got != tt.want {
			t.Errorf("DefaultAvatar(%q) = %q, want %q", tt.username, got, tt.want)
		}
	}
}

func TestDefaultAvatarDeterministic(t *testing.T) {
	for _, username := range []string{"", "alice", "Zoe123", "7up", "ürsula"} {
		first := DefaultAvatar(username)
		second := DefaultAvatar(username)
		if first != second {
			t.Errorf("DefaultAvatar(%q) not deterministic: %q then %q", username, first, second)
		}
		if first == "" {
			t.Errorf("DefaultAvatar(%q) returned empty URL", username)
		}
	}
}
