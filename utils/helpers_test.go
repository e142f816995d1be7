package utils

import (
	"net/http/httptest"
	"testing"
)

func TestParseLimit(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", 10},
		{"?limit=5", 5},
		{"?limit=0", 10},
		{"?limit=-3", 10},
		{"?limit=abc", 10},
		{"?limit=500", 100},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/x"+tt.query, nil)
		if got := ParseLimit(r, 10, 100); got != tt.want {
			t.Fatalf("ParseLimit(%q) = %d, want %d", tt.query, got, tt.want)
		}
	}
}

func TestGetUserIDWithoutClaims(t *testing.T) {
	r := httptest.NewRequest("GET", "/x", nil)
	if id, ok := GetUserID(r); ok || id != "" {
		t.Fatalf("expected no user, got %q", id)
	}
}
