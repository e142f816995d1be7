package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestCreateToken(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	ti := &TokenIssuer{
		Secret:   []byte("secret"),
		Issuer:   "studydeck",
		Audience: "clients",
		TTL:      time.Hour,
		Now:      func() time.Time { return now },
	}
	tokenString, err := ti.CreateToken("user-1", "a@b.co")
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}

	var claims Claims
	_, err = jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithIssuer("studydeck"), jwt.WithAudience("clients"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "user-1" || claims.Email != "a@b.co" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if !claims.ExpiresAt.Time.Equal(now.Add(time.Hour)) {
		t.Fatalf("unexpected expiry: %v", claims.ExpiresAt)
	}

	if _, err := (&TokenIssuer{}).CreateToken("u", "e"); err == nil {
		t.Fatalf("expected error without a secret")
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "hunter22" {
		t.Fatalf("password stored in clear")
	}
	if !CheckPassword(hash, "hunter22") {
		t.Fatalf("correct password rejected")
	}
	if CheckPassword(hash, "hunter23") {
		t.Fatalf("wrong password accepted")
	}
}
