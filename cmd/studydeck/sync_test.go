package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/andrewpaige1/studydeck/auth"
	"github.com/andrewpaige1/studydeck/config"
	"github.com/andrewpaige1/studydeck/handlers"
	"github.com/andrewpaige1/studydeck/logger"
	"github.com/andrewpaige1/studydeck/middleware"
)

func startAPI(t *testing.T) string {
	t.Helper()
	secret := []byte("cli-secret")
	db, err := config.Connect(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	h := &handlers.DBHandler{
		DB:     db,
		Tokens: &auth.TokenIssuer{Secret: secret, Issuer: "studydeck", Audience: "cli", TTL: time.Hour},
		Log:    logger.Nop(),
	}
	mux := http.NewServeMux()
	handlers.Register(mux, h)
	jwtMiddleware, err := middleware.EnsureValidToken(secret, "studydeck", "cli", h.Log)
	if err != nil {
		t.Fatalf("EnsureValidToken: %v", err)
	}
	srv := httptest.NewServer(jwtMiddleware(mux))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestSignUpThenSync(t *testing.T) {
	apiURL := startAPI(t)
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	body := "storage_path: " + filepath.Join(dir, "deck.db") + "\nlog_mode: quiet\nsettle_delay: 1ms\napi_url: " + apiURL + "\n"
	if err := os.WriteFile(cfg, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("STUDYDECK_API_URL", "")
	t.Setenv("STUDYDECK_STORAGE", "")

	runCLI(t, cfg, "add", "--question", "H2O", "--answer", "water")
	runCLI(t, cfg, "add", "--question", "NaCl", "--answer", "salt")

	out := runCLI(t, cfg, "signup", "--email", "ada@example.com", "--password", "hunter22")
	if !strings.Contains(out, "signed up as ada@example.com") || !strings.Contains(out, "sync settled, 2 cards local") {
		t.Fatalf("unexpected signup output: %q", out)
	}

	// a later run replays the saved sign-in; the account now has the deck
	if out := runCLI(t, cfg, "sync"); !strings.Contains(out, "pulled 2, pushed 0") {
		t.Fatalf("unexpected sync output: %q", out)
	}
	if out := runCLI(t, cfg, "list"); !strings.Contains(out, "H2O") || !strings.Contains(out, "NaCl") {
		t.Fatalf("deck lost after sync: %q", out)
	}

	runCLI(t, cfg, "logout")
	root := newRootCmd()
	root.SetArgs([]string{"--config", cfg, "sync"})
	if err := root.Execute(); err == nil {
		t.Fatalf("expected sync to require sign-in after logout")
	}
}
