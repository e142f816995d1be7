package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/andrewpaige1/studydeck/models"
	"gorm.io/gorm"
)

func TestLoadClientFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "studydeck.yaml")
	body := "api_url: https://api.example.com\nstorage_path: /tmp/deck.db\nsettle_delay: 250ms\ntimezone: Europe/Paris\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadClient(path)
	if err != nil {
		t.Fatalf("LoadClient: %v", err)
	}
	if cfg.APIURL != "https://api.example.com" || cfg.StoragePath != "/tmp/deck.db" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.SettleDelay != 250*time.Millisecond {
		t.Fatalf("unexpected settle delay: %v", cfg.SettleDelay)
	}
	if cfg.LogMode != "quiet" {
		t.Fatalf("default log mode lost: %q", cfg.LogMode)
	}
	loc, err := cfg.Location()
	if err != nil || loc.String() != "Europe/Paris" {
		t.Fatalf("Location: %v %v", loc, err)
	}
}

func TestLoadClientMissingFileAndEnv(t *testing.T) {
	t.Setenv("STUDYDECK_API_URL", "http://override:9000")
	cfg, err := LoadClient(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadClient: %v", err)
	}
	if cfg.APIURL != "http://override:9000" || cfg.SettleDelay != time.Second {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadClientRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	_ = os.WriteFile(path, []byte("api_url: [unterminated"), 0o644)
	if _, err := LoadClient(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("RAILWAY_ENVIRONMENT_NAME", "test")
	t.Setenv("JWT_SECRET_KEY", "s3cret")
	t.Setenv("PORT", "9999")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LOG_MODE", "")

	env, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if env.IsDevelopment || env.Addr() != "0.0.0.0:9999" || env.LogMode != "prod" {
		t.Fatalf("unexpected env: %+v", env)
	}
	if len(env.AllowedOrigins) != 2 || env.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins: %v", env.AllowedOrigins)
	}

	t.Setenv("JWT_SECRET_KEY", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected missing secret error")
	}
}

func TestConnectSQLite(t *testing.T) {
	db, err := Connect(filepath.Join(t.TempDir(), "server.db"))
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	for _, table := range []string{"users", "flashcards", "study_sessions", "user_stats"} {
		if !db.Migrator().HasTable(table) {
			t.Fatalf("table %s not migrated", table)
		}
	}
	if _, err := Connect(""); err == nil {
		t.Fatalf("expected error for empty url")
	}
}

func TestConnectTranslatesDuplicateKey(t *testing.T) {
	db, err := Connect(filepath.Join(t.TempDir(), "server.db"))
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	first := models.User{Email: "ada@example.com", PasswordHash: "x"}
	if err := db.Create(&first).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	second := models.User{Email: "ada@example.com", PasswordHash: "y"}
	if err := db.Create(&second).Error; !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected gorm.ErrDuplicatedKey, got %v", err)
	}
}
