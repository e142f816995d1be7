package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, configPath string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", configPath}, args...))
	if err := root.Execute(); err != nil {
		t.Fatalf("studydeck %s: %v\n%s", strings.Join(args, " "), err, out.String())
	}
	return out.String()
}

func setupCLI(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	body := "storage_path: " + filepath.Join(dir, "deck.db") + "\nlog_mode: quiet\napi_url: http://127.0.0.1:1\n"
	if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("STUDYDECK_API_URL", "")
	t.Setenv("STUDYDECK_STORAGE", "")
	return configPath
}

func TestOfflineDeckLifecycle(t *testing.T) {
	cfg := setupCLI(t)

	out := runCLI(t, cfg, "add", "--question", "2+2", "--answer", "4", "--subject", "Math", "--week", "W1")
	if !strings.HasPrefix(out, "added ") {
		t.Fatalf("unexpected add output: %q", out)
	}
	id := strings.TrimSpace(strings.TrimPrefix(out, "added "))

	if out := runCLI(t, cfg, "grade", id, "correct"); !strings.Contains(out, "points 30, level 1") {
		t.Fatalf("unexpected grade output: %q", out)
	}
	if out := runCLI(t, cfg, "star", id); !strings.Contains(out, "starred=true") {
		t.Fatalf("unexpected star output: %q", out)
	}
	if out := runCLI(t, cfg, "list", "--starred"); !strings.Contains(out, "2+2") || !strings.Contains(out, "+1/-0") {
		t.Fatalf("card state not persisted between runs: %q", out)
	}
	if out := runCLI(t, cfg, "list", "--due"); !strings.Contains(out, "no cards") {
		t.Fatalf("freshly graded card should not be due: %q", out)
	}
	if out := runCLI(t, cfg, "list", "--grouped"); !strings.Contains(out, "Math\n  W1\n") {
		t.Fatalf("unexpected grouping: %q", out)
	}

	out = runCLI(t, cfg, "stats")
	if !strings.Contains(out, "points: 30") || !strings.Contains(out, "session: 1/1 correct (100%)") {
		t.Fatalf("unexpected stats: %q", out)
	}

	if out := runCLI(t, cfg, "session", "save", "--minutes", "15"); !strings.Contains(out, "kept locally") {
		t.Fatalf("unexpected session save output: %q", out)
	}
	out = runCLI(t, cfg, "stats")
	if !strings.Contains(out, "study time: 15m") || !strings.Contains(out, "streak: 1") || !strings.Contains(out, "session: 0/0") {
		t.Fatalf("session not folded into progress: %q", out)
	}

	runCLI(t, cfg, "delete", id)
	if out := runCLI(t, cfg, "next"); !strings.Contains(out, "no cards") {
		t.Fatalf("expected empty deck, got %q", out)
	}
}

func TestImportGeneratedCards(t *testing.T) {
	cfg := setupCLI(t)
	file := filepath.Join(t.TempDir(), "cards.json")
	body := "Here you go:\n[{\"question\":\"Capital of France?\",\"answer\":\"Paris\"},{\"question\":\"Capital of Peru?\",\"answer\":\"Lima\",\"difficulty\":\"hard\"}]"
	if err := os.WriteFile(file, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if out := runCLI(t, cfg, "import", file, "--subject", "Geography"); !strings.Contains(out, "imported 2 cards") {
		t.Fatalf("unexpected import output: %q", out)
	}
	if out := runCLI(t, cfg, "list", "--grouped"); !strings.HasPrefix(out, "Geography\n") {
		t.Fatalf("subject not applied: %q", out)
	}
	if out := runCLI(t, cfg, "next"); !strings.Contains(out, "[2] Capital of Peru?") {
		t.Fatalf("unexpected next output: %q", out)
	}
}

func TestSyncRequiresSignIn(t *testing.T) {
	cfg := setupCLI(t)
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--config", cfg, "sync"})
	if err := root.Execute(); err == nil || !strings.Contains(err.Error(), "not signed in") {
		t.Fatalf("expected sign-in error, got %v", err)
	}
}
