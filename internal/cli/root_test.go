package cli

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"kanban-cli/internal/server"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		t.Fatalf("%v failed: %v\noutput: %s", args, err, out.String())
	}
	return out.String()
}

func startBackend(t *testing.T) string {
	t.Helper()
	st, err := server.OpenStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	srv := httptest.NewServer(server.New(st).Router())
	t.Cleanup(func() {
		srv.Close()
		st.Close()
	})
	return srv.URL
}

func TestBoardsLifecycleCommands(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	base := startBackend(t)
	cfgFlag := "--config=" + filepath.Join(t.TempDir(), "missing.yml")
	srvFlag := "--server=" + base

	if out := execute(t, "boards", "list", srvFlag, cfgFlag); !strings.Contains(out, "no boards") {
		t.Fatalf("empty list output: %q", out)
	}

	out := execute(t, "boards", "create", "Roadmap", srvFlag, cfgFlag)
	if !strings.Contains(out, "Roadmap") {
		t.Fatalf("create output: %q", out)
	}
	id := strings.Fields(strings.TrimPrefix(strings.TrimSpace(out), "created "))[0]

	if out := execute(t, "boards", "rename", id, "Roadmap 2026", srvFlag, cfgFlag); !strings.Contains(out, "renamed") {
		t.Fatalf("rename output: %q", out)
	}
	if out := execute(t, "boards", "list", srvFlag, cfgFlag); !strings.Contains(out, "Roadmap 2026") {
		t.Fatalf("list after rename: %q", out)
	}
	if out := execute(t, "boards", "rm", id, srvFlag, cfgFlag); !strings.Contains(out, "deleted") {
		t.Fatalf("rm output: %q", out)
	}
}

func TestLoginStoresToken(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("KANBAN_TOKEN", "")

	execute(t, "login", "--token", "Bearer s3cret")

	home, _ := os.UserHomeDir()
	raw, err := os.ReadFile(filepath.Join(home, ".kanban", "credentials.json"))
	if err != nil {
		t.Fatalf("credentials file: %v", err)
	}
	if !strings.Contains(string(raw), "s3cret") {
		t.Fatalf("token not stored: %s", raw)
	}
	if strings.Contains(string(raw), "Bearer") {
		t.Fatalf("bearer prefix should be stripped: %s", raw)
	}

	execute(t, "logout")
	if _, err := os.Stat(filepath.Join(home, ".kanban", "credentials.json")); err == nil {
		t.Fatal("credentials should be removed on logout")
	}
}

func TestLoadConfigFlagOverridesFile(t *testing.T) {
	t.Setenv("KANBAN_SERVER", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, []byte("server: http://from-file:9\nboard: board-xyz\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(&App{ConfigPath: path, Server: "http://from-flag:9"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server != "http://from-flag:9" {
		t.Fatalf("server=%q, want the flag value", cfg.Server)
	}
	if cfg.Board != "board-xyz" {
		t.Fatalf("board=%q, want the file value", cfg.Board)
	}
}
