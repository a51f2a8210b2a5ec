package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"showdrop/internal/catalog"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := fmt.Sprintf(`[telegram]
bot_token = "123:test"

[channels]
upload_channel = "@uploads"

[paths]
data_dir = %q
log_dir = %q
`, filepath.Join(dir, "data"), filepath.Join(dir, "logs"))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestDeriveCommand(t *testing.T) {
	out, err := runCommand(t, "derive", "[AWHT] Devil May Cry - S1 - 05 [1080p].mkv")
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if !strings.Contains(out, "devil-may-cry-s1-ep5-1080p") {
		t.Fatalf("expected derived code in output, got %q", out)
	}
	if !strings.Contains(out, "Quality: 1080p") {
		t.Fatalf("expected parsed quality in output, got %q", out)
	}
}

func TestDeriveCommandRejectsEmptyDerivation(t *testing.T) {
	if _, err := runCommand(t, "derive", "???"); err == nil {
		t.Fatal("expected error for unidentifiable title")
	}
}

func TestConfigInitCommand(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out, err := runCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Fatalf("expected target path in output, got %q", out)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "bot_token") {
		t.Fatal("expected sample config to mention bot_token")
	}

	if _, err := runCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected refusal to overwrite without --overwrite")
	}
	if _, err := runCommand(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigShowRedactsToken(t *testing.T) {
	cfgPath := writeTestConfig(t)

	out, err := runCommand(t, "--config", cfgPath, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if strings.Contains(out, "123:test") {
		t.Fatal("expected bot token redacted")
	}
	if !strings.Contains(out, "upload_channel") {
		t.Fatalf("expected resolved config in output, got %q", out)
	}
}

func TestEpisodesCommands(t *testing.T) {
	cfgPath := writeTestConfig(t)

	out, err := runCommand(t, "--config", cfgPath, "episodes", "list")
	if err != nil {
		t.Fatalf("episodes list: %v", err)
	}
	if !strings.Contains(out, "No episodes stored") {
		t.Fatalf("expected empty catalog message, got %q", out)
	}

	// Seed the catalog the same way the running bot would.
	dataDir := filepath.Join(filepath.Dir(cfgPath), "data")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	store, err := catalog.OpenPath(filepath.Join(dataDir, "catalog.db"))
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	ep := &catalog.Episode{Code: "some-show-ep1", SourceTitle: "Some Show Ep 1.mkv", Quality: "1080p", MessageID: 42}
	if err := store.Put(context.Background(), ep); err != nil {
		t.Fatalf("Put: %v", err)
	}
	store.Close()

	out, err = runCommand(t, "--config", cfgPath, "episodes", "list")
	if err != nil {
		t.Fatalf("episodes list: %v", err)
	}
	if !strings.Contains(out, "some-show-ep1") {
		t.Fatalf("expected episode listed, got %q", out)
	}

	out, err = runCommand(t, "--config", cfgPath, "episodes", "show", "some-show-ep1")
	if err != nil {
		t.Fatalf("episodes show: %v", err)
	}
	if !strings.Contains(out, "Some Show Ep 1.mkv") || !strings.Contains(out, "42") {
		t.Fatalf("expected record details, got %q", out)
	}

	if _, err := runCommand(t, "--config", cfgPath, "episodes", "show", "missing-code"); err == nil {
		t.Fatal("expected error for unknown code")
	}

	// Re-uploading a file gives it a new message id; update must fix the
	// mapping without touching the rest of the record.
	if _, err := runCommand(t, "--config", cfgPath, "episodes", "update", "some-show-ep1", "--message-id", "99"); err != nil {
		t.Fatalf("episodes update: %v", err)
	}
	out, err = runCommand(t, "--config", cfgPath, "episodes", "show", "some-show-ep1")
	if err != nil {
		t.Fatalf("episodes show: %v", err)
	}
	if !strings.Contains(out, "99") || !strings.Contains(out, "Some Show Ep 1.mkv") {
		t.Fatalf("expected updated message id and untouched title, got %q", out)
	}

	if _, err := runCommand(t, "--config", cfgPath, "episodes", "update", "some-show-ep1"); err == nil {
		t.Fatal("expected error when no field flags are given")
	}
	if _, err := runCommand(t, "--config", cfgPath, "episodes", "update", "missing-code", "--quality", "720p"); err == nil {
		t.Fatal("expected error updating an unknown code")
	}

	if _, err := runCommand(t, "--config", cfgPath, "episodes", "rm", "some-show-ep1"); err != nil {
		t.Fatalf("episodes rm: %v", err)
	}
	if _, err := runCommand(t, "--config", cfgPath, "episodes", "rm", "some-show-ep1"); err == nil {
		t.Fatal("expected error removing an already-removed code")
	}
}
