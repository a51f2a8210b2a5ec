package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
[telegram]
bot_token = "123:abc"

[channels]
upload_channel = "@uploads"
`)

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists || resolved == "" {
		t.Fatalf("expected resolved existing config, got %q %v", resolved, exists)
	}
	if cfg.Delivery.DeleteDelaySeconds != defaultDeleteDelaySeconds {
		t.Fatalf("expected default delete delay, got %d", cfg.Delivery.DeleteDelaySeconds)
	}
	if cfg.Telegram.PollTimeout != defaultPollTimeout {
		t.Fatalf("expected default poll timeout, got %d", cfg.Telegram.PollTimeout)
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("expected console log format, got %q", cfg.Logging.Format)
	}
}

func TestLoadRequiresBotToken(t *testing.T) {
	t.Setenv("SHOWDROP_BOT_TOKEN", "")
	t.Setenv("BOT_TOKEN", "")
	path := writeConfig(t, `
[channels]
upload_channel = "@uploads"
`)

	if _, _, _, err := Load(path); err == nil || !strings.Contains(err.Error(), "bot_token") {
		t.Fatalf("expected bot_token error, got %v", err)
	}
}

func TestLoadRequiresUploadChannel(t *testing.T) {
	path := writeConfig(t, `
[telegram]
bot_token = "123:abc"
`)

	if _, _, _, err := Load(path); err == nil || !strings.Contains(err.Error(), "upload_channel") {
		t.Fatalf("expected upload_channel error, got %v", err)
	}
}

func TestBotTokenFromEnvironment(t *testing.T) {
	t.Setenv("SHOWDROP_BOT_TOKEN", "999:env")
	path := writeConfig(t, `
[channels]
upload_channel = "@uploads"
`)

	cfg, _, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Telegram.BotToken != "999:env" {
		t.Fatalf("expected env token, got %q", cfg.Telegram.BotToken)
	}
}

func TestNormalizeChannelRefs(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"@dropzone", "@dropzone"},
		{"dropzone", "@dropzone"},
		{"  dropzone  ", "@dropzone"},
		{"-1001234567890", "-1001234567890"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := normalizeChannelRef(tc.in); got != tc.want {
			t.Errorf("normalizeChannelRef(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeDropsBlankRequiredChannels(t *testing.T) {
	path := writeConfig(t, `
[telegram]
bot_token = "123:abc"

[channels]
upload_channel = "@uploads"
required_channels = ["@one", "", "  ", "two"]
`)

	cfg, _, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := []string{"@one", "@two"}
	if len(cfg.Channels.RequiredChannels) != len(want) {
		t.Fatalf("expected %v, got %v", want, cfg.Channels.RequiredChannels)
	}
	for i, ch := range want {
		if cfg.Channels.RequiredChannels[i] != ch {
			t.Fatalf("expected %v, got %v", want, cfg.Channels.RequiredChannels)
		}
	}
}

func TestValidateRejectsUnknownLogFormat(t *testing.T) {
	path := writeConfig(t, `
[telegram]
bot_token = "123:abc"

[channels]
upload_channel = "@uploads"

[logging]
format = "xml"
`)

	if _, _, _, err := Load(path); err == nil || !strings.Contains(err.Error(), "logging.format") {
		t.Fatalf("expected logging.format error, got %v", err)
	}
}
