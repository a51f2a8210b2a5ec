package testsupport

import (
	"path/filepath"
	"testing"

	"showdrop/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Telegram.BotToken = "123:test"
	cfg.Channels.UploadChannel = "@uploads"
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithRequiredChannels sets the subscription requirements on the test config.
func WithRequiredChannels(channels ...string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Channels.RequiredChannels = channels
	}
}

// WithAdminChats points operator notifications at the given chat IDs.
func WithAdminChats(ids ...int64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Admin.ChatIDs = ids
	}
}

// WithDeleteDelay overrides the self-destruct delay on the test config.
func WithDeleteDelay(seconds int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Delivery.DeleteDelaySeconds = seconds
	}
}
