package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. Missing credentials or the
// upload channel are fatal: the bot must not start serving without them.
func (c *Config) Validate() error {
	if err := c.validateTelegram(); err != nil {
		return err
	}
	if err := c.validateChannels(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTelegram() error {
	if c.Telegram.BotToken == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/showdrop/config.toml"
		}
		return fmt.Errorf("telegram.bot_token is required. Set SHOWDROP_BOT_TOKEN env var or edit %s (create with 'showdrop config init')", defaultPath)
	}
	if c.Telegram.APIBaseURL == "" {
		return errors.New("telegram.api_base_url must be set")
	}
	return nil
}

func (c *Config) validateChannels() error {
	if c.Channels.UploadChannel == "" {
		return errors.New("channels.upload_channel is required")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
