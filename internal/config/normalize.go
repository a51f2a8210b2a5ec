package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTelegram()
	c.normalizeChannels()
	c.normalizeDelivery()
	c.normalizeAnnounce()
	c.normalizeAdmin()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTelegram() {
	if c.Telegram.BotToken == "" {
		if value, ok := os.LookupEnv("SHOWDROP_BOT_TOKEN"); ok {
			c.Telegram.BotToken = value
		} else if value, ok := os.LookupEnv("BOT_TOKEN"); ok {
			c.Telegram.BotToken = value
		}
	}
	c.Telegram.BotToken = strings.TrimSpace(c.Telegram.BotToken)
	c.Telegram.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.Telegram.APIBaseURL), "/")
	if c.Telegram.APIBaseURL == "" {
		c.Telegram.APIBaseURL = defaultAPIBaseURL
	}
	if c.Telegram.PollTimeout <= 0 {
		c.Telegram.PollTimeout = defaultPollTimeout
	}
}

func (c *Config) normalizeChannels() {
	c.Channels.UploadChannel = normalizeChannelRef(c.Channels.UploadChannel)
	cleaned := make([]string, 0, len(c.Channels.RequiredChannels))
	for _, ch := range c.Channels.RequiredChannels {
		if ref := normalizeChannelRef(ch); ref != "" {
			cleaned = append(cleaned, ref)
		}
	}
	c.Channels.RequiredChannels = cleaned
}

// normalizeChannelRef trims whitespace and ensures public channel names carry
// a leading @. Numeric chat identifiers pass through untouched.
func normalizeChannelRef(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "@") || strings.HasPrefix(ref, "-") {
		return ref
	}
	if _, isNumeric := numericRef(ref); isNumeric {
		return ref
	}
	return "@" + ref
}

func numericRef(ref string) (int64, bool) {
	var id int64
	_, err := fmt.Sscanf(ref, "%d", &id)
	return id, err == nil && fmt.Sprintf("%d", id) == ref
}

func (c *Config) normalizeDelivery() {
	if c.Delivery.DeleteDelaySeconds <= 0 {
		c.Delivery.DeleteDelaySeconds = defaultDeleteDelaySeconds
	}
	if strings.TrimSpace(c.Delivery.NoticeText) == "" {
		c.Delivery.NoticeText = defaultNoticeText
	}
}

func (c *Config) normalizeAnnounce() {
	c.Announce.Chat = normalizeChannelRef(c.Announce.Chat)
	if c.Announce.IntervalSeconds <= 0 {
		c.Announce.IntervalSeconds = defaultAnnounceInterval
	}
}

func (c *Config) normalizeAdmin() {
	c.Admin.NtfyTopic = strings.TrimSpace(c.Admin.NtfyTopic)
	if c.Admin.RequestTimeout <= 0 {
		c.Admin.RequestTimeout = defaultAdminTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
