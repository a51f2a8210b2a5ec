package config

const (
	defaultDataDir            = "~/.local/share/showdrop"
	defaultLogDir             = "~/.local/share/showdrop/logs"
	defaultAPIBaseURL         = "https://api.telegram.org"
	defaultPollTimeout        = 30
	defaultDeleteDelaySeconds = 30
	defaultNoticeText         = "This file self-destructs in %d seconds. Save it now."
	defaultAnnounceInterval   = 300
	defaultAdminTimeout       = 10
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Telegram: Telegram{
			APIBaseURL:  defaultAPIBaseURL,
			PollTimeout: defaultPollTimeout,
		},
		Delivery: Delivery{
			DeleteDelaySeconds: defaultDeleteDelaySeconds,
			NoticeText:         defaultNoticeText,
		},
		Announce: Announce{
			IntervalSeconds: defaultAnnounceInterval,
		},
		Admin: Admin{
			RequestTimeout: defaultAdminTimeout,
		},
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
