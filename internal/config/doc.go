// Package config loads, validates, and normalizes showdrop configuration.
//
// Configuration lives in a TOML file (~/.config/showdrop/config.toml by
// default, or showdrop.toml in the working directory). The bot token may come
// from the environment or a .env file instead of the config file. Validation
// runs at load time so a misconfigured daemon aborts before serving anything.
package config
