// Package telegram is the Bot API implementation of the gateway capability.
//
// It is a thin JSON-over-HTTP client: every method maps to one Bot API call,
// long polling via getUpdates feeds the inbound stream, and errors carry the
// API method plus the platform's error description. No bot framework is used.
package telegram
