// Package gateway defines the chat transport capability the bot consumes.
//
// The interface covers the five operations the workflows need (membership
// lookup, forward, send, delete, callback answer) plus an inbound update
// stream. The telegram subpackage provides the production implementation;
// tests use an in-memory fake.
package gateway
