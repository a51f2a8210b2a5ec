// Package daemon composes the bot loop, deletion reaper, and announcer
// into a single lifecycle with flock-based locking to prevent multiple
// instances from sharing one catalog.
package daemon
