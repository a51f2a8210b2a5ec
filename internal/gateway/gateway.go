package gateway

import (
	"context"
	"strconv"
)

// MemberStatus is a user's membership state in a channel as reported by the
// transport.
type MemberStatus string

const (
	StatusMember        MemberStatus = "member"
	StatusAdministrator MemberStatus = "administrator"
	StatusCreator       MemberStatus = "creator"
	StatusRestricted    MemberStatus = "restricted"
	StatusLeft          MemberStatus = "left"
	StatusKicked        MemberStatus = "kicked"
	StatusNone          MemberStatus = "none"
)

// Subscribed reports whether the status counts as belonging to the channel.
func (s MemberStatus) Subscribed() bool {
	switch s {
	case StatusMember, StatusAdministrator, StatusCreator:
		return true
	}
	return false
}

// ChatRef identifies a chat: a public @username or a numeric identifier
// rendered as a string. The transport accepts both forms interchangeably.
type ChatRef string

// ChatID builds a ChatRef from a numeric chat identifier.
func ChatID(id int64) ChatRef {
	return ChatRef(strconv.FormatInt(id, 10))
}

// Button is one inline keyboard button; exactly one of URL or CallbackData
// should be set.
type Button struct {
	Text         string
	URL          string
	CallbackData string
}

// Gateway is the chat transport capability consumed by the bot. Everything
// that talks to the chat platform goes through this interface so tests can
// substitute a fake.
type Gateway interface {
	// ChatMember reports the user's membership status in a channel.
	ChatMember(ctx context.Context, channel ChatRef, userID int64) (MemberStatus, error)
	// Forward copies a message from one chat into another and returns the new
	// message identifier.
	Forward(ctx context.Context, from ChatRef, messageID int64, to ChatRef) (int64, error)
	// Send delivers a plain text message and returns its identifier.
	Send(ctx context.Context, to ChatRef, text string) (int64, error)
	// SendWithKeyboard delivers a text message with inline keyboard rows.
	SendWithKeyboard(ctx context.Context, to ChatRef, text string, rows [][]Button) (int64, error)
	// Delete removes a message. Deleting an already-gone message is an error
	// the caller is expected to swallow.
	Delete(ctx context.Context, chat ChatRef, messageID int64) error
	// AnswerCallback acknowledges a callback query, optionally with a toast.
	AnswerCallback(ctx context.Context, callbackID, text string) error
}

// Source produces the inbound event stream. The returned channel closes when
// the context is cancelled.
type Source interface {
	Updates(ctx context.Context) <-chan Update
}
