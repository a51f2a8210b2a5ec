package testsupport

import (
	"context"
	"fmt"
	"sync"

	"showdrop/internal/gateway"
)

// FakeGateway is an in-memory gateway.Gateway that records calls and serves
// canned membership answers. Safe for concurrent use.
type FakeGateway struct {
	mu sync.Mutex

	// Memberships maps "channel/userID" to a status; absent entries report
	// StatusNone. MembershipErrs forces an error for a channel.
	Memberships    map[string]gateway.MemberStatus
	MembershipErrs map[string]error

	ForwardErr error
	SendErr    error
	DeleteErr  error

	nextMessageID int64

	MembershipQueries []gateway.ChatRef
	Forwards          []ForwardCall
	Sent              []SentMessage
	Deleted           []DeleteCall
	CallbackAnswers   []string
}

// ForwardCall records one Forward invocation.
type ForwardCall struct {
	From      gateway.ChatRef
	MessageID int64
	To        gateway.ChatRef
}

// SentMessage records one Send or SendWithKeyboard invocation.
type SentMessage struct {
	To        gateway.ChatRef
	Text      string
	Rows      [][]gateway.Button
	MessageID int64
}

// DeleteCall records one Delete invocation.
type DeleteCall struct {
	Chat      gateway.ChatRef
	MessageID int64
}

// NewFakeGateway returns an empty fake with message IDs starting at 1000.
func NewFakeGateway() *FakeGateway {
	return &FakeGateway{
		Memberships:    map[string]gateway.MemberStatus{},
		MembershipErrs: map[string]error{},
		nextMessageID:  1000,
	}
}

func membershipKey(channel gateway.ChatRef, userID int64) string {
	return fmt.Sprintf("%s/%d", channel, userID)
}

// SetMember marks a user's status in a channel.
func (f *FakeGateway) SetMember(channel gateway.ChatRef, userID int64, status gateway.MemberStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Memberships[membershipKey(channel, userID)] = status
}

// FailMembership forces ChatMember to return an error for a channel.
func (f *FakeGateway) FailMembership(channel gateway.ChatRef, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.MembershipErrs[string(channel)] = err
}

func (f *FakeGateway) ChatMember(_ context.Context, channel gateway.ChatRef, userID int64) (gateway.MemberStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.MembershipQueries = append(f.MembershipQueries, channel)
	if err, ok := f.MembershipErrs[string(channel)]; ok {
		return gateway.StatusNone, err
	}
	if status, ok := f.Memberships[membershipKey(channel, userID)]; ok {
		return status, nil
	}
	return gateway.StatusNone, nil
}

func (f *FakeGateway) Forward(_ context.Context, from gateway.ChatRef, messageID int64, to gateway.ChatRef) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ForwardErr != nil {
		return 0, f.ForwardErr
	}
	f.Forwards = append(f.Forwards, ForwardCall{From: from, MessageID: messageID, To: to})
	f.nextMessageID++
	return f.nextMessageID, nil
}

func (f *FakeGateway) Send(ctx context.Context, to gateway.ChatRef, text string) (int64, error) {
	return f.send(to, text, nil)
}

func (f *FakeGateway) SendWithKeyboard(_ context.Context, to gateway.ChatRef, text string, rows [][]gateway.Button) (int64, error) {
	return f.send(to, text, rows)
}

func (f *FakeGateway) send(to gateway.ChatRef, text string, rows [][]gateway.Button) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SendErr != nil {
		return 0, f.SendErr
	}
	f.nextMessageID++
	f.Sent = append(f.Sent, SentMessage{To: to, Text: text, Rows: rows, MessageID: f.nextMessageID})
	return f.nextMessageID, nil
}

func (f *FakeGateway) Delete(_ context.Context, chat gateway.ChatRef, messageID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Deleted = append(f.Deleted, DeleteCall{Chat: chat, MessageID: messageID})
	return f.DeleteErr
}

func (f *FakeGateway) AnswerCallback(_ context.Context, callbackID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CallbackAnswers = append(f.CallbackAnswers, callbackID+":"+text)
	return nil
}

// DeletedCalls returns a snapshot of the Delete calls so far.
func (f *FakeGateway) DeletedCalls() []DeleteCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	calls := make([]DeleteCall, len(f.Deleted))
	copy(calls, f.Deleted)
	return calls
}

// DeletedCount returns the number of Delete calls so far.
func (f *FakeGateway) DeletedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Deleted)
}

// SentCount returns the number of Send calls so far.
func (f *FakeGateway) SentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Sent)
}

// LastSent returns the most recent sent message, or nil.
func (f *FakeGateway) LastSent() *SentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Sent) == 0 {
		return nil
	}
	msg := f.Sent[len(f.Sent)-1]
	return &msg
}
