package gateway

// Update is one inbound event from the transport. Exactly one of the pointer
// fields is set.
type Update struct {
	ID          int64
	Message     *Message
	ChannelPost *Message
	Callback    *Callback
}

// Message is an inbound chat message or channel post.
type Message struct {
	ID           int64
	Chat         ChatRef
	ChatUsername string
	FromID       int64
	Text         string
	Caption      string
	FileName     string
	HasMedia     bool
}

// Callback is an inline keyboard button press.
type Callback struct {
	ID        string
	FromID    int64
	Chat      ChatRef
	MessageID int64
	Data      string
}
