package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"showdrop/internal/gateway"
)

// chatService delivers operator notifications straight to the configured
// admin chats through the message gateway.
type chatService struct {
	gw    gateway.Gateway
	chats []int64
}

func (c *chatService) NotifyEpisodeStored(ctx context.Context, code, sourceTitle string) error {
	return c.broadcast(ctx, fmt.Sprintf("Stored %s\nSource: %s", strings.TrimSpace(code), strings.TrimSpace(sourceTitle)))
}

func (c *chatService) NotifyDuplicateUpload(ctx context.Context, code, sourceTitle string) error {
	return c.broadcast(ctx, fmt.Sprintf("Duplicate upload ignored for %s\nSource: %s", strings.TrimSpace(code), strings.TrimSpace(sourceTitle)))
}

func (c *chatService) NotifyIngestFailed(ctx context.Context, sourceTitle string, cause error) error {
	reason := "unknown"
	if cause != nil {
		reason = strings.TrimSpace(cause.Error())
	}
	return c.broadcast(ctx, fmt.Sprintf("Ingest failed for %s\nReason: %s", strings.TrimSpace(sourceTitle), reason))
}

func (c *chatService) NotifyUntitledUpload(ctx context.Context, messageID int64) error {
	return c.broadcast(ctx, fmt.Sprintf("Upload %d has no filename or caption, no code was assigned.\nRepost it with a caption.", messageID))
}

func (c *chatService) NotifyBotStarted(ctx context.Context) error {
	return c.broadcast(ctx, "Showdrop is online and polling for updates")
}

func (c *chatService) NotifyBotStopped(ctx context.Context) error {
	return c.broadcast(ctx, "Showdrop has shut down")
}

func (c *chatService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}
	return c.broadcast(ctx, builder.String())
}

func (c *chatService) TestNotification(ctx context.Context) error {
	return c.broadcast(ctx, "Notification system test")
}

func (c *chatService) broadcast(ctx context.Context, message string) error {
	var errs []error
	for _, chat := range c.chats {
		if _, err := c.gw.Send(ctx, gateway.ChatID(chat), message); err != nil {
			errs = append(errs, fmt.Errorf("notify chat %d: %w", chat, err))
		}
	}
	return errors.Join(errs...)
}
