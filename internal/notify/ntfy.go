package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyEpisodeStored(ctx context.Context, code, sourceTitle string) error {
	data := payload{
		title:   "Showdrop - Episode Stored",
		message: fmt.Sprintf("Stored %s\nSource: %s", strings.TrimSpace(code), strings.TrimSpace(sourceTitle)),
		tags:    []string{"showdrop", "ingest", "stored"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyDuplicateUpload(ctx context.Context, code, sourceTitle string) error {
	data := payload{
		title:   "Showdrop - Duplicate Upload",
		message: fmt.Sprintf("Code %s already exists\nIgnored upload: %s", strings.TrimSpace(code), strings.TrimSpace(sourceTitle)),
		tags:    []string{"showdrop", "ingest", "duplicate"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyIngestFailed(ctx context.Context, sourceTitle string, cause error) error {
	reason := "unknown"
	if cause != nil {
		reason = strings.TrimSpace(cause.Error())
	}
	data := payload{
		title:    "Showdrop - Ingest Failed",
		message:  fmt.Sprintf("Could not store upload: %s\nReason: %s", strings.TrimSpace(sourceTitle), reason),
		tags:     []string{"showdrop", "ingest", "failed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyUntitledUpload(ctx context.Context, messageID int64) error {
	data := payload{
		title:    "Showdrop - Untitled Upload",
		message:  fmt.Sprintf("Upload %d has no filename or caption, no code was assigned.\nRepost it with a caption.", messageID),
		tags:     []string{"showdrop", "ingest", "untitled"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyBotStarted(ctx context.Context) error {
	data := payload{
		title:   "Showdrop - Started",
		message: "Bot is online and polling for updates",
		tags:    []string{"showdrop", "lifecycle", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyBotStopped(ctx context.Context) error {
	data := payload{
		title:   "Showdrop - Stopped",
		message: "Bot has shut down",
		tags:    []string{"showdrop", "lifecycle", "stopped"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
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

	data := payload{
		title:    "Showdrop - Error",
		message:  builder.String(),
		tags:     []string{"showdrop", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Showdrop - Test",
		message:  "Notification system test",
		tags:     []string{"showdrop", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
