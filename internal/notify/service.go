package notify

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"showdrop/internal/config"
	"showdrop/internal/gateway"
)

const userAgent = "Showdrop-Go/0.1.0"

// Service defines the operator notification surface. Implementations must be
// safe for concurrent use.
type Service interface {
	NotifyEpisodeStored(ctx context.Context, code, sourceTitle string) error
	NotifyDuplicateUpload(ctx context.Context, code, sourceTitle string) error
	NotifyIngestFailed(ctx context.Context, sourceTitle string, cause error) error
	NotifyUntitledUpload(ctx context.Context, messageID int64) error
	NotifyBotStarted(ctx context.Context) error
	NotifyBotStopped(ctx context.Context) error
	NotifyError(ctx context.Context, err error, contextLabel string) error
	TestNotification(ctx context.Context) error
}

// NewService builds the notification service from configuration. Admin chat
// IDs notify through the message gateway; an ntfy topic adds a push channel.
// With neither configured a noop implementation is returned.
func NewService(cfg *config.Config, gw gateway.Gateway) Service {
	var backends []Service

	if gw != nil && len(cfg.Admin.ChatIDs) > 0 {
		backends = append(backends, &chatService{gw: gw, chats: cfg.Admin.ChatIDs})
	}

	if topic := strings.TrimSpace(cfg.Admin.NtfyTopic); topic != "" {
		timeout := time.Duration(cfg.Admin.RequestTimeout) * time.Second
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		backends = append(backends, &ntfyService{
			endpoint: topic,
			client:   &http.Client{Timeout: timeout},
		})
	}

	switch len(backends) {
	case 0:
		return noopService{}
	case 1:
		return backends[0]
	default:
		return multiService(backends)
	}
}

// multiService fans each notification out to every backend and joins the
// failures, so one unreachable target never silences the others.
type multiService []Service

func (m multiService) NotifyEpisodeStored(ctx context.Context, code, sourceTitle string) error {
	return m.each(func(s Service) error { return s.NotifyEpisodeStored(ctx, code, sourceTitle) })
}

func (m multiService) NotifyDuplicateUpload(ctx context.Context, code, sourceTitle string) error {
	return m.each(func(s Service) error { return s.NotifyDuplicateUpload(ctx, code, sourceTitle) })
}

func (m multiService) NotifyIngestFailed(ctx context.Context, sourceTitle string, cause error) error {
	return m.each(func(s Service) error { return s.NotifyIngestFailed(ctx, sourceTitle, cause) })
}

func (m multiService) NotifyUntitledUpload(ctx context.Context, messageID int64) error {
	return m.each(func(s Service) error { return s.NotifyUntitledUpload(ctx, messageID) })
}

func (m multiService) NotifyBotStarted(ctx context.Context) error {
	return m.each(func(s Service) error { return s.NotifyBotStarted(ctx) })
}

func (m multiService) NotifyBotStopped(ctx context.Context) error {
	return m.each(func(s Service) error { return s.NotifyBotStopped(ctx) })
}

func (m multiService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	return m.each(func(s Service) error { return s.NotifyError(ctx, err, contextLabel) })
}

func (m multiService) TestNotification(ctx context.Context) error {
	return m.each(func(s Service) error { return s.TestNotification(ctx) })
}

func (m multiService) each(fn func(Service) error) error {
	var errs []error
	for _, backend := range m {
		if err := fn(backend); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type noopService struct{}

func (noopService) NotifyEpisodeStored(context.Context, string, string) error   { return nil }
func (noopService) NotifyDuplicateUpload(context.Context, string, string) error { return nil }
func (noopService) NotifyIngestFailed(context.Context, string, error) error     { return nil }
func (noopService) NotifyUntitledUpload(context.Context, int64) error           { return nil }
func (noopService) NotifyBotStarted(context.Context) error                      { return nil }
func (noopService) NotifyBotStopped(context.Context) error                      { return nil }
func (noopService) NotifyError(context.Context, error, string) error            { return nil }
func (noopService) TestNotification(context.Context) error                      { return nil }
