package delivery

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"showdrop/internal/catalog"
	"showdrop/internal/config"
	"showdrop/internal/gateway"
	"showdrop/internal/logging"
)

// Result classifies the outcome of a delivery attempt.
type Result int

const (
	// Delivered means the content and notice were sent and both are scheduled
	// for deletion.
	Delivered Result = iota
	// NotFound means no episode exists for the requested code; the gateway
	// was never touched.
	NotFound
	// Failed means the gateway rejected the forward or send; the error holds
	// the cause.
	Failed
)

// Scheduler performs gated content delivery: forward the episode, send the
// self-destruct notice, and register both with the reaper.
type Scheduler struct {
	store  *catalog.Store
	gw     gateway.Gateway
	reaper *Reaper

	uploadChannel gateway.ChatRef
	delay         time.Duration
	noticeText    string

	logger *slog.Logger
}

// NewScheduler wires the scheduler from configuration.
func NewScheduler(cfg *config.Config, store *catalog.Store, gw gateway.Gateway, reaper *Reaper, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		store:         store,
		gw:            gw,
		reaper:        reaper,
		uploadChannel: gateway.ChatRef(cfg.Channels.UploadChannel),
		delay:         time.Duration(cfg.Delivery.DeleteDelaySeconds) * time.Second,
		noticeText:    cfg.Delivery.NoticeText,
		logger:        logging.NewComponentLogger(logger, "delivery"),
	}
}

// Deliver resolves a code and forwards the episode to the destination.
// Scheduling the deletions is fire-and-forget; a failure there never affects
// the reported outcome.
func (s *Scheduler) Deliver(ctx context.Context, code string, to gateway.ChatRef) (Result, error) {
	logger := logging.WithContext(ctx, s.logger)

	ep, err := s.store.Get(ctx, code)
	if err != nil {
		return Failed, fmt.Errorf("resolve code %q: %w", code, err)
	}
	if ep == nil {
		return NotFound, nil
	}

	forwardedID, err := s.gw.Forward(ctx, s.uploadChannel, ep.MessageID, to)
	if err != nil {
		return Failed, fmt.Errorf("forward episode %q: %w", code, err)
	}
	s.reaper.Schedule(to, forwardedID, s.delay)

	noticeID, err := s.gw.Send(ctx, to, s.notice())
	if err != nil {
		// Content is already out; its deletion stays scheduled.
		return Failed, fmt.Errorf("send notice for %q: %w", code, err)
	}
	s.reaper.Schedule(to, noticeID, s.delay)

	logger.Info("episode delivered",
		logging.String(logging.FieldCode, code),
		logging.String(logging.FieldChatID, string(to)),
		logging.Int64(logging.FieldMessageID, forwardedID),
		logging.Duration("destruct_in", s.delay),
	)
	return Delivered, nil
}

func (s *Scheduler) notice() string {
	if strings.Contains(s.noticeText, "%d") {
		return fmt.Sprintf(s.noticeText, int(s.delay.Seconds()))
	}
	return s.noticeText
}
