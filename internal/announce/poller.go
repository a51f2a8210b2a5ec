package announce

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

const defaultInterval = 5 * time.Minute

// Poller periodically posts a digest of newly stored episodes to the
// announcement chat. Episodes stored before the poller started are never
// announced; a missed cycle is caught up by the next one because the cursor
// only advances past episodes that made it into a digest.
type Poller struct {
	store    *catalog.Store
	gw       gateway.Gateway
	chat     gateway.ChatRef
	interval time.Duration
	logger   *slog.Logger

	cursor time.Time
}

// NewPoller wires the announcement poller. Returns nil when no announcement
// chat is configured; callers treat a nil poller as disabled.
func NewPoller(cfg *config.Config, store *catalog.Store, gw gateway.Gateway, logger *slog.Logger) *Poller {
	chat := strings.TrimSpace(cfg.Announce.Chat)
	if chat == "" {
		return nil
	}

	interval := time.Duration(cfg.Announce.IntervalSeconds) * time.Second
	if interval <= 0 {
		interval = defaultInterval
	}

	return &Poller{
		store:    store,
		gw:       gw,
		chat:     gateway.ChatRef(chat),
		interval: interval,
		logger:   logging.NewComponentLogger(logger, "announce"),
		cursor:   time.Now().UTC(),
	}
}

// Run announces on the configured interval until the context is canceled.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.Announce(ctx); err != nil {
				p.logger.Warn("announcement cycle failed", logging.Error(err))
			}
		}
	}
}

// Announce posts a digest of episodes stored since the last successful cycle.
// A cycle with nothing new sends nothing.
func (p *Poller) Announce(ctx context.Context) error {
	episodes, err := p.store.CreatedSince(ctx, p.cursor)
	if err != nil {
		return fmt.Errorf("load recent episodes: %w", err)
	}
	if len(episodes) == 0 {
		return nil
	}

	if _, err := p.gw.Send(ctx, p.chat, digest(episodes)); err != nil {
		return fmt.Errorf("post announcement: %w", err)
	}

	for _, ep := range episodes {
		if ep.CreatedAt.After(p.cursor) {
			p.cursor = ep.CreatedAt
		}
	}
	p.logger.Info("announced new episodes", logging.Int("count", len(episodes)))
	return nil
}

func digest(episodes []*catalog.Episode) string {
	var builder strings.Builder
	if len(episodes) == 1 {
		builder.WriteString("New episode available:\n")
	} else {
		fmt.Fprintf(&builder, "%d new episodes available:\n", len(episodes))
	}
	for _, ep := range episodes {
		fmt.Fprintf(&builder, "%s\nGet it with: /start %s\n", ep.Label(), ep.Code)
	}
	return strings.TrimRight(builder.String(), "\n")
}
