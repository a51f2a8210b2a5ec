package membership

import (
	"context"
	"log/slog"
	"strings"

	"showdrop/internal/gateway"
	"showdrop/internal/logging"
)

// Gate decides whether a user may receive content, based on membership in a
// fixed list of required channels. The requirement list is immutable for the
// life of the process.
type Gate struct {
	gw       gateway.Gateway
	required []gateway.ChatRef
	logger   *slog.Logger
}

// NewGate builds a gate over the given channel refs. Blank entries are
// dropped here so Check never has to consider them.
func NewGate(gw gateway.Gateway, channels []string, logger *slog.Logger) *Gate {
	required := make([]gateway.ChatRef, 0, len(channels))
	for _, ch := range channels {
		if trimmed := strings.TrimSpace(ch); trimmed != "" {
			required = append(required, gateway.ChatRef(trimmed))
		}
	}
	return &Gate{
		gw:       gw,
		required: required,
		logger:   logging.NewComponentLogger(logger, "membership"),
	}
}

// Required returns the channels a user must belong to.
func (g *Gate) Required() []gateway.ChatRef {
	return g.required
}

// Check reports whether the user belongs to every required channel. An empty
// requirement list passes vacuously. The check fails closed: a gateway error
// on any channel denies access and short-circuits the remaining queries.
// Denying a subscribed user on a transient failure is preferred over letting
// an unsubscribed one through.
func (g *Gate) Check(ctx context.Context, userID int64) bool {
	for _, channel := range g.required {
		status, err := g.gw.ChatMember(ctx, channel, userID)
		if err != nil {
			g.logger.Warn("membership query failed, denying",
				logging.String(logging.FieldChatID, string(channel)),
				logging.Int64(logging.FieldUserID, userID),
				logging.Error(err),
			)
			return false
		}
		if !status.Subscribed() {
			return false
		}
	}
	return true
}
