package delivery

import (
	"container/heap"
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"showdrop/internal/gateway"
	"showdrop/internal/logging"
)

// deleteTimeout bounds each delete call so a wedged transport cannot stall
// the reaper loop.
const deleteTimeout = 10 * time.Second

type entry struct {
	id        string
	chat      gateway.ChatRef
	messageID int64
	deadline  time.Time
	index     int
}

type entryHeap []*entry

func (h entryHeap) Len() int            { return len(h) }
func (h entryHeap) Less(i, j int) bool  { return h[i].deadline.Before(h[j].deadline) }
func (h entryHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *entryHeap) Push(x any)         { e := x.(*entry); e.index = len(*h); *h = append(*h, e) }
func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// Reaper owns the scheduled deletion of delivered messages. Entries live only
// in memory: deletions pending at process exit are lost, which is acceptable
// because the self-destruct window is a courtesy, not a security control.
type Reaper struct {
	gw     gateway.Gateway
	logger *slog.Logger

	mu      sync.Mutex
	pending entryHeap
	stopped bool

	wake chan struct{}
	done chan struct{}

	stopOnce sync.Once
}

// NewReaper starts the reaper loop over the given gateway.
func NewReaper(gw gateway.Gateway, logger *slog.Logger) *Reaper {
	r := &Reaper{
		gw:     gw,
		logger: logging.NewComponentLogger(logger, "reaper"),
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go r.run()
	return r
}

// Schedule registers a message for deletion after delay. It never blocks and
// never fails; after Stop it is a no-op. The returned id identifies the entry
// in logs.
func (r *Reaper) Schedule(chat gateway.ChatRef, messageID int64, delay time.Duration) string {
	e := &entry{
		id:        uuid.NewString(),
		chat:      chat,
		messageID: messageID,
		deadline:  time.Now().Add(delay),
	}

	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return ""
	}
	heap.Push(&r.pending, e)
	r.mu.Unlock()

	select {
	case r.wake <- struct{}{}:
	default:
	}
	return e.id
}

// Pending reports the number of deletions not yet fired.
func (r *Reaper) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// Stop shuts the loop down. Entries still pending are abandoned; their
// messages simply outlive the intended window.
func (r *Reaper) Stop() {
	r.stopOnce.Do(func() {
		r.mu.Lock()
		r.stopped = true
		r.mu.Unlock()
		close(r.done)
	})
}

func (r *Reaper) run() {
	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		r.mu.Lock()
		var next *entry
		if len(r.pending) > 0 {
			next = r.pending[0]
		}
		r.mu.Unlock()

		if next == nil {
			select {
			case <-r.wake:
				continue
			case <-r.done:
				return
			}
		}

		wait := time.Until(next.deadline)
		if wait > 0 {
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(wait)
			select {
			case <-timer.C:
			case <-r.wake:
				// An earlier deadline may have arrived; re-evaluate.
				continue
			case <-r.done:
				return
			}
		}

		r.fireDue()
	}
}

func (r *Reaper) fireDue() {
	now := time.Now()
	for {
		r.mu.Lock()
		if len(r.pending) == 0 || r.pending[0].deadline.After(now) {
			r.mu.Unlock()
			return
		}
		e := heap.Pop(&r.pending).(*entry)
		r.mu.Unlock()

		// Failures are swallowed: the message may already be gone, and a
		// missed deletion only means the content lingers.
		ctx, cancel := context.WithTimeout(context.Background(), deleteTimeout)
		if err := r.gw.Delete(ctx, e.chat, e.messageID); err != nil {
			r.logger.Warn("scheduled delete failed",
				logging.String("entry_id", e.id),
				logging.String(logging.FieldChatID, string(e.chat)),
				logging.Int64(logging.FieldMessageID, e.messageID),
				logging.Error(err),
			)
		}
		cancel()
	}
}
