package delivery_test

import (
	"errors"
	"testing"
	"time"

	"showdrop/internal/delivery"
	"showdrop/internal/gateway"
	"showdrop/internal/testsupport"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestReaperFiresAtDeadline(t *testing.T) {
	gw := testsupport.NewFakeGateway()
	reaper := delivery.NewReaper(gw, nil)
	defer reaper.Stop()

	id := reaper.Schedule(gateway.ChatID(5), 101, 20*time.Millisecond)
	if id == "" {
		t.Fatal("expected entry id")
	}

	waitFor(t, 2*time.Second, func() bool { return gw.DeletedCount() == 1 })
	if reaper.Pending() != 0 {
		t.Fatalf("expected empty queue, got %d pending", reaper.Pending())
	}
}

func TestReaperEntriesFireIndependently(t *testing.T) {
	gw := testsupport.NewFakeGateway()
	// Every delete fails; both entries must still fire.
	gw.DeleteErr = errors.New("message to delete not found")
	reaper := delivery.NewReaper(gw, nil)
	defer reaper.Stop()

	reaper.Schedule(gateway.ChatID(5), 101, 15*time.Millisecond)
	reaper.Schedule(gateway.ChatID(5), 102, 15*time.Millisecond)

	waitFor(t, 2*time.Second, func() bool { return gw.DeletedCount() == 2 })
}

func TestReaperEarlierEntryPreempts(t *testing.T) {
	gw := testsupport.NewFakeGateway()
	reaper := delivery.NewReaper(gw, nil)
	defer reaper.Stop()

	reaper.Schedule(gateway.ChatID(5), 201, 500*time.Millisecond)
	reaper.Schedule(gateway.ChatID(5), 202, 10*time.Millisecond)

	waitFor(t, 2*time.Second, func() bool { return gw.DeletedCount() >= 1 })
	deleted := gw.DeletedCalls()[0]
	if deleted.MessageID != 202 {
		t.Fatalf("expected the earlier deadline to fire first, got %d", deleted.MessageID)
	}
}

func TestReaperScheduleAfterStopIsNoop(t *testing.T) {
	gw := testsupport.NewFakeGateway()
	reaper := delivery.NewReaper(gw, nil)
	reaper.Stop()

	if id := reaper.Schedule(gateway.ChatID(5), 301, time.Millisecond); id != "" {
		t.Fatalf("expected no-op schedule after stop, got id %q", id)
	}
	time.Sleep(30 * time.Millisecond)
	if gw.DeletedCount() != 0 {
		t.Fatal("expected no deletes after stop")
	}
}

func TestReaperStopIsIdempotent(t *testing.T) {
	reaper := delivery.NewReaper(testsupport.NewFakeGateway(), nil)
	reaper.Stop()
	reaper.Stop()
}
