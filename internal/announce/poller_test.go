package announce_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"showdrop/internal/announce"
	"showdrop/internal/testsupport"
)

func TestNewPollerDisabledWithoutChat(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	if poller := announce.NewPoller(cfg, store, testsupport.NewFakeGateway(), nil); poller != nil {
		t.Fatal("expected nil poller without announce chat")
	}
}

func TestAnnounceDigestsNewEpisodes(t *testing.T) {
	gw := testsupport.NewFakeGateway()
	cfg := testsupport.NewConfig(t)
	cfg.Announce.Chat = "@drops"
	store := testsupport.MustOpenStore(t, cfg)
	poller := announce.NewPoller(cfg, store, gw, nil)

	time.Sleep(5 * time.Millisecond)
	testsupport.PutEpisode(t, store, "some-show-ep1", 10)
	testsupport.PutEpisode(t, store, "some-show-ep2", 11)

	if err := poller.Announce(context.Background()); err != nil {
		t.Fatalf("Announce: %v", err)
	}
	if gw.SentCount() != 1 {
		t.Fatalf("expected one digest message, got %d", gw.SentCount())
	}
	msg := gw.LastSent()
	if string(msg.To) != "@drops" {
		t.Fatalf("digest sent to %q", msg.To)
	}
	if !strings.Contains(msg.Text, "/start some-show-ep1") || !strings.Contains(msg.Text, "/start some-show-ep2") {
		t.Fatalf("digest missing episodes: %q", msg.Text)
	}
	if !strings.Contains(msg.Text, "2 new episodes") {
		t.Fatalf("digest missing count: %q", msg.Text)
	}
}

func TestAnnounceDoesNotRepeatEpisodes(t *testing.T) {
	gw := testsupport.NewFakeGateway()
	cfg := testsupport.NewConfig(t)
	cfg.Announce.Chat = "@drops"
	store := testsupport.MustOpenStore(t, cfg)
	poller := announce.NewPoller(cfg, store, gw, nil)

	time.Sleep(5 * time.Millisecond)
	testsupport.PutEpisode(t, store, "some-show-ep1", 10)

	if err := poller.Announce(context.Background()); err != nil {
		t.Fatalf("Announce: %v", err)
	}
	if err := poller.Announce(context.Background()); err != nil {
		t.Fatalf("second Announce: %v", err)
	}
	if gw.SentCount() != 1 {
		t.Fatalf("expected episode announced once, got %d sends", gw.SentCount())
	}
}

func TestAnnounceRetriesAfterSendFailure(t *testing.T) {
	gw := testsupport.NewFakeGateway()
	cfg := testsupport.NewConfig(t)
	cfg.Announce.Chat = "@drops"
	store := testsupport.MustOpenStore(t, cfg)
	poller := announce.NewPoller(cfg, store, gw, nil)

	time.Sleep(5 * time.Millisecond)
	testsupport.PutEpisode(t, store, "some-show-ep1", 10)

	gw.SendErr = errors.New("network down")
	if err := poller.Announce(context.Background()); err == nil {
		t.Fatal("expected failure surfaced")
	}

	// The cursor must not advance past an unannounced episode.
	gw.SendErr = nil
	if err := poller.Announce(context.Background()); err != nil {
		t.Fatalf("retry Announce: %v", err)
	}
	if gw.SentCount() != 1 {
		t.Fatalf("expected digest after recovery, got %d", gw.SentCount())
	}
	if !strings.Contains(gw.LastSent().Text, "some-show-ep1") {
		t.Fatalf("expected retried episode in digest, got %q", gw.LastSent().Text)
	}
}
