package core

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/chatline/chatline-server/internal/auth"
)

func newTestHub(t *testing.T) (*Hub, *memMessageStore) {
	t.Helper()

	st := newMemMessageStore()
	logger := zerolog.Nop()
	hub := NewHub(st, &logger, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	go hub.Run(ctx)

	return hub, st
}

func TestHubReplaysEmptyHistoryOnAdmission(t *testing.T) {
	hub, _ := newTestHub(t)

	alice := NewClient(auth.Identity{UserID: 1, Login: "alice"})
	hub.Register(alice)

	ev := nextEvent(t, alice.Events)
	if ev.Kind != EventHistory {
		t.Fatalf("expected history event first, got kind %v", ev.Kind)
	}
	if len(ev.Messages) != 0 {
		t.Fatalf("expected empty history, got %d messages", len(ev.Messages))
	}
}

func TestHubBroadcastsToAllIncludingSender(t *testing.T) {
	hub, _ := newTestHub(t)

	alice := NewClient(auth.Identity{UserID: 1, Login: "alice"})
	bob := NewClient(auth.Identity{UserID: 2, Login: "bob"})
	hub.Register(alice)
	hub.Register(bob)
	nextEvent(t, alice.Events) // history
	nextEvent(t, bob.Events)   // history

	hub.Send(alice, "hi")

	for _, c := range []*Client{alice, bob} {
		ev := nextEvent(t, c.Events)
		if ev.Kind != EventMessage {
			t.Fatalf("expected message event, got kind %v", ev.Kind)
		}
		if ev.Message.Text != "hi" || ev.Message.UserID != 1 {
			t.Fatalf("unexpected message: %+v", ev.Message)
		}
		if ev.Message.Sender != SenderLabel {
			t.Fatalf("expected sender label %q, got %q", SenderLabel, ev.Message.Sender)
		}
	}
}

func TestHubPreservesTotalOrderAcrossParticipants(t *testing.T) {
	hub, _ := newTestHub(t)

	alice := NewClient(auth.Identity{UserID: 1, Login: "alice"})
	bob := NewClient(auth.Identity{UserID: 2, Login: "bob"})
	carol := NewClient(auth.Identity{UserID: 3, Login: "carol"})
	for _, c := range []*Client{alice, bob, carol} {
		hub.Register(c)
		nextEvent(t, c.Events) // history
	}

	hub.Send(alice, "first")
	hub.Send(bob, "second")
	hub.Send(carol, "third")

	want := []string{"first", "second", "third"}
	for _, c := range []*Client{alice, bob, carol} {
		for i, text := range want {
			ev := nextEvent(t, c.Events)
			if ev.Kind != EventMessage || ev.Message.Text != text {
				t.Fatalf("client %s: position %d: expected %q, got %+v", c.Identity.Login, i, text, ev)
			}
		}
	}
}

func TestHubReplaysCommittedMessagesToNewParticipant(t *testing.T) {
	hub, _ := newTestHub(t)

	alice := NewClient(auth.Identity{UserID: 1, Login: "alice"})
	hub.Register(alice)
	nextEvent(t, alice.Events) // history

	hub.Send(alice, "one")
	hub.Send(alice, "two")
	nextEvent(t, alice.Events)
	nextEvent(t, alice.Events)

	bob := NewClient(auth.Identity{UserID: 2, Login: "bob"})
	hub.Register(bob)

	ev := nextEvent(t, bob.Events)
	if ev.Kind != EventHistory {
		t.Fatalf("expected history event first, got kind %v", ev.Kind)
	}
	if len(ev.Messages) != 2 || ev.Messages[0].Text != "one" || ev.Messages[1].Text != "two" {
		t.Fatalf("unexpected history: %+v", ev.Messages)
	}
}

func TestHubCommitsMessageFromDisconnectedSender(t *testing.T) {
	hub, st := newTestHub(t)

	alice := NewClient(auth.Identity{UserID: 1, Login: "alice"})
	bob := NewClient(auth.Identity{UserID: 2, Login: "bob"})
	hub.Register(alice)
	hub.Register(bob)
	nextEvent(t, alice.Events)
	nextEvent(t, bob.Events)

	// The message is accepted, then the sender goes away.
	hub.Send(alice, "parting words")
	hub.Unregister(alice)

	ev := nextEvent(t, bob.Events)
	if ev.Kind != EventMessage || ev.Message.Text != "parting words" {
		t.Fatalf("expected the in-flight message to reach bob, got %+v", ev)
	}

	msgs, err := st.ListMessages(context.Background())
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Text != "parting words" {
		t.Fatalf("expected the message to be persisted, got %+v", msgs)
	}
}

func TestHubStopsRemovedParticipantDeliveries(t *testing.T) {
	hub, _ := newTestHub(t)

	alice := NewClient(auth.Identity{UserID: 1, Login: "alice"})
	bob := NewClient(auth.Identity{UserID: 2, Login: "bob"})
	hub.Register(alice)
	hub.Register(bob)
	nextEvent(t, alice.Events)
	nextEvent(t, bob.Events)

	hub.Unregister(bob)
	hub.Send(alice, "after bob left")

	nextEvent(t, alice.Events)

	select {
	case ev := <-bob.Events:
		t.Fatalf("removed participant received event: %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}
}
