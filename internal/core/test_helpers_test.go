package core

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/chatline/chatline-server/internal/store"
)

// memMessageStore is an in-memory MessageStore for hub tests.
type memMessageStore struct {
	mu     sync.Mutex
	msgs   []*store.Message
	nextID int64
}

func newMemMessageStore() *memMessageStore {
	return &memMessageStore{nextID: 1}
}

func (m *memMessageStore) AppendMessage(_ context.Context, msg *store.Message) (*store.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *msg
	stored.ID = m.nextID
	m.nextID++
	m.msgs = append(m.msgs, &stored)
	return &stored, nil
}

func (m *memMessageStore) ListMessages(_ context.Context) ([]*store.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*store.Message, len(m.msgs))
	copy(out, m.msgs)
	return out, nil
}

func nextEvent(t *testing.T, ch <-chan *Event) *Event {
	t.Helper()

	select {
	case ev := <-ch:
		if ev == nil {
			t.Fatal("received nil event")
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}
