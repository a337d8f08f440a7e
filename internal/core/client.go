package core

import (
	"github.com/google/uuid"

	"github.com/chatline/chatline-server/internal/auth"
)

// Client is a connected, authenticated participant as seen by the core
// layer. The hub owns the live set of clients; nothing else mutates it.
type Client struct {
	ID       string
	Identity auth.Identity
	Events   chan *Event
}

// NewClient constructs a client with an initialized event channel.
func NewClient(identity auth.Identity) *Client {
	return &Client{
		ID:       uuid.NewString(),
		Identity: identity,
		Events:   make(chan *Event, 16),
	}
}
