package core

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/chatline/chatline-server/internal/metrics"
	"github.com/chatline/chatline-server/internal/store"
)

// SenderLabel is the display label attached to every broadcast
// message. It is intentionally fixed regardless of the actual sender;
// the userId field still carries the real identity.
const SenderLabel = "Admin"

// timeLabelFormat is the hour:minute display timestamp stored with
// each message and shown to clients.
const timeLabelFormat = "15:04"

type inbound struct {
	client *Client
	text   string
}

// Hub is the realtime coordination point. A single Run goroutine owns
// the participant set and serializes append-then-broadcast, so every
// participant observes all messages in one total order.
type Hub struct {
	store   store.MessageStore
	log     *zerolog.Logger
	metrics *metrics.Metrics

	register   chan *Client
	unregister chan *Client
	inbound    chan inbound

	clients map[*Client]struct{}
}

// NewHub creates a hub backed by the given message store.
func NewHub(messageStore store.MessageStore, logger *zerolog.Logger, m *metrics.Metrics) *Hub {
	return &Hub{
		store:      messageStore,
		log:        logger,
		metrics:    m,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan inbound, 64),
		clients:    make(map[*Client]struct{}),
	}
}

// Register admits a client: it receives the history snapshot first,
// then joins the broadcast set.
func (h *Hub) Register(c *Client) {
	h.register <- c
}

// Unregister removes a client from the broadcast set. Messages it has
// already submitted are still committed and broadcast.
func (h *Hub) Unregister(c *Client) {
	h.unregister <- c
}

// Send submits a message text from a client for commit and fan-out.
func (h *Hub) Send(c *Client, text string) {
	h.inbound <- inbound{client: c, text: text}
}

// Run processes hub traffic until the context is cancelled. All state
// mutation happens on this goroutine.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.admit(ctx, c)
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				if h.metrics != nil {
					h.metrics.ActiveConnections.Dec()
				}
				h.log.Debug().Str("client_id", c.ID).Msg("client unregistered")
			}
		case in := <-h.inbound:
			h.commitAndBroadcast(ctx, in)
		}
	}
}

// admit replays the history snapshot to the new client only, then adds
// it to the broadcast set. Because admit runs on the hub goroutine the
// snapshot reflects exactly the messages committed before admission.
func (h *Hub) admit(ctx context.Context, c *Client) {
	stored, err := h.store.ListMessages(ctx)
	if err != nil {
		h.log.Error().Err(err).Str("client_id", c.ID).Msg("load history")
		stored = nil
	}

	history := make([]Message, 0, len(stored))
	for _, msg := range stored {
		history = append(history, fromStored(msg))
	}

	h.deliver(c, &Event{Kind: EventHistory, Messages: history})
	h.clients[c] = struct{}{}

	if h.metrics != nil {
		h.metrics.ActiveConnections.Inc()
		h.metrics.HistoryReplays.Inc()
	}
	h.log.Debug().
		Str("client_id", c.ID).
		Str("login", c.Identity.Login).
		Int("history_len", len(history)).
		Msg("client admitted")
}

// commitAndBroadcast persists the message and fans it out to every
// active participant, including the sender. A message from a client
// that has already disconnected is still committed and broadcast.
func (h *Hub) commitAndBroadcast(ctx context.Context, in inbound) {
	now := time.Now()
	stored, err := h.store.AppendMessage(ctx, &store.Message{
		UserID:    in.client.Identity.UserID,
		Sender:    SenderLabel,
		Text:      in.text,
		TimeLabel: now.Format(timeLabelFormat),
	})
	if err != nil {
		h.log.Error().Err(err).Str("client_id", in.client.ID).Msg("append message")
		return
	}

	event := &Event{Kind: EventMessage, Message: fromStored(stored)}
	for c := range h.clients {
		h.deliver(c, event)
	}

	if h.metrics != nil {
		h.metrics.MessagesBroadcast.Inc()
	}
}

// deliver is best-effort per participant: a slow consumer's full
// buffer drops the event rather than blocking the hub.
func (h *Hub) deliver(c *Client, event *Event) {
	select {
	case c.Events <- event:
	default:
		h.log.Warn().Str("client_id", c.ID).Msg("dropping event for slow client")
	}
}
