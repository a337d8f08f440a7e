package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	stdhttp "net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/chatline/chatline-server/internal/auth"
	"github.com/chatline/chatline-server/internal/core"
	"github.com/chatline/chatline-server/internal/metrics"
	"github.com/chatline/chatline-server/internal/proto"
)

// authFrameTimeout bounds how long a connection may sit unadmitted.
const authFrameTimeout = 10 * time.Second

// WSHandler upgrades HTTP connections, performs handshake admission
// and bridges admitted connections to core.Client.
type WSHandler struct {
	hub               *core.Hub
	gate              *auth.Service
	messagesPerMinute int
	metrics           *metrics.Metrics
	log               *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(hub *core.Hub, gate *auth.Service, messagesPerMinute int, m *metrics.Metrics, logger *zerolog.Logger) *WSHandler {
	return &WSHandler{
		hub:               hub,
		gate:              gate,
		messagesPerMinute: messagesPerMinute,
		metrics:           m,
		log:               logger,
	}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	// Admission happens before any event can be exchanged. The first
	// frame must be the auth payload carrying a valid credential.
	identity, err := h.admit(ctx, conn)
	if err != nil {
		h.log.Debug().Err(err).Msg("ws admission denied")
		if h.metrics != nil {
			h.metrics.AuthDenied.WithLabelValues("/ws").Inc()
		}
		conn.Close(websocket.StatusPolicyViolation, "not authorized")
		return
	}

	client := core.NewClient(*identity)
	h.hub.Register(client)
	defer h.hub.Unregister(client)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, client)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, client)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

// admit reads the handshake auth frame and authorizes its credential.
func (h *WSHandler) admit(ctx context.Context, conn *websocket.Conn) (*auth.Identity, error) {
	authCtx, cancel := context.WithTimeout(ctx, authFrameTimeout)
	defer cancel()

	var inbound proto.Inbound
	if err := wsjson.Read(authCtx, conn, &inbound); err != nil {
		return nil, err
	}
	if inbound.Type != proto.InboundTypeAuth {
		return nil, errors.New("first frame is not auth")
	}

	var payload proto.AuthData
	if err := json.Unmarshal(inbound.Data, &payload); err != nil {
		return nil, err
	}

	return h.gate.Authorize(payload.Cookie)
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	limiter := newMessageLimiter(h.messagesPerMinute)

	for {
		var inbound proto.Inbound
		if err := wsjson.Read(ctx, conn, &inbound); err != nil {
			return err
		}

		switch inbound.Type {
		case proto.InboundTypeNewMessage:
			var text string
			if err := json.Unmarshal(inbound.Data, &text); err != nil {
				if writeErr := h.writeError(ctx, conn, proto.ErrCodeBadRequest, "message text must be a string"); writeErr != nil {
					return writeErr
				}
				continue
			}
			if !limiter.Allow() {
				if writeErr := h.writeError(ctx, conn, proto.ErrCodeRateLimited, "too many messages"); writeErr != nil {
					return writeErr
				}
				continue
			}
			h.hub.Send(client, text)
		default:
			if writeErr := h.writeError(ctx, conn, proto.ErrCodeBadRequest, "unknown frame type"); writeErr != nil {
				return writeErr
			}
		}
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		select {
		case event, ok := <-client.Events:
			if !ok {
				return nil
			}
			if err := wsjson.Write(ctx, conn, outboundFromEvent(event)); err != nil {
				h.log.Error().Err(err).Str("client_id", client.ID).Msg("write ws event")
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (h *WSHandler) writeError(ctx context.Context, conn *websocket.Conn, code, msg string) error {
	return wsjson.Write(ctx, conn, proto.Outbound{
		Type:  proto.OutboundTypeError,
		Error: &proto.Error{Code: code, Msg: msg},
	})
}
