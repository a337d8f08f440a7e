package proto

import "encoding/json"

// Inbound is the envelope for frames coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	// InboundTypeAuth carries the handshake credential. It must be the
	// first frame on a connection.
	InboundTypeAuth = "auth"
	// InboundTypeNewMessage carries a chat message text.
	InboundTypeNewMessage = "new_message"

	// OutboundTypeHistory delivers the one-time history snapshot.
	OutboundTypeHistory = "history"
	// OutboundTypeMessage delivers a committed chat message.
	OutboundTypeMessage = "message"
	// OutboundTypeError reports a protocol-level error.
	OutboundTypeError = "error"
)

// AuthData is the handshake auth payload. Cookie holds the raw
// credential value, the same one carried by the token cookie on
// resource requests.
type AuthData struct {
	Cookie string `json:"cookie"`
}

// Outbound is the envelope for frames sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// MessageData is a chat message as seen on the wire.
type MessageData struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
	Time   string `json:"time"`
	UserID int64  `json:"userId"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}

// Error codes used in protocol error frames.
const (
	ErrCodeBadRequest    = "bad_request"
	ErrCodeNotAuthorized = "not_authorized"
	ErrCodeRateLimited   = "rate_limited"
)
