package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventHistory delivers the full message history to a client once,
	// on admission.
	EventHistory EventKind = iota
	// EventMessage notifies all clients about a committed chat message.
	EventMessage
)

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind     EventKind
	Message  Message
	Messages []Message // for EventHistory
}
