package store

import (
	"context"
	"time"
)

// User represents a registered account.
type User struct {
	ID           int64
	Login        string
	PasswordHash string
	CreatedAt    time.Time
}

// Message represents a persisted chat message. TimeLabel is the
// display timestamp computed by the hub at commit time; CreatedAt is
// the storage-level timestamp.
type Message struct {
	ID        int64
	UserID    int64
	Sender    string
	Text      string
	TimeLabel string
	CreatedAt time.Time
}

// UserStore handles account persistence.
type UserStore interface {
	// CreateUser creates a new user with an already-hashed password.
	CreateUser(ctx context.Context, login, passwordHash string) (*User, error)

	// GetUserByLogin retrieves a user by login.
	GetUserByLogin(ctx context.Context, login string) (*User, error)

	// UserExists reports whether a user with the given login exists.
	UserExists(ctx context.Context, login string) (bool, error)
}

// MessageStore handles chat history persistence.
type MessageStore interface {
	// AppendMessage durably stores a message and returns it with its
	// assigned ID. A message is committed once AppendMessage returns.
	AppendMessage(ctx context.Context, msg *Message) (*Message, error)

	// ListMessages returns every stored message in insertion order.
	ListMessages(ctx context.Context) ([]*Message, error)
}

// Store combines all persistence interfaces.
type Store interface {
	UserStore
	MessageStore

	// Close releases underlying resources.
	Close() error
}
