package core

import "github.com/chatline/chatline-server/internal/store"

// Message is the domain model for a committed chat message.
type Message struct {
	ID     int64
	UserID int64
	Sender string
	Text   string
	Time   string
}

func fromStored(msg *store.Message) Message {
	return Message{
		ID:     msg.ID,
		UserID: msg.UserID,
		Sender: msg.Sender,
		Text:   msg.Text,
		Time:   msg.TimeLabel,
	}
}
