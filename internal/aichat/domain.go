// Package aichat is the AI training buddy: users send a message, get a
// reply and can read their chat history.
package aichat

import (
	"context"
	"time"
)

// Chat is one exchange.
type Chat struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Message   string    `json:"message"`
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"created_at"`
}

// OwnerID is the chatting user.
func (c Chat) OwnerID() int64 { return c.UserID }

// MessageInput is the chat request.
type MessageInput struct {
	Message string `json:"message" validate:"required,min=1,max=2000"`
}

// Responder produces the buddy's reply.
type Responder interface {
	Reply(ctx context.Context, userID int64, message string) (string, error)
}

// CannedResponder answers every message with the same text.
type CannedResponder struct {
	Text string
}

// DefaultReply is used when CannedResponder.Text is empty.
const DefaultReply = "Thanks for your message! Your AI training buddy is warming up and will have personalised advice soon."

// Reply implements Responder.
func (c CannedResponder) Reply(ctx context.Context, userID int64, message string) (string, error) {
	if c.Text == "" {
		return DefaultReply, nil
	}
	return c.Text, nil
}
