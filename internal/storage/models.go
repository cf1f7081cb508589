package storage

import (
	"time"

	"github.com/google/uuid"
)

// TimestampLayout is the UTC millisecond ISO-8601 form stored with every
// message. It sorts lexicographically and is the admin delete key.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Message is one contact form submission.
type Message struct {
	ID        string `json:"id" bson:"id"`
	Timestamp string `json:"timestamp" bson:"timestamp"`
	Name      string `json:"name" bson:"name"`
	Email     string `json:"email" bson:"email"`
	Message   string `json:"message" bson:"message"`
}

// NewMessage stamps a sanitised submission with a fresh ID and time.
func NewMessage(s Submission, now time.Time) Message {
	return Message{
		ID:        uuid.NewString(),
		Timestamp: FormatTimestamp(now),
		Name:      s.Name,
		Email:     s.Email,
		Message:   s.Message,
	}
}

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
