package notification

import (
	"fmt"
	"time"
)

// Channel represents the outbound notification channel
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelWhatsApp Channel = "whatsapp"
)

// Status represents notification delivery status
type Status string

const (
	StatusPending Status = "pending"
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
)

// Message is a single outbound notification. Delivery is fire-and-forget:
// failures are logged and counted but never surfaced to the request that
// produced the message.
type Message struct {
	ID      string  `json:"id"`
	Channel Channel `json:"channel"`
	Status  Status  `json:"status"`

	// Recipient contact, per channel: email address or phone number.
	Recipient     string `json:"recipient"`
	RecipientName string `json:"recipient_name,omitempty"`

	Subject string `json:"subject,omitempty"`
	Body    string `json:"body"`

	// Source links the message back to the record that produced it.
	SourceKind string `json:"source_kind,omitempty"`
	SourceID   string `json:"source_id,omitempty"`

	RetryCount   int        `json:"retry_count"`
	LastRetryAt  *time.Time `json:"last_retry_at,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	SentAt    *time.Time `json:"sent_at,omitempty"`
}

// Stats tracks in-process delivery counts.
type Stats struct {
	TotalSent   int64             `json:"total_sent"`
	TotalFailed int64             `json:"total_failed"`
	ByChannel   map[Channel]int64 `json:"by_channel"`
}

func generateMessageID() string {
	return fmt.Sprintf("ntf-%d", time.Now().UnixNano())
}
