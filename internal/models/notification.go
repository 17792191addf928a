package models

import "time"

const (
	NotificationChannelEmail    = "email"
	NotificationChannelWhatsApp = "whatsapp"

	NotificationStatusPending = "pending"
	NotificationStatusSent    = "sent"
	NotificationStatusFailed  = "failed"
)

// Notification is an outbox row. The API only enqueues; the notifier
// binary delivers and retries.
type Notification struct {
	ID uint `gorm:"primaryKey" json:"id"`

	AppointmentID uint   `json:"appointment_id"`
	Channel       string `gorm:"size:20;not null" json:"channel"`
	Recipient     string `gorm:"size:100;not null" json:"recipient"`
	Subject       string `gorm:"size:150" json:"subject"`
	Body          string `gorm:"type:text" json:"body"`

	Status        string    `gorm:"size:20;default:'pending';index" json:"status"`
	Attempts      int       `gorm:"default:0" json:"attempts"`
	NextAttemptAt time.Time `gorm:"index" json:"next_attempt_at"`
	LastError     string    `gorm:"size:255" json:"last_error"`

	SentAt    *time.Time `json:"sent_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
