package models

import "time"

// NotificationRegistration pairs a user with an event they want to be
// alerted about when tickets open up again.
type NotificationRegistration struct {
	ID        string    `json:"_id,omitempty"`
	UserID    string    `json:"userId"`
	EventID   string    `json:"eventId"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}
