package models

import (
	"ticketmate/src/types"
	"time"
)

type EventImage struct {
	URL string `json:"url"`
}

type Event struct {
	ID              string            `json:"_id"`
	Name            string            `json:"name"`
	Description     string            `json:"description,omitempty"`
	Status          types.EventStatus `json:"status"`
	Type            string            `json:"type,omitempty"`
	Location        string            `json:"location,omitempty"`
	Images          []EventImage      `json:"images,omitempty"`
	Seatmap         string            `json:"seatmap,omitempty"`
	StartDate       time.Time         `json:"startDate"`
	EndDate         time.Time         `json:"endDate"`
	AvailableTicket []Ticket          `json:"availableTicket,omitempty"`
	CreatedAt       time.Time         `json:"createdAt,omitempty"`
	UpdatedAt       time.Time         `json:"updatedAt,omitempty"`
}

// Over reports whether the event should be hidden from discovery
// listings: its end has passed or the backend already closed it.
func (e Event) Over(now time.Time) bool {
	if !e.EndDate.IsZero() && e.EndDate.Before(now) {
		return true
	}
	return e.Status == types.EVENT_ENDED || e.Status == types.EVENT_STARTED
}
