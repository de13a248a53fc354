package discovery

import (
	"context"
	"log"
	"sort"
	"strings"
	"ticketmate/src/api"
	"ticketmate/src/config"
	"ticketmate/src/models"
	"ticketmate/src/types"
	"time"
)

// Service fetches and shapes event listings and manages notify-me
// subscriptions. All filtering here is display-side; the backend owns
// event status.
type Service struct {
	gateway *api.Client
	city    string
	now     func() time.Time
}

func NewService(gateway *api.Client) *Service {
	return &Service{
		gateway: gateway,
		city:    config.GetTargetCity(),
		now:     time.Now,
	}
}

// Partition is the home screen's view of the catalog.
type Partition struct {
	Upcoming   []models.Event
	Trending   []models.Event
	LastMinute []models.Event
}

// FetchAndPartition retrieves the catalog, drops events that ended or
// already started, sorts ascending by end time, and derives the
// trending (target-city, capped) and last-minute (ending soon,
// optional category) subsets. category "" or "All" means no filter.
func (s *Service) FetchAndPartition(ctx context.Context, category string) (*Partition, error) {
	events, err := s.gateway.GetEvents(ctx)
	if err != nil {
		log.Printf("Error fetching events: %s\n", err.Error())
		return nil, err
	}
	now := s.now()
	upcoming := make([]models.Event, 0, len(events))
	for _, e := range events {
		if e.Over(now) {
			continue
		}
		upcoming = append(upcoming, e)
	}
	sort.Slice(upcoming, func(i, j int) bool { return upcoming[i].EndDate.Before(upcoming[j].EndDate) })

	part := &Partition{Upcoming: upcoming}
	city := strings.ToLower(s.city)
	deadline := now.Add(config.LAST_MINUTE_WINDOW)
	for _, e := range upcoming {
		if len(part.Trending) < config.TRENDING_LIMIT && strings.Contains(strings.ToLower(e.Location), city) {
			part.Trending = append(part.Trending, e)
		}
		if !e.EndDate.After(deadline) && matchesCategory(e, category) {
			part.LastMinute = append(part.LastMinute, e)
		}
	}
	return part, nil
}

func matchesCategory(e models.Event, category string) bool {
	if category == "" || category == "All" {
		return true
	}
	return strings.EqualFold(e.Type, category)
}

// Search delegates matching to the backend, joining the selected
// category flags into one comma-separated filter, then re-applies the
// past-event exclusion locally.
func (s *Service) Search(ctx context.Context, query string, categories []string) ([]models.Event, error) {
	events, err := s.gateway.SearchEvents(ctx, query, strings.Join(categories, ","))
	if err != nil {
		log.Printf("Error searching events: %s\n", err.Error())
		return nil, err
	}
	now := s.now()
	out := make([]models.Event, 0, len(events))
	for _, e := range events {
		if e.Over(now) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// ToggleSubscription registers or unregisters the notify-me interest,
// then re-fetches the registration list so the caller's state comes
// from the backend rather than an optimistic update.
func (s *Service) ToggleSubscription(ctx context.Context, userID, eventID string, subscribe bool) ([]models.NotificationRegistration, error) {
	if subscribe {
		if _, err := s.gateway.RegisterForEventNotification(ctx, userID, eventID); err != nil {
			log.Printf("Error registering for event notification: %s\n", err.Error())
			return nil, err
		}
	} else {
		if err := s.gateway.UnregisterFromEventNotification(ctx, userID, eventID); err != nil {
			log.Printf("Error unregistering from event notification: %s\n", err.Error())
			return nil, err
		}
	}
	regs, err := s.gateway.GetNotificationRegistrations(ctx, userID)
	if err != nil {
		log.Printf("Error refreshing notification registrations: %s\n", err.Error())
		return nil, err
	}
	return regs, nil
}

// IsSubscribed derives the bell state for one event from the fetched
// registration list.
func IsSubscribed(regs []models.NotificationRegistration, eventID string) bool {
	for _, r := range regs {
		if r.EventID == eventID {
			return true
		}
	}
	return false
}

// EventWithTicketCount backs the my-events list.
type EventWithTicketCount struct {
	models.Event
	TicketCount int
}

// MyEvents lists the events the user holds tickets for, deduped by
// event id with a per-event ticket count, ended events excluded.
func (s *Service) MyEvents(ctx context.Context, userID string) ([]EventWithTicketCount, error) {
	events, err := s.gateway.GetEventsByUserID(ctx, userID)
	if err != nil {
		log.Printf("Error fetching events by user ID: %s\n", err.Error())
		return nil, err
	}
	seen := map[string]bool{}
	out := make([]EventWithTicketCount, 0, len(events))
	for _, e := range events {
		if e.Status == types.EVENT_ENDED || seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		count, err := s.gateway.GetTicketCount(ctx, userID, e.ID)
		if err != nil {
			log.Printf("Error fetching ticket count for event %s: %s\n", e.ID, err.Error())
			return nil, err
		}
		out = append(out, EventWithTicketCount{Event: e, TicketCount: count})
	}
	return out, nil
}
