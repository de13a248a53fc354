package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"ticketmate/src/models"
	"ticketmate/src/types"
)

func (c *Client) RegisterForEventNotification(ctx context.Context, userID, eventID string) (*models.NotificationRegistration, error) {
	body := types.NotificationRequestBody{
		UserID:  userID,
		EventID: eventID,
	}
	var reg models.NotificationRegistration
	if err := c.do(ctx, "RegisterForEventNotification", http.MethodPost, "/notifications", &body, &reg, true); err != nil {
		return nil, err
	}
	return &reg, nil
}

func (c *Client) UnregisterFromEventNotification(ctx context.Context, userID, eventID string) error {
	path := fmt.Sprintf("/notifications/%s/%s", url.PathEscape(userID), url.PathEscape(eventID))
	return c.do(ctx, "UnregisterFromEventNotification", http.MethodDelete, path, nil, nil, true)
}

func (c *Client) GetNotificationRegistrations(ctx context.Context, userID string) ([]models.NotificationRegistration, error) {
	var regs []models.NotificationRegistration
	path := "/notifications/user/" + url.PathEscape(userID)
	if err := c.do(ctx, "GetNotificationRegistrations", http.MethodGet, path, nil, &regs, true); err != nil {
		return nil, err
	}
	return regs, nil
}

// GetNotificationInterests lists the events the user registered
// interest in, resolved to full event records by the backend.
func (c *Client) GetNotificationInterests(ctx context.Context, userID string) ([]models.Event, error) {
	var events []models.Event
	path := "/notifications/interests/" + url.PathEscape(userID)
	if err := c.do(ctx, "GetNotificationInterests", http.MethodGet, path, nil, &events, true); err != nil {
		return nil, err
	}
	return events, nil
}
