package api

import (
	"context"
	"net/http"
	"net/url"
	"ticketmate/src/models"
)

func (c *Client) GetEvents(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	if err := c.do(ctx, "GetEvents", http.MethodGet, "/Event", nil, &events, false); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *Client) GetEventByID(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	if err := c.do(ctx, "GetEventByID", http.MethodGet, "/Event/"+url.PathEscape(id), nil, &event, false); err != nil {
		return nil, err
	}
	return &event, nil
}

// SearchEvents delegates matching to the backend. typeFilter is a
// comma-separated list of category flags; empty means all.
func (c *Client) SearchEvents(ctx context.Context, query, typeFilter string) ([]models.Event, error) {
	params := url.Values{}
	if query != "" {
		params.Set("q", query)
	}
	if typeFilter != "" {
		params.Set("type", typeFilter)
	}
	path := "/Event"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}
	var events []models.Event
	if err := c.do(ctx, "SearchEvents", http.MethodGet, path, nil, &events, false); err != nil {
		return nil, err
	}
	return events, nil
}
