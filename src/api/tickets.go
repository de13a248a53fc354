package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"ticketmate/src/models"
	"ticketmate/src/types"
)

// GetEventsByUserID lists the events the user holds tickets for. The
// backend may repeat an event once per ticket; callers dedupe.
func (c *Client) GetEventsByUserID(ctx context.Context, userID string) ([]models.Event, error) {
	var events []models.Event
	path := "/ticket/user/" + url.PathEscape(userID)
	if err := c.do(ctx, "GetEventsByUserID", http.MethodGet, path, nil, &events, true); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *Client) GetTicketsByEventID(ctx context.Context, eventID string) ([]models.Ticket, error) {
	var tickets []models.Ticket
	path := fmt.Sprintf("/ticket/event/%s/tickets", url.PathEscape(eventID))
	if err := c.do(ctx, "GetTicketsByEventID", http.MethodGet, path, nil, &tickets, false); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (c *Client) GetTicketsByUserAndEventID(ctx context.Context, userID, eventID string) ([]models.Ticket, error) {
	var tickets []models.Ticket
	path := fmt.Sprintf("/ticket/user/%s/event/%s/tickets", url.PathEscape(userID), url.PathEscape(eventID))
	if err := c.do(ctx, "GetTicketsByUserAndEventID", http.MethodGet, path, nil, &tickets, true); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (c *Client) GetTicketCount(ctx context.Context, userID, eventID string) (int, error) {
	var count int
	path := fmt.Sprintf("/ticket/user/%s/event/%s/ticketCount", url.PathEscape(userID), url.PathEscape(eventID))
	if err := c.do(ctx, "GetTicketCount", http.MethodGet, path, nil, &count, true); err != nil {
		return 0, err
	}
	return count, nil
}

// PurchaseTickets commits the ownership transfer. Only called after a
// confirmed payment capture.
func (c *Client) PurchaseTickets(ctx context.Context, userID string, ticketIDs []string) error {
	body := types.PurchaseRequestBody{
		UserID:    userID,
		TicketIDs: ticketIDs,
	}
	return c.do(ctx, "PurchaseTickets", http.MethodPost, "/ticket/purchase", &body, nil, true)
}

func (c *Client) UpdateTicketPrice(ctx context.Context, ticketID string, resalePrice float64, onSale bool) error {
	body := types.UpdateTicketPriceRequestBody{
		ResalePrice: resalePrice,
		OnSale:      onSale,
	}
	path := "/ticket/updateTicketPrice/" + url.PathEscape(ticketID)
	return c.do(ctx, "UpdateTicketPrice", http.MethodPut, path, &body, nil, true)
}

func (c *Client) RemoveTicketFromSale(ctx context.Context, ticketID string) error {
	path := "/ticket/removeTicketFromSale/" + url.PathEscape(ticketID)
	return c.do(ctx, "RemoveTicketFromSale", http.MethodPut, path, nil, nil, true)
}
