package checkout

import (
	"sort"
	"ticketmate/src/models"

	"github.com/shopspring/decimal"
)

// Selection is the in-memory set of tickets a buyer has picked for a
// single event. It never touches the network.
type Selection struct {
	items map[string]models.Ticket
}

func NewSelection() *Selection {
	return &Selection{items: map[string]models.Ticket{}}
}

// Toggle adds or removes a ticket. Toggling the same id twice returns
// the selection to its prior set.
func (s *Selection) Toggle(ticket models.Ticket, selected bool) {
	if selected {
		s.items[ticket.ID] = ticket
		return
	}
	delete(s.items, ticket.ID)
}

func (s *Selection) Len() int {
	return len(s.items)
}

func (s *Selection) Tickets() []models.Ticket {
	tickets := make([]models.Ticket, 0, len(s.items))
	for _, t := range s.items {
		tickets = append(tickets, t)
	}
	sort.Slice(tickets, func(i, j int) bool { return tickets[i].ID < tickets[j].ID })
	return tickets
}

func (s *Selection) IDs() []string {
	ids := make([]string, 0, len(s.items))
	for id := range s.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Total sums each ticket's buyer-facing price: resale price when
// present, original price otherwise. Empty selection totals zero.
func (s *Selection) Total() decimal.Decimal {
	total := decimal.Zero
	for _, t := range s.items {
		total = total.Add(t.BuyerPrice())
	}
	return total
}

// PurchasableTickets filters an event's on-sale tickets down to what
// the viewer may buy: their own listings are excluded.
func PurchasableTickets(tickets []models.Ticket, viewerID string) []models.Ticket {
	out := make([]models.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if !t.OnSale {
			continue
		}
		if viewerID != "" && t.OwnerID == viewerID {
			continue
		}
		out = append(out, t)
	}
	return out
}
