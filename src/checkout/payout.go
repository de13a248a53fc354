package checkout

import (
	"sort"
	"ticketmate/src/config"
	"ticketmate/src/models"

	"github.com/shopspring/decimal"
)

var commissionRate = decimal.RequireFromString(config.RESALE_COMMISSION_RATE)

// SellerPayout is one seller's cut of a purchase: the gross resale
// proceeds, the marketplace commission, and the net transferred.
type SellerPayout struct {
	OwnerID    string
	TicketIDs  []string
	Gross      decimal.Decimal
	Commission decimal.Decimal
	Net        decimal.Decimal
}

// GroupPayouts groups the purchased tickets by their previous owner
// and splits each owner's resale proceeds against the commission
// rate. Tickets without a resale price are primary-market sales with
// no peer seller and are excluded. Results are ordered by owner id.
func GroupPayouts(tickets []models.Ticket) []SellerPayout {
	byOwner := map[string]*SellerPayout{}
	for _, t := range tickets {
		if !t.Resold() {
			continue
		}
		payout, ok := byOwner[t.OwnerID]
		if !ok {
			payout = &SellerPayout{OwnerID: t.OwnerID, Gross: decimal.Zero}
			byOwner[t.OwnerID] = payout
		}
		payout.TicketIDs = append(payout.TicketIDs, t.ID)
		payout.Gross = payout.Gross.Add(decimal.NewFromFloat(*t.ResalePrice))
	}

	payouts := make([]SellerPayout, 0, len(byOwner))
	for _, payout := range byOwner {
		payout.Commission = payout.Gross.Mul(commissionRate).Round(2)
		payout.Net = payout.Gross.Sub(payout.Commission)
		sort.Strings(payout.TicketIDs)
		payouts = append(payouts, *payout)
	}
	sort.Slice(payouts, func(i, j int) bool { return payouts[i].OwnerID < payouts[j].OwnerID })
	return payouts
}
