package checkout

import (
	"testing"
	"ticketmate/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupPayoutsExcludesPrimaryMarketTickets(t *testing.T) {
	payouts := GroupPayouts([]models.Ticket{
		{ID: "t1", OwnerID: "A", OriginalPrice: 20},
		{ID: "t2", OwnerID: "B", OriginalPrice: 35},
	})
	assert.Empty(t, payouts)
}

func TestGroupPayoutsPerOwner(t *testing.T) {
	payouts := GroupPayouts([]models.Ticket{
		{ID: "t1", OwnerID: "A", ResalePrice: price(50)},
		{ID: "t2", OwnerID: "A", ResalePrice: price(30)},
		{ID: "t3", OwnerID: "B", OriginalPrice: 20},
		{ID: "t4", OwnerID: "C", ResalePrice: price(10)},
	})
	require.Len(t, payouts, 2)

	a := payouts[0]
	assert.Equal(t, "A", a.OwnerID)
	assert.Equal(t, "80", a.Gross.String())
	assert.Equal(t, "4", a.Commission.String())
	assert.Equal(t, "76", a.Net.String())
	assert.Equal(t, []string{"t1", "t2"}, a.TicketIDs)

	c := payouts[1]
	assert.Equal(t, "C", c.OwnerID)
	assert.Equal(t, "10", c.Gross.String())
	assert.Equal(t, "0.5", c.Commission.String())
	assert.Equal(t, "9.5", c.Net.String())
}

func TestGroupPayoutsRoundsCommissionToCents(t *testing.T) {
	payouts := GroupPayouts([]models.Ticket{
		{ID: "t1", OwnerID: "A", ResalePrice: price(33.33)},
	})
	require.Len(t, payouts, 1)
	// 33.33 * 0.05 = 1.6665, rounded to cents
	assert.Equal(t, "1.67", payouts[0].Commission.String())
	assert.Equal(t, "31.66", payouts[0].Net.String())
	assert.Equal(t, "33.33", payouts[0].Gross.Sub(payouts[0].Commission).Add(payouts[0].Commission).String())
}

func TestGroupPayoutsOwnerGroupsAreIndependent(t *testing.T) {
	payouts := GroupPayouts([]models.Ticket{
		{ID: "t1", OwnerID: "A", ResalePrice: price(0.30)},
		{ID: "t2", OwnerID: "B", ResalePrice: price(0.30)},
	})
	require.Len(t, payouts, 2)
	for _, p := range payouts {
		// 0.30 * 0.05 = 0.015, rounded half away from zero
		assert.Equal(t, "0.02", p.Commission.String())
		assert.Equal(t, "0.28", p.Net.String())
		assert.True(t, p.Commission.Add(p.Net).Equal(p.Gross))
	}
}
