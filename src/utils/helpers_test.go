package utils

import (
	"path"
	"testing"
	"ticketmate/src/models"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatCountdown(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		start time.Time
		want  string
	}{
		{"already started", now.Add(-time.Minute), "Event started"},
		{"starting this instant", now, "Event started"},
		{"inside the two hour window", now.Add(90*time.Minute + 30*time.Second), "1h 30m 30s"},
		{"days away", now.Add(49 * time.Hour), "2d 49h"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCountdown(tt.start, now))
		})
	}
}

func TestBarcodeRevealed(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.False(t, BarcodeRevealed(now.Add(3*time.Hour), now))
	assert.True(t, BarcodeRevealed(now.Add(2*time.Hour), now))
	assert.True(t, BarcodeRevealed(now.Add(10*time.Minute), now))
}

func TestSaveBarcodeOutsideWindow(t *testing.T) {
	now := time.Now()
	ticket := models.Ticket{ID: "t1", Barcode: "BC-0001"}
	out := path.Join(t.TempDir(), "eticket.jpeg")

	err := SaveBarcode(ticket, now.Add(24*time.Hour), now, out)
	assert.Error(t, err)

	err = SaveBarcode(models.Ticket{ID: "t2"}, now.Add(time.Hour), now, out)
	assert.Error(t, err, "a ticket without a barcode cannot be rendered")
}

func TestSaveBarcodeInsideWindow(t *testing.T) {
	now := time.Now()
	ticket := models.Ticket{ID: "t1", Barcode: "BC-0001"}
	out := path.Join(t.TempDir(), "eticket.jpeg")

	assert.NoError(t, SaveBarcode(ticket, now.Add(time.Hour), now, out))
	assert.FileExists(t, out)
}
