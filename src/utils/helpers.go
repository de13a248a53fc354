package utils

import (
	"errors"
	"fmt"
	"ticketmate/src/config"
	"ticketmate/src/models"
	"time"

	"github.com/yeqown/go-qrcode"
)

// FormatCountdown renders the time remaining until an event starts:
// seconds precision inside the reveal window, day precision outside.
func FormatCountdown(start, now time.Time) string {
	remaining := start.Sub(now)
	if remaining <= 0 {
		return "Event started"
	}
	hours := int(remaining / time.Hour)
	minutes := int(remaining%time.Hour) / int(time.Minute)
	seconds := int(remaining%time.Minute) / int(time.Second)
	if remaining < config.BARCODE_REVEAL_WINDOW {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	days := int(remaining / (24 * time.Hour))
	return fmt.Sprintf("%dd %dh", days, hours)
}

// BarcodeRevealed reports whether the ticket barcode may be shown:
// only within the pre-event window, once the gates are near opening.
func BarcodeRevealed(eventStart, now time.Time) bool {
	return eventStart.Sub(now) <= config.BARCODE_REVEAL_WINDOW
}

// SaveBarcode renders the ticket's barcode as a QR image at filepath,
// refusing outside the reveal window.
func SaveBarcode(ticket models.Ticket, eventStart, now time.Time, filepath string) error {
	if ticket.Barcode == "" {
		return errors.New("Ticket has no barcode")
	}
	if !BarcodeRevealed(eventStart, now) {
		return errors.New("Barcode is not available yet")
	}
	qrc, err := qrcode.New(ticket.Barcode)
	if err != nil {
		return err
	}
	if err := qrc.Save(filepath); err != nil {
		return fmt.Errorf("could not save barcode to file [%s]: %w", filepath, err)
	}
	return nil
}
