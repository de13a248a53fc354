package config

import (
	"os"
	"time"
)

func GetBaseURL() string {
	BASE_URL := os.Getenv("BASE_URL")
	if BASE_URL == "" {
		BASE_URL = "http://localhost:3000"
	}
	return BASE_URL
}

func GetSessionFile() string {
	SESSION_FILE := os.Getenv("SESSION_FILE")
	if SESSION_FILE == "" {
		SESSION_FILE = ".ticketmate_session.json"
	}
	return SESSION_FILE
}

func GetTargetCity() string {
	TARGET_CITY := os.Getenv("TARGET_CITY")
	if TARGET_CITY == "" {
		TARGET_CITY = "Tel-Aviv"
	}
	return TARGET_CITY
}

const TIME_PARSE_FORMAT = "2006-01-02 15:04:05 -07:00"

// RESALE_COMMISSION_RATE is deducted from resale proceeds before the
// seller payout is dispatched.
const RESALE_COMMISSION_RATE = "0.05"

const (
	RESALE_CUTOFF         = 2 * time.Hour
	BARCODE_REVEAL_WINDOW = 2 * time.Hour
	LAST_MINUTE_WINDOW    = 5 * 24 * time.Hour
	TRENDING_LIMIT        = 5
)
