package domain

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// Represents a single reported bin awaiting collection.
// A BinRecord has a unique identifier, a human-readable location label,
// a positive weight in kilograms and an authoritative coordinate used
// for routing. The location label is display-only and may be a
// "Pinned: lat, lng" placeholder when reverse geocoding failed.
type BinRecord struct {
	ID         string      `json:"id"`
	Location   string      `json:"location"`
	AmountKg   float64     `json:"amount"`
	Coordinate Coordinates `json:"coordinate"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// NewBinID returns an opaque identifier, stable for the record's lifetime.
func NewBinID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		// The platform RNG failing is unrecoverable for unique IDs.
		panic("domain: crypto/rand unavailable: " + err.Error())
	}
	return hex.EncodeToString(b)
}
