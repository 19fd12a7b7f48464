// Package storage persists table snapshots under named save slots,
// either in PostgreSQL or on the local filesystem. Both stores share
// the same shape: a slot is (room id, slot name) and holds one
// snapshot JSON document.
package storage

import (
	"errors"
	"time"
)

// ErrNotFound marks a load or delete of a slot that does not exist.
var ErrNotFound = errors.New("save slot not found")

// SaveRecord describes one stored slot without its payload.
type SaveRecord struct {
	RoomID    string    `json:"roomId"`
	Slot      string    `json:"slot"`
	Bytes     int       `json:"bytes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
