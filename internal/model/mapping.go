package model

import "time"

// CodeMapping represents a model for a persisted association between an
// access code and a room. A room holds at most one active code; a code is
// unique across the system at the moment of issuance.
type CodeMapping struct {
	Code      string    `json:"code"`
	RoomID    string    `json:"room_id"`
	CreatedAt time.Time `json:"created_at"`
}
