package model

import "strings"

// Room represents a physical unit in the `rooms` table. Every room
// belongs to exactly one category which carries the nightly rate.
//
// Fields:
//  ID         – room number, primary key (rooms.room_id).
//  CategoryID – reference into room_type (rooms.category_id).
//  Status     – operational status string; compared case-insensitively.
type Room struct {
	ID         uint64 `json:"room_id"`     // rooms.room_id
	CategoryID uint64 `json:"category_id"` // rooms.category_id
	Status     string `json:"status"`      // rooms.status (Available | Occupied | Maintenance)
}

// Room status values. Stored with arbitrary casing by the legacy data,
// so comparisons go through ValidRoomStatus / EqualRoomStatus.
const (
	RoomAvailable   = "Available"
	RoomOccupied    = "Occupied"
	RoomMaintenance = "Maintenance"
)

// ValidRoomStatus reports whether s names one of the three room states,
// ignoring case, and returns the canonical form.
func ValidRoomStatus(s string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "available":
		return RoomAvailable, true
	case "occupied":
		return RoomOccupied, true
	case "maintenance":
		return RoomMaintenance, true
	}
	return "", false
}
