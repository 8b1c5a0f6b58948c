package models

import "time"

// Known room categories. Admins may add rooms with new categories; these
// are the ones seeded by default and pinned first in listings.
const (
	RoomTypeSquare = "Square Table"
	RoomTypeCircle = "Circle Table"
	RoomTypeLong   = "Long Table"
)

// Room represents a bookable meeting room.
type Room struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Capacity  int       `json:"capacity"`
	RoomType  string    `json:"room_type"`
	CreatedAt time.Time `json:"created_at"`
}
