// Package queue defines the message payloads exchanged over the
// broker plus the publisher and background consumer that move them.
package queue

// BookingCreatedEvent is published after a reservation row is
// committed. It carries enough for downstream consumers to log or
// notify without querying the primary database.
type BookingCreatedEvent struct {
	BookingID  uint64  `json:"booking_id"`
	RoomID     uint64  `json:"room_id"`
	UserID     uint64  `json:"user_id"`
	CheckIn    string  `json:"check_in"`
	CheckOut   string  `json:"check_out"`
	Nights     int     `json:"nights"`
	Status     string  `json:"status"`
	TotalPrice float64 `json:"total_price"`
	CreatedAt  string  `json:"created_at"`
}

// BookingStatusChangedEvent is published after a lifecycle transition
// is committed. From and To are always different; accepted no-op
// writes are not announced.
type BookingStatusChangedEvent struct {
	BookingID uint64 `json:"booking_id"`
	RoomID    uint64 `json:"room_id"`
	UserID    uint64 `json:"user_id"`
	From      string `json:"from"`
	To        string `json:"to"`
	ChangedAt string `json:"changed_at"`
}
