package repository

import (
	"context"
	"database/sql"
)

// DashboardStats holds the counters shown on the staff dashboard.
type DashboardStats struct {
	TotalRooms     int `json:"total_rooms"`
	AvailableRooms int `json:"available_rooms"`
	BookedRooms    int `json:"booked_rooms"`
	TotalClients   int `json:"total_clients"`
	PendingCount   int `json:"pending_count"`
	CheckedInCount int `json:"checked_in_count"`
}

// StatsRepo aggregates counts across rooms, users and bookings.
type StatsRepo struct {
	DB *sql.DB
}

// NewStatsRepo creates a new StatsRepo instance.
func NewStatsRepo(db *sql.DB) *StatsRepo {
	return &StatsRepo{DB: db}
}

// Dashboard computes the staff dashboard counters with a single round
// trip. Booked rooms counts distinct rooms holding an Approved booking.
func (r *StatsRepo) Dashboard(ctx context.Context) (DashboardStats, error) {
	var s DashboardStats
	err := r.DB.QueryRowContext(ctx, `SELECT
		(SELECT COUNT(*) FROM rooms),
		(SELECT COUNT(*) FROM rooms WHERE LOWER(status) = 'available'),
		(SELECT COUNT(DISTINCT room_id) FROM booking_table WHERE status = 'Approved'),
		(SELECT COUNT(*) FROM userinfo WHERE usertype = 'Client'),
		(SELECT COUNT(*) FROM booking_table WHERE status = 'Pending'),
		(SELECT COUNT(*) FROM booking_table WHERE status = 'checked_in')`).
		Scan(&s.TotalRooms, &s.AvailableRooms, &s.BookedRooms,
			&s.TotalClients, &s.PendingCount, &s.CheckedInCount)
	if err != nil {
		return DashboardStats{}, err
	}
	return s, nil
}
