package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
	"github.com/iliyamo/hotel-room-reservation/internal/service"
)

// BookingRepo provides access to the booking_table and implements the
// transactional primitives of service.BookingStore. The room row acts
// as the serialization point for creations: locking it with FOR UPDATE
// guarantees that two requests racing for the same room evaluate the
// conflict check one after the other.
type BookingRepo struct {
	DB *sql.DB
}

// NewBookingRepo creates a new BookingRepo instance.
func NewBookingRepo(db *sql.DB) *BookingRepo {
	return &BookingRepo{DB: db}
}

const blockingStatuses = `'Pending', 'Approved', 'checked_in'`

const bookingColumns = `book_id, room_id, userid, contact, check_in, check_out, no_of_days, status, datetime`

func scanBooking(scan func(dest ...interface{}) error) (model.Booking, error) {
	var b model.Booking
	var status string
	err := scan(
		&b.ID, &b.RoomID, &b.UserID, &b.Contact,
		&b.CheckIn, &b.CheckOut, &b.Nights, &status, &b.CreatedAt,
	)
	b.Status = model.BookingStatus(status)
	return b, err
}

// CreateIfAvailable inserts b only when check accepts the room's
// current active bookings. The whole sequence runs in one transaction
// with the room row locked, so the check result cannot be invalidated
// by a concurrent insert. On success b.ID and b.CreatedAt are filled
// in from the stored row.
func (r *BookingRepo) CreateIfAvailable(ctx context.Context, b *model.Booking, check service.ConflictCheck) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Serialize on the room row. A missing room surfaces as
	// sql.ErrNoRows, which covers rooms deleted mid-request.
	var roomID uint64
	err = tx.QueryRowContext(ctx,
		`SELECT room_id FROM rooms WHERE room_id = ? FOR UPDATE`, b.RoomID).Scan(&roomID)
	if err != nil {
		return err
	}

	active, err := activeForRoomTx(ctx, tx, b.RoomID)
	if err != nil {
		return err
	}
	if err = check(active); err != nil {
		return err
	}

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO booking_table (room_id, userid, contact, check_in, check_out, no_of_days, status, datetime)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.RoomID, b.UserID, b.Contact, b.CheckIn, b.CheckOut, b.Nights, string(b.Status), now,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return err
	}
	committed = true

	b.ID = uint64(id)
	b.CreatedAt = now
	return nil
}

// ChangeStatus locks the booking row, lets decide pick the target
// status, and persists it. When decide returns the current status the
// transaction commits without writing, accepting the no-op. Returns
// the booking with the final status applied.
func (r *BookingRepo) ChangeStatus(ctx context.Context, bookingID uint64, decide service.TransitionFunc) (model.Booking, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Booking{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	row := tx.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM booking_table WHERE book_id = ? FOR UPDATE`, bookingID)
	current, err := scanBooking(row.Scan)
	if err != nil {
		return model.Booking{}, err
	}

	target, err := decide(current)
	if err != nil {
		return model.Booking{}, err
	}

	if target != current.Status {
		_, err = tx.ExecContext(ctx,
			`UPDATE booking_table SET status = ? WHERE book_id = ?`,
			string(target), bookingID)
		if err != nil {
			return model.Booking{}, err
		}
	}

	if err = tx.Commit(); err != nil {
		return model.Booking{}, err
	}
	committed = true

	current.Status = target
	return current, nil
}

// ActiveForRoom returns the bookings of a room that still block its
// calendar, i.e. those in Pending, Approved or checked_in.
func (r *BookingRepo) ActiveForRoom(ctx context.Context, roomID uint64) ([]model.Booking, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM booking_table
		 WHERE room_id = ? AND status IN (`+blockingStatuses+`)
		 ORDER BY check_in`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

func activeForRoomTx(ctx context.Context, tx *sql.Tx, roomID uint64) ([]model.Booking, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM booking_table
		 WHERE room_id = ? AND status IN (`+blockingStatuses+`)
		 ORDER BY check_in`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

func collectBookings(rows *sql.Rows) ([]model.Booking, error) {
	out := make([]model.Booking, 0, 8)
	for rows.Next() {
		b, err := scanBooking(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// List returns bookings joined with their owner and room category,
// ordered so actionable statuses come first and recent bookings before
// older ones. The total price is derived in SQL from nights and the
// category rate; the service layer re-rounds it for display.
func (r *BookingRepo) List(ctx context.Context, f service.BookingFilter) ([]service.BookingDetail, int, error) {
	where := make([]string, 0, 3)
	args := make([]interface{}, 0, 7)
	if f.UserID != 0 {
		where = append(where, "b.userid = ?")
		args = append(args, f.UserID)
	}
	if f.Status != "" {
		where = append(where, "b.status = ?")
		args = append(args, string(f.Status))
	}
	if f.Search != "" {
		where = append(where, "(u.fname LIKE ? OR u.lname LIKE ? OR u.email LIKE ? OR CAST(b.room_id AS CHAR) LIKE ?)")
		like := "%" + f.Search + "%"
		args = append(args, like, like, like, like)
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	from := ` FROM booking_table b
	 JOIN userinfo u ON u.userid = b.userid
	 JOIN rooms r ON r.room_id = b.room_id
	 LEFT JOIN room_type rt ON rt.category_id = r.category_id`

	var total int
	if err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*)`+from+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit, f.Offset)

	rows, err := r.DB.QueryContext(ctx,
		`SELECT b.book_id, b.room_id, b.userid, b.contact, b.check_in, b.check_out,
		        b.no_of_days, b.status, b.datetime,
		        u.fname, u.lname, u.email,
		        COALESCE(rt.category_name, ''), COALESCE(rt.price, 0),
		        COALESCE(b.no_of_days * rt.price, 0)`+
			from+clause+`
		 ORDER BY FIELD(b.status, 'Pending', 'Approved', 'checked_in', 'Reject', 'Cancelled'),
		          b.datetime DESC
		 LIMIT ? OFFSET ?`,
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]service.BookingDetail, 0, limit)
	for rows.Next() {
		var d service.BookingDetail
		var status string
		if err := rows.Scan(
			&d.ID, &d.RoomID, &d.UserID, &d.Contact, &d.CheckIn, &d.CheckOut,
			&d.Nights, &status, &d.CreatedAt,
			&d.FirstName, &d.LastName, &d.Email,
			&d.CategoryName, &d.NightlyRate, &d.TotalPrice,
		); err != nil {
			return nil, 0, err
		}
		d.Status = model.BookingStatus(status)
		d.TotalPrice = service.Round2(d.TotalPrice)
		out = append(out, d)
	}
	return out, total, rows.Err()
}
