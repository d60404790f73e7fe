package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

// RoomRepo provides access to the rooms table. Room numbers double as
// primary keys, so inserts carry an explicit id instead of relying on
// auto increment.
type RoomRepo struct {
	DB *sql.DB
}

// NewRoomRepo creates a new RoomRepo instance.
func NewRoomRepo(db *sql.DB) *RoomRepo {
	return &RoomRepo{DB: db}
}

// GetByID fetches a single room. Returns sql.ErrNoRows when absent.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (model.Room, error) {
	var room model.Room
	err := r.DB.QueryRowContext(ctx,
		`SELECT room_id, category_id, status FROM rooms WHERE room_id = ?`, id).
		Scan(&room.ID, &room.CategoryID, &room.Status)
	return room, err
}

// NightlyRate resolves the per-night price of a room through its
// category. A room whose category was removed prices at zero rather
// than failing. Returns sql.ErrNoRows when the room itself is absent.
func (r *RoomRepo) NightlyRate(ctx context.Context, roomID uint64) (float64, error) {
	var rate float64
	err := r.DB.QueryRowContext(ctx,
		`SELECT COALESCE(rt.price, 0)
		 FROM rooms r
		 LEFT JOIN room_type rt ON rt.category_id = r.category_id
		 WHERE r.room_id = ?`, roomID).Scan(&rate)
	if err != nil {
		return 0, err
	}
	return rate, nil
}

// RoomDetail is a room joined with its category for listing pages.
type RoomDetail struct {
	model.Room
	CategoryName string  `json:"category_name"`
	Price        float64 `json:"price"`
	Capacity     int     `json:"capacity"`
	Bed          string  `json:"bed"`
	Services     string  `json:"services"`
	Image        string  `json:"image"`
}

// RoomFilter narrows List results.
type RoomFilter struct {
	CategoryID uint64
	Status     string
	Search     string
	Limit      int
	Offset     int
}

// List returns rooms joined with their category plus the total match
// count for pagination.
func (r *RoomRepo) List(ctx context.Context, f RoomFilter) ([]RoomDetail, int, error) {
	where := make([]string, 0, 3)
	args := make([]interface{}, 0, 5)
	if f.CategoryID != 0 {
		where = append(where, "r.category_id = ?")
		args = append(args, f.CategoryID)
	}
	if f.Status != "" {
		where = append(where, "r.status = ?")
		args = append(args, f.Status)
	}
	if f.Search != "" {
		where = append(where, "(CAST(r.room_id AS CHAR) LIKE ? OR rt.category_name LIKE ?)")
		like := "%" + f.Search + "%"
		args = append(args, like, like)
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	from := ` FROM rooms r LEFT JOIN room_type rt ON rt.category_id = r.category_id`

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
		`SELECT r.room_id, r.category_id, r.status,
		        COALESCE(rt.category_name, ''), COALESCE(rt.price, 0),
		        COALESCE(rt.capacity, 0), COALESCE(rt.bed, ''),
		        COALESCE(rt.services, ''), COALESCE(rt.image, '')`+
			from+clause+` ORDER BY r.room_id LIMIT ? OFFSET ?`,
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]RoomDetail, 0, limit)
	for rows.Next() {
		var d RoomDetail
		if err := rows.Scan(
			&d.ID, &d.CategoryID, &d.Status,
			&d.CategoryName, &d.Price, &d.Capacity,
			&d.Bed, &d.Services, &d.Image,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	return out, total, rows.Err()
}

// Create inserts a room with an explicit room number. A colliding
// number maps to ErrRoomExists.
func (r *RoomRepo) Create(ctx context.Context, room *model.Room) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO rooms (room_id, category_id, status) VALUES (?, ?, ?)`,
		room.ID, room.CategoryID, room.Status,
	)
	if err != nil {
		if isDuplicate(err) {
			return ErrRoomExists
		}
		return err
	}
	return nil
}

// RoomUpdate carries the optional fields of a partial room update.
type RoomUpdate struct {
	NewID      *uint64
	CategoryID *uint64
	Status     *string
}

// Update applies a partial update. Renumbering to an occupied room id
// maps to ErrRoomExists; a missing room to sql.ErrNoRows.
func (r *RoomRepo) Update(ctx context.Context, id uint64, upd RoomUpdate) error {
	set := make([]string, 0, 3)
	args := make([]interface{}, 0, 4)
	if upd.NewID != nil {
		set = append(set, "room_id = ?")
		args = append(args, *upd.NewID)
	}
	if upd.CategoryID != nil {
		set = append(set, "category_id = ?")
		args = append(args, *upd.CategoryID)
	}
	if upd.Status != nil {
		set = append(set, "status = ?")
		args = append(args, *upd.Status)
	}
	if len(set) == 0 {
		return nil
	}
	args = append(args, id)

	res, err := r.DB.ExecContext(ctx,
		`UPDATE rooms SET `+strings.Join(set, ", ")+` WHERE room_id = ?`, args...)
	if err != nil {
		if isDuplicate(err) {
			return ErrRoomExists
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 && upd.NewID == nil {
		// An update that only rewrites identical values also reports
		// zero rows, but renumbering always changes the key.
		var exists int
		if err := r.DB.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM rooms WHERE room_id = ?`, id).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return sql.ErrNoRows
		}
	}
	return nil
}

// Delete removes a room unless bookings in a blocking status still
// reference it, in which case ErrConflict is returned. The room row is
// locked first so a booking cannot slip in between check and delete.
func (r *RoomRepo) Delete(ctx context.Context, id uint64) error {
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

	var exists uint64
	err = tx.QueryRowContext(ctx,
		`SELECT room_id FROM rooms WHERE room_id = ? FOR UPDATE`, id).Scan(&exists)
	if err != nil {
		return err
	}

	var active int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM booking_table
		 WHERE room_id = ? AND status IN ('Pending', 'Approved', 'checked_in')`, id).
		Scan(&active)
	if err != nil {
		return err
	}
	if active > 0 {
		return ErrConflict
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM rooms WHERE room_id = ?`, id); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// NextID suggests the next free room number for the admin form.
func (r *RoomRepo) NextID(ctx context.Context) (uint64, error) {
	var next uint64
	err := r.DB.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(room_id), 0) + 1 FROM rooms`).Scan(&next)
	if err != nil {
		return 0, err
	}
	return next, nil
}
