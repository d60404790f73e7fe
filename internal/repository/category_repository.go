package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

// CategoryRepo provides access to the room_type table.
type CategoryRepo struct {
	DB *sql.DB
}

// NewCategoryRepo creates a new CategoryRepo instance.
func NewCategoryRepo(db *sql.DB) *CategoryRepo {
	return &CategoryRepo{DB: db}
}

const categoryColumns = `category_id, category_name, description, price, capacity, bed, services, image`

// GetByID fetches a single category. Returns sql.ErrNoRows when absent.
func (r *CategoryRepo) GetByID(ctx context.Context, id uint64) (*model.RoomCategory, error) {
	var c model.RoomCategory
	err := r.DB.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM room_type WHERE category_id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Description, &c.Price, &c.Capacity, &c.Bed, &c.Services, &c.Image)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns categories matching an optional name search plus the
// total match count for pagination.
func (r *CategoryRepo) List(ctx context.Context, search string, limit, offset int) ([]model.RoomCategory, int, error) {
	clause := ""
	args := make([]interface{}, 0, 3)
	if search != "" {
		clause = " WHERE category_name LIKE ?"
		args = append(args, "%"+search+"%")
	}

	var total int
	if err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM room_type`+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit, offset)

	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM room_type`+clause+` ORDER BY category_id LIMIT ? OFFSET ?`,
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.RoomCategory, 0, limit)
	for rows.Next() {
		var c model.RoomCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Price, &c.Capacity, &c.Bed, &c.Services, &c.Image); err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

// Create inserts a category and returns the generated id. A colliding
// name maps to ErrCategoryExists.
func (r *CategoryRepo) Create(ctx context.Context, c *model.RoomCategory) (uint64, error) {
	var exists int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM room_type WHERE category_name = ?`, c.Name).Scan(&exists)
	if err != nil {
		return 0, err
	}
	if exists > 0 {
		return 0, ErrCategoryExists
	}

	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO room_type (category_name, description, price, capacity, bed, services, image)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.Name, c.Description, c.Price, c.Capacity, c.Bed, c.Services, c.Image,
	)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrCategoryExists
		}
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// CategoryUpdate carries the optional fields of a partial category
// update.
type CategoryUpdate struct {
	Name        *string
	Description *string
	Price       *float64
	Capacity    *int
	Bed         *string
	Services    *string
	Image       *string
}

// Update applies a partial update. A missing category maps to
// sql.ErrNoRows, a name collision to ErrCategoryExists.
func (r *CategoryRepo) Update(ctx context.Context, id uint64, upd CategoryUpdate) error {
	set := make([]string, 0, 7)
	args := make([]interface{}, 0, 8)
	if upd.Name != nil {
		var exists int
		err := r.DB.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM room_type WHERE category_name = ? AND category_id <> ?`,
			*upd.Name, id).Scan(&exists)
		if err != nil {
			return err
		}
		if exists > 0 {
			return ErrCategoryExists
		}
		set = append(set, "category_name = ?")
		args = append(args, *upd.Name)
	}
	if upd.Description != nil {
		set = append(set, "description = ?")
		args = append(args, *upd.Description)
	}
	if upd.Price != nil {
		set = append(set, "price = ?")
		args = append(args, *upd.Price)
	}
	if upd.Capacity != nil {
		set = append(set, "capacity = ?")
		args = append(args, *upd.Capacity)
	}
	if upd.Bed != nil {
		set = append(set, "bed = ?")
		args = append(args, *upd.Bed)
	}
	if upd.Services != nil {
		set = append(set, "services = ?")
		args = append(args, *upd.Services)
	}
	if upd.Image != nil {
		set = append(set, "image = ?")
		args = append(args, *upd.Image)
	}
	if len(set) == 0 {
		return nil
	}

	var exists int
	if err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM room_type WHERE category_id = ?`, id).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return sql.ErrNoRows
	}

	args = append(args, id)
	_, err := r.DB.ExecContext(ctx,
		`UPDATE room_type SET `+strings.Join(set, ", ")+` WHERE category_id = ?`, args...)
	return err
}

// Delete removes a category unless rooms still reference it, in which
// case ErrConflict is returned.
func (r *CategoryRepo) Delete(ctx context.Context, id uint64) error {
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
		`SELECT category_id FROM room_type WHERE category_id = ? FOR UPDATE`, id).Scan(&exists)
	if err != nil {
		return err
	}

	var referencing int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM rooms WHERE category_id = ?`, id).Scan(&referencing)
	if err != nil {
		return err
	}
	if referencing > 0 {
		return ErrConflict
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM room_type WHERE category_id = ?`, id); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
