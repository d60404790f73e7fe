package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

// UserRepo provides access to the userinfo table.
type UserRepo struct {
	DB *sql.DB
}

// NewUserRepo creates a new UserRepo instance.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

const userColumns = `userid, fname, mname, lname, username, email, password, usertype, contact, gender, image`

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID, &u.FirstName, &u.MiddleName, &u.LastName,
		&u.Username, &u.Email, &u.Password, &u.UserType,
		&u.Contact, &u.Gender, &u.Image,
	)
	return u, err
}

// GetByID fetches a single user. Returns sql.ErrNoRows when absent.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM userinfo WHERE userid = ?`, id)
	return scanUser(row)
}

// GetByEmail fetches a user by email for login. Returns sql.ErrNoRows
// when absent.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM userinfo WHERE email = ?`, email)
	return scanUser(row)
}

// Create inserts a new user and returns the generated id. Username and
// email collisions map to the dedicated sentinel errors.
func (r *UserRepo) Create(ctx context.Context, u *model.User) (uint64, error) {
	if err := r.checkUnique(ctx, u.Username, u.Email, 0); err != nil {
		return 0, err
	}

	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO userinfo (fname, mname, lname, username, email, password, usertype, contact, gender, image)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.FirstName, u.MiddleName, u.LastName, u.Username, u.Email,
		u.Password, u.UserType, u.Contact, u.Gender, u.Image,
	)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// UserUpdate carries the optional fields of a partial user update. Nil
// pointers leave the stored value untouched.
type UserUpdate struct {
	FirstName  *string
	MiddleName *string
	LastName   *string
	Username   *string
	Email      *string
	UserType   *string
	Contact    *string
	Gender     *string
	Image      *string
}

// Update applies a partial update. Demoting an Admin is refused with
// ErrLastAdmin when no other Admin would remain; the current row is
// locked so two concurrent demotions cannot both pass the check.
func (r *UserRepo) Update(ctx context.Context, id uint64, upd UserUpdate) error {
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

	var currentType, currentUsername, currentEmail string
	err = tx.QueryRowContext(ctx,
		`SELECT usertype, username, email FROM userinfo WHERE userid = ? FOR UPDATE`, id).
		Scan(&currentType, &currentUsername, &currentEmail)
	if err != nil {
		return err
	}

	if upd.UserType != nil && currentType == "Admin" && *upd.UserType != "Admin" {
		var remaining int
		err = tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM userinfo WHERE usertype = 'Admin' AND userid <> ?`, id).
			Scan(&remaining)
		if err != nil {
			return err
		}
		if remaining == 0 {
			return ErrLastAdmin
		}
	}

	set := make([]string, 0, 9)
	args := make([]interface{}, 0, 10)
	add := func(col string, v *string) {
		if v != nil {
			set = append(set, col+" = ?")
			args = append(args, *v)
		}
	}
	if upd.Username != nil && *upd.Username != currentUsername {
		if err = r.checkUniqueTx(ctx, tx, *upd.Username, "", id); err != nil {
			return err
		}
	}
	if upd.Email != nil && *upd.Email != currentEmail {
		if err = r.checkUniqueTx(ctx, tx, "", *upd.Email, id); err != nil {
			return err
		}
	}
	add("fname", upd.FirstName)
	add("mname", upd.MiddleName)
	add("lname", upd.LastName)
	add("username", upd.Username)
	add("email", upd.Email)
	add("usertype", upd.UserType)
	add("contact", upd.Contact)
	add("gender", upd.Gender)
	add("image", upd.Image)

	if len(set) > 0 {
		args = append(args, id)
		_, err = tx.ExecContext(ctx,
			`UPDATE userinfo SET `+strings.Join(set, ", ")+` WHERE userid = ?`, args...)
		if err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// UpdatePassword replaces the stored credential hash. Also used to
// upgrade legacy hashes transparently after a successful login.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, hash string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE userinfo SET password = ? WHERE userid = ?`, hash, id)
	return err
}

// Delete removes a user together with their sessions. Deleting the
// last remaining Admin is refused with ErrLastAdmin.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
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

	var userType string
	err = tx.QueryRowContext(ctx,
		`SELECT usertype FROM userinfo WHERE userid = ? FOR UPDATE`, id).Scan(&userType)
	if err != nil {
		return err
	}

	if userType == "Admin" {
		var remaining int
		err = tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM userinfo WHERE usertype = 'Admin' AND userid <> ?`, id).
			Scan(&remaining)
		if err != nil {
			return err
		}
		if remaining == 0 {
			return ErrLastAdmin
		}
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM tokens WHERE userid = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM userinfo WHERE userid = ?`, id); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// UserFilter narrows List results.
type UserFilter struct {
	UserType string // exact match when set, e.g. "Client"
	Search   string // matches name, username or email
	Limit    int
	Offset   int
}

// List returns users matching the filter plus the total match count
// for pagination.
func (r *UserRepo) List(ctx context.Context, f UserFilter) ([]model.User, int, error) {
	where := make([]string, 0, 2)
	args := make([]interface{}, 0, 6)
	if f.UserType != "" {
		where = append(where, "usertype = ?")
		args = append(args, f.UserType)
	}
	if f.Search != "" {
		where = append(where, "(fname LIKE ? OR lname LIKE ? OR username LIKE ? OR email LIKE ?)")
		like := "%" + f.Search + "%"
		args = append(args, like, like, like, like)
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM userinfo`+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit, f.Offset)

	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+userColumns+` FROM userinfo`+clause+` ORDER BY userid LIMIT ? OFFSET ?`,
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := make([]model.User, 0, limit)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(
			&u.ID, &u.FirstName, &u.MiddleName, &u.LastName,
			&u.Username, &u.Email, &u.Password, &u.UserType,
			&u.Contact, &u.Gender, &u.Image,
		); err != nil {
			return nil, 0, err
		}
		u.Password = ""
		users = append(users, u)
	}
	return users, total, rows.Err()
}

func (r *UserRepo) checkUnique(ctx context.Context, username, email string, excludeID uint64) error {
	return checkUserUnique(ctx, r.DB, username, email, excludeID)
}

func (r *UserRepo) checkUniqueTx(ctx context.Context, tx *sql.Tx, username, email string, excludeID uint64) error {
	return checkUserUnique(ctx, tx, username, email, excludeID)
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func checkUserUnique(ctx context.Context, q querier, username, email string, excludeID uint64) error {
	var exists int
	if username != "" {
		err := q.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM userinfo WHERE username = ? AND userid <> ?`,
			username, excludeID).Scan(&exists)
		if err != nil {
			return err
		}
		if exists > 0 {
			return ErrUsernameExists
		}
	}
	if email != "" {
		err := q.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM userinfo WHERE email = ? AND userid <> ?`,
			email, excludeID).Scan(&exists)
		if err != nil {
			return err
		}
		if exists > 0 {
			return ErrEmailExists
		}
	}
	return nil
}

// isDuplicate reports whether err is a MySQL duplicate-key violation
// (error 1062). Kept as a string check so the mysql driver type does
// not leak into every call site.
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
