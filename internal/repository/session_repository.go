package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

// SessionRepo persists opaque session rows in the tokens table. The
// stored token column holds a SHA-256 hash of the credential handed to
// the client, never the credential itself. Each user holds at most one
// row at a time; issuing a new session replaces the previous one.
type SessionRepo struct {
	DB *sql.DB
}

// NewSessionRepo creates a new SessionRepo instance.
func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{DB: db}
}

// LookupUser resolves a token hash to its owning user. Expired rows are
// filtered in SQL so a stale session behaves exactly like a missing
// one. Returns sql.ErrNoRows when no live session matches.
func (r *SessionRepo) LookupUser(ctx context.Context, tokenHash string) (model.User, error) {
	query := `SELECT u.userid, u.fname, u.mname, u.lname, u.username, u.email, u.usertype, u.contact
	          FROM tokens t
	          JOIN userinfo u ON u.userid = t.userid
	          WHERE t.token = ? AND t.expires_at > UTC_TIMESTAMP()
	          LIMIT 1`

	var u model.User
	err := r.DB.QueryRowContext(ctx, query, tokenHash).Scan(
		&u.ID, &u.FirstName, &u.MiddleName, &u.LastName,
		&u.Username, &u.Email, &u.UserType, &u.Contact,
	)
	return u, err
}

// TouchLastUsed records session activity. Missing rows are ignored so a
// concurrent logout does not surface as an error.
func (r *SessionRepo) TouchLastUsed(ctx context.Context, tokenHash string, at time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE tokens SET last_used_at = ? WHERE token = ?`,
		at.UTC(), tokenHash,
	)
	return err
}

// Replace installs a fresh session for the user, removing any previous
// one in the same transaction so the single-session invariant holds
// even under concurrent logins.
func (r *SessionRepo) Replace(ctx context.Context, userID uint64, tokenHash string, expiresAt time.Time) error {
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

	if _, err = tx.ExecContext(ctx, `DELETE FROM tokens WHERE userid = ?`, userID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO tokens (userid, token, token_type, expires_at, created_at)
		 VALUES (?, ?, 'Bearer', ?, UTC_TIMESTAMP())`,
		userID, tokenHash, expiresAt.UTC(),
	)
	if err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// DeleteByHash revokes a single session. Deleting an already missing
// row is not an error; logout is idempotent.
func (r *SessionRepo) DeleteByHash(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM tokens WHERE token = ?`, tokenHash)
	return err
}

// DeleteExpired clears out rows whose lifetime has passed. Called
// periodically from a background goroutine.
func (r *SessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM tokens WHERE expires_at <= UTC_TIMESTAMP()`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
