package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionReplaceDropsOldRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewSessionRepo(db)

	exp := time.Now().UTC().Add(168 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tokens WHERE userid = ?`)).
		WithArgs(uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO tokens`).
		WithArgs(uint64(42), "deadbeef", exp).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err = repo.Replace(context.Background(), 42, "deadbeef", exp)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionLookupUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewSessionRepo(db)

	cols := []string{"userid", "fname", "mname", "lname", "username", "email", "usertype", "contact"}
	mock.ExpectQuery(`SELECT .+ FROM tokens t\s+JOIN userinfo u`).
		WithArgs("deadbeef").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(42, "Ada", "", "Lovelace", "ada", "ada@example.com", "Client", "555"))

	u, err := repo.LookupUser(context.Background(), "deadbeef")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), u.ID)
	assert.Equal(t, "Client", u.UserType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionLookupUserMiss(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewSessionRepo(db)

	mock.ExpectQuery(`SELECT .+ FROM tokens t`).
		WithArgs("unknown").
		WillReturnRows(sqlmock.NewRows([]string{"userid"}))

	_, err = repo.LookupUser(context.Background(), "unknown")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
