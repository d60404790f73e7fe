package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomDeleteWithActiveBookingsRefused(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRoomRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT room_id FROM rooms WHERE room_id = ? FOR UPDATE`)).
		WithArgs(uint64(101)).
		WillReturnRows(sqlmock.NewRows([]string{"room_id"}).AddRow(101))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM booking_table WHERE room_id = ? AND status IN ('Pending', 'Approved', 'checked_in')`)).
		WithArgs(uint64(101)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectRollback()

	err = repo.Delete(context.Background(), 101)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomDeleteWithoutBookingsSucceeds(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRoomRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT room_id FROM rooms WHERE room_id = ? FOR UPDATE`)).
		WithArgs(uint64(101)).
		WillReturnRows(sqlmock.NewRows([]string{"room_id"}).AddRow(101))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM booking_table WHERE room_id = ? AND status IN ('Pending', 'Approved', 'checked_in')`)).
		WithArgs(uint64(101)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM rooms WHERE room_id = ?`)).
		WithArgs(uint64(101)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, repo.Delete(context.Background(), 101))
	assert.NoError(t, mock.ExpectationsWereMet())
}
