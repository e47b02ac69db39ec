package database

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTxMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestWithinLockCommits(t *testing.T) {
	db, mock := newTxMock(t)
	transactor := NewTransactor(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock(hashtext($1))")).
		WithArgs("krs:stu-1:2025/2026-Ganjil").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	var inner sqlx.ExtContext
	err := transactor.WithinLock(context.Background(), "krs:stu-1:2025/2026-Ganjil", func(ctx context.Context) error {
		inner = Conn(ctx, db)
		return nil
	})
	require.NoError(t, err)
	_, isTx := inner.(*sqlx.Tx)
	assert.True(t, isTx)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinLockRollsBackOnError(t *testing.T) {
	db, mock := newTxMock(t)
	transactor := NewTransactor(db)

	mock.ExpectBegin()
	mock.ExpectExec("pg_advisory_xact_lock").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	boom := errors.New("room already booked")
	err := transactor.WithinLock(context.Background(), "schedule:room-1:MONDAY", func(ctx context.Context) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinLockReusesOuterTransaction(t *testing.T) {
	db, mock := newTxMock(t)
	transactor := NewTransactor(db)

	mock.ExpectBegin()
	mock.ExpectExec("pg_advisory_xact_lock").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	calls := 0
	err := transactor.WithinLock(context.Background(), "outer", func(ctx context.Context) error {
		return transactor.WithinLock(ctx, "inner", func(context.Context) error {
			calls++
			return nil
		})
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConnWithoutTransaction(t *testing.T) {
	db, _ := newTxMock(t)
	assert.Same(t, db, Conn(context.Background(), db))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(fmt.Errorf("create krs: %w", &pq.Error{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
}
