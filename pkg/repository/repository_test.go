package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JaimeStill/medvision/pkg/repository"
)

var (
	errNotFound  = errors.New("not found")
	errDuplicate = errors.New("duplicate")
)

func TestMapErrorNil(t *testing.T) {
	got := repository.MapError(nil, errNotFound, errDuplicate)
	if got != nil {
		t.Errorf("MapError(nil) = %v, want nil", got)
	}
}

func TestMapErrorNotFound(t *testing.T) {
	got := repository.MapError(sql.ErrNoRows, errNotFound, errDuplicate)
	if !errors.Is(got, errNotFound) {
		t.Errorf("MapError(ErrNoRows) = %v, want %v", got, errNotFound)
	}
}

func TestMapErrorDuplicate(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505"}
	got := repository.MapError(pgErr, errNotFound, errDuplicate)
	if !errors.Is(got, errDuplicate) {
		t.Errorf("MapError(PgError 23505) = %v, want %v", got, errDuplicate)
	}
}

func TestMapErrorPassthrough(t *testing.T) {
	original := errors.New("some other error")
	got := repository.MapError(original, errNotFound, errDuplicate)
	if got != original {
		t.Errorf("MapError(other) = %v, want %v", got, original)
	}
}

func TestMapErrorPgNonDuplicate(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23503"}
	got := repository.MapError(pgErr, errNotFound, errDuplicate)
	if got != pgErr {
		t.Errorf("MapError(PgError 23503) should pass through, got %v", got)
	}
}

func scanName(s repository.Scanner) (string, error) {
	var name string
	err := s.Scan(&name)
	return name, err
}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestQueryMany(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery("SELECT category FROM saved_reports").
		WillReturnRows(sqlmock.NewRows([]string{"category"}).
			AddRow("tuberculosis").
			AddRow("alzheimer"))

	got, err := repository.QueryMany(context.Background(), db, "SELECT category FROM saved_reports", nil, scanName)
	if err != nil {
		t.Fatalf("QueryMany: %v", err)
	}
	if len(got) != 2 || got[0] != "tuberculosis" || got[1] != "alzheimer" {
		t.Errorf("QueryMany = %v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestQueryManyEmpty(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery("SELECT category").
		WillReturnRows(sqlmock.NewRows([]string{"category"}))

	got, err := repository.QueryMany(context.Background(), db, "SELECT category FROM saved_reports", nil, scanName)
	if err != nil {
		t.Fatalf("QueryMany: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("QueryMany should return empty non-nil slice, got %#v", got)
	}
}

func TestQueryOneNoRows(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery("SELECT category").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"category"}))

	_, err := repository.QueryOne(context.Background(), db, "SELECT category FROM saved_reports WHERE id = $1", []any{"missing"}, scanName)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("QueryOne error = %v, want sql.ErrNoRows", err)
	}
}

func TestExecExpectOne(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectExec("DELETE FROM saved_reports").
		WithArgs("a").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM saved_reports").
		WithArgs("b").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ctx := context.Background()
	if err := repository.ExecExpectOne(ctx, db, "DELETE FROM saved_reports WHERE id = $1", "a"); err != nil {
		t.Errorf("ExecExpectOne(a) = %v, want nil", err)
	}
	if err := repository.ExecExpectOne(ctx, db, "DELETE FROM saved_reports WHERE id = $1", "b"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("ExecExpectOne(b) = %v, want sql.ErrNoRows", err)
	}
}

func TestWithTxCommitAndRollback(t *testing.T) {
	db, mock := newMock(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO saved_reports").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	got, err := repository.WithTx(ctx, db, func(tx *sql.Tx) (int, error) {
		_, err := tx.ExecContext(ctx, "INSERT INTO saved_reports DEFAULT VALUES")
		return 1, err
	})
	if err != nil || got != 1 {
		t.Fatalf("WithTx commit: got %d, %v", got, err)
	}

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	_, err = repository.WithTx(ctx, db, func(tx *sql.Tx) (int, error) {
		return 0, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("WithTx rollback error = %v, want boom", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
