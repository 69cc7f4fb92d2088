// internal/webspace/cache_test.go
//
// Unit-tests for the admin-key lookup's error handling: a key genuinely
// absent is ErrNotFound, while a control-plane failure passes through so the
// HTTP layer can answer 500 instead of 404.
//
// Run: go test ./internal/webspace -v

package webspace

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func newCacheMock(t *testing.T) (*Cache, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(sqlx.NewDb(db, "mysql"), Options{}), mock
}

func TestGetByKey_UnknownKeyIsNotFound(t *testing.T) {
	cache, mock := newCacheMock(t)

	mock.ExpectQuery(`FROM\s+webspace\s+WHERE\s+webspace_key = \?`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := cache.GetByKey(context.Background(), "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestGetByKey_ControlPlaneErrorPassesThrough(t *testing.T) {
	cache, mock := newCacheMock(t)

	dbErr := errors.New("connection refused")
	mock.ExpectQuery(`FROM\s+webspace\s+WHERE\s+webspace_key = \?`).
		WithArgs("demo").
		WillReturnError(dbErr)

	_, err := cache.GetByKey(context.Background(), "demo")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("control-plane failure collapsed into ErrNotFound: %v", err)
	}
}
