package webspace

import (
	"context"

	"github.com/jmoiron/sqlx"
)

const selectColumns = `
        id, webspace_key, host, name, locales, base_domains, dsn,
        suspended_at, deleted_at, created_at, updated_at`

// AllActive returns every webspace that is neither suspended nor deleted.
// The base-domain fallback scans this set when a host has no exact row.
func AllActive(ctx context.Context, db *sqlx.DB) ([]Record, error) {
	const q = `
        SELECT` + selectColumns + `
        FROM   webspace
        WHERE  suspended_at IS NULL
          AND  deleted_at   IS NULL`
	var rows []Record
	if err := db.SelectContext(ctx, &rows, q); err != nil {
		return nil, err
	}
	return rows, nil
}

// ByHost fetches a single webspace row that is not suspended or deleted.
// The caller supplies a context so the lookup respects request deadlines.
func ByHost(ctx context.Context, db *sqlx.DB, host string) (*Record, error) {
	const q = `
        SELECT` + selectColumns + `
        FROM   webspace
        WHERE  host = ?
          AND  suspended_at IS NULL
          AND  deleted_at   IS NULL
        LIMIT  1`
	var rec Record
	if err := db.GetContext(ctx, &rec, q, host); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ByKey fetches a single active webspace by its administrative key.
func ByKey(ctx context.Context, db *sqlx.DB, key string) (*Record, error) {
	const q = `
        SELECT` + selectColumns + `
        FROM   webspace
        WHERE  webspace_key = ?
          AND  suspended_at IS NULL
          AND  deleted_at   IS NULL
        LIMIT  1`
	var rec Record
	if err := db.GetContext(ctx, &rec, q, key); err != nil {
		return nil, err
	}
	return &rec, nil
}
