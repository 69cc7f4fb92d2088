// internal/locator/repository.go
//
// Persistence for active resource locators and their history.
//
// Context
// -------
// The repository never caches: every lookup is a fresh query, so resolution
// is always consistent with concurrent renames.  Move runs inside one SQL
// transaction — archive the old path, install the new one — and either both
// land or neither does.
//
// Notes
// -----
// • Duplicate-key violations surface as ErrPathTaken so the strategy can
//   re-attempt with the next numeric suffix.
// • Oxford commas, two spaces after periods.

package locator

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Repository scopes route and history queries to one *sqlx.DB.  Stateless
// and safe for concurrent use; construct with NewRepository.
type Repository struct {
	db *sqlx.DB
}

// NewRepository returns a Repository bound to db.
func NewRepository(db *sqlx.DB) *Repository { return &Repository{db: db} }

// mysqlDuplicateEntry is the server error number for a UNIQUE violation.
const mysqlDuplicateEntry = 1062

func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

// IsUnique reports whether path is free among ACTIVE locators for one
// (webspace, locale).  History entries never count as conflicts.
func (r *Repository) IsUnique(ctx context.Context, path, webspaceKey, locale string) (bool, error) {
	const q = `
	    SELECT 1 FROM route
	    WHERE  path = ? AND webspace_key = ? AND locale = ?
	    LIMIT  1`

	var one int
	err := r.db.GetContext(ctx, &one, q, path, webspaceKey, locale)
	if errors.Is(err, sql.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}

// ActiveByContent returns the node's current active locator, or
// ErrRouteNotFound when the node has never been published in this locale.
func (r *Repository) ActiveByContent(ctx context.Context, content uuid.UUID, webspaceKey, locale string) (*Record, error) {
	const q = `
	    SELECT id, path, content_uuid, webspace_key, locale, created_at, updated_at
	    FROM   route
	    WHERE  content_uuid = ? AND webspace_key = ? AND locale = ?
	    LIMIT  1`

	var rec Record
	err := r.db.GetContext(ctx, &rec, q, content, webspaceKey, locale)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRouteNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Create installs a brand-new active locator.  A storage-level uniqueness
// violation maps to ErrPathTaken.
func (r *Repository) Create(ctx context.Context, path string, content uuid.UUID, webspaceKey, locale string) error {
	const q = `
	    INSERT INTO route (path, content_uuid, webspace_key, locale, created_at, updated_at)
	    VALUES (?, ?, ?, ?, ?, ?)`

	now := time.Now()
	if _, err := r.db.ExecContext(ctx, q, path, content, webspaceKey, locale, now, now); err != nil {
		if isDuplicate(err) {
			return ErrPathTaken
		}
		return err
	}
	return nil
}

// FindByPath resolves a request path.  Active locators win; otherwise the
// newest history entry for the path supplies the owning node and its current
// active path for redirect handling.  No match at all → ErrRouteNotFound.
func (r *Repository) FindByPath(ctx context.Context, path, webspaceKey, locale string) (*Match, error) {
	const active = `
	    SELECT content_uuid FROM route
	    WHERE  path = ? AND webspace_key = ? AND locale = ?
	    LIMIT  1`

	var content uuid.UUID
	err := r.db.GetContext(ctx, &content, active, path, webspaceKey, locale)
	if err == nil {
		return &Match{ContentUUID: content, Path: path}, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	// History fallback: join the owning node's current active path so the
	// caller can 301 there.
	const historical = `
	    SELECT h.content_uuid AS content_uuid, r.path AS path
	    FROM   route_history h
	    JOIN   route r
	      ON   r.content_uuid = h.content_uuid
	     AND   r.webspace_key = h.webspace_key
	     AND   r.locale       = h.locale
	    WHERE  h.path = ? AND h.webspace_key = ? AND h.locale = ?
	    ORDER  BY h.created_at DESC
	    LIMIT  1`

	var row struct {
		ContentUUID uuid.UUID `db:"content_uuid"`
		Path        string    `db:"path"`
	}
	err = r.db.GetContext(ctx, &row, historical, path, webspaceKey, locale)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRouteNotFound
	}
	if err != nil {
		return nil, err
	}
	return &Match{ContentUUID: row.ContentUUID, Path: row.Path, Historical: true}, nil
}

// Move archives oldPath into history and installs newPath as the active
// locator inside one transaction.  Partial application is never observable:
// any failure rolls the pair back.
func (r *Repository) Move(ctx context.Context, content uuid.UUID, oldPath, newPath, webspaceKey, locale string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const archive = `
	    INSERT INTO route_history (path, content_uuid, webspace_key, locale, created_at)
	    VALUES (?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, archive, oldPath, content, webspaceKey, locale, time.Now()); err != nil {
		return err
	}

	const install = `
	    UPDATE route
	    SET    path = ?, updated_at = ?
	    WHERE  content_uuid = ? AND webspace_key = ? AND locale = ?`
	res, err := tx.ExecContext(ctx, install, newPath, time.Now(), content, webspaceKey, locale)
	if err != nil {
		if isDuplicate(err) {
			return ErrPathTaken
		}
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrRouteNotFound
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	zap.L().Debug("route moved",
		zap.String("content", content.String()),
		zap.String("from", oldPath),
		zap.String("to", newPath),
		zap.String("webspace", webspaceKey),
		zap.String("locale", locale))
	return nil
}

// ListHistory returns every archived path of one node, newest first.
func (r *Repository) ListHistory(ctx context.Context, content uuid.UUID, webspaceKey, locale string) ([]HistoryEntry, error) {
	const q = `
	    SELECT id, path, content_uuid, webspace_key, locale, created_at
	    FROM   route_history
	    WHERE  content_uuid = ? AND webspace_key = ? AND locale = ?
	    ORDER  BY created_at DESC, id DESC`

	var entries []HistoryEntry
	if err := r.db.SelectContext(ctx, &entries, q, content, webspaceKey, locale); err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteHistory removes one archived path.  Administrative only; the active
// locator is untouched.
func (r *Repository) DeleteHistory(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM route_history WHERE id = ?`, id)
	return err
}
