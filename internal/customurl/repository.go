// internal/customurl/repository.go
//
// Query helpers for the `custom_url` table.
//
// Context
// -------
// The repository issues one scoped query per lookup and hands the raw result
// set to a Rows iterator (rows.go) for lazy materialisation.  Before the
// iterator is returned, the titles of every referenced target inside the
// same scope are fetched in a single query — the classic N+1 guard.
//
// Notes
// -----
// • No caching: every lookup is a fresh query, so reads are always
//   consistent with concurrent admin edits.
// • Oxford commas, two spaces after periods.

package customurl

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const selectColumns = `
	    id, webspace_key, base_domain, domain_parts,
	    target_uuid, locale, created_at, updated_at`

// Repository scopes custom-URL queries to one *sqlx.DB.  Construct with New;
// the repository itself is stateless and safe for concurrent use.
type Repository struct {
	db *sqlx.DB
}

// New returns a Repository bound to db.
func New(db *sqlx.DB) *Repository { return &Repository{db: db} }

// FindByWebspace returns a lazy iterator over every route in one webspace.
// The caller must Close the iterator.
func (r *Repository) FindByWebspace(ctx context.Context, webspaceKey string) (*Rows, error) {
	const q = `
	    SELECT` + selectColumns + `
	    FROM   custom_url
	    WHERE  webspace_key = ?
	    ORDER  BY id`

	titles, err := r.targetTitles(ctx,
		`SELECT DISTINCT target_uuid FROM custom_url
		 WHERE webspace_key = ? AND target_uuid IS NOT NULL`, webspaceKey)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryxContext(ctx, q, webspaceKey)
	if err != nil {
		return nil, err
	}
	return &Rows{rows: rows, titles: titles}, nil
}

// FindByWebspaceAndBaseDomains narrows FindByWebspace to a set of base-domain
// patterns, e.g. the ones matching an inbound request host.
func (r *Repository) FindByWebspaceAndBaseDomains(ctx context.Context, webspaceKey string, baseDomains []string) (*Rows, error) {
	if len(baseDomains) == 0 {
		return r.FindByWebspace(ctx, webspaceKey)
	}

	q, args, err := sqlx.In(`
	    SELECT`+selectColumns+`
	    FROM   custom_url
	    WHERE  webspace_key = ?
	      AND  base_domain IN (?)
	    ORDER  BY id`, webspaceKey, baseDomains)
	if err != nil {
		return nil, err
	}

	tq, targs, err := sqlx.In(`
	    SELECT DISTINCT target_uuid FROM custom_url
	    WHERE webspace_key = ? AND base_domain IN (?) AND target_uuid IS NOT NULL`,
		webspaceKey, baseDomains)
	if err != nil {
		return nil, err
	}
	titles, err := r.targetTitles(ctx, tq, targs...)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryxContext(ctx, r.db.Rebind(q), args...)
	if err != nil {
		return nil, err
	}
	return &Rows{rows: rows, titles: titles}, nil
}

// FindByTarget returns every route pointing at one content node.  The result
// is eager and small (back-references, not a list view), so no iterator.
func (r *Repository) FindByTarget(ctx context.Context, target uuid.UUID) ([]Route, error) {
	const q = `
	    SELECT` + selectColumns + `
	    FROM   custom_url
	    WHERE  target_uuid = ?
	    ORDER  BY id`

	var recs []Record
	if err := r.db.SelectContext(ctx, &recs, q, target); err != nil {
		return nil, err
	}

	out := make([]Route, 0, len(recs))
	for _, rec := range recs {
		parts, err := rec.Parts()
		if err != nil {
			return nil, err
		}
		out = append(out, Route{
			ID:          rec.ID,
			WebspaceKey: rec.WebspaceKey,
			BaseDomain:  rec.BaseDomain,
			DomainParts: parts,
			TargetUUID:  rec.TargetUUID,
			Locale:      rec.Locale,
			CreatedAt:   rec.CreatedAt,
		})
	}
	return out, nil
}

// DeleteByIDs removes routes by primary key.  Unknown IDs are ignored.
func (r *Repository) DeleteByIDs(ctx context.Context, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM custom_url WHERE id IN (?)`, ids)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, r.db.Rebind(q), args...)
	return err
}

// targetTitles resolves the titles of every target referenced by a scoped
// sub-query.  Deleted targets simply do not appear in the map.
func (r *Repository) targetTitles(ctx context.Context, subQuery string, args ...any) (map[uuid.UUID]string, error) {
	q := `
	    SELECT uuid, title
	    FROM   content
	    WHERE  uuid IN (` + subQuery + `)`

	rows := []struct {
		UUID  uuid.UUID `db:"uuid"`
		Title string    `db:"title"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}

	titles := make(map[uuid.UUID]string, len(rows))
	for _, row := range rows {
		titles[row.UUID] = row.Title
	}
	return titles, nil
}
