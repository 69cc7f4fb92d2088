// internal/customurl/rows.go
//
// Lazy row iterator over custom-URL query results.
//
// Context
// -------
// The repository's scoped queries can match many routes, but admin list
// views page through them a handful at a time.  Rows therefore materialises
// one Route per Next() call — JSON decode, target-title lookup, and URL
// generation all happen only for rows actually consumed.  Target titles are
// pre-fetched once per query into a map, so consuming N rows costs one
// title query, not N.
//
// The iterator is single-pass; restarting means re-issuing the query.
//
// Notes
// -----
// • A target UUID absent from the title map yields a nil TargetTitle.  The
//   route stays visible so operators can clean up orphans.
// • Oxford commas, two spaces after periods.

package customurl

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/yanizio/locus/internal/localization"
)

// Rows walks raw custom_url rows and materialises Route descriptors on
// demand.  Construct via the repository query helpers; zero value is
// unusable.
type Rows struct {
	rows   *sqlx.Rows
	titles map[uuid.UUID]string
	cur    Route
	err    error
}

// Next advances to the following row, materialising it into Route().  It
// returns false at the end of the result set or on the first error; check
// Err afterwards.
func (r *Rows) Next() bool {
	if r.err != nil || !r.rows.Next() {
		return false
	}

	var rec Record
	if err := r.rows.StructScan(&rec); err != nil {
		r.err = err
		return false
	}

	parts, err := rec.Parts()
	if err != nil {
		r.err = err
		return false
	}

	var loc *localization.Localization
	if rec.Locale != nil && *rec.Locale != "" {
		parsed, err := localization.Parse(*rec.Locale)
		if err != nil {
			r.err = err
			return false
		}
		loc = &parsed
	}

	url, err := Generate(rec.BaseDomain, parts, loc)
	if err != nil {
		r.err = err
		return false
	}

	route := Route{
		ID:          rec.ID,
		WebspaceKey: rec.WebspaceKey,
		BaseDomain:  rec.BaseDomain,
		DomainParts: parts,
		TargetUUID:  rec.TargetUUID,
		Locale:      rec.Locale,
		CustomURL:   url,
		CreatedAt:   rec.CreatedAt,
	}
	if rec.TargetUUID != nil {
		if title, ok := r.titles[*rec.TargetUUID]; ok {
			route.TargetTitle = &title
		}
		// Absent entry: target deleted, route orphaned.  TargetTitle stays nil.
	}

	r.cur = route
	return true
}

// Skip advances past n rows without materialising them.  Pagination uses it
// so only the visible page pays decode and generation cost.
func (r *Rows) Skip(n int) {
	for i := 0; i < n && r.err == nil; i++ {
		if !r.rows.Next() {
			return
		}
	}
}

// Route returns the descriptor materialised by the last successful Next.
func (r *Rows) Route() Route { return r.cur }

// Err returns the first error hit while iterating, if any.
func (r *Rows) Err() error {
	if r.err != nil {
		return r.err
	}
	return r.rows.Err()
}

// Close releases the underlying result set.  Safe to call more than once.
func (r *Rows) Close() error { return r.rows.Close() }
