package webspace

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/locus/internal/customurl"
	"github.com/yanizio/locus/internal/localization"
	"github.com/yanizio/locus/internal/locator"
)

// load turns host → *Webspace.  Steps:
//
//  1. Fetch webspace row by canonical host; on a clean miss, retry by
//     matching the host against each webspace's custom-URL base domains.
//  2. Parse its locale and base-domain lists.
//  3. Open small content-DB pool.
//  4. Bind the route and custom-URL repositories to that pool.
//
// Only a row genuinely absent maps to ErrNotFound; a control-plane failure
// propagates unchanged so the HTTP layer can answer 500, not 404.
func load(ctx context.Context, global *sqlx.DB, host string, open openFunc, maxSuffix int) (*Webspace, error) {
	// 1. webspace row
	rec, err := ByHost(ctx, global, host)
	if errors.Is(err, sql.ErrNoRows) {
		rec, err = byBaseDomain(ctx, global, host)
	}
	if err != nil {
		return nil, err
	}

	// 2. locale + base-domain lists
	locales, err := localization.ParseList(rec.Locales)
	if err != nil {
		return nil, err
	}

	// 3. content DB pool
	db, err := open(ctx, rec.DSN)
	if err != nil {
		return nil, err
	}

	// 4. repositories
	routes := locator.NewRepository(db)
	return &Webspace{
		Meta:          *rec,
		Localizations: locales,
		BaseDomains:   rec.BaseDomainList(),
		DB:            db,
		Routes:        routes,
		Strategy:      locator.NewStrategy(routes, maxSuffix),
		CustomURLs:    customurl.New(db),
	}, nil
}

// byBaseDomain finds the webspace whose custom-URL base domains cover host.
// Requests to "test-1.demo.example" reach the webspace that registered
// "*.demo.example" even though its canonical host differs.  The control-plane
// table is small, so the scan stays in Go where the wildcard semantics live.
func byBaseDomain(ctx context.Context, global *sqlx.DB, host string) (*Record, error) {
	recs, err := AllActive(ctx, global)
	if err != nil {
		return nil, err
	}
	for i := range recs {
		for _, pattern := range recs[i].BaseDomainList() {
			if customurl.MatchHost(pattern, host) {
				return &recs[i], nil
			}
		}
	}
	return nil, ErrNotFound
}
