// internal/webspace/entry.go
//
// Webspace cache entry and aggregate.
//
// Context
// -------
// A live Webspace aggregates everything the resolver and admin API need to
// serve one site partition: its `webspace` row, the parsed localization
// list, a small per-webspace content-DB pool, and the route/custom-URL
// repositories bound to that pool.  The cache stores a pointer to Webspace
// inside `entry`, along with a `lastSeen` UnixNano timestamp used by the
// evictor for idle and LRU eviction.
//
// Notes
// -----
//   - Close is invoked only by the cache evictor; handlers must treat
//     Webspace as immutable after initial load.
//   - Oxford commas, two spaces after periods.
package webspace

import (
	"github.com/jmoiron/sqlx"

	"github.com/yanizio/locus/internal/customurl"
	"github.com/yanizio/locus/internal/localization"
	"github.com/yanizio/locus/internal/locator"
)

//
// Cache entry
//

type entry struct {
	webspace *Webspace
	lastSeen int64 // UnixNano
}

//
// Webspace aggregate
//

// Webspace groups all per-partition runtime assets needed by request
// handlers.
type Webspace struct {
	Meta          Record                      // Row from `webspace`
	Localizations []localization.Localization // Parsed from Meta.Locales
	BaseDomains   []string                    // Parsed from Meta.BaseDomains
	DB            *sqlx.DB                    // Per-webspace connection pool
	Routes        *locator.Repository         // Active RLs + history
	Strategy      *locator.Strategy           // RL generation
	CustomURLs    *customurl.Repository       // Wildcard domain routes
}

// MatchingBaseDomains returns the registered base-domain patterns whose host
// portion covers host.  The resolver scopes its custom-URL scan to these; an
// empty result means no route of this webspace can match the request.
func (w *Webspace) MatchingBaseDomains(host string) []string {
	var out []string
	for _, pattern := range w.BaseDomains {
		if customurl.MatchHost(pattern, host) {
			out = append(out, pattern)
		}
	}
	return out
}

// Close is called by the cache evictor on idle or LRU eviction.
func (w *Webspace) Close() error { return w.DB.Close() }

// DefaultLocalization is the first configured locale, used when a request
// carries no usable locale hint.
func (w *Webspace) DefaultLocalization() localization.Localization {
	if len(w.Localizations) == 0 {
		return localization.New("en", "")
	}
	return w.Localizations[0]
}

// MatchLocalization picks the configured locale best matching the request
// hints: exact locale code first, then bare language, then country, then the
// webspace default.
func (w *Webspace) MatchLocalization(language, country string) localization.Localization {
	for _, loc := range w.Localizations {
		if loc.Language == language && loc.Country == country {
			return loc
		}
	}
	for _, loc := range w.Localizations {
		if loc.Language == language {
			return loc
		}
	}
	if country != "" {
		for _, loc := range w.Localizations {
			if loc.Country == country {
				return loc
			}
		}
	}
	return w.DefaultLocalization()
}
