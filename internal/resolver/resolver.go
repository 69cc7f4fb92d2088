// internal/resolver/resolver.go
//
// Request-path resolution.
//
// Context
// -------
// The resolver is the consumer of the routing core: for each inbound request
// it maps host → webspace, picks a locale from explicit query, Accept-
// Language, or GeoIP hints, and resolves the path.
//
// Resolution order
// ----------------
//   1. Active resource locator            → 200 with a route descriptor.
//   2. Historical locator                 → 301 to the node's current path.
//   3. Custom-URL route matching the URL  → 200 with the target descriptor.
//   4. Nothing                            → 404.
//
// The not-found case is ordinary traffic, logged at DEBUG only.  Every
// lookup is a fresh query; the resolver holds no RL state between requests.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.

package resolver

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/yanizio/locus/internal/customurl"
	"github.com/yanizio/locus/internal/localization"
	"github.com/yanizio/locus/internal/locator"
	"github.com/yanizio/locus/internal/metrics"
	"github.com/yanizio/locus/internal/requestinfo"
	"github.com/yanizio/locus/internal/webspace"
)

// WebspaceSource is the minimal contract the handler needs from the
// webspace cache.  Defined here so tests can inject pre-built aggregates
// without a control-plane database.
type WebspaceSource interface {
	Get(host string) (*webspace.Webspace, error)
	GetByKey(ctx context.Context, key string) (*webspace.Webspace, error)
}

// Handler resolves request paths against one webspace source.  Construct
// with NewHandler.
type Handler struct {
	cache WebspaceSource
}

// NewHandler returns a Handler bound to src.
func NewHandler(src WebspaceSource) *Handler {
	return &Handler{cache: src}
}

// routeDescriptor is the JSON body returned for a resolved path.
type routeDescriptor struct {
	ContentUUID string `json:"contentUuid"`
	Path        string `json:"path,omitempty"`
	CustomURL   string `json:"customUrl,omitempty"`
	Webspace    string `json:"webspace"`
	Locale      string `json:"locale"`
}

// Resolve handles GET /* for content delivery hosts.
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	host := stripPort(r.Host)

	ws, err := h.cache.Get(host)
	if errors.Is(err, webspace.ErrNotFound) {
		metrics.ResolveTotal.WithLabelValues("miss").Inc()
		http.NotFound(w, r)
		return
	}
	if err != nil {
		serveError(w, err)
		return
	}

	loc := requestLocale(r, ws)
	path := r.URL.Path

	match, err := ws.Routes.FindByPath(r.Context(), path, ws.Meta.Key, loc.LocaleCode())
	switch {
	case err == nil && match.Historical:
		// Renamed or moved content: permanent redirect to the current path.
		metrics.ResolveTotal.WithLabelValues("redirect").Inc()
		if info := requestinfo.FromContext(r.Context()); info != nil && !info.UA.IsBot {
			zap.S().Infow("history redirect",
				"from", path, "to", match.Path,
				"webspace", ws.Meta.Key, "device", info.UA.Device)
		}
		http.Redirect(w, r, match.Path, http.StatusMovedPermanently)
		return

	case err == nil:
		metrics.ResolveTotal.WithLabelValues("active").Inc()
		writeJSON(w, http.StatusOK, routeDescriptor{
			ContentUUID: match.ContentUUID.String(),
			Path:        match.Path,
			Webspace:    ws.Meta.Key,
			Locale:      loc.LocaleCode(),
		})
		return

	case !errors.Is(err, locator.ErrRouteNotFound):
		serveError(w, err)
		return
	}

	// Custom-URL fallback: compare the request URL against each route's
	// materialised URL.
	if route, ok := h.matchCustomURL(r, ws, host, path); ok {
		if route.TargetUUID == nil {
			// Orphaned route: visible to admins, dead for visitors.
			metrics.ResolveTotal.WithLabelValues("miss").Inc()
			http.NotFound(w, r)
			return
		}
		metrics.ResolveTotal.WithLabelValues("custom_url").Inc()
		locale := loc.LocaleCode()
		if route.Locale != nil && *route.Locale != "" {
			locale = *route.Locale
		}
		writeJSON(w, http.StatusOK, routeDescriptor{
			ContentUUID: route.TargetUUID.String(),
			CustomURL:   route.CustomURL,
			Webspace:    ws.Meta.Key,
			Locale:      locale,
		})
		return
	}

	metrics.ResolveTotal.WithLabelValues("miss").Inc()
	zap.S().Debugw("route miss", "host", host, "path", path, "locale", loc)
	http.NotFound(w, r)
}

// matchCustomURL scans the webspace's custom routes for one whose generated
// URL equals the request's host+path.  The scan is scoped to the base-domain
// patterns covering the request host; a host no pattern covers skips the
// query entirely, so ordinary 404 traffic on the canonical host stays cheap.
func (h *Handler) matchCustomURL(r *http.Request, ws *webspace.Webspace, host, path string) (customurl.Route, bool) {
	domains := ws.MatchingBaseDomains(host)
	if len(domains) == 0 {
		return customurl.Route{}, false
	}

	rows, err := ws.CustomURLs.FindByWebspaceAndBaseDomains(r.Context(), ws.Meta.Key, domains)
	if err != nil {
		zap.S().Warnw("custom-url scan failed", "webspace", ws.Meta.Key, "err", err)
		return customurl.Route{}, false
	}
	defer rows.Close()

	requested := host + strings.TrimRight(path, "/")
	for rows.Next() {
		route := rows.Route()
		if route.CustomURL == requested {
			return route, true
		}
	}
	if err := rows.Err(); err != nil {
		zap.S().Warnw("custom-url scan failed", "webspace", ws.Meta.Key, "err", err)
	}
	return customurl.Route{}, false
}

// requestLocale picks the effective localization: explicit ?locale= first,
// then Accept-Language, then GeoIP country, then the webspace default.
func requestLocale(r *http.Request, ws *webspace.Webspace) localization.Localization {
	if raw := r.URL.Query().Get("locale"); raw != "" {
		if loc, err := localization.Parse(raw); err == nil {
			return ws.MatchLocalization(loc.Language, loc.Country)
		}
	}

	var language, country string
	if info := requestinfo.FromContext(r.Context()); info != nil {
		if info.UA.PrimaryLang != "" {
			if loc, err := localization.Parse(info.UA.PrimaryLang); err == nil {
				language, country = loc.Language, loc.Country
			}
		}
		if country == "" && info.Geo.CountryISO != "" {
			country = strings.ToLower(info.Geo.CountryISO)
		}
	}
	return ws.MatchLocalization(language, country)
}

// stripPort removes the :port suffix from Host when present.
func stripPort(h string) string {
	if i := strings.IndexByte(h, ':'); i != -1 {
		return h[:i]
	}
	return h
}
