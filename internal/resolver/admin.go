// internal/resolver/admin.go
//
// Admin API for routes, history, and custom URLs.
//
// Context
// -------
// The admin SPA talks to these endpoints when editors save, rename, or
// clean up content.  All routes hang off /api/webspaces/{key}; the key is
// resolved through the webspace cache, so admin traffic shares the pools
// and repositories the delivery path uses.
//
// Endpoints
// ---------
//	POST   /api/webspaces/{key}/routes               install an RL for a node
//	PUT    /api/webspaces/{key}/routes/{uuid}        rename (archive + move)
//	GET    /api/webspaces/{key}/routes/{uuid}/history
//	DELETE /api/webspaces/{key}/history/{id}
//	GET    /api/webspaces/{key}/custom-urls          paginated list
//	DELETE /api/webspaces/{key}/custom-urls?ids=1,2
//
// Notes
// -----
// • Oxford commas, two spaces after periods.

package resolver

import (
	"encoding/json"
	"errors"
	"net/http"
	gopath "path"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/yanizio/locus/internal/customurl"
	"github.com/yanizio/locus/internal/locator"
	"github.com/yanizio/locus/internal/webspace"
)

// Router wires the delivery path and the admin API onto one chi router.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()

	r.Route("/api/webspaces/{key}", func(api chi.Router) {
		api.Post("/routes", h.installRoute)
		api.Put("/routes/{uuid}", h.renameRoute)
		api.Get("/routes/{uuid}/history", h.listHistory)
		api.Delete("/history/{id}", h.deleteHistory)
		api.Get("/custom-urls", h.listCustomURLs)
		api.Delete("/custom-urls", h.deleteCustomURLs)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r.Get("/*", h.Resolve)
	return r
}

// adminWebspace resolves {key} or writes a 404.  Control-plane failures are
// not misreported as unknown keys.
func (h *Handler) adminWebspace(w http.ResponseWriter, r *http.Request) *webspace.Webspace {
	key := chi.URLParam(r, "key")
	ws, err := h.cache.GetByKey(r.Context(), key)
	if errors.Is(err, webspace.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "unknown webspace " + key})
		return nil
	}
	if err != nil {
		serveError(w, err)
		return nil
	}
	return ws
}

//
// ── Routes ──────────────────────────────────────────────────────────────
//

type installRequest struct {
	ContentUUID uuid.UUID  `json:"contentUuid"`
	Title       string     `json:"title"`
	ParentUUID  *uuid.UUID `json:"parentUuid,omitempty"`
	ParentPath  string     `json:"parentPath,omitempty"`
	Locale      string     `json:"locale"`
}

// installRoute computes a unique RL for a freshly published node and
// installs it.  The parent may be given as a UUID (resolved to its active
// path) or as an explicit path; a UUID without an active RL is a conflict.
func (h *Handler) installRoute(w http.ResponseWriter, r *http.Request) {
	ws := h.adminWebspace(w, r)
	if ws == nil {
		return
	}

	var req installRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "malformed body: " + err.Error()})
		return
	}
	if req.ContentUUID == uuid.Nil || req.Title == "" || req.Locale == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "contentUuid, title, and locale are required"})
		return
	}

	parentPath := req.ParentPath
	if req.ParentUUID != nil {
		rec, err := ws.Routes.ActiveByContent(r.Context(), *req.ParentUUID, ws.Meta.Key, req.Locale)
		if err != nil {
			serveError(w, &locator.ParentRouteNotFoundError{
				Parent: *req.ParentUUID, WebspaceKey: ws.Meta.Key, Locale: req.Locale,
			})
			return
		}
		parentPath = rec.Path
	}

	path, err := ws.Strategy.Install(r.Context(), req.ContentUUID, req.Title, parentPath, ws.Meta.Key, req.Locale)
	if err != nil {
		serveError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, routeDescriptor{
		ContentUUID: req.ContentUUID.String(),
		Path:        path,
		Webspace:    ws.Meta.Key,
		Locale:      req.Locale,
	})
}

type renameRequest struct {
	Title  string `json:"title"`
	Locale string `json:"locale"`
}

// renameRoute recomputes the node's RL from a new title, archives the old
// path, and installs the new one.  The parent path is kept.
func (h *Handler) renameRoute(w http.ResponseWriter, r *http.Request) {
	ws := h.adminWebspace(w, r)
	if ws == nil {
		return
	}

	content, err := uuid.Parse(chi.URLParam(r, "uuid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "malformed uuid"})
		return
	}

	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "malformed body: " + err.Error()})
		return
	}
	if req.Title == "" || req.Locale == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "title and locale are required"})
		return
	}

	rec, err := ws.Routes.ActiveByContent(r.Context(), content, ws.Meta.Key, req.Locale)
	if err != nil {
		serveError(w, err)
		return
	}

	parentPath := gopath.Dir(rec.Path)
	if parentPath == "/" {
		parentPath = ""
	}

	newPath, err := ws.Strategy.Generate(r.Context(), req.Title, parentPath, ws.Meta.Key, req.Locale)
	if err != nil {
		serveError(w, err)
		return
	}
	if newPath == rec.Path {
		// Title change did not affect the slug; nothing to archive.
		writeJSON(w, http.StatusOK, routeDescriptor{
			ContentUUID: content.String(), Path: rec.Path,
			Webspace: ws.Meta.Key, Locale: req.Locale,
		})
		return
	}

	if err := ws.Routes.Move(r.Context(), content, rec.Path, newPath, ws.Meta.Key, req.Locale); err != nil {
		serveError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, routeDescriptor{
		ContentUUID: content.String(), Path: newPath,
		Webspace: ws.Meta.Key, Locale: req.Locale,
	})
}

//
// ── History ─────────────────────────────────────────────────────────────
//

func (h *Handler) listHistory(w http.ResponseWriter, r *http.Request) {
	ws := h.adminWebspace(w, r)
	if ws == nil {
		return
	}

	content, err := uuid.Parse(chi.URLParam(r, "uuid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "malformed uuid"})
		return
	}
	locale := r.URL.Query().Get("locale")
	if locale == "" {
		locale = ws.DefaultLocalization().LocaleCode()
	}

	entries, err := ws.Routes.ListHistory(r.Context(), content, ws.Meta.Key, locale)
	if err != nil {
		serveError(w, err)
		return
	}

	type historyItem struct {
		ID        uint64 `json:"id"`
		Path      string `json:"path"`
		CreatedAt string `json:"createdAt"`
	}
	items := make([]historyItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, historyItem{
			ID: e.ID, Path: e.Path, CreatedAt: e.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": items})
}

func (h *Handler) deleteHistory(w http.ResponseWriter, r *http.Request) {
	ws := h.adminWebspace(w, r)
	if ws == nil {
		return
	}

	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "malformed id"})
		return
	}
	if err := ws.Routes.DeleteHistory(r.Context(), id); err != nil {
		serveError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

//
// ── Custom URLs ─────────────────────────────────────────────────────────
//

// listCustomURLs pages through the lazy iterator.  Rows before the visible
// page are skipped without materialisation.
func (h *Handler) listCustomURLs(w http.ResponseWriter, r *http.Request) {
	ws := h.adminWebspace(w, r)
	if ws == nil {
		return
	}

	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 20
	}

	var (
		rows *customurl.Rows
		err  error
	)
	if raw := r.URL.Query().Get("baseDomains"); raw != "" {
		rows, err = ws.CustomURLs.FindByWebspaceAndBaseDomains(r.Context(), ws.Meta.Key, strings.Split(raw, ","))
	} else {
		rows, err = ws.CustomURLs.FindByWebspace(r.Context(), ws.Meta.Key)
	}
	if err != nil {
		serveError(w, err)
		return
	}
	defer rows.Close()

	rows.Skip((page - 1) * limit)

	items := make([]customurl.Route, 0, limit)
	for len(items) < limit && rows.Next() {
		items = append(items, rows.Route())
	}
	if err := rows.Err(); err != nil {
		serveError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"page":  page,
		"limit": limit,
		"items": items,
	})
}

func (h *Handler) deleteCustomURLs(w http.ResponseWriter, r *http.Request) {
	ws := h.adminWebspace(w, r)
	if ws == nil {
		return
	}

	raw := r.URL.Query().Get("ids")
	if raw == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "ids query parameter is required"})
		return
	}
	var ids []uint64
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "malformed id " + part})
			return
		}
		ids = append(ids, id)
	}

	if err := ws.CustomURLs.DeleteByIDs(r.Context(), ids); err != nil {
		serveError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
