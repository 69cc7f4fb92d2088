package resolver

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/yanizio/locus/internal/customurl"
	"github.com/yanizio/locus/internal/locator"
)

// writeJSON encodes v with the given status.  Encoding failures are logged;
// headers are already gone at that point.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.S().Errorw("json encode failed", "err", err)
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// serveError maps the routing-core error taxonomy onto HTTP statuses:
//
//	ErrRouteNotFound            → 404 (ordinary miss)
//	ParentRouteNotFoundError    → 409 (ancestor unpublished)
//	MissingDomainPartError      → 422 (caller must fix input)
//	ErrPathTaken                → 409 (lost the uniqueness race)
//	anything else               → 500
func serveError(w http.ResponseWriter, err error) {
	var (
		parentErr  *locator.ParentRouteNotFoundError
		missingErr *customurl.MissingDomainPartError
	)
	switch {
	case errors.Is(err, locator.ErrRouteNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.As(err, &parentErr), errors.Is(err, locator.ErrPathTaken):
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	case errors.As(err, &missingErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error()})
	default:
		zap.S().Errorw("request failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}
