// internal/locator/model.go
//
// Resource-locator records and error taxonomy.
//
// Context
// -------
// An active resource locator (RL) is the canonical slash-joined path of one
// content node within a (webspace, locale) partition; the `route` table
// enforces its uniqueness with a UNIQUE key over (path, webspace_key,
// locale).  Every superseded path is archived into `route_history` and never
// mutated afterwards — history rows only disappear through explicit
// administrative purge or a cascading delete of the owning node.

package locator

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrRouteNotFound signals a path with no active or historical match.  This
// is normal traffic (arbitrary inbound 404 candidates), not a failure.
var ErrRouteNotFound = errors.New("locator: route not found")

// ErrPathTaken is returned when the storage-layer uniqueness constraint
// rejects an insert or update.  The strategy treats it as retryable.
var ErrPathTaken = errors.New("locator: path already taken")

// ParentRouteNotFoundError reports an ancestor without a resolvable active
// RL.  Fatal to the single generate call; never retried internally.
type ParentRouteNotFoundError struct {
	Parent      uuid.UUID
	WebspaceKey string
	Locale      string
}

func (e *ParentRouteNotFoundError) Error() string {
	return fmt.Sprintf("locator: no active route for parent %s in %s/%s",
		e.Parent, e.WebspaceKey, e.Locale)
}

// Record mirrors one row in the persistent `route` table.
type Record struct {
	ID          uint64    `db:"id"`
	Path        string    `db:"path"`
	ContentUUID uuid.UUID `db:"content_uuid"`
	WebspaceKey string    `db:"webspace_key"`
	Locale      string    `db:"locale"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// HistoryEntry mirrors one row in `route_history`.
type HistoryEntry struct {
	ID          uint64    `db:"id"`
	Path        string    `db:"path"`
	ContentUUID uuid.UUID `db:"content_uuid"`
	WebspaceKey string    `db:"webspace_key"`
	Locale      string    `db:"locale"`
	CreatedAt   time.Time `db:"created_at"`
}

// Match is the outcome of a path lookup.  Historical is true when the hit
// came from route_history; Path then carries the node's CURRENT active path
// so the HTTP layer can issue a permanent redirect.
type Match struct {
	ContentUUID uuid.UUID
	Path        string
	Historical  bool
}
