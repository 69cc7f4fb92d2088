// internal/customurl/model.go
//
// Custom-URL route records.
//
// Context
// -------
// A custom URL maps a wildcard domain pattern ("*.lumen.io/test/*") plus an
// ordered list of domain parts onto one target content node, independent of
// the canonical resource-locator tree.  The route does not own the target:
// `target_uuid` is a weak back-reference and may dangle after the target is
// deleted (the admin list keeps orphaned routes visible for cleanup).
//
// Notes
// -----
// • `domain_parts` is stored as a serialized JSON array of strings.
// • `locale` is nullable; routes without one inherit a request-time default.
// • Oxford commas, two spaces after periods.

package customurl

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Record mirrors one row in the persistent `custom_url` table.
type Record struct {
	ID          uint64     `db:"id"`
	WebspaceKey string     `db:"webspace_key"`
	BaseDomain  string     `db:"base_domain"`
	DomainParts string     `db:"domain_parts"` // JSON array of strings
	TargetUUID  *uuid.UUID `db:"target_uuid"`
	Locale      *string    `db:"locale"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

// Parts decodes the JSON domain-part list.  A NULL or empty column yields an
// empty slice rather than an error.
func (r *Record) Parts() ([]string, error) {
	if r.DomainParts == "" {
		return nil, nil
	}
	var parts []string
	if err := json.Unmarshal([]byte(r.DomainParts), &parts); err != nil {
		return nil, err
	}
	return parts, nil
}

// Route is the materialised descriptor handed to callers: the raw record
// enriched with the generated URL and the resolved target title.  TargetTitle
// is nil when the target no longer exists.
type Route struct {
	ID          uint64     `json:"id"`
	WebspaceKey string     `json:"webspaceKey"`
	BaseDomain  string     `json:"baseDomain"`
	DomainParts []string   `json:"domainParts"`
	TargetUUID  *uuid.UUID `json:"targetUuid,omitempty"`
	TargetTitle *string    `json:"targetTitle,omitempty"`
	Locale      *string    `json:"locale,omitempty"`
	CustomURL   string     `json:"customUrl"`
	CreatedAt   time.Time  `json:"createdAt"`
}
