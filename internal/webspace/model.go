package webspace

import (
	"strings"
	"time"
)

// Record mirrors one row in the persistent `webspace` table.  The
// operational state is captured by two nullable timestamps:
//
//   - SuspendedAt – webspace is temporarily disabled (e.g., billing).
//   - DeletedAt   – webspace is permanently removed.
//
// Either timestamp being non-NULL prevents the lazy-loader from serving the
// webspace.
type Record struct {
	ID          uint64     `db:"id"`
	Key         string     `db:"webspace_key"`
	Host        string     `db:"host"`
	Name        string     `db:"name"`
	Locales     string     `db:"locales"`      // comma-separated locale codes
	BaseDomains string     `db:"base_domains"` // comma-separated wildcard patterns
	DSN         string     `db:"dsn"`
	SuspendedAt *time.Time `db:"suspended_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

// BaseDomainList splits the base_domains column into individual wildcard
// patterns, skipping empty entries.
func (r *Record) BaseDomainList() []string {
	var out []string
	for _, raw := range strings.Split(r.BaseDomains, ",") {
		raw = strings.TrimSpace(raw)
		if raw != "" {
			out = append(out, raw)
		}
	}
	return out
}
