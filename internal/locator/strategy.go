// internal/locator/strategy.go
//
// Resource-locator generation strategy.
//
// Context
// -------
// Given a title and the parent's already-resolved path, the strategy slugs
// the title, joins it below the parent, and disambiguates collisions with a
// numeric suffix ("-1", "-2", …) until the path is free among active
// locators of the (webspace, locale) partition.  The suffix loop is capped;
// the storage UNIQUE constraint stays the final arbiter for the
// check-then-act race under concurrent sibling creation, and a constraint
// violation at install time simply re-enters the loop a bounded number of
// times.
//
// The strategy holds no state of its own — it is a pure function of its
// inputs plus Store lookups.
//
// Notes
// -----
// • Store is a narrow interface so tests can fake it without sqlmock.
// • Oxford commas, two spaces after periods.

package locator

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/yanizio/locus/internal/metrics"
)

// DefaultMaxSuffix caps the disambiguation loop.  Overridable via config.
const DefaultMaxSuffix = 100

// installRetries bounds re-generation after a storage-level duplicate-key
// race before the error is surfaced as fatal.
const installRetries = 3

// Store is the slice of the repository the strategy needs.
type Store interface {
	IsUnique(ctx context.Context, path, webspaceKey, locale string) (bool, error)
	ActiveByContent(ctx context.Context, content uuid.UUID, webspaceKey, locale string) (*Record, error)
	FindByPath(ctx context.Context, path, webspaceKey, locale string) (*Match, error)
	Create(ctx context.Context, path string, content uuid.UUID, webspaceKey, locale string) error
}

// Strategy computes webspace-unique resource locators.  Construct with
// NewStrategy; the zero value is unusable.
type Strategy struct {
	store     Store
	maxSuffix int
}

// NewStrategy returns a Strategy bound to store.  maxSuffix < 1 falls back
// to DefaultMaxSuffix.
func NewStrategy(store Store, maxSuffix int) *Strategy {
	if maxSuffix < 1 {
		maxSuffix = DefaultMaxSuffix
	}
	return &Strategy{store: store, maxSuffix: maxSuffix}
}

// Generate computes a unique locator for title below parentPath.  parentPath
// is the ancestor's resolved path, or "" for a webspace root child.
func (s *Strategy) Generate(ctx context.Context, title, parentPath, webspaceKey, locale string) (string, error) {
	slug := Slugify(title)
	if slug == "" {
		return "", fmt.Errorf("locator: title %q yields an empty slug", title)
	}

	base := JoinPath(parentPath, slug)

	candidate := base
	for i := 0; i <= s.maxSuffix; i++ {
		if i > 0 {
			candidate = base + "-" + strconv.Itoa(i)
		}
		unique, err := s.store.IsUnique(ctx, candidate, webspaceKey, locale)
		if err != nil {
			return "", err
		}
		if unique {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("locator: no free path for %q after %d attempts", base, s.maxSuffix+1)
}

// GenerateForParent resolves the parent's active locator first.  A parent
// without one is fatal to this call: ParentRouteNotFoundError.
func (s *Strategy) GenerateForParent(ctx context.Context, title string, parent uuid.UUID, webspaceKey, locale string) (string, error) {
	rec, err := s.store.ActiveByContent(ctx, parent, webspaceKey, locale)
	if errors.Is(err, ErrRouteNotFound) {
		return "", &ParentRouteNotFoundError{Parent: parent, WebspaceKey: webspaceKey, Locale: locale}
	}
	if err != nil {
		return "", err
	}
	return s.Generate(ctx, title, rec.Path, webspaceKey, locale)
}

// Install generates a unique locator and creates it for content.  When a
// concurrent sibling wins the race and the storage constraint rejects the
// insert, the loop re-generates with fresh uniqueness data, bounded by
// installRetries.
func (s *Strategy) Install(ctx context.Context, content uuid.UUID, title, parentPath, webspaceKey, locale string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < installRetries; attempt++ {
		path, err := s.Generate(ctx, title, parentPath, webspaceKey, locale)
		if err != nil {
			return "", err
		}
		err = s.store.Create(ctx, path, content, webspaceKey, locale)
		if err == nil {
			return path, nil
		}
		if !errors.Is(err, ErrPathTaken) {
			return "", err
		}
		metrics.RouteConflictTotal.Inc()
		lastErr = err
	}
	return "", fmt.Errorf("locator: install kept colliding: %w", lastErr)
}

// LoadByResourceLocator resolves path → owning content node, including
// historical paths.  ErrRouteNotFound passes through untouched.
func (s *Strategy) LoadByResourceLocator(ctx context.Context, path, webspaceKey, locale string) (uuid.UUID, error) {
	match, err := s.store.FindByPath(ctx, path, webspaceKey, locale)
	if err != nil {
		return uuid.Nil, err
	}
	return match.ContentUUID, nil
}

// IsUnique reports whether path is free among active locators.
func (s *Strategy) IsUnique(ctx context.Context, path, webspaceKey, locale string) (bool, error) {
	return s.store.IsUnique(ctx, path, webspaceKey, locale)
}
