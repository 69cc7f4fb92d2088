// internal/locator/strategy_test.go
//
// Unit-tests for the generation strategy.
//
// fakeStore ── in-memory Store so the suffix loop, parent resolution, and
// install-race retry can be exercised without sqlmock.
//
// Run: go test ./internal/locator -v

package locator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

type fakeStore struct {
	active      map[string]uuid.UUID // path → content (per fixed webspace/locale)
	byUUID      map[uuid.UUID]string // content → active path
	failures    int                  // Create calls to reject with ErrPathTaken
	uniqueCalls int                  // IsUnique invocations, for loop-bound checks
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		active: map[string]uuid.UUID{},
		byUUID: map[uuid.UUID]string{},
	}
}

func (f *fakeStore) IsUnique(_ context.Context, path, _, _ string) (bool, error) {
	f.uniqueCalls++
	_, taken := f.active[path]
	return !taken, nil
}

func (f *fakeStore) ActiveByContent(_ context.Context, content uuid.UUID, _, _ string) (*Record, error) {
	path, ok := f.byUUID[content]
	if !ok {
		return nil, ErrRouteNotFound
	}
	return &Record{Path: path, ContentUUID: content}, nil
}

func (f *fakeStore) FindByPath(_ context.Context, path, _, _ string) (*Match, error) {
	content, ok := f.active[path]
	if !ok {
		return nil, ErrRouteNotFound
	}
	return &Match{ContentUUID: content, Path: path}, nil
}

func (f *fakeStore) Create(_ context.Context, path string, content uuid.UUID, _, _ string) error {
	if f.failures > 0 {
		f.failures--
		return ErrPathTaken
	}
	if _, taken := f.active[path]; taken {
		return ErrPathTaken
	}
	f.active[path] = content
	f.byUUID[content] = path
	return nil
}

func (f *fakeStore) add(path string, content uuid.UUID) {
	f.active[path] = content
	f.byUUID[content] = path
}

func TestGenerate_Simple(t *testing.T) {
	s := NewStrategy(newFakeStore(), 0)

	got, err := s.Generate(context.Background(), "Widget A", "/products", "demo", "en")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if got != "/products/widget-a" {
		t.Fatalf("Generate = %q, want %q", got, "/products/widget-a")
	}
}

// Renaming into a collision yields -1; a second collision yields -2.
func TestGenerate_SuffixMonotonic(t *testing.T) {
	store := newFakeStore()
	store.add("/widget-a", uuid.New())
	s := NewStrategy(store, 0)

	got, err := s.Generate(context.Background(), "Widget A", "", "demo", "en")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if got != "/widget-a-1" {
		t.Fatalf("first collision = %q, want /widget-a-1", got)
	}

	store.add(got, uuid.New())
	got, err = s.Generate(context.Background(), "Widget A", "", "demo", "en")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if got != "/widget-a-2" {
		t.Fatalf("second collision = %q, want /widget-a-2", got)
	}
}

// Exhaustion tries the base plus every suffix up to the cap, and the error
// reports that exact attempt count.
func TestGenerate_SuffixCap(t *testing.T) {
	store := newFakeStore()
	store.add("/a", uuid.New())
	store.add("/a-1", uuid.New())
	store.add("/a-2", uuid.New())
	s := NewStrategy(store, 2)

	_, err := s.Generate(context.Background(), "A", "", "demo", "en")
	if err == nil {
		t.Fatal("expected exhaustion error, got nil")
	}
	if store.uniqueCalls != 3 {
		t.Fatalf("uniqueness checks = %d, want 3 (base, -1, -2)", store.uniqueCalls)
	}
	if !strings.Contains(err.Error(), "after 3 attempts") {
		t.Fatalf("error = %q, want attempt count 3", err)
	}
}

func TestGenerate_EmptySlugRejected(t *testing.T) {
	s := NewStrategy(newFakeStore(), 0)
	if _, err := s.Generate(context.Background(), "!!!", "", "demo", "en"); err == nil {
		t.Fatal("expected error for empty slug, got nil")
	}
}

func TestGenerateForParent_MissingParent(t *testing.T) {
	s := NewStrategy(newFakeStore(), 0)

	_, err := s.GenerateForParent(context.Background(), "Child", uuid.New(), "demo", "en")
	var parentErr *ParentRouteNotFoundError
	if !errors.As(err, &parentErr) {
		t.Fatalf("error = %v (%T), want *ParentRouteNotFoundError", err, err)
	}
}

func TestGenerateForParent_ResolvesParentPath(t *testing.T) {
	store := newFakeStore()
	parent := uuid.New()
	store.add("/products", parent)
	s := NewStrategy(store, 0)

	got, err := s.GenerateForParent(context.Background(), "Widget A", parent, "demo", "en")
	if err != nil {
		t.Fatalf("GenerateForParent error: %v", err)
	}
	if got != "/products/widget-a" {
		t.Fatalf("GenerateForParent = %q, want /products/widget-a", got)
	}
}

// A duplicate-key race at install time re-enters the loop instead of failing.
func TestInstall_RetriesOnDuplicateRace(t *testing.T) {
	store := newFakeStore()
	store.failures = 1
	s := NewStrategy(store, 0)

	content := uuid.New()
	got, err := s.Install(context.Background(), content, "Widget A", "", "demo", "en")
	if err != nil {
		t.Fatalf("Install error: %v", err)
	}
	if got != "/widget-a" {
		t.Fatalf("Install = %q, want /widget-a", got)
	}
	if store.byUUID[content] != "/widget-a" {
		t.Fatalf("active path not recorded: %q", store.byUUID[content])
	}
}

func TestInstall_GivesUpAfterBoundedRetries(t *testing.T) {
	store := newFakeStore()
	store.failures = installRetries
	s := NewStrategy(store, 0)

	if _, err := s.Install(context.Background(), uuid.New(), "Widget A", "", "demo", "en"); err == nil {
		t.Fatal("expected error after exhausted retries, got nil")
	}
}

func TestLoadByResourceLocator(t *testing.T) {
	store := newFakeStore()
	content := uuid.New()
	store.add("/products", content)
	s := NewStrategy(store, 0)

	got, err := s.LoadByResourceLocator(context.Background(), "/products", "demo", "en")
	if err != nil {
		t.Fatalf("LoadByResourceLocator error: %v", err)
	}
	if got != content {
		t.Fatalf("uuid = %s, want %s", got, content)
	}

	if _, err := s.LoadByResourceLocator(context.Background(), "/missing", "demo", "en"); !errors.Is(err, ErrRouteNotFound) {
		t.Fatalf("error = %v, want ErrRouteNotFound", err)
	}
}
