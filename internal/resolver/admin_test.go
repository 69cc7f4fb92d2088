// internal/resolver/admin_test.go
//
// Unit-tests for the admin API, exercised through the full chi router so
// URL-parameter extraction is part of the test.
//
// Run: go test ./internal/resolver -v

package resolver

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
)

func TestAdmin_InstallRoute(t *testing.T) {
	ws, mock := newWebspace(t)
	content := uuid.New()

	mock.ExpectQuery(`SELECT 1 FROM route`).
		WithArgs("/products/machines", "demo", "en").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectExec(`INSERT INTO route`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	body := `{"contentUuid":"` + content.String() + `","title":"Machines","parentPath":"/products","locale":"en"}`
	req := httptest.NewRequest(http.MethodPost, "/api/webspaces/demo/routes", strings.NewReader(body))
	rr := httptest.NewRecorder()

	NewHandler(&fakeSource{ws: ws}).Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", rr.Code, rr.Body.String())
	}
	var desc routeDescriptor
	if err := json.Unmarshal(rr.Body.Bytes(), &desc); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if desc.Path != "/products/machines" {
		t.Fatalf("Path = %q, want /products/machines", desc.Path)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAdmin_InstallRoute_SuffixOnCollision(t *testing.T) {
	ws, mock := newWebspace(t)
	content := uuid.New()

	mock.ExpectQuery(`SELECT 1 FROM route`).
		WithArgs("/products/machines", "demo", "en").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery(`SELECT 1 FROM route`).
		WithArgs("/products/machines-1", "demo", "en").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectExec(`INSERT INTO route`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	body := `{"contentUuid":"` + content.String() + `","title":"Machines","parentPath":"/products","locale":"en"}`
	req := httptest.NewRequest(http.MethodPost, "/api/webspaces/demo/routes", strings.NewReader(body))
	rr := httptest.NewRecorder()

	NewHandler(&fakeSource{ws: ws}).Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", rr.Code, rr.Body.String())
	}
	var desc routeDescriptor
	if err := json.Unmarshal(rr.Body.Bytes(), &desc); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if desc.Path != "/products/machines-1" {
		t.Fatalf("Path = %q, want /products/machines-1", desc.Path)
	}
}

func TestAdmin_InstallRoute_ParentWithoutLocator(t *testing.T) {
	ws, mock := newWebspace(t)
	content, parent := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT id, path, content_uuid`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	body := `{"contentUuid":"` + content.String() + `","title":"Machines","parentUuid":"` + parent.String() + `","locale":"en"}`
	req := httptest.NewRequest(http.MethodPost, "/api/webspaces/demo/routes", strings.NewReader(body))
	rr := httptest.NewRecorder()

	NewHandler(&fakeSource{ws: ws}).Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409 (body %s)", rr.Code, rr.Body.String())
	}
}

func TestAdmin_RenameRoute(t *testing.T) {
	ws, mock := newWebspace(t)
	content := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT id, path, content_uuid`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "path", "content_uuid", "webspace_key", "locale", "created_at", "updated_at"}).
			AddRow(7, "/products/machines", content.String(), "demo", "en", now, now))
	mock.ExpectQuery(`SELECT 1 FROM route`).
		WithArgs("/products/heavy-machines", "demo", "en").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO route_history`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`UPDATE route`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	body := `{"title":"Heavy Machines","locale":"en"}`
	req := httptest.NewRequest(http.MethodPut, "/api/webspaces/demo/routes/"+content.String(), strings.NewReader(body))
	rr := httptest.NewRecorder()

	NewHandler(&fakeSource{ws: ws}).Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rr.Code, rr.Body.String())
	}
	var desc routeDescriptor
	if err := json.Unmarshal(rr.Body.Bytes(), &desc); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if desc.Path != "/products/heavy-machines" {
		t.Fatalf("Path = %q, want /products/heavy-machines", desc.Path)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAdmin_RenameRoute_UnknownNode(t *testing.T) {
	ws, mock := newWebspace(t)
	content := uuid.New()

	mock.ExpectQuery(`SELECT id, path, content_uuid`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	body := `{"title":"Heavy Machines","locale":"en"}`
	req := httptest.NewRequest(http.MethodPut, "/api/webspaces/demo/routes/"+content.String(), strings.NewReader(body))
	rr := httptest.NewRecorder()

	NewHandler(&fakeSource{ws: ws}).Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 (body %s)", rr.Code, rr.Body.String())
	}
}

func TestAdmin_ListHistory(t *testing.T) {
	ws, mock := newWebspace(t)
	content := uuid.New()
	created := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM\s+route_history`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "path", "content_uuid", "webspace_key", "locale", "created_at"}).
			AddRow(4, "/products/machines", content.String(), "demo", "en", created).
			AddRow(2, "/machines", content.String(), "demo", "en", created.Add(-time.Hour)))

	req := httptest.NewRequest(http.MethodGet, "/api/webspaces/demo/routes/"+content.String()+"/history", nil)
	rr := httptest.NewRecorder()

	NewHandler(&fakeSource{ws: ws}).Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rr.Code, rr.Body.String())
	}
	var body struct {
		History []struct {
			ID        uint64 `json:"id"`
			Path      string `json:"path"`
			CreatedAt string `json:"createdAt"`
		} `json:"history"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.History) != 2 || body.History[0].Path != "/products/machines" {
		t.Fatalf("unexpected history: %+v", body.History)
	}
	if body.History[0].CreatedAt != "2025-03-01T09:30:00Z" {
		t.Fatalf("CreatedAt = %q", body.History[0].CreatedAt)
	}
}

func TestAdmin_DeleteHistory(t *testing.T) {
	ws, mock := newWebspace(t)

	mock.ExpectExec(`DELETE FROM route_history`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest(http.MethodDelete, "/api/webspaces/demo/history/5", nil)
	rr := httptest.NewRecorder()

	NewHandler(&fakeSource{ws: ws}).Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204 (body %s)", rr.Code, rr.Body.String())
	}
}

func TestAdmin_ListCustomURLs_Pagination(t *testing.T) {
	ws, mock := newWebspace(t)
	target := uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "webspace_key", "base_domain", "domain_parts",
		"target_uuid", "locale", "created_at", "updated_at"})
	for i, part := range []string{"one", "two", "three"} {
		rows.AddRow(i+1, "demo", "*.demo.example", `["`+part+`"]`, target.String(), nil, now, now)
	}

	mock.ExpectQuery(`SELECT uuid, title\s+FROM\s+content`).
		WillReturnRows(sqlmock.NewRows([]string{"uuid", "title"}).AddRow(target.String(), "Landing"))
	mock.ExpectQuery(`FROM\s+custom_url\s+WHERE\s+webspace_key = \?`).
		WillReturnRows(rows)

	req := httptest.NewRequest(http.MethodGet, "/api/webspaces/demo/custom-urls?page=2&limit=1", nil)
	rr := httptest.NewRecorder()

	NewHandler(&fakeSource{ws: ws}).Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rr.Code, rr.Body.String())
	}
	var body struct {
		Page  int `json:"page"`
		Limit int `json:"limit"`
		Items []struct {
			ID        uint64 `json:"id"`
			CustomURL string `json:"customUrl"`
		} `json:"items"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(body.Items))
	}
	if body.Items[0].ID != 2 || body.Items[0].CustomURL != "two.demo.example" {
		t.Fatalf("unexpected page item: %+v", body.Items[0])
	}
}

func TestAdmin_DeleteCustomURLs(t *testing.T) {
	ws, mock := newWebspace(t)

	mock.ExpectExec(`DELETE FROM custom_url`).
		WillReturnResult(sqlmock.NewResult(0, 2))

	req := httptest.NewRequest(http.MethodDelete, "/api/webspaces/demo/custom-urls?ids=1,2", nil)
	rr := httptest.NewRecorder()

	NewHandler(&fakeSource{ws: ws}).Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204 (body %s)", rr.Code, rr.Body.String())
	}
}

// A control-plane failure during key resolution is a server error, not an
// unknown-webspace 404.
func TestAdmin_ControlPlaneError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/webspaces/demo/custom-urls", nil)
	rr := httptest.NewRecorder()

	NewHandler(failingSource{err: errors.New("control plane down")}).Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 (body %s)", rr.Code, rr.Body.String())
	}
}

func TestAdmin_DeleteCustomURLs_MalformedIDs(t *testing.T) {
	ws, _ := newWebspace(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/webspaces/demo/custom-urls?ids=1,abc", nil)
	rr := httptest.NewRecorder()

	NewHandler(&fakeSource{ws: ws}).Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (body %s)", rr.Code, rr.Body.String())
	}
}
