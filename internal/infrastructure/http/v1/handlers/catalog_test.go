package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"tillbox/internal/core/apperror"
	appctx "tillbox/internal/core/context"
	"tillbox/internal/domain"
	"tillbox/internal/domain/catalogs/manufacturer"
	"tillbox/internal/domain/listing"
	"tillbox/internal/infrastructure/http/v1/middleware"
)

// Mock objects
type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memoryRepo struct {
	rows   map[int64]*manufacturer.Manufacturer
	nextID int64

	listCalls int
	lastQuery listing.Query
}

func newMemoryRepo(names ...string) *memoryRepo {
	repo := &memoryRepo{rows: make(map[int64]*manufacturer.Manufacturer)}
	for _, name := range names {
		m := manufacturer.NewManufacturer(name, "")
		repo.nextID++
		m.SetID(repo.nextID)
		repo.rows[m.ID] = m
	}
	return repo
}

func (r *memoryRepo) Create(ctx context.Context, m *manufacturer.Manufacturer) error {
	r.nextID++
	m.SetID(r.nextID)
	r.rows[m.ID] = m
	return nil
}

func (r *memoryRepo) GetByID(ctx context.Context, id int64) (*manufacturer.Manufacturer, error) {
	if m, ok := r.rows[id]; ok && !m.DeletionMark {
		return m, nil
	}
	return nil, apperror.NewNotFound("manufacturers", id)
}

func (r *memoryRepo) Update(ctx context.Context, m *manufacturer.Manufacturer) error {
	r.rows[m.ID] = m
	return nil
}

func (r *memoryRepo) SetDeletionMark(ctx context.Context, id int64, marked bool) error {
	if m, ok := r.rows[id]; ok {
		m.DeletionMark = marked
	}
	return nil
}

func (r *memoryRepo) List(ctx context.Context, q listing.Query) (listing.Result[*manufacturer.Manufacturer], error) {
	r.listCalls++
	r.lastQuery = q

	var rows []*manufacturer.Manufacturer
	for id := int64(1); id <= r.nextID; id++ {
		if m, ok := r.rows[id]; ok && !m.DeletionMark {
			rows = append(rows, m)
		}
	}
	return listing.Result[*manufacturer.Manufacturer]{Rows: rows, Total: int64(len(rows))}, nil
}

func (r *memoryRepo) Exists(ctx context.Context, id int64) (bool, error) {
	m, ok := r.rows[id]
	return ok && !m.DeletionMark, nil
}

// newCatalogRouter wires the manufacturer routes the way the real router
// does: error middleware first, then an authenticated user. An empty role
// leaves the request anonymous.
func newCatalogRouter(repo *memoryRepo, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	svc := domain.NewCatalogService(domain.CatalogServiceConfig[*manufacturer.Manufacturer]{
		Repo:       repo,
		TxManager:  passthroughTx{},
		EntityName: "manufacturer",
	})

	h := NewCatalogHandler(NewBaseHandler(), CatalogHandlerConfig[*manufacturer.Manufacturer]{
		Service: svc,
		Schema:  manufacturer.ListSchema,
		Name:    "manufacturer",
		Plural:  "manufacturers",
		New:     func() *manufacturer.Manufacturer { return &manufacturer.Manufacturer{} },
	})

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	if role != "" {
		r.Use(func(c *gin.Context) {
			ctx := appctx.WithUser(c.Request.Context(), &appctx.UserContext{UserID: 1, Role: role})
			c.Request = c.Request.WithContext(ctx)
		})
	}
	h.RegisterRoutes(r.Group("/manufacturers"))
	return r
}

// envelope covers both response shapes; absent keys stay zero.
type envelope struct {
	Success    bool                  `json:"success"`
	Message    string                `json:"message"`
	Code       string                `json:"code"`
	Data       json.RawMessage       `json:"data"`
	Errors     []apperror.FieldError `json:"errors"`
	Pagination *listing.Meta         `json:"pagination"`
}

func doRequest(t *testing.T, r *gin.Engine, method, target string, body any) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("invalid response body: %v\n%s", err, w.Body.String())
		}
	}
	return w.Code, env
}

func TestList_ParsesQueryAndPaginates(t *testing.T) {
	repo := newMemoryRepo("Acme Tools", "Birch & Co")
	r := newCatalogRouter(repo, "cashier")

	status, env := doRequest(t, r, http.MethodGet,
		"/manufacturers?search=acme&sort_by=created&sort_order=desc&limit=1", nil)

	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if !env.Success || env.Message != "manufacturers retrieved" {
		t.Errorf("unexpected envelope: success=%v message=%q", env.Success, env.Message)
	}

	q := repo.lastQuery
	if q.Search != "acme" || q.SortKey != "created" || q.Order != listing.OrderDesc || q.Limit != 1 {
		t.Errorf("query not passed through: %+v", q)
	}

	if env.Pagination == nil {
		t.Fatal("expected pagination on a list response")
	}
	want := listing.Meta{Page: 1, Limit: 1, Total: 2, TotalPages: 2, HasNext: true}
	if *env.Pagination != want {
		t.Errorf("pagination mismatch\nwant: %+v\ngot:  %+v", want, *env.Pagination)
	}
}

func TestList_InvalidQueryNeverReachesStorage(t *testing.T) {
	repo := newMemoryRepo("Acme Tools")
	r := newCatalogRouter(repo, "cashier")

	status, env := doRequest(t, r, http.MethodGet,
		"/manufacturers?sort_by=height&limit=0", nil)

	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if env.Success || env.Code != apperror.CodeValidation {
		t.Errorf("unexpected envelope: success=%v code=%q", env.Success, env.Code)
	}

	got := make(map[string]bool, len(env.Errors))
	for _, fe := range env.Errors {
		got[fe.Field] = true
	}
	if len(env.Errors) != 2 || !got["sort_by"] || !got["limit"] {
		t.Errorf("expected field errors for sort_by and limit, got %v", env.Errors)
	}

	if repo.listCalls != 0 {
		t.Error("invalid query must not reach the repository")
	}
}

func TestGet_NotFound(t *testing.T) {
	r := newCatalogRouter(newMemoryRepo(), "cashier")

	status, env := doRequest(t, r, http.MethodGet, "/manufacturers/42", nil)

	if status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
	if env.Code != apperror.CodeNotFound || env.Message != "manufacturer not found" {
		t.Errorf("unexpected envelope: code=%q message=%q", env.Code, env.Message)
	}
}

func TestGet_RejectsBadID(t *testing.T) {
	r := newCatalogRouter(newMemoryRepo("Acme Tools"), "cashier")

	for _, raw := range []string{"abc", "0", "-3", "1.5"} {
		status, env := doRequest(t, r, http.MethodGet, "/manufacturers/"+raw, nil)
		if status != http.StatusBadRequest {
			t.Errorf("id %q: expected 400, got %d", raw, status)
		}
		if env.Code != apperror.CodeValidation {
			t.Errorf("id %q: expected %s, got %q", raw, apperror.CodeValidation, env.Code)
		}
	}
}

func TestCreate_PersistsAndStamps(t *testing.T) {
	repo := newMemoryRepo()
	r := newCatalogRouter(repo, "admin")

	// A client-sent id must be ignored.
	status, env := doRequest(t, r, http.MethodPost, "/manufacturers",
		map[string]any{"name": "Acme Tools", "id": 99})

	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d", status)
	}
	if !env.Success || env.Message != "manufacturer created" {
		t.Errorf("unexpected envelope: success=%v message=%q", env.Success, env.Message)
	}

	var created manufacturer.Manufacturer
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if created.ID != 1 {
		t.Errorf("expected database-assigned id 1, got %d", created.ID)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps stamped on create")
	}
	if _, ok := repo.rows[1]; !ok {
		t.Error("entity not persisted")
	}
}

func TestCreate_ValidationFailure(t *testing.T) {
	repo := newMemoryRepo()
	r := newCatalogRouter(repo, "admin")

	status, env := doRequest(t, r, http.MethodPost, "/manufacturers",
		map[string]any{"description": "tools"})

	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if len(env.Errors) != 1 || env.Errors[0].Field != "name" {
		t.Errorf("expected a field error for name, got %v", env.Errors)
	}
	if len(repo.rows) != 0 {
		t.Error("invalid entity must not be persisted")
	}
}

func TestCreate_RoleEnforcement(t *testing.T) {
	body := map[string]any{"name": "Acme Tools"}

	status, env := doRequest(t, newCatalogRouter(newMemoryRepo(), "cashier"),
		http.MethodPost, "/manufacturers", body)
	if status != http.StatusForbidden || env.Code != apperror.CodeForbidden {
		t.Errorf("cashier: expected 403 %s, got %d %q", apperror.CodeForbidden, status, env.Code)
	}

	status, env = doRequest(t, newCatalogRouter(newMemoryRepo(), ""),
		http.MethodPost, "/manufacturers", body)
	if status != http.StatusUnauthorized || env.Code != apperror.CodeUnauthorized {
		t.Errorf("anonymous: expected 401 %s, got %d %q", apperror.CodeUnauthorized, status, env.Code)
	}
}

func TestUpdate_BindsOverStored(t *testing.T) {
	repo := newMemoryRepo()
	seeded := manufacturer.NewManufacturer("Acme Tools", "hand tools")
	repo.nextID++
	seeded.SetID(repo.nextID)
	repo.rows[seeded.ID] = seeded

	r := newCatalogRouter(repo, "admin")

	status, env := doRequest(t, r, http.MethodPut, "/manufacturers/1",
		map[string]any{"name": "Acme Ltd", "id": 777})

	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}

	var updated manufacturer.Manufacturer
	if err := json.Unmarshal(env.Data, &updated); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if updated.ID != 1 {
		t.Errorf("path id must win over the body, got %d", updated.ID)
	}
	if updated.Name != "Acme Ltd" {
		t.Errorf("expected updated name, got %q", updated.Name)
	}
	if updated.Description != "hand tools" {
		t.Errorf("omitted fields must keep their values, got %q", updated.Description)
	}
}

func TestUpdate_IgnoresDeletionMarkInBody(t *testing.T) {
	repo := newMemoryRepo("Acme Tools")
	r := newCatalogRouter(repo, "admin")

	// A PUT carrying deletionMark must not soft-delete the row.
	status, _ := doRequest(t, r, http.MethodPut, "/manufacturers/1",
		map[string]any{"name": "Acme Ltd", "deletionMark": true})

	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if repo.rows[1].DeletionMark {
		t.Error("deletion mark must only change through the delete endpoint")
	}
	if repo.rows[1].Name != "Acme Ltd" {
		t.Errorf("expected updated name, got %q", repo.rows[1].Name)
	}
}

func TestCreate_IgnoresDeletionMarkInBody(t *testing.T) {
	repo := newMemoryRepo()
	r := newCatalogRouter(repo, "admin")

	status, _ := doRequest(t, r, http.MethodPost, "/manufacturers",
		map[string]any{"name": "Acme Tools", "deletionMark": true})

	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d", status)
	}
	if repo.rows[1].DeletionMark {
		t.Error("a new entity must not be born deleted")
	}
}

func TestDelete_SoftDeletes(t *testing.T) {
	repo := newMemoryRepo("Acme Tools")
	r := newCatalogRouter(repo, "admin")

	status, env := doRequest(t, r, http.MethodDelete, "/manufacturers/1", nil)

	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if !env.Success || env.Message != "manufacturer deleted" {
		t.Errorf("unexpected envelope: success=%v message=%q", env.Success, env.Message)
	}
	if !repo.rows[1].DeletionMark {
		t.Error("expected the deletion mark set, not a removed row")
	}

	status, _ = doRequest(t, r, http.MethodGet, "/manufacturers/1", nil)
	if status != http.StatusNotFound {
		t.Errorf("deleted entity must read as absent, got %d", status)
	}
}
