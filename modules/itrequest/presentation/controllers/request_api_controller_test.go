package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mexilacteos/itdesk/modules/directory/domain/entities/employee"
	"github.com/mexilacteos/itdesk/modules/itrequest/domain/aggregates/request"
	"github.com/mexilacteos/itdesk/modules/itrequest/services"
	"github.com/mexilacteos/itdesk/pkg/application"
	"github.com/mexilacteos/itdesk/pkg/composables"
	"github.com/mexilacteos/itdesk/pkg/configuration"
	"github.com/mexilacteos/itdesk/pkg/eventbus"
)

var actorID = uuid.MustParse("11111111-1111-1111-1111-111111111111")

type nopTx struct {
	pgx.Tx
}

type stubRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]request.Request
}

func newStubRepo() *stubRepo {
	return &stubRepo{items: map[uuid.UUID]request.Request{}}
}

func (s *stubRepo) GetPaginated(_ context.Context, params *request.FindParams) ([]request.Request, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []request.Request
	for _, r := range s.items {
		if params.State != "" && r.State != params.State {
			continue
		}
		out = append(out, r)
	}
	return out, int64(len(out)), nil
}

func (s *stubRepo) GetByID(_ context.Context, id uuid.UUID) (request.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.items[id]
	if !ok {
		return request.Request{}, request.ErrNotFound
	}
	return r, nil
}

func (s *stubRepo) GetByFolio(_ context.Context, folio string) (request.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.items {
		if r.Folio == folio {
			return r, nil
		}
	}
	return request.Request{}, request.ErrNotFound
}

func (s *stubRepo) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.items)), nil
}

func (s *stubRepo) Create(_ context.Context, r request.Request) (request.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = uuid.New()
	r.Version = 1
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	s.items[r.ID] = r
	return r, nil
}

func (s *stubRepo) Update(_ context.Context, r request.Request) (request.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.items[r.ID]
	if !ok {
		return request.Request{}, request.ErrNotFound
	}
	if stored.Version != r.Version {
		return request.Request{}, request.ErrStaleVersion
	}
	r.Version++
	s.items[r.ID] = r
	return r, nil
}

type stubSequence struct {
	counter int
}

func (s *stubSequence) Next(context.Context, string) (string, error) {
	s.counter++
	return fmt.Sprintf("ITR/%05d", s.counter), nil
}

type stubDirectory struct{}

func (stubDirectory) EmployeeByID(context.Context, uuid.UUID) (employee.Employee, error) {
	return employee.Employee{}, employee.ErrNotFound
}

func (stubDirectory) EmployeeByUserID(context.Context, uuid.UUID) (employee.Employee, error) {
	return employee.Employee{}, employee.ErrNotFound
}

func (stubDirectory) SupportAgents(context.Context) ([]uuid.UUID, error) {
	return nil, nil
}

func newTestRouter(t *testing.T) (*mux.Router, *stubRepo) {
	t.Helper()
	logger := configuration.Use().Logger()
	repo := newStubRepo()
	app := application.New(&application.ApplicationOptions{
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})
	app.RegisterServices(services.NewRequestService(
		repo, &stubSequence{}, stubDirectory{}, app.EventPublisher(), "it.request",
	))

	router := mux.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(composables.WithTx(r.Context(), nopTx{})))
		})
	})
	NewRequestAPIController(app).Register(router)
	return router, repo
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("X-Actor-ID", actorID.String())
	req.Header.Set("X-Actor-Name", "Dana Ruiz")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func createBody() map[string]any {
	return map[string]any{
		"request_type": "asset",
		"employee_id":  "22222222-2222-2222-2222-222222222222",
		"description":  "New laptop for onboarding",
		"asset": map[string]any{
			"category": "laptop",
			"quantity": 1,
			"reason":   "new_hire",
		},
	}
}

func decodeRequest(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestRequestAPI_CreateAndGet(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/it/api/requests", createBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	created := decodeRequest(t, rec)
	assert.Equal(t, "ITR/00001", created["folio"])
	assert.Equal(t, "draft", created["state"])
	assert.Equal(t, "medium", created["priority"])
	assert.Equal(t, "elevated", created["urgency"])

	rec = doJSON(t, router, http.MethodGet, "/it/api/requests/"+created["id"].(string), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/it/api/requests/folio/ITR/00001", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestAPI_RequiresActorHeader(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/it/api/requests", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequestAPI_LifecycleOverHTTP(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/it/api/requests", createBody())
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decodeRequest(t, rec)["id"].(string)

	rec = doJSON(t, router, http.MethodPost, "/it/api/requests/"+id+":submit", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "submitted", decodeRequest(t, rec)["state"])

	rec = doJSON(t, router, http.MethodPost, "/it/api/requests/"+id+":approve", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "approved", decodeRequest(t, rec)["state"])

	agent := uuid.New().String()
	rec = doJSON(t, router, http.MethodPatch, "/it/api/requests/"+id, map[string]any{"assigned_agent": agent})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/it/api/requests/"+id+":start", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "in_progress", decodeRequest(t, rec)["state"])

	rec = doJSON(t, router, http.MethodPost, "/it/api/requests/"+id+":complete", map[string]any{"resolution": "Delivered"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeRequest(t, rec)
	assert.Equal(t, "done", body["state"])
	assert.Equal(t, "Delivered", body["resolution"])
}

func TestRequestAPI_ErrorMapping(t *testing.T) {
	router, _ := newTestRouter(t)

	// Unknown id.
	rec := doJSON(t, router, http.MethodGet, "/it/api/requests/"+uuid.New().String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Malformed id.
	rec = doJSON(t, router, http.MethodGet, "/it/api/requests/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Invalid payload.
	rec = doJSON(t, router, http.MethodPost, "/it/api/requests", map[string]any{"request_type": "hardware"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Approve from draft is a conflict.
	rec = doJSON(t, router, http.MethodPost, "/it/api/requests", createBody())
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decodeRequest(t, rec)["id"].(string)

	rec = doJSON(t, router, http.MethodPost, "/it/api/requests/"+id+":approve", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	var payload apiError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, request.CodeIllegalTransition, payload.Code)
}

func TestRequestAPI_ValidationFailureIsUnprocessable(t *testing.T) {
	router, _ := newTestRouter(t)

	body := createBody()
	body["asset"].(map[string]any)["quantity"] = 0
	rec := doJSON(t, router, http.MethodPost, "/it/api/requests", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decodeRequest(t, rec)["id"].(string)

	rec = doJSON(t, router, http.MethodPost, "/it/api/requests/"+id+":submit", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var payload apiError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, request.CodeValidationFailed, payload.Code)
}

func TestRequestAPI_ListFilters(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/it/api/requests", createBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/it/api/requests?state=draft", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	// The items carry a polymorphic details payload, so decode loosely.
	var list struct {
		Items []map[string]any `json:"items"`
		Total int64            `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, int64(1), list.Total)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "draft", list.Items[0]["state"])

	rec = doJSON(t, router, http.MethodGet, "/it/api/requests?state=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWriteDomainError_StaleVersion(t *testing.T) {
	rec := httptest.NewRecorder()
	writeDomainError(rec, request.ErrStaleVersion)

	assert.Equal(t, http.StatusConflict, rec.Code)
	var payload apiError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "REQUEST_STALE_VERSION", payload.Code)
}
