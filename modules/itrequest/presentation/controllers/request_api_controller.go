package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/mexilacteos/itdesk/modules/itrequest/domain/aggregates/request"
	"github.com/mexilacteos/itdesk/modules/itrequest/presentation/viewmodels"
	"github.com/mexilacteos/itdesk/modules/itrequest/services"
	"github.com/mexilacteos/itdesk/pkg/application"
	"github.com/mexilacteos/itdesk/pkg/middleware"
)

type RequestAPIController struct {
	app       application.Application
	requests  *services.RequestService
	apiPrefix string
}

func NewRequestAPIController(app application.Application) application.Controller {
	return &RequestAPIController{
		app:       app,
		requests:  app.Service(services.RequestService{}).(*services.RequestService),
		apiPrefix: "/it/api",
	}
}

func (c *RequestAPIController) Key() string {
	return c.apiPrefix
}

func (c *RequestAPIController) Register(r *mux.Router) {
	api := r.PathPrefix(c.apiPrefix).Subrouter()
	api.Use(
		middleware.ProvideActor(),
	)

	api.HandleFunc("/requests", c.instrumentAPI("list", c.List)).Methods(http.MethodGet)
	api.HandleFunc("/requests", c.instrumentAPI("create", c.Create)).Methods(http.MethodPost)
	api.HandleFunc("/requests/{id}", c.instrumentAPI("get", c.Get)).Methods(http.MethodGet)
	api.HandleFunc("/requests/{id}", c.instrumentAPI("update", c.Update)).Methods(http.MethodPatch)
	// Folios contain a slash ("ITR/00001"), the default var pattern stops
	// at path separators.
	api.HandleFunc("/requests/folio/{folio:.+}", c.instrumentAPI("get_by_folio", c.GetByFolio)).Methods(http.MethodGet)

	api.HandleFunc("/requests/{id}:submit", c.instrumentAPI("submit", c.Submit)).Methods(http.MethodPost)
	api.HandleFunc("/requests/{id}:approve", c.instrumentAPI("approve", c.Approve)).Methods(http.MethodPost)
	api.HandleFunc("/requests/{id}:reject", c.instrumentAPI("reject", c.Reject)).Methods(http.MethodPost)
	api.HandleFunc("/requests/{id}:start", c.instrumentAPI("start", c.Start)).Methods(http.MethodPost)
	api.HandleFunc("/requests/{id}:complete", c.instrumentAPI("complete", c.Complete)).Methods(http.MethodPost)
}

type listResponse struct {
	Items []viewmodels.Request `json:"items"`
	Total int64                `json:"total"`
}

func (c *RequestAPIController) List(w http.ResponseWriter, r *http.Request) {
	params, err := parseFindParams(r)
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "INVALID_QUERY", err.Error())
		return
	}

	items, total, err := c.requests.GetPaginated(r.Context(), params)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{
		Items: viewmodels.RequestsToViewModels(items, time.Now()),
		Total: total,
	})
}

func (c *RequestAPIController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	found, err := c.requests.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewmodels.RequestToViewModel(found, time.Now()))
}

func (c *RequestAPIController) GetByFolio(w http.ResponseWriter, r *http.Request) {
	folio := mux.Vars(r)["folio"]
	found, err := c.requests.GetByFolio(r.Context(), folio)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewmodels.RequestToViewModel(found, time.Now()))
}

func (c *RequestAPIController) Create(w http.ResponseWriter, r *http.Request) {
	var dto request.CreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, http.StatusBadRequest, "INVALID_BODY", "Request body is not valid JSON.")
		return
	}

	created, err := c.requests.Create(r.Context(), &dto)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	requestTransitions.WithLabelValues("create", string(created.Type)).Inc()
	writeJSON(w, http.StatusCreated, viewmodels.RequestToViewModel(created, time.Now()))
}

func (c *RequestAPIController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var dto request.UpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, http.StatusBadRequest, "INVALID_BODY", "Request body is not valid JSON.")
		return
	}

	updated, err := c.requests.Update(r.Context(), id, &dto)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewmodels.RequestToViewModel(updated, time.Now()))
}

func (c *RequestAPIController) Submit(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, "submit", func(id uuid.UUID) (request.Request, error) {
		return c.requests.Submit(r.Context(), id)
	})
}

func (c *RequestAPIController) Approve(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, "approve", func(id uuid.UUID) (request.Request, error) {
		return c.requests.Approve(r.Context(), id)
	})
}

type rejectBody struct {
	Reason string `json:"reason"`
}

func (c *RequestAPIController) Reject(w http.ResponseWriter, r *http.Request) {
	var body rejectBody
	if err := decodeOptionalBody(r, &body); err != nil {
		writeAPIError(w, http.StatusBadRequest, "INVALID_BODY", "Request body is not valid JSON.")
		return
	}
	c.transition(w, r, "reject", func(id uuid.UUID) (request.Request, error) {
		return c.requests.Reject(r.Context(), id, body.Reason)
	})
}

func (c *RequestAPIController) Start(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, "start", func(id uuid.UUID) (request.Request, error) {
		return c.requests.Start(r.Context(), id)
	})
}

type completeBody struct {
	Resolution string `json:"resolution"`
}

func (c *RequestAPIController) Complete(w http.ResponseWriter, r *http.Request) {
	var body completeBody
	if err := decodeOptionalBody(r, &body); err != nil {
		writeAPIError(w, http.StatusBadRequest, "INVALID_BODY", "Request body is not valid JSON.")
		return
	}
	c.transition(w, r, "complete", func(id uuid.UUID) (request.Request, error) {
		return c.requests.Complete(r.Context(), id, body.Resolution)
	})
}

func (c *RequestAPIController) transition(
	w http.ResponseWriter,
	r *http.Request,
	action string,
	fn func(id uuid.UUID) (request.Request, error),
) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	updated, err := fn(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	requestTransitions.WithLabelValues(action, string(updated.Type)).Inc()
	writeJSON(w, http.StatusOK, viewmodels.RequestToViewModel(updated, time.Now()))
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "INVALID_ID", "Path id is not a valid UUID.")
		return uuid.Nil, false
	}
	return id, true
}

// decodeOptionalBody tolerates an empty body. Transition endpoints take
// their argument as optional and fall back to the recorded field.
func decodeOptionalBody(r *http.Request, out any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(out)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func parseFindParams(r *http.Request) (*request.FindParams, error) {
	q := r.URL.Query()
	params := &request.FindParams{
		State: request.State(q.Get("state")),
		Type:  request.Type(q.Get("request_type")),
	}
	if params.State != "" && !params.State.Valid() {
		return nil, errInvalidQuery("state")
	}
	if params.Type != "" && !params.Type.Valid() {
		return nil, errInvalidQuery("request_type")
	}
	if v := q.Get("employee_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, errInvalidQuery("employee_id")
		}
		params.EmployeeID = id
	}
	if v := q.Get("assigned_agent"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, errInvalidQuery("assigned_agent")
		}
		params.AssignedAgent = id
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, errInvalidQuery("limit")
		}
		params.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, errInvalidQuery("offset")
		}
		params.Offset = n
	}
	return params, nil
}

type queryError struct {
	param string
}

func (e queryError) Error() string {
	return e.param + " is invalid"
}

func errInvalidQuery(param string) error {
	return queryError{param: param}
}
