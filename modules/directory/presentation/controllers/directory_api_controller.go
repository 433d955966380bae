package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/mexilacteos/itdesk/modules/directory/domain/entities/employee"
	"github.com/mexilacteos/itdesk/modules/directory/domain/entities/equipment"
	"github.com/mexilacteos/itdesk/modules/directory/services"
	"github.com/mexilacteos/itdesk/pkg/application"
	"github.com/mexilacteos/itdesk/pkg/composables"
	"github.com/mexilacteos/itdesk/pkg/middleware"
)

type DirectoryAPIController struct {
	app       application.Application
	directory *services.DirectoryService
	equipment *services.EquipmentService
	apiPrefix string
}

func NewDirectoryAPIController(app application.Application) application.Controller {
	return &DirectoryAPIController{
		app:       app,
		directory: app.Service(services.DirectoryService{}).(*services.DirectoryService),
		equipment: app.Service(services.EquipmentService{}).(*services.EquipmentService),
		apiPrefix: "/directory/api",
	}
}

func (c *DirectoryAPIController) Key() string {
	return c.apiPrefix
}

func (c *DirectoryAPIController) Register(r *mux.Router) {
	api := r.PathPrefix(c.apiPrefix).Subrouter()
	api.Use(
		middleware.ProvideActor(),
	)

	api.HandleFunc("/employees", c.ListEmployees).Methods(http.MethodGet)
	api.HandleFunc("/employees", c.CreateEmployee).Methods(http.MethodPost)
	api.HandleFunc("/employees/me", c.CurrentEmployee).Methods(http.MethodGet)
	api.HandleFunc("/employees/{id}", c.GetEmployee).Methods(http.MethodGet)
	api.HandleFunc("/employees/{id}/equipment", c.EmployeeEquipment).Methods(http.MethodGet)
	api.HandleFunc("/departments/{department}/equipment", c.DepartmentEquipment).Methods(http.MethodGet)
}

type employeeView struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	Name         string `json:"name"`
	Department   string `json:"department"`
	JobTitle     string `json:"job_title"`
	ManagerID    string `json:"manager_id,omitempty"`
	SupportAgent bool   `json:"support_agent"`
}

func toEmployeeView(e employee.Employee) employeeView {
	v := employeeView{
		ID:           e.ID().String(),
		UserID:       e.UserID().String(),
		Name:         e.Name(),
		Department:   e.Department(),
		JobTitle:     e.JobTitle(),
		SupportAgent: e.IsSupportAgent(),
	}
	if e.ManagerID() != uuid.Nil {
		v.ManagerID = e.ManagerID().String()
	}
	return v
}

type equipmentView struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	SerialNo   string    `json:"serial_no"`
	EmployeeID string    `json:"employee_id"`
	Department string    `json:"department"`
	AssignedAt time.Time `json:"assigned_at"`
}

func toEquipmentViews(items []equipment.Equipment) []equipmentView {
	out := make([]equipmentView, 0, len(items))
	for _, e := range items {
		out = append(out, equipmentView{
			ID:         e.ID.String(),
			Name:       e.Name,
			SerialNo:   e.SerialNo,
			EmployeeID: e.EmployeeID.String(),
			Department: e.Department,
			AssignedAt: e.AssignedAt,
		})
	}
	return out
}

func (c *DirectoryAPIController) ListEmployees(w http.ResponseWriter, r *http.Request) {
	items, err := c.directory.GetAll(r.Context())
	if err != nil {
		c.writeError(w, err)
		return
	}
	views := make([]employeeView, 0, len(items))
	for _, e := range items {
		views = append(views, toEmployeeView(e))
	}
	c.writeJSON(w, http.StatusOK, views)
}

type createEmployeeBody struct {
	UserID       uuid.UUID `json:"user_id"`
	Name         string    `json:"name"`
	Department   string    `json:"department"`
	JobTitle     string    `json:"job_title"`
	ManagerID    uuid.UUID `json:"manager_id"`
	SupportAgent bool      `json:"support_agent"`
}

func (c *DirectoryAPIController) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var body createEmployeeBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "request body is not valid JSON", http.StatusBadRequest)
		return
	}
	if body.UserID == uuid.Nil || body.Name == "" {
		http.Error(w, "user_id and name are required", http.StatusBadRequest)
		return
	}
	entity := employee.Hydrate(
		uuid.Nil,
		body.UserID,
		body.Name,
		body.Department,
		body.JobTitle,
		body.ManagerID,
		body.SupportAgent,
		time.Time{},
		time.Time{},
	)
	created, err := c.directory.Create(r.Context(), entity)
	if err != nil {
		c.writeError(w, err)
		return
	}
	c.writeJSON(w, http.StatusCreated, toEmployeeView(created))
}

func (c *DirectoryAPIController) CurrentEmployee(w http.ResponseWriter, r *http.Request) {
	found, err := c.directory.CurrentEmployee(r.Context())
	if err != nil {
		c.writeError(w, err)
		return
	}
	c.writeJSON(w, http.StatusOK, toEmployeeView(found))
}

func (c *DirectoryAPIController) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "path id is not a valid UUID", http.StatusBadRequest)
		return
	}
	found, err := c.directory.EmployeeByID(r.Context(), id)
	if err != nil {
		c.writeError(w, err)
		return
	}
	c.writeJSON(w, http.StatusOK, toEmployeeView(found))
}

func (c *DirectoryAPIController) EmployeeEquipment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "path id is not a valid UUID", http.StatusBadRequest)
		return
	}
	items, err := c.equipment.ForEmployee(r.Context(), id)
	if err != nil {
		c.writeError(w, err)
		return
	}
	c.writeJSON(w, http.StatusOK, toEquipmentViews(items))
}

func (c *DirectoryAPIController) DepartmentEquipment(w http.ResponseWriter, r *http.Request) {
	items, err := c.equipment.ForDepartment(r.Context(), mux.Vars(r)["department"])
	if err != nil {
		c.writeError(w, err)
		return
	}
	c.writeJSON(w, http.StatusOK, toEquipmentViews(items))
}

func (c *DirectoryAPIController) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (c *DirectoryAPIController) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, employee.ErrNotFound):
		http.Error(w, "employee not found", http.StatusNotFound)
	case errors.Is(err, composables.ErrNoActor):
		http.Error(w, "actor identity is required", http.StatusUnauthorized)
	default:
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
