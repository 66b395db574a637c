package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/harborcredit/loanscreen/modules/directory/domain/aggregates/officer"
	"github.com/harborcredit/loanscreen/modules/directory/presentation/mappers"
	"github.com/harborcredit/loanscreen/modules/directory/presentation/viewmodels"
	"github.com/harborcredit/loanscreen/modules/directory/services"
	"github.com/harborcredit/loanscreen/pkg/application"
	"github.com/harborcredit/loanscreen/pkg/httpapi"
	"github.com/harborcredit/loanscreen/pkg/middleware"
)

type OfficersController struct {
	app       application.Application
	directory *services.DirectoryService
	basePath  string
}

func NewOfficersController(app application.Application) application.Controller {
	return &OfficersController{
		app:       app,
		directory: app.Service(services.DirectoryService{}).(*services.DirectoryService),
		basePath:  "/directory/api/officers",
	}
}

func (c *OfficersController) Key() string {
	return c.basePath
}

func (c *OfficersController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.ProvideActor())

	getRouter := router.Methods(http.MethodGet).Subrouter()
	getRouter.Use(middleware.WithTransaction())
	getRouter.HandleFunc("", c.List)
	getRouter.HandleFunc("/eligible", c.Eligible)
	getRouter.HandleFunc("/{id}", c.Get)

	router.HandleFunc("", c.Create).Methods(http.MethodPost)
}

func (c *OfficersController) Create(w http.ResponseWriter, r *http.Request) {
	dto := &services.CreateOfficerDTO{}
	if err := json.NewDecoder(r.Body).Decode(dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "LOAN_VALIDATION_FAILED", "malformed request body", nil)
		return
	}
	created, err := c.directory.Create(r.Context(), dto)
	if err != nil {
		_ = httpapi.WriteDomainError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, mappers.OfficerToViewModel(created))
}

func (c *OfficersController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusNotFound, "OFFICER_NOT_FOUND", "invalid officer id", nil)
		return
	}
	found, err := c.directory.GetByID(r.Context(), id)
	if err != nil {
		_ = httpapi.WriteDomainError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.OfficerToViewModel(found))
}

func (c *OfficersController) List(w http.ResponseWriter, r *http.Request) {
	params := &officer.FindParams{}
	for _, raw := range r.URL.Query()["role"] {
		role := officer.Role(strings.TrimSpace(raw))
		if role.Valid() {
			params.Roles = append(params.Roles, role)
		}
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		params.Status = officer.Status(raw)
	}

	officers, err := c.directory.List(r.Context(), params)
	if err != nil {
		_ = httpapi.WriteDomainError(w, err)
		return
	}
	vms := make([]*viewmodels.Officer, 0, len(officers))
	for _, o := range officers {
		vms = append(vms, mappers.OfficerToViewModel(o))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, vms)
}

// Eligible returns active officers in the requested roles with live
// workloads, the same view the assignment engine selects from.
func (c *OfficersController) Eligible(w http.ResponseWriter, r *http.Request) {
	var roles []officer.Role
	for _, raw := range r.URL.Query()["role"] {
		role := officer.Role(strings.TrimSpace(raw))
		if role.Valid() {
			roles = append(roles, role)
		}
	}
	if len(roles) == 0 {
		roles = officer.LoanOfficerRoles
	}

	candidates, err := c.directory.EligibleOfficers(r.Context(), roles)
	if err != nil {
		_ = httpapi.WriteDomainError(w, err)
		return
	}
	vms := make([]*viewmodels.Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		vms = append(vms, mappers.CandidateToViewModel(candidate))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, vms)
}
