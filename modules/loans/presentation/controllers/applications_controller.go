package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	app "github.com/harborcredit/loanscreen/modules/loans/domain/aggregates/application"
	"github.com/harborcredit/loanscreen/modules/loans/presentation/mappers"
	"github.com/harborcredit/loanscreen/modules/loans/presentation/viewmodels"
	"github.com/harborcredit/loanscreen/modules/loans/services"
	"github.com/harborcredit/loanscreen/pkg/application"
	"github.com/harborcredit/loanscreen/pkg/httpapi"
	"github.com/harborcredit/loanscreen/pkg/middleware"
)

type ApplicationsController struct {
	app        application.Application
	workflow   *services.WorkflowService
	compliance *services.ComplianceService
	basePath   string
}

func NewApplicationsController(app application.Application) application.Controller {
	return &ApplicationsController{
		app:        app,
		workflow:   app.Service(services.WorkflowService{}).(*services.WorkflowService),
		compliance: app.Service(services.ComplianceService{}).(*services.ComplianceService),
		basePath:   "/loans/api/applications",
	}
}

func (c *ApplicationsController) Key() string {
	return c.basePath
}

func (c *ApplicationsController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.ProvideActor())

	getRouter := router.Methods(http.MethodGet).Subrouter()
	getRouter.Use(middleware.WithTransaction())
	getRouter.HandleFunc("", c.List)
	getRouter.HandleFunc("/{id}", c.Get)
	getRouter.HandleFunc("/{id}/history", c.History)
	getRouter.HandleFunc("/{id}/document-requests", c.DocumentRequests)

	postRouter := router.Methods(http.MethodPost).Subrouter()
	postRouter.HandleFunc("", c.Submit)
	postRouter.HandleFunc("/{id}/start-verification", c.transition(c.startVerification))
	postRouter.HandleFunc("/{id}/trigger-external-verification", c.transition(c.triggerExternalVerification))
	postRouter.HandleFunc("/{id}/complete-external-verification", c.transition(c.completeExternalVerification))
	postRouter.HandleFunc("/{id}/approve", c.Approve)
	postRouter.HandleFunc("/{id}/reject", c.Reject)
	postRouter.HandleFunc("/{id}/flag-compliance", c.FlagCompliance)
	postRouter.HandleFunc("/{id}/start-investigation", c.transition(c.startInvestigation))
	postRouter.HandleFunc("/{id}/request-documents", c.RequestDocuments)
	postRouter.HandleFunc("/{id}/documents-received", c.transition(c.documentsReceived))
	postRouter.HandleFunc("/{id}/process-timeout", c.ProcessTimeout)
	postRouter.HandleFunc("/{id}/quick-clear", c.transition(c.quickClear))
	postRouter.HandleFunc("/{id}/quick-reject", c.transition(c.quickReject))
	postRouter.HandleFunc("/{id}/escalate", c.transition(c.escalate))
	postRouter.HandleFunc("/{id}/trigger-decision", c.transition(c.triggerDecision))
	postRouter.HandleFunc("/{id}/submit-decision", c.SubmitDecision)
}

func pathID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	return id, err == nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "LOAN_VALIDATION_FAILED", "malformed request body", nil)
		return false
	}
	return true
}

func writeApplication(w http.ResponseWriter, status int, result app.Application) {
	_ = httpapi.WriteJSON(w, status, mappers.ApplicationToViewModel(result))
}

// transitionRequest is the shared body of the simple transition endpoints:
// the caller's expected aggregate version plus an optional comment.
type transitionRequest struct {
	ExpectedVersion int64  `json:"expected_version"`
	Comment         string `json:"comment"`
}

type transitionFunc func(r *http.Request, id uuid.UUID, body transitionRequest) (app.Application, error)

func (c *ApplicationsController) transition(fn transitionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			_ = httpapi.WriteError(w, http.StatusNotFound, "LOAN_NOT_FOUND", "invalid application id", nil)
			return
		}
		var body transitionRequest
		if !decodeBody(w, r, &body) {
			return
		}
		updated, err := fn(r, id, body)
		if err != nil {
			_ = httpapi.WriteDomainError(w, err)
			return
		}
		writeApplication(w, http.StatusOK, updated)
	}
}

func (c *ApplicationsController) Submit(w http.ResponseWriter, r *http.Request) {
	dto := &app.CreateDTO{}
	if !decodeBody(w, r, dto) {
		return
	}
	created, err := c.workflow.Submit(r.Context(), dto)
	if err != nil {
		_ = httpapi.WriteDomainError(w, err)
		return
	}
	writeApplication(w, http.StatusCreated, created)
}

func (c *ApplicationsController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		_ = httpapi.WriteError(w, http.StatusNotFound, "LOAN_NOT_FOUND", "invalid application id", nil)
		return
	}
	found, err := c.workflow.Get(r.Context(), id)
	if err != nil {
		_ = httpapi.WriteDomainError(w, err)
		return
	}
	writeApplication(w, http.StatusOK, found)
}

func (c *ApplicationsController) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := &app.FindParams{}
	for _, raw := range q["status"] {
		status := app.Status(strings.TrimSpace(raw))
		if status.Valid() {
			params.Statuses = append(params.Statuses, status)
		}
	}
	if raw := q.Get("loan_officer_id"); raw != "" {
		if officerID, err := uuid.Parse(raw); err == nil {
			params.LoanOfficerID = &officerID
		}
	}
	if raw := q.Get("limit"); raw != "" {
		params.Limit, _ = strconv.Atoi(raw)
	}
	if raw := q.Get("offset"); raw != "" {
		params.Offset, _ = strconv.Atoi(raw)
	}

	items, total, err := c.workflow.List(r.Context(), params)
	if err != nil {
		_ = httpapi.WriteDomainError(w, err)
		return
	}
	vms := make([]*viewmodels.Application, 0, len(items))
	for _, item := range items {
		vms = append(vms, mappers.ApplicationToViewModel(item))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, &viewmodels.ApplicationList{Items: vms, Total: total})
}

func (c *ApplicationsController) History(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		_ = httpapi.WriteError(w, http.StatusNotFound, "LOAN_NOT_FOUND", "invalid application id", nil)
		return
	}
	entries, err := c.workflow.History(r.Context(), id)
	if err != nil {
		_ = httpapi.WriteDomainError(w, err)
		return
	}
	vms := make([]*viewmodels.HistoryEntry, 0, len(entries))
	for _, entry := range entries {
		vms = append(vms, mappers.HistoryEntryToViewModel(entry))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, vms)
}

func (c *ApplicationsController) DocumentRequests(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		_ = httpapi.WriteError(w, http.StatusNotFound, "LOAN_NOT_FOUND", "invalid application id", nil)
		return
	}
	requests, err := c.compliance.DocumentRequests(r.Context(), id)
	if err != nil {
		_ = httpapi.WriteDomainError(w, err)
		return
	}
	vms := make([]*viewmodels.DocumentRequest, 0, len(requests))
	for _, req := range requests {
		vms = append(vms, mappers.DocumentRequestToViewModel(req))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, vms)
}

func (c *ApplicationsController) startVerification(r *http.Request, id uuid.UUID, body transitionRequest) (app.Application, error) {
	return c.workflow.StartVerification(r.Context(), id, body.ExpectedVersion, body.Comment)
}

func (c *ApplicationsController) triggerExternalVerification(r *http.Request, id uuid.UUID, body transitionRequest) (app.Application, error) {
	return c.workflow.TriggerExternalVerification(r.Context(), id, body.ExpectedVersion, body.Comment)
}

func (c *ApplicationsController) completeExternalVerification(r *http.Request, id uuid.UUID, body transitionRequest) (app.Application, error) {
	return c.workflow.CompleteExternalVerification(r.Context(), id, body.ExpectedVersion, body.Comment)
}

func (c *ApplicationsController) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		_ = httpapi.WriteError(w, http.StatusNotFound, "LOAN_NOT_FOUND", "invalid application id", nil)
		return
	}
	var body struct {
		ExpectedVersion int64 `json:"expected_version"`
		services.ApproveDTO
	}
	if !decodeBody(w, r, &body) {
		return
	}
	updated, err := c.workflow.Approve(r.Context(), id, body.ExpectedVersion, &body.ApproveDTO)
	if err != nil {
		_ = httpapi.WriteDomainError(w, err)
		return
	}
	writeApplication(w, http.StatusOK, updated)
}

func (c *ApplicationsController) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		_ = httpapi.WriteError(w, http.StatusNotFound, "LOAN_NOT_FOUND", "invalid application id", nil)
		return
	}
	var body struct {
		ExpectedVersion int64  `json:"expected_version"`
		Reason          string `json:"reason"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	updated, err := c.workflow.Reject(r.Context(), id, body.ExpectedVersion, body.Reason)
	if err != nil {
		_ = httpapi.WriteDomainError(w, err)
		return
	}
	writeApplication(w, http.StatusOK, updated)
}

func (c *ApplicationsController) FlagCompliance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		_ = httpapi.WriteError(w, http.StatusNotFound, "LOAN_NOT_FOUND", "invalid application id", nil)
		return
	}
	var body struct {
		ExpectedVersion int64  `json:"expected_version"`
		Reason          string `json:"reason"`
		Priority        string `json:"priority"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	priority := app.Priority(body.Priority)
	if body.Priority == "" {
		priority = app.PriorityMedium
	}
	updated, err := c.workflow.FlagForCompliance(r.Context(), id, body.ExpectedVersion, body.Reason, priority)
	if err != nil {
		_ = httpapi.WriteDomainError(w, err)
		return
	}
	writeApplication(w, http.StatusOK, updated)
}

func (c *ApplicationsController) startInvestigation(r *http.Request, id uuid.UUID, body transitionRequest) (app.Application, error) {
	return c.compliance.StartInvestigation(r.Context(), id, body.ExpectedVersion, body.Comment)
}

func (c *ApplicationsController) RequestDocuments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		_ = httpapi.WriteError(w, http.StatusNotFound, "LOAN_NOT_FOUND", "invalid application id", nil)
		return
	}
	var body struct {
		ExpectedVersion int64 `json:"expected_version"`
		services.RequestDocumentsDTO
	}
	if !decodeBody(w, r, &body) {
		return
	}
	updated, err := c.compliance.RequestDocuments(r.Context(), id, body.ExpectedVersion, &body.RequestDocumentsDTO)
	if err != nil {
		_ = httpapi.WriteDomainError(w, err)
		return
	}
	writeApplication(w, http.StatusOK, updated)
}

func (c *ApplicationsController) documentsReceived(r *http.Request, id uuid.UUID, body transitionRequest) (app.Application, error) {
	return c.compliance.HandleDocumentSubmission(r.Context(), id, body.ExpectedVersion, body.Comment)
}

func (c *ApplicationsController) ProcessTimeout(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		_ = httpapi.WriteError(w, http.StatusNotFound, "LOAN_NOT_FOUND", "invalid application id", nil)
		return
	}
	var body transitionRequest
	if !decodeBody(w, r, &body) {
		return
	}
	updated, err := c.compliance.ProcessTimeout(r.Context(), id, body.ExpectedVersion)
	if err != nil {
		_ = httpapi.WriteDomainError(w, err)
		return
	}
	writeApplication(w, http.StatusOK, updated)
}

func (c *ApplicationsController) quickClear(r *http.Request, id uuid.UUID, body transitionRequest) (app.Application, error) {
	return c.compliance.QuickClear(r.Context(), id, body.ExpectedVersion, body.Comment)
}

func (c *ApplicationsController) quickReject(r *http.Request, id uuid.UUID, body transitionRequest) (app.Application, error) {
	return c.compliance.QuickReject(r.Context(), id, body.ExpectedVersion, body.Comment)
}

func (c *ApplicationsController) escalate(r *http.Request, id uuid.UUID, body transitionRequest) (app.Application, error) {
	return c.compliance.EscalateToSenior(r.Context(), id, body.ExpectedVersion, body.Comment)
}

func (c *ApplicationsController) triggerDecision(r *http.Request, id uuid.UUID, body transitionRequest) (app.Application, error) {
	return c.compliance.TriggerDecision(r.Context(), id, body.ExpectedVersion, body.Comment)
}

func (c *ApplicationsController) SubmitDecision(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		_ = httpapi.WriteError(w, http.StatusNotFound, "LOAN_NOT_FOUND", "invalid application id", nil)
		return
	}
	var body struct {
		ExpectedVersion int64  `json:"expected_version"`
		Decision        string `json:"decision"`
		Notes           string `json:"notes"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	updated, err := c.compliance.SubmitDecision(r.Context(), id, body.ExpectedVersion, app.DecisionType(body.Decision), body.Notes)
	if err != nil {
		_ = httpapi.WriteDomainError(w, err)
		return
	}
	writeApplication(w, http.StatusOK, updated)
}
