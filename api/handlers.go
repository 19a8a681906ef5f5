/*
handlers.go - HTTP API handlers for the leave compliance service

PURPOSE:
  Exposes the compliance engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Employees:
    GET    /api/employees                         List employees
    POST   /api/employees                         Create employee
    GET    /api/employees/{id}                    Get employee
    GET    /api/employees/{id}/compliance         Compliance summary

  Leave requests:
    POST   /api/employees/{id}/leave-requests/check  Evaluate a draft (no persistence)
    POST   /api/employees/{id}/leave-requests        Evaluate + persist if compliant
    GET    /api/employees/{id}/leave-requests        Request history

  Approvals:
    GET    /api/requests/pending                  Pending requests
    POST   /api/requests/{id}/approve             Approve
    POST   /api/requests/{id}/reject              Reject

  Policies:   GET/POST /api/policies, GET /api/policies/{id}
  Holidays:   GET/POST /api/holidays, DELETE /api/holidays/{id}
  Admin:      POST /api/admin/seed, POST /api/admin/reset
  Reports:    GET /api/working-days?year=YYYY

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Schema/validation errors, invalid input
  - 404: Resource not found
  - 409: Conflict (duplicate active policy)
  - 422: Draft blocked by CRITICAL compliance violations
  - 500: Internal errors

  Note the 422 split: a non-compliant draft is NOT an error for the
  check endpoint (the Result is the payload), but submit refuses to
  persist a blocked request.

SEE ALSO:
  - dto.go: Request/response data structures
  - schema.go: Draft body validation
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kaptinlin/jsonschema"
	"github.com/warp/compliance-engine/compliance"
	"github.com/warp/compliance-engine/factory"
	"github.com/warp/compliance-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  *sqlite.Store
	Engine *compliance.Engine

	draftSchema *jsonschema.Schema
}

// NewHandler creates a handler whose engine reads through the store.
func NewHandler(store *sqlite.Store) (*Handler, error) {
	schema, err := compileDraftSchema()
	if err != nil {
		return nil, err
	}
	return &Handler{
		Store:       store,
		Engine:      compliance.NewEngine(store, store, store, store),
		draftSchema: schema,
	}, nil
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	users, err := h.Store.ListUsers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(users))
	for i, u := range users {
		dtos[i] = toEmployeeDTO(u)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	user, err := h.Store.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*user))
}

// CreateEmployee creates a new employee.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}

	user := compliance.User{
		ID:         req.ID,
		Name:       req.Name,
		Email:      req.Email,
		Role:       req.Role,
		Department: req.Department,
		IsActive:   true,
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	if err := h.Store.SaveUser(r.Context(), user); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(user))
}

// =============================================================================
// LEAVE REQUEST HANDLERS
// =============================================================================

// CheckLeaveRequest evaluates a draft without persisting anything.
// The compliance Result is the payload either way; callers inspect
// isCompliant.
func (h *Handler) CheckLeaveRequest(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	draft, ok := h.decodeDraft(w, r)
	if !ok {
		return
	}

	result := h.Engine.Evaluate(r.Context(), userID, draft)
	writeJSON(w, http.StatusOK, result)
}

// SubmitLeaveRequest evaluates a draft and persists it as a pending
// request when no CRITICAL violation blocks it. Blocked drafts get a
// 422 carrying the full compliance report.
func (h *Handler) SubmitLeaveRequest(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	draft, ok := h.decodeDraft(w, r)
	if !ok {
		return
	}

	result := h.Engine.Evaluate(r.Context(), userID, draft)
	if !result.IsCompliant {
		writeJSON(w, http.StatusUnprocessableEntity, SubmitResponse{Compliance: result})
		return
	}

	request := sqlite.LeaveRequest{
		ID:               uuid.NewString(),
		UserID:           userID,
		LeaveType:        draft.LeaveType,
		StartDate:        draft.StartDate,
		EndDate:          draft.EndDate,
		IsHalfDay:        draft.IsHalfDay,
		HalfDayPeriod:    draft.HalfDayPeriod,
		TotalDays:        compliance.RequestedSpan(draft),
		Reason:           draft.Reason,
		EmergencyContact: draft.EmergencyContact,
		WorkHandover:     draft.WorkHandover,
		Status:           compliance.StatusPending,
		SubmittedAt:      time.Now().UTC(),
	}

	if err := h.Store.SaveRequest(r.Context(), request); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save leave request", err)
		return
	}

	writeJSON(w, http.StatusCreated, SubmitResponse{
		Request:    toLeaveRequestDTO(request),
		Compliance: result,
	})
}

// ListLeaveRequests returns an employee's request history.
func (h *Handler) ListLeaveRequests(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	requests, err := h.Store.ListRequestsByUser(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list leave requests", err)
		return
	}
	writeJSON(w, http.StatusOK, toLeaveRequestDTOs(requests))
}

// GetComplianceSummary returns the trailing-90-day summary.
func (h *Handler) GetComplianceSummary(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	writeJSON(w, http.StatusOK, h.Engine.Summarize(r.Context(), userID))
}

// decodeDraft validates the body against the draft schema and converts
// it into a compliance.RequestDraft. Writes the error response itself
// and returns ok=false on failure.
func (h *Handler) decodeDraft(w http.ResponseWriter, r *http.Request) (compliance.RequestDraft, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body", err)
		return compliance.RequestDraft{}, false
	}

	if err := validateDraftBody(h.draftSchema, body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid leave request", err)
		return compliance.RequestDraft{}, false
	}

	var req LeaveRequestBody
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return compliance.RequestDraft{}, false
	}

	start, err := compliance.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid startDate (use YYYY-MM-DD)", err)
		return compliance.RequestDraft{}, false
	}
	end, err := compliance.ParseDate(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid endDate (use YYYY-MM-DD)", err)
		return compliance.RequestDraft{}, false
	}
	if end.Before(start) {
		writeError(w, http.StatusBadRequest, "endDate must not precede startDate", compliance.ErrInvalidDateRange)
		return compliance.RequestDraft{}, false
	}

	return compliance.RequestDraft{
		LeaveType:        compliance.LeaveType(req.LeaveType),
		StartDate:        start,
		EndDate:          end,
		IsHalfDay:        req.IsHalfDay,
		HalfDayPeriod:    compliance.HalfDayPeriod(req.HalfDayPeriod),
		Reason:           req.Reason,
		EmergencyContact: req.EmergencyContact,
		WorkHandover:     req.WorkHandover,
	}, true
}

// =============================================================================
// APPROVAL HANDLERS
// =============================================================================

// ListPendingRequests returns all pending requests, oldest first.
func (h *Handler) ListPendingRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.Store.ListPendingRequests(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list pending requests", err)
		return
	}
	writeJSON(w, http.StatusOK, toLeaveRequestDTOs(requests))
}

// ApproveRequest approves a pending request.
func (h *Handler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	h.decideRequest(w, r, compliance.StatusApproved, "")
}

// RejectRequest rejects a pending request with a reason.
func (h *Handler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	var body RejectRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	h.decideRequest(w, r, compliance.StatusRejected, body.Reason)
}

func (h *Handler) decideRequest(w http.ResponseWriter, r *http.Request, status compliance.RequestStatus, reason string) {
	id := chi.URLParam(r, "id")
	decidedBy := r.Header.Get("X-Actor-ID")

	err := h.Store.UpdateRequestStatus(r.Context(), id, status, decidedBy, reason)
	if errors.Is(err, compliance.ErrRequestNotFound) {
		writeError(w, http.StatusNotFound, "No pending request with that id", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update request", err)
		return
	}

	request, err := h.Store.GetRequest(r.Context(), id)
	if err != nil || request == nil {
		writeError(w, http.StatusInternalServerError, "Failed to load updated request", err)
		return
	}
	writeJSON(w, http.StatusOK, toLeaveRequestDTO(*request))
}

// =============================================================================
// POLICY HANDLERS
// =============================================================================

// ListPolicies returns all policies.
func (h *Handler) ListPolicies(w http.ResponseWriter, r *http.Request) {
	policies, err := h.Store.ListPolicies(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list policies", err)
		return
	}

	dtos := make([]PolicyDTO, len(policies))
	for i, p := range policies {
		dtos[i] = toPolicyDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetPolicy returns a policy by id.
func (h *Handler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	policy, err := h.Store.GetPolicy(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get policy", err)
		return
	}
	if policy == nil {
		writeError(w, http.StatusNotFound, "Policy not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toPolicyDTO(*policy))
}

// CreatePolicy creates a policy from its JSON definition.
func (h *Handler) CreatePolicy(w http.ResponseWriter, r *http.Request) {
	var doc factory.PolicyJSON
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	policy, err := factory.ParsePolicy(doc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid policy", err)
		return
	}

	if err := h.Store.SavePolicy(r.Context(), *policy); err != nil {
		if errors.Is(err, compliance.ErrDuplicateActivePolicy) {
			writeError(w, http.StatusConflict, "An active policy already exists for this leave type", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to save policy", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPolicyDTO(*policy))
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

// ListHolidays returns all holidays.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.Store.ListHolidays(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list holidays", err)
		return
	}

	dtos := make([]HolidayDTO, len(holidays))
	for i, holiday := range holidays {
		dtos[i] = toHolidayDTO(holiday)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateHoliday creates a holiday.
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var dto HolidayDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	date, err := compliance.ParseDate(dto.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}

	holiday := compliance.Holiday{
		ID:       dto.ID,
		Name:     dto.Name,
		Date:     date,
		Type:     dto.Type,
		IsActive: true,
	}
	if holiday.ID == "" {
		holiday.ID = uuid.NewString()
	}
	if holiday.Type == "" {
		holiday.Type = "public"
	}

	if err := h.Store.SaveHoliday(r.Context(), holiday); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save holiday", err)
		return
	}
	writeJSON(w, http.StatusCreated, toHolidayDTO(holiday))
}

// DeleteHoliday removes a holiday.
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteHoliday(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete holiday", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// REPORT + ADMIN HANDLERS
// =============================================================================

// ListWorkingDays returns cached monthly working-day counts for a year.
func (h *Handler) ListWorkingDays(w http.ResponseWriter, r *http.Request) {
	year := time.Now().Year()
	if q := r.URL.Query().Get("year"); q != "" {
		parsed, err := strconv.Atoi(q)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid year", err)
			return
		}
		year = parsed
	}

	months, err := h.Store.ListWorkingDays(r.Context(), year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list working days", err)
		return
	}
	if months == nil {
		months = []sqlite.WorkingDayMonth{}
	}
	writeJSON(w, http.StatusOK, months)
}

// SeedDefaults installs the default per-type policies.
func (h *Handler) SeedDefaults(w http.ResponseWriter, r *http.Request) {
	for _, policy := range factory.DefaultPolicies() {
		if err := h.Store.SavePolicy(r.Context(), policy); err != nil &&
			!errors.Is(err, compliance.ErrDuplicateActivePolicy) {
			writeError(w, http.StatusInternalServerError, "Failed to seed policies", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "seeded"})
}

// ResetDatabase wipes all tables. Dev only.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
