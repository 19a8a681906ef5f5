/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types
  decouple the internal domain model from the external API contract.
  compliance.Result already carries its wire field names (isCompliant,
  violations, warnings, suggestions) and is serialized as-is; the types
  here cover everything around it.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Leave request bodies are validated against a JSON Schema before
  decoding (see schema.go). Everything else validates in handlers.

SEE ALSO:
  - handlers.go: Uses these types
  - schema.go: Draft body schema validation
*/
package api

import (
	"time"

	"github.com/warp/compliance-engine/compliance"
	"github.com/warp/compliance-engine/store/sqlite"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// EmployeeDTO represents a user in API responses.
type EmployeeDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department"`
	IsActive   bool   `json:"isActive"`
}

// CreateEmployeeRequest is the request to create a user.
type CreateEmployeeRequest struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department"`
}

// LeaveRequestBody is the JSON body for check and submit endpoints.
// Matches the draft schema in schema.go.
type LeaveRequestBody struct {
	LeaveType        string `json:"leaveType"`
	StartDate        string `json:"startDate"` // YYYY-MM-DD
	EndDate          string `json:"endDate"`   // YYYY-MM-DD
	IsHalfDay        bool   `json:"isHalfDay,omitempty"`
	HalfDayPeriod    string `json:"halfDayPeriod,omitempty"`
	Reason           string `json:"reason,omitempty"`
	EmergencyContact string `json:"emergencyContact,omitempty"`
	WorkHandover     string `json:"workHandover,omitempty"`
}

// LeaveRequestDTO represents a persisted leave request.
type LeaveRequestDTO struct {
	ID               string  `json:"id"`
	UserID           string  `json:"userId"`
	LeaveType        string  `json:"leaveType"`
	StartDate        string  `json:"startDate"`
	EndDate          string  `json:"endDate"`
	IsHalfDay        bool    `json:"isHalfDay"`
	HalfDayPeriod    string  `json:"halfDayPeriod,omitempty"`
	TotalDays        float64 `json:"totalDays"`
	Reason           string  `json:"reason,omitempty"`
	EmergencyContact string  `json:"emergencyContact,omitempty"`
	WorkHandover     string  `json:"workHandover,omitempty"`
	Status           string  `json:"status"`
	SubmittedAt      string  `json:"submittedAt"`
	DecidedAt        string  `json:"decidedAt,omitempty"`
	DecidedBy        string  `json:"decidedBy,omitempty"`
	RejectionReason  string  `json:"rejectionReason,omitempty"`
}

// SubmitResponse wraps the persisted request together with the
// compliance result that cleared it.
type SubmitResponse struct {
	Request    LeaveRequestDTO    `json:"request"`
	Compliance *compliance.Result `json:"compliance"`
}

// PolicyDTO represents a leave policy.
type PolicyDTO struct {
	ID                  string `json:"id"`
	LeaveType           string `json:"leaveType"`
	TotalDaysPerYear    int    `json:"totalDaysPerYear"`
	CanCarryForward     bool   `json:"canCarryForward"`
	MaxCarryForwardDays int    `json:"maxCarryForwardDays"`
	RequiresApproval    bool   `json:"requiresApproval"`
	AllowHalfDay        bool   `json:"allowHalfDay"`
	IsActive            bool   `json:"isActive"`
}

// HolidayDTO represents a holiday.
type HolidayDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Date     string `json:"date"`
	Type     string `json:"type"`
	IsActive bool   `json:"isActive"`
}

// RejectRequestBody carries the rejection reason.
type RejectRequestBody struct {
	Reason string `json:"reason"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toEmployeeDTO(u compliance.User) EmployeeDTO {
	return EmployeeDTO{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Department: u.Department,
		IsActive:   u.IsActive,
	}
}

func toPolicyDTO(p compliance.LeavePolicy) PolicyDTO {
	return PolicyDTO{
		ID:                  p.ID,
		LeaveType:           string(p.LeaveType),
		TotalDaysPerYear:    p.TotalDaysPerYear,
		CanCarryForward:     p.CanCarryForward,
		MaxCarryForwardDays: p.MaxCarryForwardDays,
		RequiresApproval:    p.RequiresApproval,
		AllowHalfDay:        p.AllowHalfDay,
		IsActive:            p.IsActive,
	}
}

func toHolidayDTO(h compliance.Holiday) HolidayDTO {
	return HolidayDTO{
		ID:       h.ID,
		Name:     h.Name,
		Date:     h.Date.String(),
		Type:     h.Type,
		IsActive: h.IsActive,
	}
}

func toLeaveRequestDTO(r sqlite.LeaveRequest) LeaveRequestDTO {
	totalDays, _ := r.TotalDays.Float64()
	dto := LeaveRequestDTO{
		ID:               r.ID,
		UserID:           r.UserID,
		LeaveType:        string(r.LeaveType),
		StartDate:        r.StartDate.String(),
		EndDate:          r.EndDate.String(),
		IsHalfDay:        r.IsHalfDay,
		HalfDayPeriod:    string(r.HalfDayPeriod),
		TotalDays:        totalDays,
		Reason:           r.Reason,
		EmergencyContact: r.EmergencyContact,
		WorkHandover:     r.WorkHandover,
		Status:           string(r.Status),
		SubmittedAt:      r.SubmittedAt.Format(time.RFC3339),
		DecidedBy:        r.DecidedBy,
		RejectionReason:  r.RejectionReason,
	}
	if r.DecidedAt != nil {
		dto.DecidedAt = r.DecidedAt.Format(time.RFC3339)
	}
	return dto
}

func toLeaveRequestDTOs(requests []sqlite.LeaveRequest) []LeaveRequestDTO {
	dtos := make([]LeaveRequestDTO, len(requests))
	for i, r := range requests {
		dtos[i] = toLeaveRequestDTO(r)
	}
	return dtos
}
