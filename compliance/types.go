/*
Package compliance implements the leave policy compliance engine.

PURPOSE:
  Given a user identity and a proposed leave request, evaluate every
  applicable policy rule against current state (existing requests,
  holidays, active policy definitions) and produce a structured
  compliance verdict. The engine never persists anything - it is a
  read-only pre-check invoked before a request is actually submitted.

KEY CONCEPTS IN THIS FILE (types.go):
  - LeaveType: Category of absence (annual, sick, maternity, ...)
  - RequestDraft: The proposed leave request under evaluation
  - LeavePolicy: Per-type entitlement and behavior configuration
  - LedgerEntry: One of the user's existing requests (read model)
  - Result: The compliance verdict with violations/warnings/suggestions

TWO-TIER FINDING MODEL:
  Violations carry a severity tag. Only CRITICAL violations block
  compliance; WARNING-severity violations are recorded but do not
  block. Warnings are a separate, always-advisory channel. This split
  is part of the external contract - consumers render the two lists
  differently - so it is preserved exactly.

DESIGN PRINCIPLES:
  1. Precision: decimal.Decimal for day counts (half-days are 0.5)
  2. Statelessness: a Result is built fresh per evaluation, never cached
  3. Determinism: findings appear in fixed rule order

SEE ALSO:
  - engine.go: Evaluation orchestration and preconditions
  - rules.go: The individual rule checks
  - ports.go: Collaborator interfaces (policy, ledger, holidays, users)
*/
package compliance

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// LEAVE TYPES
// =============================================================================

type LeaveType string

const (
	LeaveAnnual    LeaveType = "annual"
	LeaveSick      LeaveType = "sick"
	LeaveCasual    LeaveType = "casual"
	LeaveEmergency LeaveType = "emergency"
	LeaveMaternity LeaveType = "maternity"
	LeavePaternity LeaveType = "paternity"
)

// LeaveTypes lists every known leave type, in stable order.
var LeaveTypes = []LeaveType{
	LeaveAnnual, LeaveSick, LeaveCasual, LeaveEmergency, LeaveMaternity, LeavePaternity,
}

// Valid reports whether t is one of the known leave types.
func (t LeaveType) Valid() bool {
	for _, known := range LeaveTypes {
		if t == known {
			return true
		}
	}
	return false
}

// HalfDayPeriod tags which half of the day a half-day request covers.
type HalfDayPeriod string

const (
	HalfDayMorning   HalfDayPeriod = "morning"
	HalfDayAfternoon HalfDayPeriod = "afternoon"
)

// =============================================================================
// REQUEST DRAFT - The proposed leave request (input value, never persisted here)
// =============================================================================

// RequestDraft is a proposed leave request under evaluation.
// Invariant (enforced by the caller): EndDate >= StartDate.
type RequestDraft struct {
	LeaveType        LeaveType
	StartDate        Date
	EndDate          Date
	IsHalfDay        bool
	HalfDayPeriod    HalfDayPeriod // required iff IsHalfDay
	Reason           string
	EmergencyContact string
	WorkHandover     string
}

// =============================================================================
// POLICY - Per-leave-type reference data (owned by an admin CRUD module)
// =============================================================================

// LeavePolicy configures entitlement and behavior for one leave type.
// At most one policy per leave type is active at a time; the store
// enforces that uniqueness.
type LeavePolicy struct {
	ID                  string
	LeaveType           LeaveType
	TotalDaysPerYear    int
	CanCarryForward     bool
	MaxCarryForwardDays int // 0-30, meaningful only when CanCarryForward
	RequiresApproval    bool
	AllowHalfDay        bool
	IsActive            bool
}

// =============================================================================
// LEDGER ENTRY - One existing request of the user (read model)
// =============================================================================

type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusApproved  RequestStatus = "approved"
	StatusRejected  RequestStatus = "rejected"
	StatusCancelled RequestStatus = "cancelled"
)

// LedgerEntry is a persisted leave request as seen by the engine.
// Used for balance (year-to-date used + pending days per type) and
// for date-range overlap detection against the draft.
type LedgerEntry struct {
	ID          string
	LeaveType   LeaveType
	Status      RequestStatus
	TotalDays   decimal.Decimal // supports 0.5 for half-days
	SubmittedAt time.Time
	StartDate   Date
	EndDate     Date
}

// Overlaps reports whether the entry's date range intersects [from, to].
func (e LedgerEntry) Overlaps(from, to Date) bool {
	return e.StartDate.BeforeOrEqual(to) && e.EndDate.AfterOrEqual(from)
}

// =============================================================================
// HOLIDAY - Reference data, advisory only
// =============================================================================

type Holiday struct {
	ID       string
	Name     string
	Date     Date
	Type     string // e.g. "public", "company"
	IsActive bool
}

// =============================================================================
// USER - Identity snapshot from the directory
// =============================================================================

type User struct {
	ID         string
	Name       string
	Email      string
	Role       string
	Department string
	IsActive   bool
}

// =============================================================================
// RESULT - The compliance verdict (ephemeral, one per evaluation)
// =============================================================================

type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityWarning  Severity = "WARNING"
	SeverityInfo     Severity = "INFO"
)

// Finding codes, in the order rules emit them.
const (
	CodeEnforcementError       = "ENFORCEMENT_ERROR"
	CodeUserNotFound           = "USER_NOT_FOUND"
	CodePolicyNotFound         = "POLICY_NOT_FOUND"
	CodeNegativeBalance        = "NEGATIVE_BALANCE_WARNING"
	CodeLowBalance             = "LOW_BALANCE_WARNING"
	CodeInsufficientNotice     = "INSUFFICIENT_NOTICE"
	CodeExceedsMaxConsecutive  = "EXCEEDS_MAX_CONSECUTIVE"
	CodeHalfDayNotAllowed      = "HALF_DAY_NOT_ALLOWED"
	CodeHalfDayPeriodRequired  = "HALF_DAY_PERIOD_REQUIRED"
	CodeInsufficientDocs       = "INSUFFICIENT_DOCUMENTATION"
	CodeApprovalRequired       = "APPROVAL_REQUIRED"
	CodeEmergencyContactNeeded = "EMERGENCY_CONTACT_REQUIRED"
	CodeWorkHandoverRequired   = "WORK_HANDOVER_REQUIRED"
	CodeHolidayConflict        = "HOLIDAY_CONFLICT"
	CodeOverlappingRequests    = "OVERLAPPING_REQUESTS"
	CodeDepartmentRestriction  = "DEPARTMENT_RESTRICTION"
	CodeRoleRestriction        = "ROLE_RESTRICTION"
)

// Violation is a finding in the blocking-capable channel. Only
// SeverityCritical blocks compliance; SeverityWarning entries are
// recorded here for reporting but never block.
type Violation struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Field    string   `json:"field,omitempty"`
	Value    string   `json:"value,omitempty"`
	Expected string   `json:"expectedValue,omitempty"`
}

// Warning is an always-advisory finding. Never affects compliance.
type Warning struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Result is the engine's output. Constructed fresh per evaluation,
// populated by each rule in turn, returned, then discarded.
type Result struct {
	IsCompliant bool        `json:"isCompliant"`
	Violations  []Violation `json:"violations"`
	Warnings    []Warning   `json:"warnings"`
	Suggestions []string    `json:"suggestions"`
}

func newResult() *Result {
	return &Result{
		IsCompliant: true,
		Violations:  []Violation{},
		Warnings:    []Warning{},
		Suggestions: []string{},
	}
}

func (r *Result) violate(v Violation) {
	r.Violations = append(r.Violations, v)
	if v.Severity == SeverityCritical {
		r.IsCompliant = false
	}
}

func (r *Result) warn(w Warning) {
	r.Warnings = append(r.Warnings, w)
}

func (r *Result) suggest(s string) {
	r.Suggestions = append(r.Suggestions, s)
}

// CriticalCount returns the number of blocking violations.
func (r *Result) CriticalCount() int {
	n := 0
	for _, v := range r.Violations {
		if v.Severity == SeverityCritical {
			n++
		}
	}
	return n
}
