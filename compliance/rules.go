/*
rules.go - The rule battery

PURPOSE:
  Each rule is an independent, side-effect-free check over the already
  fetched ruleInput. A rule appends zero or more findings to the Result
  and never blocks on another rule. Correctness does not depend on rule
  order; message ordering does, so the order is fixed in engine.go.

SEVERITY MAP (what blocks vs. what doesn't):
  CRITICAL violations (block): half-day not allowed, half-day period
  missing - plus the preconditions and ENFORCEMENT_ERROR in engine.go.
  WARNING violations (recorded, non-blocking): insufficient notice,
  insufficient documentation, missing emergency contact, missing work
  handover.
  Advisory warnings (separate channel): balance, consecutive-day cap,
  approval notice, holiday conflict, overlap, department/role
  restrictions.
*/
package compliance

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// checkBalance compares the requested span against the year-to-date
// remaining entitlement. Negative balance is allowed but flagged - the
// excess is deducted from salary instead of blocking the request.
func (e *Engine) checkBalance(in ruleInput, result *Result) {
	total := RequestedSpan(in.Draft)

	used := decimal.Zero
	pending := decimal.Zero
	for _, entry := range in.YearEntries {
		switch entry.Status {
		case StatusApproved:
			used = used.Add(entry.TotalDays)
		case StatusPending:
			pending = pending.Add(entry.TotalDays)
		}
	}

	available := decimal.NewFromInt(int64(in.Policy.TotalDaysPerYear)).Sub(used).Sub(pending)

	if total.GreaterThan(available) {
		excess := total.Sub(available)
		result.warn(Warning{
			Code: CodeNegativeBalance,
			Message: fmt.Sprintf("request exceeds available balance by %s day(s); the excess will be deducted from salary",
				excess.String()),
		})
		return
	}

	if total.GreaterThan(available.Mul(e.Config.LowBalanceRatio)) {
		result.warn(Warning{
			Code: CodeLowBalance,
			Message: fmt.Sprintf("request uses most of the remaining balance (%s of %s day(s) available)",
				total.String(), available.String()),
			Suggestion: "Consider keeping a reserve for unplanned absences",
		})
	}
}

// checkNoticePeriod verifies the lead time between today and the leave
// start against the per-type minimum. Non-blocking by current design.
func (e *Engine) checkNoticePeriod(in ruleInput, result *Result) {
	required := e.Config.NoticeDays(in.Draft.LeaveType)
	daysUntilStart := DaysBetween(in.Today, in.Draft.StartDate)

	if daysUntilStart < required {
		earliest := in.Today.AddDays(required)
		result.violate(Violation{
			Severity: SeverityWarning,
			Code:     CodeInsufficientNotice,
			Message: fmt.Sprintf("%s leave requires %d day(s) notice, got %d",
				in.Draft.LeaveType, required, daysUntilStart),
			Field:    "startDate",
			Value:    in.Draft.StartDate.String(),
			Expected: earliest.String(),
		})
		result.suggest(fmt.Sprintf("Submit %s leave requests at least %d day(s) before the start date",
			in.Draft.LeaveType, required))
	}
}

// checkConsecutiveDays flags requests over the advisory per-type cap.
func (e *Engine) checkConsecutiveDays(in ruleInput, result *Result) {
	limit := e.Config.ConsecutiveCap(in.Draft.LeaveType)
	total := RequestedSpan(in.Draft)

	if total.GreaterThan(decimal.NewFromInt(int64(limit))) {
		result.warn(Warning{
			Code: CodeExceedsMaxConsecutive,
			Message: fmt.Sprintf("request spans %s day(s), above the usual %d-day maximum for %s leave",
				total.String(), limit, in.Draft.LeaveType),
			Suggestion: "Requests over the consecutive-day maximum need explicit manager approval",
		})
	}
}

// checkHalfDay enforces the only hard policy rules in the battery:
// half-days must be allowed by the policy and must carry a period.
func (e *Engine) checkHalfDay(in ruleInput, result *Result) {
	if !in.Draft.IsHalfDay {
		return
	}

	if !in.Policy.AllowHalfDay {
		result.violate(Violation{
			Severity: SeverityCritical,
			Code:     CodeHalfDayNotAllowed,
			Message:  fmt.Sprintf("half-day requests are not allowed for %s leave", in.Draft.LeaveType),
			Field:    "isHalfDay",
			Value:    "true",
		})
	}

	if in.Draft.HalfDayPeriod == "" {
		result.violate(Violation{
			Severity: SeverityCritical,
			Code:     CodeHalfDayPeriodRequired,
			Message:  "half-day requests must specify morning or afternoon",
			Field:    "halfDayPeriod",
			Expected: "morning|afternoon",
		})
	}
}

// checkDocumentation requires a substantive reason for leave types
// that need supporting documentation (sick, maternity, paternity).
func (e *Engine) checkDocumentation(in ruleInput, result *Result) {
	if !e.Config.RequiresDocumentation[in.Draft.LeaveType] {
		return
	}

	if len(strings.TrimSpace(in.Draft.Reason)) < e.Config.MinReasonLength {
		result.violate(Violation{
			Severity: SeverityWarning,
			Code:     CodeInsufficientDocs,
			Message: fmt.Sprintf("%s leave requires a detailed reason (at least %d characters)",
				in.Draft.LeaveType, e.Config.MinReasonLength),
			Field: "reason",
			Value: in.Draft.Reason,
		})
	}
}

// checkApproval emits an informational warning whenever the policy
// routes requests through approval. Unconditional: it fires regardless
// of any violation state.
func (e *Engine) checkApproval(in ruleInput, result *Result) {
	if in.Policy.RequiresApproval {
		result.warn(Warning{
			Code:    CodeApprovalRequired,
			Message: fmt.Sprintf("%s leave requests require manager approval", in.Draft.LeaveType),
		})
	}
}

// checkEmergencyContact requires a reachable contact for longer or
// unplanned absence types.
func (e *Engine) checkEmergencyContact(in ruleInput, result *Result) {
	if !e.Config.RequiresEmergencyContact[in.Draft.LeaveType] {
		return
	}

	if strings.TrimSpace(in.Draft.EmergencyContact) == "" {
		result.violate(Violation{
			Severity: SeverityWarning,
			Code:     CodeEmergencyContactNeeded,
			Message:  fmt.Sprintf("an emergency contact is required for %s leave", in.Draft.LeaveType),
			Field:    "emergencyContact",
		})
	}
}

// checkWorkHandover requires a handover note for multi-day absences.
func (e *Engine) checkWorkHandover(in ruleInput, result *Result) {
	total := RequestedSpan(in.Draft)
	if !total.GreaterThan(e.Config.HandoverThresholdDays) {
		return
	}

	if strings.TrimSpace(in.Draft.WorkHandover) == "" {
		result.violate(Violation{
			Severity: SeverityWarning,
			Code:     CodeWorkHandoverRequired,
			Message: fmt.Sprintf("requests over %s day(s) require a work handover note",
				e.Config.HandoverThresholdDays.String()),
			Field: "workHandover",
		})
	}
}

// checkHolidayConflict warns when the range already contains holidays.
// Advisory only - taking leave around a holiday is often intentional.
func (e *Engine) checkHolidayConflict(in ruleInput, result *Result) {
	if len(in.Holidays) == 0 {
		return
	}

	names := make([]string, len(in.Holidays))
	for i, h := range in.Holidays {
		names[i] = h.Name
	}
	result.warn(Warning{
		Code:       CodeHolidayConflict,
		Message:    "the requested range includes holiday(s): " + strings.Join(names, ", "),
		Suggestion: "Holidays do not consume leave balance; you may shorten the request",
	})
}

// checkOverlap warns when existing pending/approved requests intersect
// the draft's range.
func (e *Engine) checkOverlap(in ruleInput, result *Result) {
	count := 0
	for _, entry := range in.OpenEntries {
		if entry.Overlaps(in.Draft.StartDate, in.Draft.EndDate) {
			count++
		}
	}
	if count > 0 {
		result.warn(Warning{
			Code:    CodeOverlappingRequests,
			Message: fmt.Sprintf("%d existing request(s) overlap the requested dates", count),
		})
	}
}

// checkDepartmentRestriction consults the configured department table.
func (e *Engine) checkDepartmentRestriction(in ruleInput, result *Result) {
	if e.Restrictions.DepartmentRestricted(in.User.Department, in.Draft.LeaveType) {
		result.warn(Warning{
			Code: CodeDepartmentRestriction,
			Message: fmt.Sprintf("%s leave is restricted for the %s department",
				in.Draft.LeaveType, in.User.Department),
		})
	}
}

// checkRoleRestriction consults the configured role table.
func (e *Engine) checkRoleRestriction(in ruleInput, result *Result) {
	if e.Restrictions.RoleRestricted(in.User.Role, in.Draft.LeaveType) {
		result.warn(Warning{
			Code: CodeRoleRestriction,
			Message: fmt.Sprintf("%s leave is restricted for the %s role",
				in.Draft.LeaveType, in.User.Role),
		})
	}
}
