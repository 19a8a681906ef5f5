/*
engine.go - Evaluation orchestration

PURPOSE:
  Engine.Evaluate loads the inputs (user, policy, ledger aggregates,
  holidays), runs the rule battery in fixed order, and aggregates the
  findings into a Result. It ALWAYS returns a Result - non-compliance
  is data, not an error, and infrastructure failures degrade into a
  single CRITICAL ENFORCEMENT_ERROR finding so callers can inspect
  result.IsCompliant without exception handling.

EVALUATION FLOW:
  1. Preconditions (short-circuit on failure):
     - user must exist            -> USER_NOT_FOUND
     - active policy must exist   -> POLICY_NOT_FOUND
  2. Parallel reads: current-year ledger entries (balance), open
     pending/approved entries (overlap), holidays in the draft range.
     The reads are independent; relative completion order is irrelevant.
  3. Rule battery, in fixed order (rules.go). The order carries no data
     dependency - it only pins the order findings appear in the lists,
     which the UI and the tests rely on.
  4. IsCompliant = zero CRITICAL violations.

CONCURRENCY:
  Evaluate is read-only and stateless. Arbitrarily many evaluations may
  run concurrently; there is no shared mutable state between calls.

SEE ALSO:
  - rules.go: The individual checks
  - summary.go: The trailing-90-day compliance summary
*/
package compliance

import (
	"context"
	"log"
	"sync"
	"time"
)

// =============================================================================
// ENGINE
// =============================================================================

// Engine evaluates leave request drafts against policy rules.
// All fields must be set before use; NewEngine applies the defaults.
type Engine struct {
	Users        UserDirectory
	Policies     PolicyRepository
	Ledger       LeaveLedger
	Holidays     HolidayCalendar
	Config       RuleConfig
	Restrictions Restrictions

	// Now supplies the clock; tests pin it for deterministic notice math.
	Now func() time.Time
}

// NewEngine creates an engine with default thresholds and restrictions.
func NewEngine(users UserDirectory, policies PolicyRepository, ledger LeaveLedger, holidays HolidayCalendar) *Engine {
	return &Engine{
		Users:        users,
		Policies:     policies,
		Ledger:       ledger,
		Holidays:     holidays,
		Config:       DefaultRuleConfig(),
		Restrictions: DefaultRestrictions(),
		Now:          time.Now,
	}
}

// ruleInput bundles everything a rule may look at. Rules are pure
// functions of this value; they never perform I/O.
type ruleInput struct {
	User        *User
	Draft       RequestDraft
	Policy      *LeavePolicy
	YearEntries []LedgerEntry // same leave type, submitted this calendar year
	OpenEntries []LedgerEntry // pending/approved, any type, for overlap
	Holidays    []Holiday     // active holidays within the draft range
	Today       Date
}

// Evaluate runs the full rule battery for the draft. It never returns
// an error: data-driven non-compliance lands in the Result, and
// infrastructure failures collapse into a single ENFORCEMENT_ERROR
// critical violation.
func (e *Engine) Evaluate(ctx context.Context, userID string, draft RequestDraft) *Result {
	result := newResult()

	user, err := e.Users.FindByID(ctx, userID)
	if err != nil {
		return e.enforcementFailure("user lookup", err)
	}
	if user == nil {
		result.violate(Violation{
			Severity: SeverityCritical,
			Code:     CodeUserNotFound,
			Message:  "user does not exist",
			Field:    "userId",
			Value:    userID,
		})
		return result
	}

	policy, err := e.Policies.FindActiveByType(ctx, draft.LeaveType)
	if err != nil {
		return e.enforcementFailure("policy lookup", err)
	}
	if policy == nil {
		result.violate(Violation{
			Severity: SeverityCritical,
			Code:     CodePolicyNotFound,
			Message:  "no active policy for leave type " + string(draft.LeaveType),
			Field:    "leaveType",
			Value:    string(draft.LeaveType),
		})
		return result
	}

	today := DateOf(e.Now())

	// The remaining reads are independent; issue them in parallel.
	var (
		wg          sync.WaitGroup
		yearEntries []LedgerEntry
		openEntries []LedgerEntry
		holidays    []Holiday
		yearErr     error
		openErr     error
		holidayErr  error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		yearEntries, yearErr = e.Ledger.FindForUser(ctx, userID, LedgerFilter{
			LeaveType:     draft.LeaveType,
			StatusIn:      []RequestStatus{StatusPending, StatusApproved},
			SubmittedFrom: StartOfYear(today.Year()).Time,
		})
	}()
	go func() {
		defer wg.Done()
		openEntries, openErr = e.Ledger.FindForUser(ctx, userID, LedgerFilter{
			StatusIn: []RequestStatus{StatusPending, StatusApproved},
		})
	}()
	go func() {
		defer wg.Done()
		holidays, holidayErr = e.Holidays.FindActiveInRange(ctx, draft.StartDate, draft.EndDate)
	}()
	wg.Wait()

	if yearErr != nil {
		return e.enforcementFailure("ledger read (balance)", yearErr)
	}
	if openErr != nil {
		return e.enforcementFailure("ledger read (overlap)", openErr)
	}
	if holidayErr != nil {
		return e.enforcementFailure("holiday read", holidayErr)
	}

	in := ruleInput{
		User:        user,
		Draft:       draft,
		Policy:      policy,
		YearEntries: yearEntries,
		OpenEntries: openEntries,
		Holidays:    holidays,
		Today:       today,
	}

	// Fixed order: this determines the order findings appear in the lists.
	e.checkBalance(in, result)
	e.checkNoticePeriod(in, result)
	e.checkConsecutiveDays(in, result)
	e.checkHalfDay(in, result)
	e.checkDocumentation(in, result)
	e.checkApproval(in, result)
	e.checkEmergencyContact(in, result)
	e.checkWorkHandover(in, result)
	e.checkHolidayConflict(in, result)
	e.checkOverlap(in, result)
	e.checkDepartmentRestriction(in, result)
	e.checkRoleRestriction(in, result)

	return result
}

// enforcementFailure logs the underlying error and returns the degraded
// result. The error's details never appear in the Result.
func (e *Engine) enforcementFailure(stage string, err error) *Result {
	log.Printf("[Compliance] %s failed: %v", stage, err)
	result := newResult()
	result.violate(Violation{
		Severity: SeverityCritical,
		Code:     CodeEnforcementError,
		Message:  "policy enforcement could not be completed",
	})
	return result
}
