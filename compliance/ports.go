/*
ports.go - Collaborator interfaces for the compliance engine

PURPOSE:
  The engine contains all decision logic but owns no data. These four
  interfaces are its read-only view of the outside world: policy
  definitions, the user's existing requests, the holiday calendar, and
  the user directory. Implementations live in store/sqlite (production)
  and compliance/store (in-memory, for tests and dev).

NIL CONVENTION:
  Lookup methods return (nil, nil) for "not found". An error return
  means the read itself failed (infrastructure), which the engine
  degrades into a single ENFORCEMENT_ERROR violation.

SEE ALSO:
  - engine.go: How the collaborators are loaded (in parallel)
  - store/sqlite/sqlite.go: Production implementation
  - compliance/store/memory.go: In-memory implementation
*/
package compliance

import (
	"context"
	"time"
)

// PolicyRepository looks up leave-type policy definitions.
type PolicyRepository interface {
	// FindActiveByType returns the active policy for the leave type,
	// or nil if no active policy exists.
	FindActiveByType(ctx context.Context, t LeaveType) (*LeavePolicy, error)
}

// LedgerFilter narrows a FindForUser query. Zero values mean "no filter".
type LedgerFilter struct {
	LeaveType     LeaveType       // "" = all types
	StatusIn      []RequestStatus // nil = all statuses
	SubmittedFrom time.Time       // zero = no lower bound
	SubmittedTo   time.Time       // zero = no upper bound
}

// LeaveLedger is the read-only aggregate of a user's existing requests.
type LeaveLedger interface {
	FindForUser(ctx context.Context, userID string, f LedgerFilter) ([]LedgerEntry, error)
}

// HolidayCalendar looks up holidays in a date range.
type HolidayCalendar interface {
	// FindActiveInRange returns active holidays with date in [from, to],
	// ordered by date.
	FindActiveInRange(ctx context.Context, from, to Date) ([]Holiday, error)
}

// UserDirectory resolves user identities.
type UserDirectory interface {
	// FindByID returns the user, or nil if no such user exists.
	FindByID(ctx context.Context, id string) (*User, error)
}
