/*
Package sqlite provides a SQLite-backed implementation of the
compliance collaborator interfaces plus the surrounding persistence
(users, policies, holidays, leave requests, working-day months).

PURPOSE:
  One Store serves two audiences: the compliance engine reads through
  the narrow collaborator interfaces (PolicyRepository, LeaveLedger,
  HolidayCalendar, UserDirectory), and the HTTP layer uses the wider
  CRUD surface to manage reference data and persist requests the engine
  has cleared. In production the same patterns apply to PostgreSQL -
  only minor SQL dialect differences.

KEY TABLES:
  users:               Directory snapshot (role, department, active flag)
  leave_policies:      Per-type policy definitions; a partial unique
                       index enforces at most one ACTIVE policy per type
  holidays:            Reference calendar, soft-disabled via is_active
  leave_requests:      Persisted requests; the engine's ledger read model
  working_day_months:  Cached per-month working-day counts (scheduler)

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so concurrent
  evaluation reads don't block behind writes.

USAGE:
  store, err := sqlite.New("./data/compliance.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  engine := compliance.NewEngine(store, store, store, store)

SEE ALSO:
  - compliance/ports.go: Interface definitions
  - compliance/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/compliance-engine/compliance"
)

// Store implements the compliance collaborator interfaces and the
// admin/persistence surface using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// An in-memory database exists per connection; keep the pool at one
	// so every query sees the same data.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		role TEXT NOT NULL,
		department TEXT NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS leave_policies (
		id TEXT PRIMARY KEY,
		leave_type TEXT NOT NULL,
		total_days_per_year INTEGER NOT NULL,
		can_carry_forward INTEGER NOT NULL DEFAULT 0,
		max_carry_forward_days INTEGER NOT NULL DEFAULT 0,
		requires_approval INTEGER NOT NULL DEFAULT 1,
		allow_half_day INTEGER NOT NULL DEFAULT 0,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- INVARIANT: at most one ACTIVE policy per leave type
	CREATE UNIQUE INDEX IF NOT EXISTS idx_policies_active_type
		ON leave_policies(leave_type)
		WHERE is_active = 1;

	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		date TEXT NOT NULL,
		holiday_type TEXT NOT NULL DEFAULT 'public',
		is_active INTEGER NOT NULL DEFAULT 1
	);

	CREATE INDEX IF NOT EXISTS idx_holidays_date ON holidays(date);

	CREATE TABLE IF NOT EXISTS leave_requests (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		leave_type TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		is_half_day INTEGER NOT NULL DEFAULT 0,
		half_day_period TEXT,
		total_days TEXT NOT NULL,
		reason TEXT,
		emergency_contact TEXT,
		work_handover TEXT,
		status TEXT NOT NULL DEFAULT 'pending',
		submitted_at TEXT NOT NULL,
		decided_at TEXT,
		decided_by TEXT,
		rejection_reason TEXT
	);

	-- Hot path: the engine's balance and overlap reads
	CREATE INDEX IF NOT EXISTS idx_requests_user_type_submitted
		ON leave_requests(user_id, leave_type, submitted_at);
	CREATE INDEX IF NOT EXISTS idx_requests_user_status
		ON leave_requests(user_id, status);

	CREATE TABLE IF NOT EXISTS working_day_months (
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		working_days INTEGER NOT NULL,
		computed_at TEXT NOT NULL,
		PRIMARY KEY (year, month)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// USER DIRECTORY (compliance.UserDirectory) + user CRUD
// =============================================================================

// FindByID implements compliance.UserDirectory. Returns nil when the
// user does not exist.
func (s *Store) FindByID(ctx context.Context, id string) (*compliance.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, role, department, is_active
		FROM users WHERE id = ?`, id)

	var u compliance.User
	var active int
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Department, &active)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.IsActive = active == 1
	return &u, nil
}

// SaveUser inserts or replaces a user.
func (s *Store) SaveUser(ctx context.Context, u compliance.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, role, department, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			role = excluded.role,
			department = excluded.department,
			is_active = excluded.is_active`,
		u.ID, u.Name, u.Email, u.Role, u.Department, boolInt(u.IsActive),
		time.Now().UTC().Format(time.RFC3339))
	return err
}

// ListUsers returns all users ordered by name.
func (s *Store) ListUsers(ctx context.Context) ([]compliance.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, role, department, is_active
		FROM users ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []compliance.User
	for rows.Next() {
		var u compliance.User
		var active int
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Department, &active); err != nil {
			return nil, err
		}
		u.IsActive = active == 1
		users = append(users, u)
	}
	return users, rows.Err()
}

// =============================================================================
// POLICY REPOSITORY (compliance.PolicyRepository) + policy CRUD
// =============================================================================

// FindActiveByType implements compliance.PolicyRepository. Returns nil
// when no active policy exists for the type.
func (s *Store) FindActiveByType(ctx context.Context, t compliance.LeaveType) (*compliance.LeavePolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, leave_type, total_days_per_year, can_carry_forward,
		       max_carry_forward_days, requires_approval, allow_half_day, is_active
		FROM leave_policies
		WHERE leave_type = ? AND is_active = 1`, string(t))

	p, err := scanPolicy(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// SavePolicy inserts or replaces a policy. Activating a policy while
// another policy for the same type is active violates the partial
// unique index; that surfaces as ErrDuplicateActivePolicy.
func (s *Store) SavePolicy(ctx context.Context, p compliance.LeavePolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leave_policies (id, leave_type, total_days_per_year, can_carry_forward,
			max_carry_forward_days, requires_approval, allow_half_day, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			leave_type = excluded.leave_type,
			total_days_per_year = excluded.total_days_per_year,
			can_carry_forward = excluded.can_carry_forward,
			max_carry_forward_days = excluded.max_carry_forward_days,
			requires_approval = excluded.requires_approval,
			allow_half_day = excluded.allow_half_day,
			is_active = excluded.is_active,
			updated_at = excluded.updated_at`,
		p.ID, string(p.LeaveType), p.TotalDaysPerYear, boolInt(p.CanCarryForward),
		p.MaxCarryForwardDays, boolInt(p.RequiresApproval), boolInt(p.AllowHalfDay),
		boolInt(p.IsActive), now, now)
	if err != nil && isUniqueViolation(err) {
		return compliance.ErrDuplicateActivePolicy
	}
	return err
}

// GetPolicy returns a policy by ID, or nil.
func (s *Store) GetPolicy(ctx context.Context, id string) (*compliance.LeavePolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, leave_type, total_days_per_year, can_carry_forward,
		       max_carry_forward_days, requires_approval, allow_half_day, is_active
		FROM leave_policies WHERE id = ?`, id)

	p, err := scanPolicy(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListPolicies returns all policies, active first, then by type.
func (s *Store) ListPolicies(ctx context.Context) ([]compliance.LeavePolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, leave_type, total_days_per_year, can_carry_forward,
		       max_carry_forward_days, requires_approval, allow_half_day, is_active
		FROM leave_policies ORDER BY is_active DESC, leave_type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var policies []compliance.LeavePolicy
	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, err
		}
		policies = append(policies, *p)
	}
	return policies, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPolicy(sc scanner) (*compliance.LeavePolicy, error) {
	var p compliance.LeavePolicy
	var leaveType string
	var carry, approval, halfDay, active int
	err := sc.Scan(&p.ID, &leaveType, &p.TotalDaysPerYear, &carry,
		&p.MaxCarryForwardDays, &approval, &halfDay, &active)
	if err != nil {
		return nil, err
	}
	p.LeaveType = compliance.LeaveType(leaveType)
	p.CanCarryForward = carry == 1
	p.RequiresApproval = approval == 1
	p.AllowHalfDay = halfDay == 1
	p.IsActive = active == 1
	return &p, nil
}

// =============================================================================
// HOLIDAY CALENDAR (compliance.HolidayCalendar) + holiday CRUD
// =============================================================================

// FindActiveInRange implements compliance.HolidayCalendar.
func (s *Store) FindActiveInRange(ctx context.Context, from, to compliance.Date) ([]compliance.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, date, holiday_type, is_active
		FROM holidays
		WHERE is_active = 1 AND date >= ? AND date <= ?
		ORDER BY date`, from.String(), to.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanHolidays(rows)
}

// ListHolidays returns all holidays (active or not) ordered by date.
func (s *Store) ListHolidays(ctx context.Context) ([]compliance.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, date, holiday_type, is_active
		FROM holidays ORDER BY date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanHolidays(rows)
}

func scanHolidays(rows *sql.Rows) ([]compliance.Holiday, error) {
	var holidays []compliance.Holiday
	for rows.Next() {
		var h compliance.Holiday
		var dateStr string
		var active int
		if err := rows.Scan(&h.ID, &h.Name, &dateStr, &h.Type, &active); err != nil {
			return nil, err
		}
		date, err := compliance.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt holiday date %q: %w", dateStr, err)
		}
		h.Date = date
		h.IsActive = active == 1
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// SaveHoliday inserts or replaces a holiday.
func (s *Store) SaveHoliday(ctx context.Context, h compliance.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO holidays (id, name, date, holiday_type, is_active)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			date = excluded.date,
			holiday_type = excluded.holiday_type,
			is_active = excluded.is_active`,
		h.ID, h.Name, h.Date.String(), h.Type, boolInt(h.IsActive))
	return err
}

// DeleteHoliday removes a holiday.
func (s *Store) DeleteHoliday(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM holidays WHERE id = ?`, id)
	return err
}

// =============================================================================
// LEAVE LEDGER (compliance.LeaveLedger) + request persistence
// =============================================================================

// LeaveRequest is the persisted form of a submitted request. The engine
// only ever sees the narrower compliance.LedgerEntry projection.
type LeaveRequest struct {
	ID               string
	UserID           string
	LeaveType        compliance.LeaveType
	StartDate        compliance.Date
	EndDate          compliance.Date
	IsHalfDay        bool
	HalfDayPeriod    compliance.HalfDayPeriod
	TotalDays        decimal.Decimal
	Reason           string
	EmergencyContact string
	WorkHandover     string
	Status           compliance.RequestStatus
	SubmittedAt      time.Time
	DecidedAt        *time.Time
	DecidedBy        string
	RejectionReason  string
}

// FindForUser implements compliance.LeaveLedger.
func (s *Store) FindForUser(ctx context.Context, userID string, f compliance.LedgerFilter) ([]compliance.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, leave_type, status, total_days, submitted_at, start_date, end_date
		FROM leave_requests
		WHERE user_id = ?`
	args := []any{userID}

	if f.LeaveType != "" {
		query += ` AND leave_type = ?`
		args = append(args, string(f.LeaveType))
	}
	if len(f.StatusIn) > 0 {
		query += ` AND status IN (` + placeholders(len(f.StatusIn)) + `)`
		for _, st := range f.StatusIn {
			args = append(args, string(st))
		}
	}
	if !f.SubmittedFrom.IsZero() {
		query += ` AND submitted_at >= ?`
		args = append(args, f.SubmittedFrom.UTC().Format(time.RFC3339))
	}
	if !f.SubmittedTo.IsZero() {
		query += ` AND submitted_at <= ?`
		args = append(args, f.SubmittedTo.UTC().Format(time.RFC3339))
	}
	query += ` ORDER BY submitted_at`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []compliance.LedgerEntry
	for rows.Next() {
		var e compliance.LedgerEntry
		var leaveType, status, totalDays, submitted, start, end string
		if err := rows.Scan(&e.ID, &leaveType, &status, &totalDays, &submitted, &start, &end); err != nil {
			return nil, err
		}
		e.LeaveType = compliance.LeaveType(leaveType)
		e.Status = compliance.RequestStatus(status)
		if e.TotalDays, err = decimal.NewFromString(totalDays); err != nil {
			return nil, fmt.Errorf("corrupt total_days %q: %w", totalDays, err)
		}
		if e.SubmittedAt, err = time.Parse(time.RFC3339, submitted); err != nil {
			return nil, fmt.Errorf("corrupt submitted_at %q: %w", submitted, err)
		}
		if e.StartDate, err = compliance.ParseDate(start); err != nil {
			return nil, err
		}
		if e.EndDate, err = compliance.ParseDate(end); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// SaveRequest persists a new leave request.
func (s *Store) SaveRequest(ctx context.Context, r LeaveRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var decidedAt any
	if r.DecidedAt != nil {
		decidedAt = r.DecidedAt.UTC().Format(time.RFC3339)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leave_requests (id, user_id, leave_type, start_date, end_date,
			is_half_day, half_day_period, total_days, reason, emergency_contact,
			work_handover, status, submitted_at, decided_at, decided_by, rejection_reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.UserID, string(r.LeaveType), r.StartDate.String(), r.EndDate.String(),
		boolInt(r.IsHalfDay), string(r.HalfDayPeriod), r.TotalDays.String(), r.Reason,
		r.EmergencyContact, r.WorkHandover, string(r.Status),
		r.SubmittedAt.UTC().Format(time.RFC3339), decidedAt, r.DecidedBy, r.RejectionReason)
	return err
}

// GetRequest returns a request by ID, or nil.
func (s *Store) GetRequest(ctx context.Context, id string) (*LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, selectRequest+` WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests, err := scanRequests(rows)
	if err != nil {
		return nil, err
	}
	if len(requests) == 0 {
		return nil, nil
	}
	return &requests[0], nil
}

// ListRequestsByUser returns all of a user's requests, newest first.
func (s *Store) ListRequestsByUser(ctx context.Context, userID string) ([]LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, selectRequest+` WHERE user_id = ? ORDER BY submitted_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRequests(rows)
}

// ListPendingRequests returns all pending requests, oldest first.
func (s *Store) ListPendingRequests(ctx context.Context) ([]LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, selectRequest+` WHERE status = 'pending' ORDER BY submitted_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRequests(rows)
}

// UpdateRequestStatus transitions a pending request to its decided
// state. Returns compliance.ErrRequestNotFound if no pending request
// with the ID exists.
func (s *Store) UpdateRequestStatus(ctx context.Context, id string, status compliance.RequestStatus, decidedBy, rejectionReason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE leave_requests
		SET status = ?, decided_at = ?, decided_by = ?, rejection_reason = ?
		WHERE id = ? AND status = 'pending'`,
		string(status), time.Now().UTC().Format(time.RFC3339), decidedBy, rejectionReason, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return compliance.ErrRequestNotFound
	}
	return nil
}

const selectRequest = `
	SELECT id, user_id, leave_type, start_date, end_date, is_half_day,
	       half_day_period, total_days, reason, emergency_contact,
	       work_handover, status, submitted_at, decided_at, decided_by, rejection_reason
	FROM leave_requests`

func scanRequests(rows *sql.Rows) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	for rows.Next() {
		var r LeaveRequest
		var leaveType, start, end, totalDays, status, submitted string
		var halfDayPeriod, reason, contact, handover, decidedBy, rejection sql.NullString
		var halfDay int
		var decidedAt sql.NullString

		err := rows.Scan(&r.ID, &r.UserID, &leaveType, &start, &end, &halfDay,
			&halfDayPeriod, &totalDays, &reason, &contact, &handover, &status,
			&submitted, &decidedAt, &decidedBy, &rejection)
		if err != nil {
			return nil, err
		}

		r.LeaveType = compliance.LeaveType(leaveType)
		if r.StartDate, err = compliance.ParseDate(start); err != nil {
			return nil, err
		}
		if r.EndDate, err = compliance.ParseDate(end); err != nil {
			return nil, err
		}
		r.IsHalfDay = halfDay == 1
		r.HalfDayPeriod = compliance.HalfDayPeriod(halfDayPeriod.String)
		if r.TotalDays, err = decimal.NewFromString(totalDays); err != nil {
			return nil, fmt.Errorf("corrupt total_days %q: %w", totalDays, err)
		}
		r.Reason = reason.String
		r.EmergencyContact = contact.String
		r.WorkHandover = handover.String
		r.Status = compliance.RequestStatus(status)
		if r.SubmittedAt, err = time.Parse(time.RFC3339, submitted); err != nil {
			return nil, fmt.Errorf("corrupt submitted_at %q: %w", submitted, err)
		}
		if decidedAt.Valid {
			t, err := time.Parse(time.RFC3339, decidedAt.String)
			if err != nil {
				return nil, fmt.Errorf("corrupt decided_at %q: %w", decidedAt.String, err)
			}
			r.DecidedAt = &t
		}
		r.DecidedBy = decidedBy.String
		r.RejectionReason = rejection.String
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

// =============================================================================
// WORKING-DAY MONTHS - Cached monthly working-day counts
// =============================================================================

// WorkingDayMonth is a cached working-day count for one month.
type WorkingDayMonth struct {
	Year        int       `json:"year"`
	Month       int       `json:"month"`
	WorkingDays int       `json:"workingDays"`
	ComputedAt  time.Time `json:"computedAt"`
}

// SaveWorkingDays inserts or replaces the count for a month.
func (s *Store) SaveWorkingDays(ctx context.Context, m WorkingDayMonth) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO working_day_months (year, month, working_days, computed_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(year, month) DO UPDATE SET
			working_days = excluded.working_days,
			computed_at = excluded.computed_at`,
		m.Year, m.Month, m.WorkingDays, m.ComputedAt.UTC().Format(time.RFC3339))
	return err
}

// ListWorkingDays returns the cached counts for a year, by month.
func (s *Store) ListWorkingDays(ctx context.Context, year int) ([]WorkingDayMonth, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT year, month, working_days, computed_at
		FROM working_day_months WHERE year = ? ORDER BY month`, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var months []WorkingDayMonth
	for rows.Next() {
		var m WorkingDayMonth
		var computed string
		if err := rows.Scan(&m.Year, &m.Month, &m.WorkingDays, &computed); err != nil {
			return nil, err
		}
		if m.ComputedAt, err = time.Parse(time.RFC3339, computed); err != nil {
			return nil, fmt.Errorf("corrupt computed_at %q: %w", computed, err)
		}
		months = append(months, m)
	}
	return months, rows.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

// Reset wipes all tables. Dev/test only.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"users", "leave_policies", "holidays", "leave_requests", "working_day_months"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func placeholders(n int) string {
	return strings.TrimPrefix(strings.Repeat(", ?", n), ", ")
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Compile-time interface checks.
var (
	_ compliance.UserDirectory    = (*Store)(nil)
	_ compliance.PolicyRepository = (*Store)(nil)
	_ compliance.LeaveLedger      = (*Store)(nil)
	_ compliance.HolidayCalendar  = (*Store)(nil)
)
