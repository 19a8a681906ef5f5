// Package store provides in-memory implementations of the compliance
// collaborator interfaces, for tests and local development.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/compliance-engine/compliance"
)

// =============================================================================
// MEMORY - In-memory collaborators (for testing/dev)
// =============================================================================

// Memory implements UserDirectory, PolicyRepository, LeaveLedger and
// HolidayCalendar over plain maps. Safe for concurrent use.
type Memory struct {
	mu       sync.RWMutex
	users    map[string]compliance.User
	policies map[compliance.LeaveType]compliance.LeavePolicy
	entries  map[string][]compliance.LedgerEntry // keyed by user ID
	holidays []compliance.Holiday
}

func NewMemory() *Memory {
	return &Memory{
		users:    make(map[string]compliance.User),
		policies: make(map[compliance.LeaveType]compliance.LeavePolicy),
		entries:  make(map[string][]compliance.LedgerEntry),
	}
}

// PutUser adds or replaces a user.
func (m *Memory) PutUser(u compliance.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
}

// PutPolicy adds or replaces the policy for its leave type.
func (m *Memory) PutPolicy(p compliance.LeavePolicy) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.policies[p.LeaveType] = p
}

// AddEntry appends a ledger entry for the user.
func (m *Memory) AddEntry(userID string, e compliance.LedgerEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[userID] = append(m.entries[userID], e)
}

// AddHoliday registers a holiday.
func (m *Memory) AddHoliday(h compliance.Holiday) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holidays = append(m.holidays, h)
}

// FindByID implements compliance.UserDirectory.
func (m *Memory) FindByID(_ context.Context, id string) (*compliance.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// FindActiveByType implements compliance.PolicyRepository.
func (m *Memory) FindActiveByType(_ context.Context, t compliance.LeaveType) (*compliance.LeavePolicy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.policies[t]
	if !ok || !p.IsActive {
		return nil, nil
	}
	return &p, nil
}

// FindForUser implements compliance.LeaveLedger.
func (m *Memory) FindForUser(_ context.Context, userID string, f compliance.LedgerFilter) ([]compliance.LedgerEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []compliance.LedgerEntry
	for _, e := range m.entries[userID] {
		if f.LeaveType != "" && e.LeaveType != f.LeaveType {
			continue
		}
		if len(f.StatusIn) > 0 && !statusIn(e.Status, f.StatusIn) {
			continue
		}
		if !f.SubmittedFrom.IsZero() && e.SubmittedAt.Before(f.SubmittedFrom) {
			continue
		}
		if !f.SubmittedTo.IsZero() && e.SubmittedAt.After(f.SubmittedTo) {
			continue
		}
		out = append(out, e)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].SubmittedAt.Before(out[j].SubmittedAt)
	})
	return out, nil
}

// FindActiveInRange implements compliance.HolidayCalendar.
func (m *Memory) FindActiveInRange(_ context.Context, from, to compliance.Date) ([]compliance.Holiday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []compliance.Holiday
	for _, h := range m.holidays {
		if h.IsActive && h.Date.AfterOrEqual(from) && h.Date.BeforeOrEqual(to) {
			out = append(out, h)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

func statusIn(s compliance.RequestStatus, in []compliance.RequestStatus) bool {
	for _, candidate := range in {
		if s == candidate {
			return true
		}
	}
	return false
}

// Compile-time interface checks.
var (
	_ compliance.UserDirectory    = (*Memory)(nil)
	_ compliance.PolicyRepository = (*Memory)(nil)
	_ compliance.LeaveLedger      = (*Memory)(nil)
	_ compliance.HolidayCalendar  = (*Memory)(nil)
)
