/*
config.go - Rule thresholds and restriction tables

PURPOSE:
  Every tunable the rules consult lives here instead of inline in the
  rule code: notice periods, consecutive-day caps, documentation and
  emergency-contact requirements, and the department/role restriction
  tables. Operators adjust these via the JSON config file parsed by the
  factory package; the defaults below match standard HR practice.

SEE ALSO:
  - rules.go: The rules reading these values
  - factory/config.go: JSON loading
*/
package compliance

import "github.com/shopspring/decimal"

// =============================================================================
// RULE CONFIG - Per-leave-type thresholds
// =============================================================================

// RuleConfig holds the thresholds consulted by the rule battery.
type RuleConfig struct {
	// Minimum days of notice between submission and leave start.
	MinNoticeDays     map[LeaveType]int
	DefaultNoticeDays int

	// Advisory maximum consecutive days per request.
	MaxConsecutiveDays     map[LeaveType]int
	DefaultConsecutiveDays int

	// Leave types that need supporting documentation in the reason.
	RequiresDocumentation map[LeaveType]bool
	MinReasonLength       int

	// Leave types that need an emergency contact.
	RequiresEmergencyContact map[LeaveType]bool

	// Requests longer than this need a work handover note.
	HandoverThresholdDays decimal.Decimal

	// Fraction of available balance above which a low-balance warning fires.
	LowBalanceRatio decimal.Decimal
}

// DefaultRuleConfig returns the standard thresholds.
func DefaultRuleConfig() RuleConfig {
	return RuleConfig{
		MinNoticeDays: map[LeaveType]int{
			LeaveAnnual:    7,
			LeaveSick:      0,
			LeaveCasual:    1,
			LeaveEmergency: 0,
			LeaveMaternity: 30,
			LeavePaternity: 14,
		},
		DefaultNoticeDays: 1,
		MaxConsecutiveDays: map[LeaveType]int{
			LeaveAnnual:    15,
			LeaveSick:      30,
			LeaveCasual:    3,
			LeaveEmergency: 5,
			LeaveMaternity: 180,
			LeavePaternity: 30,
		},
		DefaultConsecutiveDays: 10,
		RequiresDocumentation: map[LeaveType]bool{
			LeaveSick:      true,
			LeaveMaternity: true,
			LeavePaternity: true,
		},
		MinReasonLength: 20,
		RequiresEmergencyContact: map[LeaveType]bool{
			LeaveAnnual:    true,
			LeaveEmergency: true,
			LeaveMaternity: true,
			LeavePaternity: true,
		},
		HandoverThresholdDays: decimal.NewFromInt(3),
		LowBalanceRatio:       decimal.NewFromFloat(0.8),
	}
}

// NoticeDays returns the minimum notice for the leave type.
func (c RuleConfig) NoticeDays(t LeaveType) int {
	if n, ok := c.MinNoticeDays[t]; ok {
		return n
	}
	return c.DefaultNoticeDays
}

// ConsecutiveCap returns the advisory consecutive-day maximum.
func (c RuleConfig) ConsecutiveCap(t LeaveType) int {
	if n, ok := c.MaxConsecutiveDays[t]; ok {
		return n
	}
	return c.DefaultConsecutiveDays
}

// =============================================================================
// RESTRICTIONS - Department/role -> restricted leave types
// =============================================================================

// Restrictions maps departments and roles to the leave types they are
// advised against requesting. Loaded from configuration at startup;
// the engine only reads it.
type Restrictions struct {
	Departments map[string][]LeaveType
	Roles       map[string][]LeaveType
}

// DefaultRestrictions returns the built-in restriction tables.
func DefaultRestrictions() Restrictions {
	return Restrictions{
		Departments: map[string][]LeaveType{
			"IT": {LeaveMaternity, LeavePaternity},
		},
		Roles: map[string][]LeaveType{
			"manager": {LeaveCasual},
			"admin":   {LeaveEmergency},
		},
	}
}

// DepartmentRestricted reports whether t is restricted for the department.
func (r Restrictions) DepartmentRestricted(department string, t LeaveType) bool {
	return containsType(r.Departments[department], t)
}

// RoleRestricted reports whether t is restricted for the role.
func (r Restrictions) RoleRestricted(role string, t LeaveType) bool {
	return containsType(r.Roles[role], t)
}

func containsType(types []LeaveType, t LeaveType) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}
