/*
Package factory provides JSON to Go configuration conversion.

PURPOSE:
  Converts JSON documents into compliance.RuleConfig, Restrictions and
  LeavePolicy values. This keeps thresholds and restriction tables as
  configuration data rather than hard-coded control flow - operators
  adjust restricted-type sets or notice periods without a rebuild.

JSON SCHEMA (engine config):
  {
    "min_notice_days": {"annual": 7, "maternity": 30},
    "max_consecutive_days": {"casual": 3},
    "requires_documentation": ["sick", "maternity", "paternity"],
    "min_reason_length": 20,
    "requires_emergency_contact": ["annual", "emergency"],
    "handover_threshold_days": 3,
    "low_balance_ratio": 0.8,
    "department_restrictions": {"IT": ["maternity", "paternity"]},
    "role_restrictions": {"manager": ["casual"]}
  }

  Omitted fields keep their defaults; maps are merged over the default
  tables, not replaced, so a config file only needs the overrides.

USAGE:
  cfg, restrictions, err := factory.LoadEngineConfig("./config.json")
  engine.Config = cfg
  engine.Restrictions = restrictions

SEE ALSO:
  - compliance/config.go: The target types and their defaults
*/
package factory

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warp/compliance-engine/compliance"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// EngineConfigJSON is the JSON representation of the rule thresholds
// and restriction tables.
type EngineConfigJSON struct {
	MinNoticeDays            map[string]int      `json:"min_notice_days,omitempty"`
	MaxConsecutiveDays       map[string]int      `json:"max_consecutive_days,omitempty"`
	RequiresDocumentation    []string            `json:"requires_documentation,omitempty"`
	MinReasonLength          *int                `json:"min_reason_length,omitempty"`
	RequiresEmergencyContact []string            `json:"requires_emergency_contact,omitempty"`
	HandoverThresholdDays    *float64            `json:"handover_threshold_days,omitempty"`
	LowBalanceRatio          *float64            `json:"low_balance_ratio,omitempty"`
	DepartmentRestrictions   map[string][]string `json:"department_restrictions,omitempty"`
	RoleRestrictions         map[string][]string `json:"role_restrictions,omitempty"`
}

// PolicyJSON is the JSON representation of a leave policy.
type PolicyJSON struct {
	ID                  string `json:"id,omitempty"`
	LeaveType           string `json:"leave_type"`
	TotalDaysPerYear    int    `json:"total_days_per_year"`
	CanCarryForward     bool   `json:"can_carry_forward,omitempty"`
	MaxCarryForwardDays int    `json:"max_carry_forward_days,omitempty"`
	RequiresApproval    bool   `json:"requires_approval,omitempty"`
	AllowHalfDay        bool   `json:"allow_half_day,omitempty"`
	IsActive            *bool  `json:"is_active,omitempty"` // default true
}

// =============================================================================
// ENGINE CONFIG PARSING
// =============================================================================

// ParseEngineConfig merges a JSON config document over the defaults.
// Unknown leave type names are rejected.
func ParseEngineConfig(data []byte) (compliance.RuleConfig, compliance.Restrictions, error) {
	cfg := compliance.DefaultRuleConfig()
	restrictions := compliance.DefaultRestrictions()

	var doc EngineConfigJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return cfg, restrictions, fmt.Errorf("invalid engine config: %w", err)
	}

	for name, days := range doc.MinNoticeDays {
		t, err := parseLeaveType(name)
		if err != nil {
			return cfg, restrictions, err
		}
		cfg.MinNoticeDays[t] = days
	}
	for name, days := range doc.MaxConsecutiveDays {
		t, err := parseLeaveType(name)
		if err != nil {
			return cfg, restrictions, err
		}
		cfg.MaxConsecutiveDays[t] = days
	}

	if doc.RequiresDocumentation != nil {
		set, err := parseTypeSet(doc.RequiresDocumentation)
		if err != nil {
			return cfg, restrictions, err
		}
		cfg.RequiresDocumentation = set
	}
	if doc.RequiresEmergencyContact != nil {
		set, err := parseTypeSet(doc.RequiresEmergencyContact)
		if err != nil {
			return cfg, restrictions, err
		}
		cfg.RequiresEmergencyContact = set
	}

	if doc.MinReasonLength != nil {
		cfg.MinReasonLength = *doc.MinReasonLength
	}
	if doc.HandoverThresholdDays != nil {
		cfg.HandoverThresholdDays = decimal.NewFromFloat(*doc.HandoverThresholdDays)
	}
	if doc.LowBalanceRatio != nil {
		cfg.LowBalanceRatio = decimal.NewFromFloat(*doc.LowBalanceRatio)
	}

	for dept, names := range doc.DepartmentRestrictions {
		types, err := parseTypeList(names)
		if err != nil {
			return cfg, restrictions, err
		}
		restrictions.Departments[dept] = types
	}
	for role, names := range doc.RoleRestrictions {
		types, err := parseTypeList(names)
		if err != nil {
			return cfg, restrictions, err
		}
		restrictions.Roles[role] = types
	}

	return cfg, restrictions, nil
}

// LoadEngineConfig reads and parses a config file. A missing file is
// not an error: the defaults apply.
func LoadEngineConfig(path string) (compliance.RuleConfig, compliance.Restrictions, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return compliance.DefaultRuleConfig(), compliance.DefaultRestrictions(), nil
	}
	if err != nil {
		return compliance.DefaultRuleConfig(), compliance.DefaultRestrictions(), err
	}
	return ParseEngineConfig(data)
}

// =============================================================================
// POLICY PARSING
// =============================================================================

// ParsePolicy converts a PolicyJSON into a compliance.LeavePolicy,
// validating types and ranges and filling defaults.
func ParsePolicy(doc PolicyJSON) (*compliance.LeavePolicy, error) {
	t, err := parseLeaveType(doc.LeaveType)
	if err != nil {
		return nil, err
	}
	if doc.TotalDaysPerYear < 0 {
		return nil, fmt.Errorf("total_days_per_year must be non-negative, got %d", doc.TotalDaysPerYear)
	}
	if doc.CanCarryForward && (doc.MaxCarryForwardDays < 0 || doc.MaxCarryForwardDays > 30) {
		return nil, fmt.Errorf("max_carry_forward_days must be 0-30, got %d", doc.MaxCarryForwardDays)
	}

	id := doc.ID
	if id == "" {
		id = uuid.NewString()
	}
	active := true
	if doc.IsActive != nil {
		active = *doc.IsActive
	}

	return &compliance.LeavePolicy{
		ID:                  id,
		LeaveType:           t,
		TotalDaysPerYear:    doc.TotalDaysPerYear,
		CanCarryForward:     doc.CanCarryForward,
		MaxCarryForwardDays: doc.MaxCarryForwardDays,
		RequiresApproval:    doc.RequiresApproval,
		AllowHalfDay:        doc.AllowHalfDay,
		IsActive:            active,
	}, nil
}

// DefaultPolicies returns one active policy per leave type with
// typical entitlements, for seeding a fresh database.
func DefaultPolicies() []compliance.LeavePolicy {
	return []compliance.LeavePolicy{
		{ID: "policy-annual", LeaveType: compliance.LeaveAnnual, TotalDaysPerYear: 20,
			CanCarryForward: true, MaxCarryForwardDays: 5, RequiresApproval: true, AllowHalfDay: true, IsActive: true},
		{ID: "policy-sick", LeaveType: compliance.LeaveSick, TotalDaysPerYear: 10,
			RequiresApproval: false, AllowHalfDay: true, IsActive: true},
		{ID: "policy-casual", LeaveType: compliance.LeaveCasual, TotalDaysPerYear: 7,
			RequiresApproval: true, AllowHalfDay: true, IsActive: true},
		{ID: "policy-emergency", LeaveType: compliance.LeaveEmergency, TotalDaysPerYear: 5,
			RequiresApproval: false, AllowHalfDay: false, IsActive: true},
		{ID: "policy-maternity", LeaveType: compliance.LeaveMaternity, TotalDaysPerYear: 180,
			RequiresApproval: true, AllowHalfDay: false, IsActive: true},
		{ID: "policy-paternity", LeaveType: compliance.LeavePaternity, TotalDaysPerYear: 14,
			RequiresApproval: true, AllowHalfDay: false, IsActive: true},
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func parseLeaveType(name string) (compliance.LeaveType, error) {
	t := compliance.LeaveType(name)
	if !t.Valid() {
		return "", &compliance.UnknownLeaveTypeError{Value: name}
	}
	return t, nil
}

func parseTypeList(names []string) ([]compliance.LeaveType, error) {
	types := make([]compliance.LeaveType, 0, len(names))
	for _, name := range names {
		t, err := parseLeaveType(name)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, nil
}

func parseTypeSet(names []string) (map[compliance.LeaveType]bool, error) {
	set := make(map[compliance.LeaveType]bool, len(names))
	for _, name := range names {
		t, err := parseLeaveType(name)
		if err != nil {
			return nil, err
		}
		set[t] = true
	}
	return set, nil
}
