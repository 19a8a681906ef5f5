package compliance_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/warp/compliance-engine/compliance"
	"github.com/warp/compliance-engine/compliance/store"
)

func summaryEntry(id string, status compliance.RequestStatus, submitted time.Time) compliance.LedgerEntry {
	return compliance.LedgerEntry{
		ID:          id,
		LeaveType:   compliance.LeaveAnnual,
		Status:      status,
		TotalDays:   decimal.NewFromInt(1),
		SubmittedAt: submitted,
		StartDate:   compliance.DateOf(submitted).AddDays(10),
		EndDate:     compliance.DateOf(submitted).AddDays(10),
	}
}

func TestSummarize_NoHistory_PerfectScore(t *testing.T) {
	// GIVEN: A user with no requests in the window
	// WHEN: Summarizing
	// THEN: 100% compliance, zero counts, no recommendations

	mem := store.NewMemory()
	seedUser(mem)
	engine := newTestEngine(mem)

	s := engine.Summarize(context.Background(), "emp-1")

	assert.Equal(t, 100.0, s.OverallCompliance)
	assert.Zero(t, s.PolicyViolations)
	assert.Zero(t, s.PolicyWarnings)
	assert.Empty(t, s.Recommendations)
}

func TestSummarize_MixedHistory(t *testing.T) {
	// GIVEN: 2 approved, 1 rejected, 1 pending inside the 90-day window
	// WHEN: Summarizing
	// THEN: 50% score, 1 violation, 1 warning, rejection recommendation

	mem := store.NewMemory()
	seedUser(mem)
	recent := frozenNow.Add(-10 * 24 * time.Hour)

	mem.AddEntry("emp-1", summaryEntry("r1", compliance.StatusApproved, recent))
	mem.AddEntry("emp-1", summaryEntry("r2", compliance.StatusApproved, recent.Add(time.Hour)))
	mem.AddEntry("emp-1", summaryEntry("r3", compliance.StatusRejected, recent.Add(2*time.Hour)))
	mem.AddEntry("emp-1", summaryEntry("r4", compliance.StatusPending, recent.Add(3*time.Hour)))

	engine := newTestEngine(mem)
	s := engine.Summarize(context.Background(), "emp-1")

	assert.Equal(t, 50.0, s.OverallCompliance)
	assert.Equal(t, 1, s.PolicyViolations)
	assert.Equal(t, 1, s.PolicyWarnings)
	// Both the rejection note and the below-80% note apply.
	assert.Len(t, s.Recommendations, 2)
}

func TestSummarize_OldRequestsOutsideWindow(t *testing.T) {
	// GIVEN: A rejected request submitted 120 days ago
	// WHEN: Summarizing
	// THEN: It falls outside the trailing 90 days, score stays 100

	mem := store.NewMemory()
	seedUser(mem)
	old := frozenNow.Add(-120 * 24 * time.Hour)
	mem.AddEntry("emp-1", summaryEntry("r1", compliance.StatusRejected, old))

	engine := newTestEngine(mem)
	s := engine.Summarize(context.Background(), "emp-1")

	assert.Equal(t, 100.0, s.OverallCompliance)
	assert.Zero(t, s.PolicyViolations)
}

func TestSummarize_HighApprovalRate_NoFloorRecommendation(t *testing.T) {
	// GIVEN: 4 approved, 1 rejected (80% approval)
	// WHEN: Summarizing
	// THEN: Exactly the rejection recommendation, not the floor one

	mem := store.NewMemory()
	seedUser(mem)
	recent := frozenNow.Add(-5 * 24 * time.Hour)
	for i := 0; i < 4; i++ {
		mem.AddEntry("emp-1", summaryEntry("ok", compliance.StatusApproved, recent.Add(time.Duration(i)*time.Hour)))
	}
	mem.AddEntry("emp-1", summaryEntry("no", compliance.StatusRejected, recent.Add(5*time.Hour)))

	engine := newTestEngine(mem)
	s := engine.Summarize(context.Background(), "emp-1")

	assert.Equal(t, 80.0, s.OverallCompliance)
	assert.Len(t, s.Recommendations, 1)
}

type failingLedger struct{}

func (failingLedger) FindForUser(context.Context, string, compliance.LedgerFilter) ([]compliance.LedgerEntry, error) {
	return nil, errors.New("disk gone")
}

func TestSummarize_LedgerFailure_DegradedZeroSummary(t *testing.T) {
	// GIVEN: A ledger whose reads fail
	// WHEN: Summarizing
	// THEN: All-zero summary with the error recommendation, no panic

	mem := store.NewMemory()
	seedUser(mem)
	engine := newTestEngine(mem)
	engine.Ledger = failingLedger{}

	s := engine.Summarize(context.Background(), "emp-1")

	assert.Zero(t, s.OverallCompliance)
	assert.Zero(t, s.PolicyViolations)
	assert.Equal(t, []string{"Error calculating compliance"}, s.Recommendations)
}
