/*
summary.go - Trailing-90-day compliance summary

PURPOSE:
  A secondary, coarse-grained view of how a user's requests have fared
  recently: what fraction got approved, how many were rejected, and
  human-readable recommendations. Follows the same degradation contract
  as Evaluate - a failed read yields an all-zero summary with an error
  recommendation instead of an error return.
*/
package compliance

import (
	"context"
	"fmt"
	"log"
	"time"
)

// summaryWindow is how far back Summarize looks, by submission time.
const summaryWindow = 90 * 24 * time.Hour

// complianceFloor is the score below which a recommendation is added.
const complianceFloor = 80.0

// Summary reports a user's recent compliance track record.
type Summary struct {
	OverallCompliance float64  `json:"overallCompliance"` // 0..100
	PolicyViolations  int      `json:"policyViolations"`  // rejected requests
	PolicyWarnings    int      `json:"policyWarnings"`    // neither approved nor rejected
	Recommendations   []string `json:"recommendations"`
}

// Summarize computes the compliance summary for the user over the
// trailing 90 days. With no requests in the window the score is 100.
func (e *Engine) Summarize(ctx context.Context, userID string) *Summary {
	since := e.Now().Add(-summaryWindow)

	entries, err := e.Ledger.FindForUser(ctx, userID, LedgerFilter{
		SubmittedFrom: since,
	})
	if err != nil {
		log.Printf("[Compliance] summary ledger read failed: %v", err)
		return &Summary{
			Recommendations: []string{"Error calculating compliance"},
		}
	}

	total := len(entries)
	if total == 0 {
		return &Summary{
			OverallCompliance: 100,
			Recommendations:   []string{},
		}
	}

	approved := 0
	rejected := 0
	for _, entry := range entries {
		switch entry.Status {
		case StatusApproved:
			approved++
		case StatusRejected:
			rejected++
		}
	}

	summary := &Summary{
		OverallCompliance: float64(approved) / float64(total) * 100,
		PolicyViolations:  rejected,
		PolicyWarnings:    total - approved - rejected,
		Recommendations:   []string{},
	}

	if rejected > 0 {
		summary.Recommendations = append(summary.Recommendations,
			fmt.Sprintf("%d request(s) were rejected recently; review the leave policy before resubmitting", rejected))
	}
	if summary.OverallCompliance < complianceFloor {
		summary.Recommendations = append(summary.Recommendations,
			"Approval rate is below 80%; plan requests further in advance and check balances first")
	}

	return summary
}
