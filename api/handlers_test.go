/*
handlers_test.go - Unit tests for API handlers

Tests for:
- Draft schema validation and date handling
- Check vs submit behavior (nothing persisted vs pending request)
- Approval workflow
- Policy uniqueness conflict
- Working-day cache refresh
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/warp/compliance-engine/compliance"
	"github.com/warp/compliance-engine/factory"
	"github.com/warp/compliance-engine/store/sqlite"
)

// newTestServer wires an in-memory store, seeded policies, a pinned
// clock, and one employee behind a full router.
func newTestServer(t *testing.T) (*httptest.Server, *sqlite.Store, *Handler) {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	for _, p := range factory.DefaultPolicies() {
		if err := st.SavePolicy(ctx, p); err != nil {
			t.Fatalf("Failed to seed policy: %v", err)
		}
	}
	if err := st.SaveUser(ctx, compliance.User{
		ID: "emp-1", Name: "Test User", Email: "test@example.com",
		Role: "engineer", Department: "Platform", IsActive: true,
	}); err != nil {
		t.Fatalf("Failed to create employee: %v", err)
	}

	handler, err := NewHandler(st)
	if err != nil {
		t.Fatalf("Failed to create handler: %v", err)
	}
	handler.Engine.Now = func() time.Time {
		return time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC)
	}

	srv := httptest.NewServer(NewRouter(handler))
	t.Cleanup(srv.Close)
	return srv, st, handler
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s failed: %v", url, err)
	}
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return out
}

// validBody is a draft the default policies accept without violations.
func validBody() LeaveRequestBody {
	return LeaveRequestBody{
		LeaveType:        "annual",
		StartDate:        "2024-06-03",
		EndDate:          "2024-06-04",
		Reason:           "long planned family trip to the coast",
		EmergencyContact: "+1 555 0100",
		WorkHandover:     "tickets triaged, on-call covered by Sam",
	}
}

func TestSubmit_CompliantDraft_PersistsPendingRequest(t *testing.T) {
	// GIVEN: A clean annual-leave draft
	// WHEN: Submitting it
	// THEN: 201 with the persisted request and the compliance report,
	//       and the request is readable back as pending

	srv, st, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/employees/emp-1/leave-requests", validBody())
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	out := decodeBody[SubmitResponse](t, resp)
	if !out.Compliance.IsCompliant {
		t.Errorf("expected compliant result, got %+v", out.Compliance)
	}
	if out.Request.Status != "pending" {
		t.Errorf("expected pending status, got %s", out.Request.Status)
	}
	if out.Request.TotalDays != 2 {
		t.Errorf("expected 2 total days, got %v", out.Request.TotalDays)
	}

	stored, err := st.GetRequest(context.Background(), out.Request.ID)
	if err != nil || stored == nil {
		t.Fatalf("request not persisted: %v", err)
	}
	if stored.Status != compliance.StatusPending {
		t.Errorf("expected pending, got %s", stored.Status)
	}
}

func TestSubmit_BlockedDraft_NothingPersisted(t *testing.T) {
	// GIVEN: A half-day draft for a type whose policy forbids half-days
	// WHEN: Submitting it
	// THEN: 422 carrying the compliance report, nothing stored

	srv, st, _ := newTestServer(t)

	body := LeaveRequestBody{
		LeaveType: "emergency",
		StartDate: "2024-05-02",
		EndDate:   "2024-05-02",
		IsHalfDay: true,
	}
	resp := postJSON(t, srv.URL+"/api/employees/emp-1/leave-requests", body)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}

	out := decodeBody[SubmitResponse](t, resp)
	if out.Compliance.IsCompliant {
		t.Error("expected non-compliant result")
	}

	requests, err := st.ListRequestsByUser(context.Background(), "emp-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(requests) != 0 {
		t.Errorf("expected no persisted requests, got %d", len(requests))
	}
}

func TestCheck_DoesNotPersist(t *testing.T) {
	// GIVEN: A compliant draft
	// WHEN: Calling the check endpoint
	// THEN: 200 with the report and an empty request table

	srv, st, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/employees/emp-1/leave-requests/check", validBody())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	result := decodeBody[compliance.Result](t, resp)
	if !result.IsCompliant {
		t.Errorf("expected compliant result, got %+v", result)
	}

	requests, _ := st.ListRequestsByUser(context.Background(), "emp-1")
	if len(requests) != 0 {
		t.Errorf("check must not persist, got %d requests", len(requests))
	}
}

func TestCheck_NonCompliantStill200(t *testing.T) {
	// GIVEN: A draft blocked by the half-day rule
	// WHEN: Checking it
	// THEN: 200; the report itself carries the verdict

	srv, _, _ := newTestServer(t)

	body := LeaveRequestBody{
		LeaveType: "emergency",
		StartDate: "2024-05-02",
		EndDate:   "2024-05-02",
		IsHalfDay: true,
	}
	resp := postJSON(t, srv.URL+"/api/employees/emp-1/leave-requests/check", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	result := decodeBody[compliance.Result](t, resp)
	if result.IsCompliant {
		t.Error("expected non-compliant result")
	}
}

func TestSubmit_SchemaRejections(t *testing.T) {
	srv, _, _ := newTestServer(t)
	url := srv.URL + "/api/employees/emp-1/leave-requests"

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing leaveType", map[string]any{
			"startDate": "2024-06-03", "endDate": "2024-06-04"}},
		{"unknown leaveType", map[string]any{
			"leaveType": "sabbatical", "startDate": "2024-06-03", "endDate": "2024-06-04"}},
		{"bad date format", map[string]any{
			"leaveType": "annual", "startDate": "03/06/2024", "endDate": "2024-06-04"}},
		{"bad halfDayPeriod", map[string]any{
			"leaveType": "annual", "startDate": "2024-06-03", "endDate": "2024-06-04",
			"isHalfDay": true, "halfDayPeriod": "evening"}},
		{"unexpected field", map[string]any{
			"leaveType": "annual", "startDate": "2024-06-03", "endDate": "2024-06-04",
			"approveMe": true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, url, tt.body)
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", resp.StatusCode)
			}
		})
	}
}

func TestSubmit_EndBeforeStart_Rejected(t *testing.T) {
	srv, _, _ := newTestServer(t)

	body := validBody()
	body.StartDate = "2024-06-10"
	body.EndDate = "2024-06-03"
	resp := postJSON(t, srv.URL+"/api/employees/emp-1/leave-requests", body)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestApprovalWorkflow(t *testing.T) {
	// GIVEN: A submitted pending request
	// WHEN: Approving it via the requests endpoint
	// THEN: The status flips to approved and it leaves the pending list

	srv, _, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/employees/emp-1/leave-requests", validBody())
	out := decodeBody[SubmitResponse](t, resp)

	pendingResp, err := http.Get(srv.URL + "/api/requests/pending")
	if err != nil {
		t.Fatalf("GET pending failed: %v", err)
	}
	pending := decodeBody[[]LeaveRequestDTO](t, pendingResp)
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending request, got %d", len(pending))
	}

	approveResp := postJSON(t, srv.URL+"/api/requests/"+out.Request.ID+"/approve", nil)
	if approveResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", approveResp.StatusCode)
	}
	approved := decodeBody[LeaveRequestDTO](t, approveResp)
	if approved.Status != "approved" {
		t.Errorf("expected approved, got %s", approved.Status)
	}

	pendingResp, _ = http.Get(srv.URL + "/api/requests/pending")
	pending = decodeBody[[]LeaveRequestDTO](t, pendingResp)
	if len(pending) != 0 {
		t.Errorf("expected empty pending list, got %d", len(pending))
	}
}

func TestReject_WithReason(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/employees/emp-1/leave-requests", validBody())
	out := decodeBody[SubmitResponse](t, resp)

	rejectResp := postJSON(t, srv.URL+"/api/requests/"+out.Request.ID+"/reject",
		RejectRequestBody{Reason: "team at capacity that week"})
	if rejectResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", rejectResp.StatusCode)
	}
	rejected := decodeBody[LeaveRequestDTO](t, rejectResp)
	if rejected.Status != "rejected" {
		t.Errorf("expected rejected, got %s", rejected.Status)
	}
	if rejected.RejectionReason != "team at capacity that week" {
		t.Errorf("missing rejection reason, got %q", rejected.RejectionReason)
	}
}

func TestApprove_UnknownRequest_404(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/requests/no-such-id/approve", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestCreatePolicy_DuplicateActiveType_Conflict(t *testing.T) {
	// GIVEN: Seeded policies already hold an active annual policy
	// WHEN: Creating a second active annual policy
	// THEN: 409

	srv, _, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/policies", factory.PolicyJSON{
		LeaveType:        "annual",
		TotalDaysPerYear: 25,
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409, got %d", resp.StatusCode)
	}
}

func TestComplianceSummary_FreshUser(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/employees/emp-1/compliance")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	summary := decodeBody[compliance.Summary](t, resp)
	if summary.OverallCompliance != 100 {
		t.Errorf("expected 100%% for a fresh user, got %v", summary.OverallCompliance)
	}
}

func TestWorkingDays_AfterSchedulerRun(t *testing.T) {
	// GIVEN: A scheduler refresh over an empty holiday calendar
	// WHEN: Querying the current year
	// THEN: Twelve cached months, all with plausible counts

	srv, st, _ := newTestServer(t)

	scheduler := NewWorkingDaysScheduler(st)
	scheduler.RunNow()

	resp, err := http.Get(srv.URL + "/api/working-days")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	months := decodeBody[[]sqlite.WorkingDayMonth](t, resp)
	if len(months) != 12 {
		t.Fatalf("expected 12 months, got %d", len(months))
	}
	for _, m := range months {
		if m.WorkingDays < 20 || m.WorkingDays > 23 {
			t.Errorf("%d-%02d: implausible working-day count %d", m.Year, m.Month, m.WorkingDays)
		}
	}
}

func TestCreateEmployee_GeneratesID(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/employees", CreateEmployeeRequest{
		Name: "New Hire", Email: "new@example.com", Role: "engineer", Department: "Platform",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	emp := decodeBody[EmployeeDTO](t, resp)
	if emp.ID == "" {
		t.Error("expected a generated employee id")
	}
	if !emp.IsActive {
		t.Error("new employees should be active")
	}
}

func TestHolidayLifecycle(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/holidays", HolidayDTO{
		Name: "Founders Day", Date: "2024-06-04",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	created := decodeBody[HolidayDTO](t, resp)
	if created.Type != "public" {
		t.Errorf("expected default type public, got %q", created.Type)
	}

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/holidays/"+created.ID, nil)
	delResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE failed: %v", err)
	}
	delResp.Body.Close()
	if delResp.StatusCode != http.StatusNoContent {
		t.Errorf("expected 204, got %d", delResp.StatusCode)
	}

	listResp, _ := http.Get(srv.URL + "/api/holidays")
	holidays := decodeBody[[]HolidayDTO](t, listResp)
	if len(holidays) != 0 {
		t.Errorf("expected empty holiday list, got %d", len(holidays))
	}
}
