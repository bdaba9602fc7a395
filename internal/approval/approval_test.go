package approval

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"clubdesk.org/internal/access"
	"clubdesk.org/internal/club"
	"clubdesk.org/internal/club/clubtest"
	"clubdesk.org/internal/gateway"
)

func newTestExecutor(t *testing.T) (*Executor, *gateway.Gateway, *clubtest.MemStore) {
	t.Helper()
	store := clubtest.NewMemStore()

	store.AddProfile(&club.Profile{ID: "admin", Role: club.RoleAdmin, Active: true})
	store.AddProfile(&club.Profile{ID: "sportif", Role: club.RoleRespSportif, Active: true})
	store.AddProfile(&club.Profile{ID: "coach1", Role: club.RoleCoach, Active: true})

	store.AddTeam(&club.Team{ID: "t-u13", Name: "U13 A", Pole: "FORMATION", CoachID: "coach1"})
	store.AddTeam(&club.Team{ID: "t-sen", Name: "Seniors 1", Pole: "SENIORS"})

	resolver, err := access.NewResolver(store)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	gw, err := gateway.New(store, resolver)
	if err != nil {
		t.Fatalf("gateway.New: %v", err)
	}
	exec, err := NewExecutor(store, resolver, WithClock(func() time.Time {
		return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	}))
	if err != nil {
		t.Fatalf("NewExecutor: %v", err)
	}
	return exec, gw, store
}

// queue pushes an out-of-scope mutation through the gateway so the test
// decides exactly what production would have recorded.
func queue(t *testing.T, gw *gateway.Gateway) *club.ApprovalRequest {
	t.Helper()
	res, err := gw.UpdateTeam(context.Background(), "coach1", &club.TeamInput{
		ID: "t-sen", Name: "Seniors Renamed", Category: "SENIORS", Pole: "SENIORS", Gender: "M",
	})
	if err != nil {
		t.Fatalf("queue request: %v", err)
	}
	if res.Status != gateway.StatusSubmitted {
		t.Fatalf("status = %q, want submitted", res.Status)
	}
	return res.Request
}

func TestApproveAppliesRecordedMutation(t *testing.T) {
	exec, gw, store := newTestExecutor(t)
	req := queue(t, gw)

	decided, err := exec.Approve(context.Background(), req.ID, "admin")
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if decided.Status != club.ApprovalApproved {
		t.Errorf("status = %q, want approved", decided.Status)
	}
	if decided.DecidedBy != "admin" || decided.DecidedAt == nil {
		t.Errorf("decision metadata missing: %+v", decided)
	}
	if got := store.Team("t-sen"); got.Name != "Seniors Renamed" {
		t.Errorf("mutation not applied: %+v", got)
	}
	if store.PendingCount() != 0 {
		t.Error("request should no longer be pending")
	}
}

func TestRejectLeavesDataUntouched(t *testing.T) {
	exec, gw, store := newTestExecutor(t)
	req := queue(t, gw)
	before := store.Writes

	decided, err := exec.Reject(context.Background(), req.ID, "admin")
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if decided.Status != club.ApprovalRejected {
		t.Errorf("status = %q, want rejected", decided.Status)
	}
	if store.Writes != before {
		t.Error("reject must not write data")
	}
	if got := store.Team("t-sen"); got.Name != "Seniors 1" {
		t.Errorf("team changed on reject: %+v", got)
	}
}

func TestDecisionIsTerminal(t *testing.T) {
	exec, gw, _ := newTestExecutor(t)
	req := queue(t, gw)

	if _, err := exec.Approve(context.Background(), req.ID, "admin"); err != nil {
		t.Fatalf("first approve: %v", err)
	}
	if _, err := exec.Approve(context.Background(), req.ID, "admin"); !errors.Is(err, club.ErrAlreadyDecided) {
		t.Errorf("second approve: got %v, want ErrAlreadyDecided", err)
	}
	if _, err := exec.Reject(context.Background(), req.ID, "admin"); !errors.Is(err, club.ErrAlreadyDecided) {
		t.Errorf("reject after approve: got %v, want ErrAlreadyDecided", err)
	}
}

func TestNonAdminCannotDecide(t *testing.T) {
	exec, gw, store := newTestExecutor(t)
	req := queue(t, gw)

	for _, decider := range []string{"sportif", "coach1"} {
		if _, err := exec.Approve(context.Background(), req.ID, decider); !errors.Is(err, club.ErrInsufficientRole) {
			t.Errorf("approve by %s: got %v, want ErrInsufficientRole", decider, err)
		}
		if _, err := exec.Reject(context.Background(), req.ID, decider); !errors.Is(err, club.ErrInsufficientRole) {
			t.Errorf("reject by %s: got %v, want ErrInsufficientRole", decider, err)
		}
	}
	if store.PendingCount() != 1 {
		t.Error("request must stay pending after denied decisions")
	}
}

func TestUnknownActionStaysPending(t *testing.T) {
	exec, _, store := newTestExecutor(t)
	req := &club.ApprovalRequest{
		ID:          "req-legacy",
		RequestedBy: "coach1",
		Action:      "teams.archive",
		Entity:      "teams",
		Payload:     json.RawMessage(`{}`),
		Status:      club.ApprovalPending,
	}
	if err := store.Approvals().Create(context.Background(), req); err != nil {
		t.Fatal(err)
	}

	_, err := exec.Approve(context.Background(), "req-legacy", "admin")
	if !errors.Is(err, club.ErrUnknownAction) {
		t.Fatalf("got %v, want ErrUnknownAction", err)
	}
	if got := store.Approval("req-legacy"); got.Status != club.ApprovalPending {
		t.Errorf("request decided despite missing handler: %+v", got)
	}
}

func TestFailedApplyStaysPending(t *testing.T) {
	exec, gw, store := newTestExecutor(t)
	req := queue(t, gw)

	store.FailWrites = errors.New("disk full")
	_, err := exec.Approve(context.Background(), req.ID, "admin")
	if !errors.Is(err, club.ErrApplyFailed) {
		t.Fatalf("got %v, want ErrApplyFailed", err)
	}
	if got := store.Approval(req.ID); got.Status != club.ApprovalPending {
		t.Errorf("request decided despite failed apply: %+v", got)
	}

	// Retry succeeds once the store recovers.
	store.FailWrites = nil
	if _, err := exec.Approve(context.Background(), req.ID, "admin"); err != nil {
		t.Fatalf("retry approve: %v", err)
	}
}

func TestInvalidRecordedPayloadStaysPending(t *testing.T) {
	exec, _, store := newTestExecutor(t)
	req := &club.ApprovalRequest{
		ID:          "req-bad",
		RequestedBy: "coach1",
		Action:      club.ActionTeamsUpdate,
		Entity:      "teams",
		Payload:     json.RawMessage(`{"id":"t-sen"}`),
		Status:      club.ApprovalPending,
	}
	if err := store.Approvals().Create(context.Background(), req); err != nil {
		t.Fatal(err)
	}

	_, err := exec.Approve(context.Background(), "req-bad", "admin")
	if !errors.Is(err, club.ErrApplyFailed) {
		t.Fatalf("got %v, want ErrApplyFailed", err)
	}
	if got := store.Approval("req-bad"); got.Status != club.ApprovalPending {
		t.Errorf("request decided despite invalid payload: %+v", got)
	}
}

func TestHandlerRegistryCoversEveryAction(t *testing.T) {
	exec, _, _ := newTestExecutor(t)
	for _, name := range club.ActionNames() {
		if _, ok := exec.handlers[name]; !ok {
			t.Errorf("no handler for %q", name)
		}
	}
	if len(exec.handlers) != len(club.ActionNames()) {
		t.Errorf("handler count = %d, want %d", len(exec.handlers), len(club.ActionNames()))
	}
}

func TestListPendingAdminGated(t *testing.T) {
	exec, gw, _ := newTestExecutor(t)
	queue(t, gw)

	if _, err := exec.ListPending(context.Background(), "coach1"); !errors.Is(err, club.ErrInsufficientRole) {
		t.Errorf("coach list: got %v, want ErrInsufficientRole", err)
	}
	pending, err := exec.ListPending(context.Background(), "admin")
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if len(pending) != 1 {
		t.Errorf("pending = %d, want 1", len(pending))
	}
}
