package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"clubdesk.org/internal/access"
	"clubdesk.org/internal/club"
	"clubdesk.org/internal/club/clubtest"
)

func newTestGateway(t *testing.T) (*Gateway, *clubtest.MemStore) {
	t.Helper()
	store := clubtest.NewMemStore()

	store.AddProfile(&club.Profile{ID: "admin", Role: club.RoleAdmin, Active: true})
	store.AddProfile(&club.Profile{ID: "coach1", Role: club.RoleCoach, Active: true})
	store.AddProfile(&club.Profile{ID: "suspended", Role: club.RoleAdmin, Active: false})

	store.AddTeam(&club.Team{ID: "t-u13", Name: "U13 A", Pole: "FORMATION", CoachID: "coach1"})
	store.AddTeam(&club.Team{ID: "t-sen", Name: "Seniors 1", Pole: "SENIORS"})
	store.AddPlayer(&club.Player{ID: "p1", FirstName: "Lea", LastName: "Martin", TeamID: "t-u13"})
	store.AddPlayer(&club.Player{ID: "p2", FirstName: "Max", LastName: "Dupont", TeamID: "t-sen"})
	store.AddSession(&club.PlanningSession{ID: "s1", TeamID: "t-sen", Day: "monday",
		StartTime: "18:00", EndTime: "19:30", Location: "Gym A"})

	resolver, err := access.NewResolver(store)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	gw, err := New(store, resolver)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return gw, store
}

func TestAdminUpdateAppliesDirectly(t *testing.T) {
	gw, store := newTestGateway(t)
	res, err := gw.UpdateTeam(context.Background(), "admin", &club.TeamInput{
		ID: "t-u13", Name: "U13 Elite", Category: "U13", Pole: "FORMATION", Gender: "M",
	})
	if err != nil {
		t.Fatalf("UpdateTeam: %v", err)
	}
	if res.Status != StatusApplied {
		t.Fatalf("status = %q, want applied", res.Status)
	}
	if got := store.Team("t-u13"); got == nil || got.Name != "U13 Elite" {
		t.Errorf("team not updated: %+v", got)
	}
	if store.PendingCount() != 0 {
		t.Error("direct apply must not queue an approval request")
	}
}

func TestCoachOutOfScopeQueuesRequest(t *testing.T) {
	gw, store := newTestGateway(t)
	res, err := gw.UpdateTeam(context.Background(), "coach1", &club.TeamInput{
		ID: "t-sen", Name: "Seniors Renamed", Category: "SENIORS", Pole: "SENIORS", Gender: "M",
	})
	if err != nil {
		t.Fatalf("UpdateTeam: %v", err)
	}
	if res.Status != StatusSubmitted {
		t.Fatalf("status = %q, want submitted", res.Status)
	}
	if res.Request == nil || res.Request.Action != club.ActionTeamsUpdate {
		t.Fatalf("request = %+v", res.Request)
	}
	if store.Writes != 0 {
		t.Errorf("queued mutation wrote %d data rows", store.Writes)
	}
	if got := store.Team("t-sen"); got.Name != "Seniors 1" {
		t.Errorf("team changed before approval: %+v", got)
	}
	if store.PendingCount() != 1 {
		t.Errorf("pending count = %d, want 1", store.PendingCount())
	}
}

func TestCoachInScopeAppliesDirectly(t *testing.T) {
	gw, store := newTestGateway(t)
	res, err := gw.CreatePlayer(context.Background(), "coach1", &club.PlayerInput{
		FirstName: "Anna", LastName: "Faure", TeamID: "t-u13",
	})
	if err != nil {
		t.Fatalf("CreatePlayer: %v", err)
	}
	if res.Status != StatusApplied {
		t.Fatalf("status = %q, want applied", res.Status)
	}
	player, ok := res.Entity.(*club.Player)
	if !ok || player.ID == "" {
		t.Fatalf("entity = %#v", res.Entity)
	}
	if store.Player(player.ID) == nil {
		t.Error("player not persisted")
	}
}

func TestCoachCreatePlayerOutOfScopeQueues(t *testing.T) {
	gw, store := newTestGateway(t)
	res, err := gw.CreatePlayer(context.Background(), "coach1", &club.PlayerInput{
		FirstName: "Noah", LastName: "Blanc", TeamID: "t-sen",
	})
	if err != nil {
		t.Fatalf("CreatePlayer: %v", err)
	}
	if res.Status != StatusSubmitted {
		t.Fatalf("status = %q, want submitted", res.Status)
	}
	if res.Request.Action != club.ActionPlayersCreate {
		t.Errorf("action = %q", res.Request.Action)
	}
	if store.Writes != 0 {
		t.Error("players table must receive zero rows")
	}
	if store.PendingCount() != 1 {
		t.Errorf("pending = %d, want exactly 1", store.PendingCount())
	}
}

func TestCoachCreateTeamQueues(t *testing.T) {
	// A not-yet-existing team is only in scope for an ALL editor.
	gw, store := newTestGateway(t)
	res, err := gw.CreateTeam(context.Background(), "coach1", &club.TeamInput{
		Name: "U11 B", Category: "U11", Pole: "FORMATION", Gender: "F",
	})
	if err != nil {
		t.Fatalf("CreateTeam: %v", err)
	}
	if res.Status != StatusSubmitted {
		t.Fatalf("status = %q, want submitted", res.Status)
	}
	if store.Writes != 0 {
		t.Error("create must not write before approval")
	}
}

func TestMoveRequiresBothTeamsInScope(t *testing.T) {
	// coach1 edits t-u13 but not t-sen; moving p1 out of scope queues.
	gw, store := newTestGateway(t)
	res, err := gw.MovePlayer(context.Background(), "coach1", &club.PlayerMoveInput{
		PlayerID: "p1", ToTeamID: "t-sen",
	})
	if err != nil {
		t.Fatalf("MovePlayer: %v", err)
	}
	if res.Status != StatusSubmitted {
		t.Fatalf("status = %q, want submitted", res.Status)
	}
	if got := store.Player("p1"); got.TeamID != "t-u13" {
		t.Errorf("player moved before approval: %+v", got)
	}
}

func TestUnknownTeamIsScopeDenied(t *testing.T) {
	gw, _ := newTestGateway(t)
	_, err := gw.UpdateTeam(context.Background(), "admin", &club.TeamInput{
		ID: "ghost", Name: "Ghost", Category: "X", Pole: "X", Gender: "M",
	})
	if !errors.Is(err, club.ErrScopeDenied) {
		t.Errorf("expected ErrScopeDenied, got %v", err)
	}
}

func TestValidationRejectsBadInput(t *testing.T) {
	gw, store := newTestGateway(t)
	_, err := gw.CreateTeam(context.Background(), "admin", &club.TeamInput{Gender: "X"})
	var ve *club.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, f := range []string{"name", "category", "pole", "gender"} {
		if !containsField(ve.Fields, f) {
			t.Errorf("missing field %q in %v", f, ve.Fields)
		}
	}
	if store.Writes != 0 || store.PendingCount() != 0 {
		t.Error("invalid input must not write or queue")
	}
}

func TestSuspendedActorDenied(t *testing.T) {
	gw, _ := newTestGateway(t)
	_, err := gw.DeleteTeam(context.Background(), "suspended", &club.DeleteInput{ID: "t-u13"})
	if !errors.Is(err, club.ErrAccountSuspended) {
		t.Errorf("expected ErrAccountSuspended, got %v", err)
	}
}

func TestUnknownActorNotAuthenticated(t *testing.T) {
	gw, _ := newTestGateway(t)
	_, err := gw.DeleteTeam(context.Background(), "ghost", &club.DeleteInput{ID: "t-u13"})
	if !errors.Is(err, club.ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestSetAttendanceScopesBySessionTeam(t *testing.T) {
	gw, store := newTestGateway(t)
	// s1 belongs to t-sen, outside coach1's scope.
	res, err := gw.SetAttendance(context.Background(), "coach1", &club.AttendanceInput{
		SessionID: "s1", PlayerID: "p2", Status: club.AttendancePresent,
	})
	if err != nil {
		t.Fatalf("SetAttendance: %v", err)
	}
	if res.Status != StatusSubmitted {
		t.Fatalf("status = %q, want submitted", res.Status)
	}

	// Admin applies directly.
	res, err = gw.SetAttendance(context.Background(), "admin", &club.AttendanceInput{
		SessionID: "s1", PlayerID: "p2", Status: club.AttendanceLate,
	})
	if err != nil {
		t.Fatalf("SetAttendance: %v", err)
	}
	if res.Status != StatusApplied {
		t.Fatalf("status = %q, want applied", res.Status)
	}
	records, err := store.Attendance().ListBySession(context.Background(), "s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Status != club.AttendanceLate {
		t.Errorf("attendance = %+v", records)
	}
}

func TestQueuedPayloadRoundTrips(t *testing.T) {
	gw, store := newTestGateway(t)
	kickoff := time.Date(2026, 9, 12, 15, 0, 0, 0, time.UTC)
	res, err := gw.CreateMatch(context.Background(), "coach1", &club.MatchInput{
		TeamID: "t-sen", Opponent: "FC Rival", Kickoff: kickoff,
	})
	if err != nil {
		t.Fatalf("CreateMatch: %v", err)
	}
	if res.Status != StatusSubmitted {
		t.Fatalf("status = %q, want submitted", res.Status)
	}
	stored := store.Approval(res.Request.ID)
	if stored == nil {
		t.Fatal("request not persisted")
	}
	if stored.Entity != "matches" || stored.Action != club.ActionMatchesCreate {
		t.Errorf("stored request = %+v", stored)
	}
	if len(stored.Payload) == 0 {
		t.Error("payload missing")
	}
}

func containsField(fields []string, want string) bool {
	for _, f := range fields {
		if f == want {
			return true
		}
	}
	return false
}
