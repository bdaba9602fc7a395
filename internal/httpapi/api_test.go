package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clubdesk.org/internal/access"
	"clubdesk.org/internal/approval"
	"clubdesk.org/internal/auth"
	"clubdesk.org/internal/club"
	"clubdesk.org/internal/club/clubtest"
	"clubdesk.org/internal/gateway"
)

func newTestAPI(t *testing.T) (*API, *clubtest.MemStore) {
	t.Helper()
	auth.ResetSecretForTests()
	t.Setenv("CLUBDESK_AUTH_SECRET", "test-secret-0123456789")
	t.Cleanup(auth.ResetSecretForTests)

	store := clubtest.NewMemStore()

	adminHash, err := auth.HashPassword("admin-pass")
	if err != nil {
		t.Fatal(err)
	}
	store.AddProfile(&club.Profile{
		ID: "admin", Email: "admin@club.test", FullName: "Admin",
		Role: club.RoleAdmin, Active: true, PasswordHash: adminHash,
	})
	coachHash, err := auth.HashPassword("coach-pass")
	if err != nil {
		t.Fatal(err)
	}
	store.AddProfile(&club.Profile{
		ID: "coach1", Email: "coach@club.test", FullName: "Coach One",
		Role: club.RoleCoach, Active: true, PasswordHash: coachHash,
	})
	store.AddProfile(&club.Profile{
		ID: "benched", Email: "benched@club.test", FullName: "Benched",
		Role: club.RoleCoach, Active: false, PasswordHash: coachHash,
	})

	store.AddTeam(&club.Team{ID: "t-u13", Name: "U13 A", Category: "U13", Pole: "FORMATION", Gender: "M", CoachID: "coach1"})
	store.AddTeam(&club.Team{ID: "t-sen", Name: "Seniors 1", Category: "SENIORS", Pole: "SENIORS", Gender: "M"})

	resolver, err := access.NewResolver(store)
	if err != nil {
		t.Fatal(err)
	}
	gw, err := gateway.New(store, resolver)
	if err != nil {
		t.Fatal(err)
	}
	exec, err := approval.NewExecutor(store, resolver)
	if err != nil {
		t.Fatal(err)
	}
	api := New(store, resolver, gw, exec, ReadyProbe{}, Options{
		Version:  "test",
		TokenTTL: time.Hour,
	})
	return api, store
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}

func tokenFor(t *testing.T, profileID string) string {
	t.Helper()
	token, _, err := auth.GenerateToken(profileID, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return token
}

func TestHealthzIsPublic(t *testing.T) {
	api, _ := newTestAPI(t)
	rec := doJSON(t, api.Handler(), http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("healthz = %d, want 200", rec.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	api, _ := newTestAPI(t)
	rec := doJSON(t, api.Handler(), http.MethodGet, "/v1/teams", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no token = %d, want 401", rec.Code)
	}

	rec = doJSON(t, api.Handler(), http.MethodGet, "/v1/teams", "garbage-token", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token = %d, want 401", rec.Code)
	}
}

func TestTokenEndpoint(t *testing.T) {
	api, _ := newTestAPI(t)
	h := api.Handler()

	rec := doJSON(t, h, http.MethodPost, "/v1/auth/token", "",
		map[string]string{"email": "admin@club.test", "password": "wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong password = %d, want 401", rec.Code)
	}

	rec = doJSON(t, h, http.MethodPost, "/v1/auth/token", "",
		map[string]string{"email": "benched@club.test", "password": "coach-pass"})
	if rec.Code != http.StatusForbidden {
		t.Errorf("suspended = %d, want 403", rec.Code)
	}

	rec = doJSON(t, h, http.MethodPost, "/v1/auth/token", "",
		map[string]string{"email": "admin@club.test", "password": "admin-pass"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login = %d, body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("no token in response")
	}

	rec = doJSON(t, h, http.MethodGet, "/v1/me/permissions", token, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("issued token rejected: %d", rec.Code)
	}
}

func TestListTeamsScoped(t *testing.T) {
	api, _ := newTestAPI(t)
	h := api.Handler()

	rec := doJSON(t, h, http.MethodGet, "/v1/teams", tokenFor(t, "coach1"), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	teams, _ := body["teams"].([]any)
	if len(teams) != 1 {
		t.Fatalf("coach sees %d teams, want 1", len(teams))
	}

	rec = doJSON(t, h, http.MethodGet, "/v1/teams", tokenFor(t, "admin"), nil)
	body = decodeBody(t, rec)
	teams, _ = body["teams"].([]any)
	if len(teams) != 2 {
		t.Errorf("admin sees %d teams, want 2", len(teams))
	}
}

func TestSuspendedProfileDeniedOnPermissions(t *testing.T) {
	api, _ := newTestAPI(t)
	rec := doJSON(t, api.Handler(), http.MethodGet, "/v1/me/permissions", tokenFor(t, "benched"), nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("suspended = %d, want 403", rec.Code)
	}
}

func TestMutationRoutesThroughApproval(t *testing.T) {
	api, store := newTestAPI(t)
	h := api.Handler()

	// Coach edits a team outside its scope: accepted but queued.
	rec := doJSON(t, h, http.MethodPut, "/v1/teams/t-sen", tokenFor(t, "coach1"), club.TeamInput{
		Name: "Seniors Renamed", Category: "SENIORS", Pole: "SENIORS", Gender: "M",
	})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("coach update = %d, body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["status"] != "submitted_for_review" {
		t.Errorf("status = %v", body["status"])
	}
	reqObj, _ := body["request"].(map[string]any)
	reqID, _ := reqObj["id"].(string)
	if reqID == "" {
		t.Fatal("no request id in response")
	}
	if got := store.Team("t-sen"); got.Name != "Seniors 1" {
		t.Error("team changed before approval")
	}

	// Coach cannot decide.
	rec = doJSON(t, h, http.MethodPost, "/v1/approvals/"+reqID+"/approve", tokenFor(t, "coach1"), nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("coach approve = %d, want 403", rec.Code)
	}

	// Admin approves; the recorded change lands.
	rec = doJSON(t, h, http.MethodPost, "/v1/approvals/"+reqID+"/approve", tokenFor(t, "admin"), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin approve = %d, body %s", rec.Code, rec.Body.String())
	}
	if got := store.Team("t-sen"); got.Name != "Seniors Renamed" {
		t.Errorf("approved change not applied: %+v", got)
	}

	// A second decision conflicts.
	rec = doJSON(t, h, http.MethodPost, "/v1/approvals/"+reqID+"/reject", tokenFor(t, "admin"), nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("re-decide = %d, want 409", rec.Code)
	}
}

func TestAdminCreateTeamApplied(t *testing.T) {
	api, _ := newTestAPI(t)
	rec := doJSON(t, api.Handler(), http.MethodPost, "/v1/teams", tokenFor(t, "admin"), club.TeamInput{
		Name: "U11 B", Category: "U11", Pole: "FORMATION", Gender: "F",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d, body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["status"] != "applied" {
		t.Errorf("status = %v", body["status"])
	}
}

func TestValidationFailureLists422Fields(t *testing.T) {
	api, _ := newTestAPI(t)
	rec := doJSON(t, api.Handler(), http.MethodPost, "/v1/teams", tokenFor(t, "admin"), club.TeamInput{
		Gender: "X",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("create = %d, want 422", rec.Code)
	}
	body := decodeBody(t, rec)
	fields, _ := body["fields"].([]any)
	if len(fields) == 0 {
		t.Errorf("fields missing: %v", body)
	}
}

func TestApprovalListAdminOnly(t *testing.T) {
	api, _ := newTestAPI(t)
	h := api.Handler()

	rec := doJSON(t, h, http.MethodGet, "/v1/approvals", tokenFor(t, "coach1"), nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("coach list = %d, want 403", rec.Code)
	}
	rec = doJSON(t, h, http.MethodGet, "/v1/approvals", tokenFor(t, "admin"), nil)
	if rec.Code != http.StatusOK {
		t.Errorf("admin list = %d, want 200", rec.Code)
	}
}

func TestExtractBearerToken(t *testing.T) {
	cases := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{"Bearer abc", "abc", false},
		{"bearer abc", "abc", false},
		{"Bearer   abc  ", "abc", false},
		{"", "", true},
		{"Basic abc", "", true},
		{"Bearer ", "", true},
	}
	for _, tc := range cases {
		got, err := extractBearerToken(tc.header)
		if tc.wantErr {
			if err == nil {
				t.Errorf("header %q: expected error", tc.header)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("header %q: got %q, %v", tc.header, got, err)
		}
	}
}
