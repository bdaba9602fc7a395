package access

import (
	"errors"
	"testing"

	"clubdesk.org/internal/club"
)

func TestRankOrdering(t *testing.T) {
	if !(Rank(club.RoleCoach) < Rank(club.RoleRespPole)) {
		t.Error("coach should rank below resp_pole")
	}
	if Rank(club.RoleRespPole) != Rank(club.RoleRespEquipements) {
		t.Error("resp_pole and resp_equipements should share a rank")
	}
	if !(Rank(club.RoleRespEquipements) < Rank(club.RoleRespSportif)) {
		t.Error("resp_equipements should rank below resp_sportif")
	}
	if !(Rank(club.RoleRespSportif) < Rank(club.RoleAdmin)) {
		t.Error("resp_sportif should rank below admin")
	}
	if Rank(club.Role("superuser")) != 0 {
		t.Error("unknown role should rank 0")
	}
}

func TestMeets(t *testing.T) {
	cases := []struct {
		name string
		role club.Role
		min  club.Role
		want bool
	}{
		{"admin meets admin", club.RoleAdmin, club.RoleAdmin, true},
		{"admin meets coach", club.RoleAdmin, club.RoleCoach, true},
		{"coach fails admin", club.RoleCoach, club.RoleAdmin, false},
		{"resp_pole meets resp_equipements", club.RoleRespPole, club.RoleRespEquipements, true},
		{"resp_equipements meets resp_pole", club.RoleRespEquipements, club.RoleRespPole, true},
		{"resp_sportif fails admin", club.RoleRespSportif, club.RoleAdmin, false},
		{"unknown role fails everything", club.Role("superuser"), club.RoleCoach, false},
		{"unknown minimum denies", club.RoleAdmin, club.Role("owner"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Meets(tc.role, tc.min); got != tc.want {
				t.Errorf("Meets(%q, %q) = %v, want %v", tc.role, tc.min, got, tc.want)
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("  Admin ")
	if err != nil {
		t.Fatalf("ParseRole: %v", err)
	}
	if r != club.RoleAdmin {
		t.Errorf("got %q, want admin", r)
	}

	if _, err := ParseRole("manager"); !errors.Is(err, club.ErrInvalidRole) {
		t.Errorf("expected ErrInvalidRole, got %v", err)
	}
	if _, err := ParseRole(""); !errors.Is(err, club.ErrInvalidRole) {
		t.Errorf("expected ErrInvalidRole for empty role, got %v", err)
	}
}

func TestPermissionsTable(t *testing.T) {
	cases := []struct {
		role club.Role
		want Permissions
	}{
		{club.RoleAdmin, Permissions{CanEdit: true, CanDelete: true, CanViewFinancials: true}},
		{club.RoleRespSportif, Permissions{CanEdit: true, CanDelete: true, CanViewFinancials: true}},
		{club.RoleRespEquipements, Permissions{CanEdit: true, CanViewFinancials: true}},
		{club.RoleRespPole, Permissions{CanEdit: true}},
		{club.RoleCoach, Permissions{CanEdit: true}},
		{club.Role("superuser"), Permissions{}},
	}
	for _, tc := range cases {
		if got := PermissionsFor(tc.role); got != tc.want {
			t.Errorf("PermissionsFor(%q) = %+v, want %+v", tc.role, got, tc.want)
		}
	}
}
