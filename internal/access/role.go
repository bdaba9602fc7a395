// Package access computes, per authenticated profile, what that profile
// may see and edit. Scopes are resolved fresh on every call from the
// current profile and team rows; nothing here is cached.
package access

import (
	"fmt"
	"strings"

	"clubdesk.org/internal/club"
)

// roleRanks orders the recognized roles for minimum-role checks.
// resp_pole and resp_equipements share a rank on purpose: neither
// outranks the other, they just hold different capabilities.
var roleRanks = map[club.Role]int{
	club.RoleCoach:           1,
	club.RoleRespPole:        2,
	club.RoleRespEquipements: 2,
	club.RoleRespSportif:     3,
	club.RoleAdmin:           4,
}

// Rank returns the role's rank, or 0 for an unrecognized role.
func Rank(r club.Role) int { return roleRanks[r] }

// ValidRole reports whether r belongs to the closed role set.
func ValidRole(r club.Role) bool {
	_, ok := roleRanks[r]
	return ok
}

// Meets reports whether role satisfies the minimum. Either side being
// unrecognized is a denial, never a downgrade.
func Meets(role, min club.Role) bool {
	rr, ok := roleRanks[role]
	if !ok {
		return false
	}
	mr, ok := roleRanks[min]
	if !ok {
		return false
	}
	return rr >= mr
}

// ParseRole validates a raw role string. Unrecognized values are an
// error: callers must deny access, not fall back to a default role,
// since a bad value in the profile store may indicate corrupted data.
func ParseRole(raw string) (club.Role, error) {
	r := club.Role(strings.TrimSpace(strings.ToLower(raw)))
	if !ValidRole(r) {
		return "", fmt.Errorf("%w: %q", club.ErrInvalidRole, raw)
	}
	return r, nil
}
