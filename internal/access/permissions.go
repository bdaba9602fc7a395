package access

import "clubdesk.org/internal/club"

// Permissions are coarse capability flags consumed by presentation
// layers to decide which controls to render. They are not a substitute
// for scope checks: every mutation re-checks the resolved scope
// server-side and never trusts client-supplied flags.
type Permissions struct {
	CanEdit           bool `json:"can_edit"`
	CanDelete         bool `json:"can_delete"`
	CanViewFinancials bool `json:"can_view_financials"`
}

var rolePermissions = map[club.Role]Permissions{
	club.RoleAdmin:           {CanEdit: true, CanDelete: true, CanViewFinancials: true},
	club.RoleRespSportif:     {CanEdit: true, CanDelete: true, CanViewFinancials: true},
	club.RoleRespEquipements: {CanEdit: true, CanDelete: false, CanViewFinancials: true},
	club.RoleRespPole:        {CanEdit: true, CanDelete: false, CanViewFinancials: false},
	club.RoleCoach:           {CanEdit: true, CanDelete: false, CanViewFinancials: false},
}

// PermissionsFor returns the capability flags for a role. Unknown roles
// get the zero value: everything false.
func PermissionsFor(r club.Role) Permissions {
	return rolePermissions[r]
}
