package access

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"clubdesk.org/internal/club"
)

// PoleSet mirrors club.TeamSet for pole visibility.
type PoleSet struct {
	All   bool
	Poles []club.Pole
}

// Scope is the computed visibility of one profile at one instant.
// It is never persisted or cached: team reassignments take effect on
// the next request with no invalidation logic.
type Scope struct {
	Role          club.Role    `json:"role"`
	Viewable      club.TeamSet `json:"viewable"`
	Editable      club.TeamSet `json:"editable"`
	AssignedTeams []*club.Team `json:"assigned_teams"`
	Poles         PoleSet      `json:"poles"`
}

// emptyScope is the fail-closed default: typed as the lowest role but
// with nothing viewable or editable. Callers must never reinterpret it
// as "can edit own team".
func emptyScope() Scope {
	return Scope{Role: club.RoleCoach}
}

// Resolver computes scopes from the current profile and team rows.
type Resolver struct {
	store club.Store
}

func NewResolver(store club.Store) (*Resolver, error) {
	if store == nil {
		return nil, errors.New("access: store is required")
	}
	return &Resolver{store: store}, nil
}

// Profile loads and gates the acting profile, classifying failures the
// way mutation entry points report them.
func (r *Resolver) Profile(ctx context.Context, profileID string) (*club.Profile, error) {
	profileID = strings.TrimSpace(profileID)
	if profileID == "" {
		return nil, club.ErrNotAuthenticated
	}
	profile, err := r.store.Profiles().Find(ctx, profileID)
	if err != nil {
		if errors.Is(err, club.ErrNotFound) {
			return nil, club.ErrNotAuthenticated
		}
		return nil, err
	}
	if !profile.Active {
		return nil, club.ErrAccountSuspended
	}
	if !ValidRole(profile.Role) {
		return nil, fmt.Errorf("%w: %q", club.ErrInvalidRole, profile.Role)
	}
	return profile, nil
}

// Resolve computes the scope for a profile id. Missing, inactive or
// invalid-role profiles resolve to the empty scope rather than an
// error: access simply closes.
func (r *Resolver) Resolve(ctx context.Context, profileID string) (Scope, error) {
	profile, err := r.Profile(ctx, profileID)
	if err != nil {
		if errors.Is(err, club.ErrNotAuthenticated) ||
			errors.Is(err, club.ErrAccountSuspended) ||
			errors.Is(err, club.ErrInvalidRole) {
			return emptyScope(), nil
		}
		return Scope{}, err
	}
	return r.ScopeFor(ctx, profile)
}

// ScopeFor computes the scope of an already-gated profile.
func (r *Resolver) ScopeFor(ctx context.Context, profile *club.Profile) (Scope, error) {
	if profile == nil || !profile.Active || !ValidRole(profile.Role) {
		return emptyScope(), nil
	}

	switch profile.Role {
	case club.RoleAdmin, club.RoleRespSportif, club.RoleRespEquipements:
		return Scope{
			Role:     profile.Role,
			Viewable: club.AllTeams(),
			Editable: club.AllTeams(),
			Poles:    PoleSet{All: true},
		}, nil

	case club.RoleRespPole:
		if profile.Pole == "" {
			// No pole assigned: closed, not ALL.
			return Scope{Role: profile.Role}, nil
		}
		teams, err := r.store.Teams().ListByPole(ctx, profile.Pole)
		if err != nil {
			return Scope{}, err
		}
		ids := teamIDs(teams)
		return Scope{
			Role:          profile.Role,
			Viewable:      club.Teams(ids...),
			Editable:      club.Teams(ids...),
			AssignedTeams: teams,
			Poles:         PoleSet{Poles: []club.Pole{profile.Pole}},
		}, nil

	case club.RoleCoach:
		coached, err := r.store.Teams().ListByCoach(ctx, profile.ID)
		if err != nil {
			return Scope{}, err
		}
		teams := coached
		var poles []club.Pole
		if profile.Pole != "" {
			poleTeams, err := r.store.Teams().ListByPole(ctx, profile.Pole)
			if err != nil {
				return Scope{}, err
			}
			teams = mergeTeams(coached, poleTeams)
			poles = []club.Pole{profile.Pole}
		}
		ids := teamIDs(teams)
		return Scope{
			Role:          profile.Role,
			Viewable:      club.Teams(ids...),
			Editable:      club.Teams(ids...),
			AssignedTeams: teams,
			Poles:         PoleSet{Poles: poles},
		}, nil
	}

	return emptyScope(), nil
}

func teamIDs(teams []*club.Team) []string {
	ids := make([]string, 0, len(teams))
	for _, t := range teams {
		ids = append(ids, t.ID)
	}
	return ids
}

// mergeTeams unions two team lists, deduplicating by id and keeping
// first-seen order.
func mergeTeams(a, b []*club.Team) []*club.Team {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]*club.Team, 0, len(a)+len(b))
	for _, list := range [][]*club.Team{a, b} {
		for _, t := range list {
			if _, ok := seen[t.ID]; ok {
				continue
			}
			seen[t.ID] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}
