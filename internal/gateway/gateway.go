// Package gateway is the single entry point for data mutations. Every
// call re-resolves the caller's scope; privileged targets are applied
// immediately, everything else becomes a pending approval request.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"clubdesk.org/internal/access"
	"clubdesk.org/internal/club"
	"clubdesk.org/internal/ids"
)

const (
	StatusApplied   = "applied"
	StatusSubmitted = "submitted"
)

// Result reports how a mutation was handled. Entity is populated when
// the mutation was applied directly; Request when it was queued for
// review. A "submitted" result means nothing has been saved yet.
type Result struct {
	Status  string                `json:"status"`
	Entity  any                   `json:"entity,omitempty"`
	Request *club.ApprovalRequest `json:"request,omitempty"`
}

type Gateway struct {
	store    club.Store
	resolver *access.Resolver
}

func New(store club.Store, resolver *access.Resolver) (*Gateway, error) {
	if store == nil {
		return nil, errors.New("gateway: store is required")
	}
	if resolver == nil {
		return nil, errors.New("gateway: resolver is required")
	}
	return &Gateway{store: store, resolver: resolver}, nil
}

// begin gates the actor and resolves its scope.
func (g *Gateway) begin(ctx context.Context, actorID string) (*club.Profile, access.Scope, error) {
	profile, err := g.resolver.Profile(ctx, actorID)
	if err != nil {
		return nil, access.Scope{}, err
	}
	scope, err := g.resolver.ScopeFor(ctx, profile)
	if err != nil {
		return nil, access.Scope{}, err
	}
	return profile, scope, nil
}

// requireTeam resolves a referenced team id. A reference to a team that
// does not exist has no approval path, so it is a scope denial rather
// than a queued request.
func (g *Gateway) requireTeam(ctx context.Context, teamID string) (*club.Team, error) {
	team, err := g.store.Teams().Find(ctx, teamID)
	if err != nil {
		if errors.Is(err, club.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown team %q", club.ErrScopeDenied, teamID)
		}
		return nil, err
	}
	return team, nil
}

func (g *Gateway) enqueue(ctx context.Context, actor *club.Profile, action, entity string, payload any) (*Result, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("gateway: encode payload: %w", err)
	}
	req := &club.ApprovalRequest{
		ID:          ids.New(),
		RequestedBy: actor.ID,
		Action:      action,
		Entity:      entity,
		Payload:     raw,
		Status:      club.ApprovalPending,
	}
	if err := g.store.Approvals().Create(ctx, req); err != nil {
		return nil, err
	}
	return &Result{Status: StatusSubmitted, Request: req}, nil
}

func applied(entity any) *Result { return &Result{Status: StatusApplied, Entity: entity} }

// editable reports whether every listed team id falls inside the
// caller's editable scope.
func editable(scope access.Scope, teamIDs ...string) bool {
	for _, id := range teamIDs {
		if !scope.Editable.Contains(id) {
			return false
		}
	}
	return true
}

// --- Teams ---------------------------------------------------------------

func (g *Gateway) CreateTeam(ctx context.Context, actorID string, in *club.TeamInput) (*Result, error) {
	actor, scope, err := g.begin(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(false); err != nil {
		return nil, err
	}
	// A team that does not exist yet can only be inside an ALL scope.
	if !scope.Editable.All {
		return g.enqueue(ctx, actor, club.ActionTeamsCreate, "teams", in)
	}
	team, err := club.ApplyTeamCreate(ctx, g.store, in)
	if err != nil {
		return nil, err
	}
	return applied(team), nil
}

func (g *Gateway) UpdateTeam(ctx context.Context, actorID string, in *club.TeamInput) (*Result, error) {
	actor, scope, err := g.begin(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(true); err != nil {
		return nil, err
	}
	if _, err := g.requireTeam(ctx, in.ID); err != nil {
		return nil, err
	}
	if !editable(scope, in.ID) {
		return g.enqueue(ctx, actor, club.ActionTeamsUpdate, "teams", in)
	}
	team, err := club.ApplyTeamUpdate(ctx, g.store, in)
	if err != nil {
		return nil, err
	}
	return applied(team), nil
}

func (g *Gateway) DeleteTeam(ctx context.Context, actorID string, in *club.DeleteInput) (*Result, error) {
	actor, scope, err := g.begin(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if _, err := g.requireTeam(ctx, in.ID); err != nil {
		return nil, err
	}
	if !editable(scope, in.ID) {
		return g.enqueue(ctx, actor, club.ActionTeamsDelete, "teams", in)
	}
	if err := club.ApplyTeamDelete(ctx, g.store, in); err != nil {
		return nil, err
	}
	return applied(nil), nil
}

// --- Players -------------------------------------------------------------

func (g *Gateway) CreatePlayer(ctx context.Context, actorID string, in *club.PlayerInput) (*Result, error) {
	actor, scope, err := g.begin(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(false); err != nil {
		return nil, err
	}
	if _, err := g.requireTeam(ctx, in.TeamID); err != nil {
		return nil, err
	}
	if !editable(scope, in.TeamID) {
		return g.enqueue(ctx, actor, club.ActionPlayersCreate, "players", in)
	}
	player, err := club.ApplyPlayerCreate(ctx, g.store, in)
	if err != nil {
		return nil, err
	}
	return applied(player), nil
}

func (g *Gateway) UpdatePlayer(ctx context.Context, actorID string, in *club.PlayerInput) (*Result, error) {
	actor, scope, err := g.begin(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(true); err != nil {
		return nil, err
	}
	current, err := g.store.Players().Find(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if _, err := g.requireTeam(ctx, in.TeamID); err != nil {
		return nil, err
	}
	// Both the player's current team and the requested one must be in
	// scope for a direct write.
	if !editable(scope, current.TeamID, in.TeamID) {
		return g.enqueue(ctx, actor, club.ActionPlayersUpdate, "players", in)
	}
	player, err := club.ApplyPlayerUpdate(ctx, g.store, in)
	if err != nil {
		return nil, err
	}
	return applied(player), nil
}

func (g *Gateway) MovePlayer(ctx context.Context, actorID string, in *club.PlayerMoveInput) (*Result, error) {
	actor, scope, err := g.begin(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	current, err := g.store.Players().Find(ctx, in.PlayerID)
	if err != nil {
		return nil, err
	}
	if _, err := g.requireTeam(ctx, in.ToTeamID); err != nil {
		return nil, err
	}
	if !editable(scope, current.TeamID, in.ToTeamID) {
		return g.enqueue(ctx, actor, club.ActionPlayersMove, "players", in)
	}
	player, err := club.ApplyPlayerMove(ctx, g.store, in)
	if err != nil {
		return nil, err
	}
	return applied(player), nil
}

func (g *Gateway) DeletePlayer(ctx context.Context, actorID string, in *club.DeleteInput) (*Result, error) {
	actor, scope, err := g.begin(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	current, err := g.store.Players().Find(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if !editable(scope, current.TeamID) {
		return g.enqueue(ctx, actor, club.ActionPlayersDelete, "players", in)
	}
	if err := club.ApplyPlayerDelete(ctx, g.store, in); err != nil {
		return nil, err
	}
	return applied(nil), nil
}

// --- Planning sessions ---------------------------------------------------

func (g *Gateway) CreateSession(ctx context.Context, actorID string, in *club.SessionInput) (*Result, error) {
	actor, scope, err := g.begin(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(false); err != nil {
		return nil, err
	}
	if _, err := g.requireTeam(ctx, in.TeamID); err != nil {
		return nil, err
	}
	if !editable(scope, in.TeamID) {
		return g.enqueue(ctx, actor, club.ActionSessionsCreate, "planning_sessions", in)
	}
	session, err := club.ApplySessionCreate(ctx, g.store, in)
	if err != nil {
		return nil, err
	}
	return applied(session), nil
}

func (g *Gateway) UpdateSession(ctx context.Context, actorID string, in *club.SessionInput) (*Result, error) {
	actor, scope, err := g.begin(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(true); err != nil {
		return nil, err
	}
	current, err := g.store.Planning().Find(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if _, err := g.requireTeam(ctx, in.TeamID); err != nil {
		return nil, err
	}
	if !editable(scope, current.TeamID, in.TeamID) {
		return g.enqueue(ctx, actor, club.ActionSessionsUpdate, "planning_sessions", in)
	}
	session, err := club.ApplySessionUpdate(ctx, g.store, in)
	if err != nil {
		return nil, err
	}
	return applied(session), nil
}

func (g *Gateway) DeleteSession(ctx context.Context, actorID string, in *club.DeleteInput) (*Result, error) {
	actor, scope, err := g.begin(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	current, err := g.store.Planning().Find(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if !editable(scope, current.TeamID) {
		return g.enqueue(ctx, actor, club.ActionSessionsDelete, "planning_sessions", in)
	}
	if err := club.ApplySessionDelete(ctx, g.store, in); err != nil {
		return nil, err
	}
	return applied(nil), nil
}

// --- Matches -------------------------------------------------------------

func (g *Gateway) CreateMatch(ctx context.Context, actorID string, in *club.MatchInput) (*Result, error) {
	actor, scope, err := g.begin(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(false); err != nil {
		return nil, err
	}
	if _, err := g.requireTeam(ctx, in.TeamID); err != nil {
		return nil, err
	}
	if !editable(scope, in.TeamID) {
		return g.enqueue(ctx, actor, club.ActionMatchesCreate, "matches", in)
	}
	match, err := club.ApplyMatchCreate(ctx, g.store, in)
	if err != nil {
		return nil, err
	}
	return applied(match), nil
}

func (g *Gateway) UpdateMatch(ctx context.Context, actorID string, in *club.MatchInput) (*Result, error) {
	actor, scope, err := g.begin(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(true); err != nil {
		return nil, err
	}
	current, err := g.store.Matches().Find(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if _, err := g.requireTeam(ctx, in.TeamID); err != nil {
		return nil, err
	}
	if !editable(scope, current.TeamID, in.TeamID) {
		return g.enqueue(ctx, actor, club.ActionMatchesUpdate, "matches", in)
	}
	match, err := club.ApplyMatchUpdate(ctx, g.store, in)
	if err != nil {
		return nil, err
	}
	return applied(match), nil
}

func (g *Gateway) DeleteMatch(ctx context.Context, actorID string, in *club.DeleteInput) (*Result, error) {
	actor, scope, err := g.begin(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	current, err := g.store.Matches().Find(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if !editable(scope, current.TeamID) {
		return g.enqueue(ctx, actor, club.ActionMatchesDelete, "matches", in)
	}
	if err := club.ApplyMatchDelete(ctx, g.store, in); err != nil {
		return nil, err
	}
	return applied(nil), nil
}

// --- Attendance ----------------------------------------------------------

func (g *Gateway) SetAttendance(ctx context.Context, actorID string, in *club.AttendanceInput) (*Result, error) {
	actor, scope, err := g.begin(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	session, err := g.store.Planning().Find(ctx, in.SessionID)
	if err != nil {
		return nil, err
	}
	if !editable(scope, session.TeamID) {
		return g.enqueue(ctx, actor, club.ActionAttendanceSet, "attendance", in)
	}
	record, err := club.ApplyAttendanceSet(ctx, g.store, in)
	if err != nil {
		return nil, err
	}
	return applied(record), nil
}
