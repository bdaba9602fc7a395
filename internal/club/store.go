package club

import (
	"context"
	"time"
)

// TeamSet selects a set of team ids for scoped queries. The zero value
// selects nothing; All selects every team. There is deliberately no way
// to express "no filter" through an empty id list: stores must treat an
// empty, non-All set as matching zero rows.
type TeamSet struct {
	All bool
	IDs []string
}

// AllTeams returns the unrestricted set.
func AllTeams() TeamSet { return TeamSet{All: true} }

// Teams returns a set restricted to the given ids.
func Teams(ids ...string) TeamSet { return TeamSet{IDs: ids} }

// Contains reports whether the set includes the team id.
func (s TeamSet) Contains(id string) bool {
	if s.All {
		return true
	}
	for _, v := range s.IDs {
		if v == id {
			return true
		}
	}
	return false
}

// Empty reports whether the set selects no teams at all.
func (s TeamSet) Empty() bool { return !s.All && len(s.IDs) == 0 }

// Store aggregates the persistence operations the core depends on.
type Store interface {
	Profiles() ProfileStore
	Teams() TeamStore
	Players() PlayerStore
	Planning() PlanningStore
	Matches() MatchStore
	Attendance() AttendanceStore
	Approvals() ApprovalStore
}

type ProfileStore interface {
	Find(ctx context.Context, id string) (*Profile, error)
	FindByEmail(ctx context.Context, email string) (*Profile, error)
	List(ctx context.Context) ([]*Profile, error)
	Update(ctx context.Context, p *Profile) error
}

type TeamStore interface {
	Create(ctx context.Context, t *Team) error
	Find(ctx context.Context, id string) (*Team, error)
	List(ctx context.Context, scope TeamSet) ([]*Team, error)
	ListByPole(ctx context.Context, pole Pole) ([]*Team, error)
	ListByCoach(ctx context.Context, coachID string) ([]*Team, error)
	Update(ctx context.Context, t *Team) error
	Delete(ctx context.Context, id string) error
}

type PlayerStore interface {
	Create(ctx context.Context, p *Player) error
	Find(ctx context.Context, id string) (*Player, error)
	List(ctx context.Context, scope TeamSet) ([]*Player, error)
	Update(ctx context.Context, p *Player) error
	Delete(ctx context.Context, id string) error
}

type PlanningStore interface {
	Create(ctx context.Context, s *PlanningSession) error
	Find(ctx context.Context, id string) (*PlanningSession, error)
	List(ctx context.Context, scope TeamSet) ([]*PlanningSession, error)
	Update(ctx context.Context, s *PlanningSession) error
	Delete(ctx context.Context, id string) error
}

type MatchStore interface {
	Create(ctx context.Context, m *Match) error
	Find(ctx context.Context, id string) (*Match, error)
	List(ctx context.Context, scope TeamSet) ([]*Match, error)
	Update(ctx context.Context, m *Match) error
	Delete(ctx context.Context, id string) error
}

type AttendanceStore interface {
	// Set upserts by (session_id, player_id).
	Set(ctx context.Context, a *Attendance) error
	ListBySession(ctx context.Context, sessionID string) ([]*Attendance, error)
}

type ApprovalStore interface {
	Create(ctx context.Context, r *ApprovalRequest) error
	Find(ctx context.Context, id string) (*ApprovalRequest, error)
	ListPending(ctx context.Context) ([]*ApprovalRequest, error)
	// Decide transitions pending -> status in a single guarded update and
	// reports whether the transition happened. A false return with a nil
	// error means the request was no longer pending.
	Decide(ctx context.Context, id, status, deciderID string, decidedAt time.Time) (bool, error)
}
