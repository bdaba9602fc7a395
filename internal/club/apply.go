package club

import (
	"context"
	"strings"

	"clubdesk.org/internal/ids"
)

// The Apply functions below are the mutation primitives. The gateway
// calls them directly for privileged callers; approval handlers call
// the same functions when a pending request is approved, so both paths
// produce identical effects.

func ApplyTeamCreate(ctx context.Context, store Store, in *TeamInput) (*Team, error) {
	t := &Team{
		ID:       in.ID,
		Name:     strings.TrimSpace(in.Name),
		Category: strings.TrimSpace(in.Category),
		Pole:     Pole(strings.ToUpper(strings.TrimSpace(string(in.Pole)))),
		Gender:   strings.ToUpper(strings.TrimSpace(in.Gender)),
		CoachID:  strings.TrimSpace(in.CoachID),
	}
	if t.ID == "" {
		t.ID = ids.New()
	}
	if err := store.Teams().Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func ApplyTeamUpdate(ctx context.Context, store Store, in *TeamInput) (*Team, error) {
	t, err := store.Teams().Find(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	t.Name = strings.TrimSpace(in.Name)
	t.Category = strings.TrimSpace(in.Category)
	t.Pole = Pole(strings.ToUpper(strings.TrimSpace(string(in.Pole))))
	t.Gender = strings.ToUpper(strings.TrimSpace(in.Gender))
	t.CoachID = strings.TrimSpace(in.CoachID)
	if err := store.Teams().Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func ApplyTeamDelete(ctx context.Context, store Store, in *DeleteInput) error {
	return store.Teams().Delete(ctx, in.ID)
}

func ApplyPlayerCreate(ctx context.Context, store Store, in *PlayerInput) (*Player, error) {
	p := &Player{
		ID:        in.ID,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		BirthDate: strings.TrimSpace(in.BirthDate),
		License:   strings.TrimSpace(in.License),
		Position:  strings.TrimSpace(in.Position),
		TeamID:    strings.TrimSpace(in.TeamID),
	}
	if p.ID == "" {
		p.ID = ids.New()
	}
	if err := store.Players().Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func ApplyPlayerUpdate(ctx context.Context, store Store, in *PlayerInput) (*Player, error) {
	p, err := store.Players().Find(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	p.FirstName = strings.TrimSpace(in.FirstName)
	p.LastName = strings.TrimSpace(in.LastName)
	p.BirthDate = strings.TrimSpace(in.BirthDate)
	p.License = strings.TrimSpace(in.License)
	p.Position = strings.TrimSpace(in.Position)
	p.TeamID = strings.TrimSpace(in.TeamID)
	if err := store.Players().Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func ApplyPlayerMove(ctx context.Context, store Store, in *PlayerMoveInput) (*Player, error) {
	p, err := store.Players().Find(ctx, in.PlayerID)
	if err != nil {
		return nil, err
	}
	p.TeamID = strings.TrimSpace(in.ToTeamID)
	if err := store.Players().Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func ApplyPlayerDelete(ctx context.Context, store Store, in *DeleteInput) error {
	return store.Players().Delete(ctx, in.ID)
}

func ApplySessionCreate(ctx context.Context, store Store, in *SessionInput) (*PlanningSession, error) {
	s := &PlanningSession{
		ID:        in.ID,
		TeamID:    strings.TrimSpace(in.TeamID),
		Day:       strings.ToLower(strings.TrimSpace(in.Day)),
		StartTime: strings.TrimSpace(in.StartTime),
		EndTime:   strings.TrimSpace(in.EndTime),
		Location:  strings.TrimSpace(in.Location),
		Staff:     strings.TrimSpace(in.Staff),
		Note:      strings.TrimSpace(in.Note),
	}
	if s.ID == "" {
		s.ID = ids.New()
	}
	if err := store.Planning().Create(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func ApplySessionUpdate(ctx context.Context, store Store, in *SessionInput) (*PlanningSession, error) {
	s, err := store.Planning().Find(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	s.TeamID = strings.TrimSpace(in.TeamID)
	s.Day = strings.ToLower(strings.TrimSpace(in.Day))
	s.StartTime = strings.TrimSpace(in.StartTime)
	s.EndTime = strings.TrimSpace(in.EndTime)
	s.Location = strings.TrimSpace(in.Location)
	s.Staff = strings.TrimSpace(in.Staff)
	s.Note = strings.TrimSpace(in.Note)
	if err := store.Planning().Update(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func ApplySessionDelete(ctx context.Context, store Store, in *DeleteInput) error {
	return store.Planning().Delete(ctx, in.ID)
}

func ApplyMatchCreate(ctx context.Context, store Store, in *MatchInput) (*Match, error) {
	m := &Match{
		ID:           in.ID,
		TeamID:       strings.TrimSpace(in.TeamID),
		Opponent:     strings.TrimSpace(in.Opponent),
		Kickoff:      in.Kickoff,
		Location:     strings.TrimSpace(in.Location),
		Home:         in.Home,
		ScoreFor:     in.ScoreFor,
		ScoreAgainst: in.ScoreAgainst,
	}
	if m.ID == "" {
		m.ID = ids.New()
	}
	if err := store.Matches().Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func ApplyMatchUpdate(ctx context.Context, store Store, in *MatchInput) (*Match, error) {
	m, err := store.Matches().Find(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	m.TeamID = strings.TrimSpace(in.TeamID)
	m.Opponent = strings.TrimSpace(in.Opponent)
	m.Kickoff = in.Kickoff
	m.Location = strings.TrimSpace(in.Location)
	m.Home = in.Home
	m.ScoreFor = in.ScoreFor
	m.ScoreAgainst = in.ScoreAgainst
	if err := store.Matches().Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func ApplyMatchDelete(ctx context.Context, store Store, in *DeleteInput) error {
	return store.Matches().Delete(ctx, in.ID)
}

// ApplyAttendanceSet upserts by (session, player), so replaying the
// same payload never duplicates a row.
func ApplyAttendanceSet(ctx context.Context, store Store, in *AttendanceInput) (*Attendance, error) {
	a := &Attendance{
		SessionID: strings.TrimSpace(in.SessionID),
		PlayerID:  strings.TrimSpace(in.PlayerID),
		Status:    strings.ToLower(strings.TrimSpace(in.Status)),
		Note:      strings.TrimSpace(in.Note),
	}
	if err := store.Attendance().Set(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}
