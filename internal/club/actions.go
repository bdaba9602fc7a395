package club

import (
	"strings"
	"time"
)

// Action names form a closed set. The approval executor builds its
// dispatch table over exactly this list and refuses to start if any
// entry lacks a handler.
const (
	ActionTeamsCreate    = "teams.create"
	ActionTeamsUpdate    = "teams.update"
	ActionTeamsDelete    = "teams.delete"
	ActionPlayersCreate  = "players.create"
	ActionPlayersUpdate  = "players.update"
	ActionPlayersMove    = "players.move"
	ActionPlayersDelete  = "players.delete"
	ActionSessionsCreate = "planning_sessions.create"
	ActionSessionsUpdate = "planning_sessions.update"
	ActionSessionsDelete = "planning_sessions.delete"
	ActionMatchesCreate  = "matches.create"
	ActionMatchesUpdate  = "matches.update"
	ActionMatchesDelete  = "matches.delete"
	ActionAttendanceSet  = "attendance.set"
)

// ActionNames returns the closed action set.
func ActionNames() []string {
	return []string{
		ActionTeamsCreate, ActionTeamsUpdate, ActionTeamsDelete,
		ActionPlayersCreate, ActionPlayersUpdate, ActionPlayersMove, ActionPlayersDelete,
		ActionSessionsCreate, ActionSessionsUpdate, ActionSessionsDelete,
		ActionMatchesCreate, ActionMatchesUpdate, ActionMatchesDelete,
		ActionAttendanceSet,
	}
}

var validDays = map[string]struct{}{
	"monday": {}, "tuesday": {}, "wednesday": {}, "thursday": {},
	"friday": {}, "saturday": {}, "sunday": {},
}

var validAttendance = map[string]struct{}{
	AttendancePresent: {}, AttendanceAbsent: {}, AttendanceLate: {}, AttendanceExcused: {},
}

// TeamInput carries the fields of a team create/update.
type TeamInput struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Pole     Pole   `json:"pole"`
	Gender   string `json:"gender"`
	CoachID  string `json:"coach_id,omitempty"`
}

func (in *TeamInput) Validate(update bool) error {
	var fields []string
	if update && strings.TrimSpace(in.ID) == "" {
		fields = append(fields, "id")
	}
	if strings.TrimSpace(in.Name) == "" {
		fields = append(fields, "name")
	}
	if strings.TrimSpace(in.Category) == "" {
		fields = append(fields, "category")
	}
	if strings.TrimSpace(string(in.Pole)) == "" {
		fields = append(fields, "pole")
	}
	switch strings.ToUpper(strings.TrimSpace(in.Gender)) {
	case "M", "F", "MIXED":
	default:
		fields = append(fields, "gender")
	}
	return NewValidationError(fields...)
}

type PlayerInput struct {
	ID        string `json:"id,omitempty"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	BirthDate string `json:"birthdate,omitempty"`
	License   string `json:"license,omitempty"`
	Position  string `json:"position,omitempty"`
	TeamID    string `json:"team_id"`
}

func (in *PlayerInput) Validate(update bool) error {
	var fields []string
	if update && strings.TrimSpace(in.ID) == "" {
		fields = append(fields, "id")
	}
	if strings.TrimSpace(in.FirstName) == "" {
		fields = append(fields, "firstname")
	}
	if strings.TrimSpace(in.LastName) == "" {
		fields = append(fields, "lastname")
	}
	if strings.TrimSpace(in.TeamID) == "" {
		fields = append(fields, "team_id")
	}
	return NewValidationError(fields...)
}

// PlayerMoveInput transfers a player to another team.
type PlayerMoveInput struct {
	PlayerID string `json:"player_id"`
	ToTeamID string `json:"to_team_id"`
}

func (in *PlayerMoveInput) Validate() error {
	var fields []string
	if strings.TrimSpace(in.PlayerID) == "" {
		fields = append(fields, "player_id")
	}
	if strings.TrimSpace(in.ToTeamID) == "" {
		fields = append(fields, "to_team_id")
	}
	return NewValidationError(fields...)
}

type SessionInput struct {
	ID        string `json:"id,omitempty"`
	TeamID    string `json:"team_id"`
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Location  string `json:"location"`
	Staff     string `json:"staff,omitempty"`
	Note      string `json:"note,omitempty"`
}

func (in *SessionInput) Validate(update bool) error {
	var fields []string
	if update && strings.TrimSpace(in.ID) == "" {
		fields = append(fields, "id")
	}
	if strings.TrimSpace(in.TeamID) == "" {
		fields = append(fields, "team_id")
	}
	if _, ok := validDays[strings.ToLower(strings.TrimSpace(in.Day))]; !ok {
		fields = append(fields, "day")
	}
	if strings.TrimSpace(in.StartTime) == "" {
		fields = append(fields, "start_time")
	}
	if strings.TrimSpace(in.EndTime) == "" {
		fields = append(fields, "end_time")
	}
	if strings.TrimSpace(in.Location) == "" {
		fields = append(fields, "location")
	}
	return NewValidationError(fields...)
}

type MatchInput struct {
	ID           string    `json:"id,omitempty"`
	TeamID       string    `json:"team_id"`
	Opponent     string    `json:"opponent"`
	Kickoff      time.Time `json:"kickoff"`
	Location     string    `json:"location,omitempty"`
	Home         bool      `json:"home"`
	ScoreFor     *int      `json:"score_for,omitempty"`
	ScoreAgainst *int      `json:"score_against,omitempty"`
}

func (in *MatchInput) Validate(update bool) error {
	var fields []string
	if update && strings.TrimSpace(in.ID) == "" {
		fields = append(fields, "id")
	}
	if strings.TrimSpace(in.TeamID) == "" {
		fields = append(fields, "team_id")
	}
	if strings.TrimSpace(in.Opponent) == "" {
		fields = append(fields, "opponent")
	}
	if in.Kickoff.IsZero() {
		fields = append(fields, "kickoff")
	}
	return NewValidationError(fields...)
}

type AttendanceInput struct {
	SessionID string `json:"session_id"`
	PlayerID  string `json:"player_id"`
	Status    string `json:"status"`
	Note      string `json:"note,omitempty"`
}

func (in *AttendanceInput) Validate() error {
	var fields []string
	if strings.TrimSpace(in.SessionID) == "" {
		fields = append(fields, "session_id")
	}
	if strings.TrimSpace(in.PlayerID) == "" {
		fields = append(fields, "player_id")
	}
	if _, ok := validAttendance[strings.ToLower(strings.TrimSpace(in.Status))]; !ok {
		fields = append(fields, "status")
	}
	return NewValidationError(fields...)
}

// DeleteInput identifies the entity of a delete action.
type DeleteInput struct {
	ID string `json:"id"`
}

func (in *DeleteInput) Validate() error {
	if strings.TrimSpace(in.ID) == "" {
		return NewValidationError("id")
	}
	return nil
}
