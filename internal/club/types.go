package club

import (
	"encoding/json"
	"time"
)

// Role is one of the five recognized staff roles.
type Role string

const (
	RoleCoach           Role = "coach"
	RoleRespPole        Role = "resp_pole"
	RoleRespEquipements Role = "resp_equipements"
	RoleRespSportif     Role = "resp_sportif"
	RoleAdmin           Role = "admin"
)

// Pole is a club subdivision used as a coarse-grained scoping tag,
// e.g. "FORMATION" or "SENIORS". Kept as its own type so a typo in a
// pole comparison fails the type check instead of silently producing
// an empty scope.
type Pole string

// Profile is the staff record attached to an authenticated identity.
type Profile struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Role         Role      `json:"role"`
	Pole         Pole      `json:"pole,omitempty"`
	Active       bool      `json:"is_active"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Team is the unit of access scoping: every scoped entity references
// exactly one team.
type Team struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Pole      Pole      `json:"pole"`
	Gender    string    `json:"gender"`
	CoachID   string    `json:"coach_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Player struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstname"`
	LastName  string    `json:"lastname"`
	BirthDate string    `json:"birthdate,omitempty"`
	License   string    `json:"license,omitempty"`
	Position  string    `json:"position,omitempty"`
	TeamID    string    `json:"team_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PlanningSession is a recurring weekly training slot for a team.
type PlanningSession struct {
	ID        string    `json:"id"`
	TeamID    string    `json:"team_id"`
	Day       string    `json:"day"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Location  string    `json:"location"`
	Staff     string    `json:"staff,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Match struct {
	ID           string    `json:"id"`
	TeamID       string    `json:"team_id"`
	Opponent     string    `json:"opponent"`
	Kickoff      time.Time `json:"kickoff"`
	Location     string    `json:"location,omitempty"`
	Home         bool      `json:"home"`
	ScoreFor     *int      `json:"score_for,omitempty"`
	ScoreAgainst *int      `json:"score_against,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceLate    = "late"
	AttendanceExcused = "excused"
)

// Attendance records one player's presence at one planning session.
// Keyed by (session, player) so re-applying the same record is an upsert,
// not a duplicate.
type Attendance struct {
	SessionID  string    `json:"session_id"`
	PlayerID   string    `json:"player_id"`
	Status     string    `json:"status"`
	Note       string    `json:"note,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// ApprovalRequest is a deferred mutation awaiting a privileged decision.
// Once the status leaves "pending" the record is terminal.
type ApprovalRequest struct {
	ID          string          `json:"id"`
	RequestedBy string          `json:"requested_by"`
	Action      string          `json:"action"`
	Entity      string          `json:"entity"`
	Payload     json.RawMessage `json:"payload"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	DecidedAt   *time.Time      `json:"decided_at,omitempty"`
	DecidedBy   string          `json:"decided_by,omitempty"`
}
