// Package clubtest provides an in-memory Store for tests.
package clubtest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"clubdesk.org/internal/club"
)

// MemStore implements club.Store entirely in memory. All methods are
// safe for concurrent use. Mutations are counted so tests can assert
// that a denied path wrote nothing.
type MemStore struct {
	mu sync.Mutex

	profiles   map[string]*club.Profile
	teams      map[string]*club.Team
	players    map[string]*club.Player
	sessions   map[string]*club.PlanningSession
	matches    map[string]*club.Match
	attendance map[string]*club.Attendance
	approvals  map[string]*club.ApprovalRequest

	// Writes counts create/update/delete/set calls on the data tables
	// (approval bookkeeping excluded).
	Writes int

	// FailWrites makes every data mutation return the given error.
	FailWrites error
}

func NewMemStore() *MemStore {
	return &MemStore{
		profiles:   make(map[string]*club.Profile),
		teams:      make(map[string]*club.Team),
		players:    make(map[string]*club.Player),
		sessions:   make(map[string]*club.PlanningSession),
		matches:    make(map[string]*club.Match),
		attendance: make(map[string]*club.Attendance),
		approvals:  make(map[string]*club.ApprovalRequest),
	}
}

var _ club.Store = (*MemStore)(nil)

// Seed helpers -------------------------------------------------------------

func (m *MemStore) AddProfile(p *club.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.profiles[p.ID] = &cp
}

func (m *MemStore) AddTeam(t *club.Team) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.teams[t.ID] = &cp
}

func (m *MemStore) AddPlayer(p *club.Player) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.players[p.ID] = &cp
}

func (m *MemStore) AddSession(s *club.PlanningSession) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.sessions[s.ID] = &cp
}

func (m *MemStore) AddMatch(mt *club.Match) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *mt
	m.matches[mt.ID] = &cp
}

// Approval returns the stored request, or nil.
func (m *MemStore) Approval(id string) *club.ApprovalRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.approvals[id]; ok {
		cp := *r
		return &cp
	}
	return nil
}

// PendingCount reports the number of pending approval requests.
func (m *MemStore) PendingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.approvals {
		if r.Status == club.ApprovalPending {
			n++
		}
	}
	return n
}

// Team returns the stored team, or nil.
func (m *MemStore) Team(id string) *club.Team {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.teams[id]; ok {
		cp := *t
		return &cp
	}
	return nil
}

// Player returns the stored player, or nil.
func (m *MemStore) Player(id string) *club.Player {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.players[id]; ok {
		cp := *p
		return &cp
	}
	return nil
}

func (m *MemStore) write() error {
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.Writes++
	return nil
}

// Store interface ----------------------------------------------------------

func (m *MemStore) Profiles() club.ProfileStore      { return (*memProfiles)(m) }
func (m *MemStore) Teams() club.TeamStore            { return (*memTeams)(m) }
func (m *MemStore) Players() club.PlayerStore        { return (*memPlayers)(m) }
func (m *MemStore) Planning() club.PlanningStore     { return (*memPlanning)(m) }
func (m *MemStore) Matches() club.MatchStore         { return (*memMatches)(m) }
func (m *MemStore) Attendance() club.AttendanceStore { return (*memAttendance)(m) }
func (m *MemStore) Approvals() club.ApprovalStore    { return (*memApprovals)(m) }

type memProfiles MemStore

func (m *memProfiles) Find(ctx context.Context, id string) (*club.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, club.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memProfiles) FindByEmail(ctx context.Context, email string) (*club.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.profiles {
		if strings.EqualFold(p.Email, email) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, club.ErrNotFound
}

func (m *memProfiles) List(ctx context.Context) ([]*club.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*club.Profile, 0, len(m.profiles))
	for _, p := range m.profiles {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (m *memProfiles) Update(ctx context.Context, p *club.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[p.ID]; !ok {
		return club.ErrNotFound
	}
	cp := *p
	m.profiles[p.ID] = &cp
	return nil
}

type memTeams MemStore

func (m *memTeams) Create(ctx context.Context, t *club.Team) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := (*MemStore)(m).write(); err != nil {
		return err
	}
	if _, ok := m.teams[t.ID]; ok {
		return club.ErrConflict
	}
	cp := *t
	m.teams[t.ID] = &cp
	return nil
}

func (m *memTeams) Find(ctx context.Context, id string) (*club.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.teams[id]
	if !ok {
		return nil, club.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memTeams) List(ctx context.Context, scope club.TeamSet) ([]*club.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*club.Team
	for _, t := range m.teams {
		if scope.Contains(t.ID) {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memTeams) ListByPole(ctx context.Context, pole club.Pole) ([]*club.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*club.Team
	for _, t := range m.teams {
		if t.Pole == pole {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memTeams) ListByCoach(ctx context.Context, coachID string) ([]*club.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*club.Team
	for _, t := range m.teams {
		if t.CoachID == coachID {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memTeams) Update(ctx context.Context, t *club.Team) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := (*MemStore)(m).write(); err != nil {
		return err
	}
	if _, ok := m.teams[t.ID]; !ok {
		return club.ErrNotFound
	}
	cp := *t
	m.teams[t.ID] = &cp
	return nil
}

func (m *memTeams) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := (*MemStore)(m).write(); err != nil {
		return err
	}
	if _, ok := m.teams[id]; !ok {
		return club.ErrNotFound
	}
	delete(m.teams, id)
	return nil
}

type memPlayers MemStore

func (m *memPlayers) Create(ctx context.Context, p *club.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := (*MemStore)(m).write(); err != nil {
		return err
	}
	if _, ok := m.players[p.ID]; ok {
		return club.ErrConflict
	}
	cp := *p
	m.players[p.ID] = &cp
	return nil
}

func (m *memPlayers) Find(ctx context.Context, id string) (*club.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.players[id]
	if !ok {
		return nil, club.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPlayers) List(ctx context.Context, scope club.TeamSet) ([]*club.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*club.Player
	for _, p := range m.players {
		if scope.Contains(p.TeamID) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastName < out[j].LastName })
	return out, nil
}

func (m *memPlayers) Update(ctx context.Context, p *club.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := (*MemStore)(m).write(); err != nil {
		return err
	}
	if _, ok := m.players[p.ID]; !ok {
		return club.ErrNotFound
	}
	cp := *p
	m.players[p.ID] = &cp
	return nil
}

func (m *memPlayers) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := (*MemStore)(m).write(); err != nil {
		return err
	}
	if _, ok := m.players[id]; !ok {
		return club.ErrNotFound
	}
	delete(m.players, id)
	return nil
}

type memPlanning MemStore

func (m *memPlanning) Create(ctx context.Context, s *club.PlanningSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := (*MemStore)(m).write(); err != nil {
		return err
	}
	if _, ok := m.sessions[s.ID]; ok {
		return club.ErrConflict
	}
	cp := *s
	m.sessions[s.ID] = &cp
	return nil
}

func (m *memPlanning) Find(ctx context.Context, id string) (*club.PlanningSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, club.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memPlanning) List(ctx context.Context, scope club.TeamSet) ([]*club.PlanningSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*club.PlanningSession
	for _, s := range m.sessions {
		if scope.Contains(s.TeamID) {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memPlanning) Update(ctx context.Context, s *club.PlanningSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := (*MemStore)(m).write(); err != nil {
		return err
	}
	if _, ok := m.sessions[s.ID]; !ok {
		return club.ErrNotFound
	}
	cp := *s
	m.sessions[s.ID] = &cp
	return nil
}

func (m *memPlanning) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := (*MemStore)(m).write(); err != nil {
		return err
	}
	if _, ok := m.sessions[id]; !ok {
		return club.ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

type memMatches MemStore

func (m *memMatches) Create(ctx context.Context, mt *club.Match) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := (*MemStore)(m).write(); err != nil {
		return err
	}
	if _, ok := m.matches[mt.ID]; ok {
		return club.ErrConflict
	}
	cp := *mt
	m.matches[mt.ID] = &cp
	return nil
}

func (m *memMatches) Find(ctx context.Context, id string) (*club.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mt, ok := m.matches[id]
	if !ok {
		return nil, club.ErrNotFound
	}
	cp := *mt
	return &cp, nil
}

func (m *memMatches) List(ctx context.Context, scope club.TeamSet) ([]*club.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*club.Match
	for _, mt := range m.matches {
		if scope.Contains(mt.TeamID) {
			cp := *mt
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kickoff.Before(out[j].Kickoff) })
	return out, nil
}

func (m *memMatches) Update(ctx context.Context, mt *club.Match) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := (*MemStore)(m).write(); err != nil {
		return err
	}
	if _, ok := m.matches[mt.ID]; !ok {
		return club.ErrNotFound
	}
	cp := *mt
	m.matches[mt.ID] = &cp
	return nil
}

func (m *memMatches) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := (*MemStore)(m).write(); err != nil {
		return err
	}
	if _, ok := m.matches[id]; !ok {
		return club.ErrNotFound
	}
	delete(m.matches, id)
	return nil
}

type memAttendance MemStore

func attendanceKey(sessionID, playerID string) string {
	return sessionID + "/" + playerID
}

func (m *memAttendance) Set(ctx context.Context, a *club.Attendance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := (*MemStore)(m).write(); err != nil {
		return err
	}
	cp := *a
	if cp.RecordedAt.IsZero() {
		cp.RecordedAt = time.Now().UTC()
	}
	m.attendance[attendanceKey(a.SessionID, a.PlayerID)] = &cp
	return nil
}

func (m *memAttendance) ListBySession(ctx context.Context, sessionID string) ([]*club.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*club.Attendance
	for _, a := range m.attendance {
		if a.SessionID == sessionID {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out, nil
}

type memApprovals MemStore

func (m *memApprovals) Create(ctx context.Context, r *club.ApprovalRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.approvals[r.ID]; ok {
		return club.ErrConflict
	}
	cp := *r
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}
	m.approvals[r.ID] = &cp
	return nil
}

func (m *memApprovals) Find(ctx context.Context, id string) (*club.ApprovalRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.approvals[id]
	if !ok {
		return nil, club.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memApprovals) ListPending(ctx context.Context) ([]*club.ApprovalRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*club.ApprovalRequest
	for _, r := range m.approvals {
		if r.Status == club.ApprovalPending {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memApprovals) Decide(ctx context.Context, id, status, deciderID string, decidedAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.approvals[id]
	if !ok || r.Status != club.ApprovalPending {
		return false, nil
	}
	r.Status = status
	r.DecidedBy = deciderID
	at := decidedAt
	r.DecidedAt = &at
	return true, nil
}
