package pg

import (
	"context"
	"database/sql"
	"errors"

	"clubdesk.org/internal/club"
)

type planningStore struct{ db *sql.DB }

const sessionColumns = `id, team_id, day, start_time, end_time, location, coalesce(staff,''), coalesce(note,''), created_at, updated_at`

func scanSession(row interface{ Scan(...any) error }) (*club.PlanningSession, error) {
	var s club.PlanningSession
	err := row.Scan(&s.ID, &s.TeamID, &s.Day, &s.StartTime, &s.EndTime, &s.Location, &s.Staff, &s.Note, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, club.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *planningStore) Create(ctx context.Context, sess *club.PlanningSession) error {
	row := s.db.QueryRowContext(ctx, `
		insert into planning_sessions (id, team_id, day, start_time, end_time, location, staff, note)
		values ($1, $2, $3, $4, $5, $6, nullif($7,''), nullif($8,''))
		returning created_at, updated_at
	`, sess.ID, sess.TeamID, sess.Day, sess.StartTime, sess.EndTime, sess.Location, sess.Staff, sess.Note)
	if err := row.Scan(&sess.CreatedAt, &sess.UpdatedAt); err != nil {
		return mapWriteError(err)
	}
	return nil
}

func (s *planningStore) Find(ctx context.Context, id string) (*club.PlanningSession, error) {
	row := s.db.QueryRowContext(ctx, `select `+sessionColumns+` from planning_sessions where id=$1`, id)
	return scanSession(row)
}

func (s *planningStore) List(ctx context.Context, scope club.TeamSet) ([]*club.PlanningSession, error) {
	clause, args := scopeClause("team_id", scope, 1)
	query := `select ` + sessionColumns + ` from planning_sessions ` + clause + ` order by day, start_time`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*club.PlanningSession
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, sess)
	}
	return result, rows.Err()
}

func (s *planningStore) Update(ctx context.Context, sess *club.PlanningSession) error {
	res, err := s.db.ExecContext(ctx, `
		update planning_sessions
		set team_id=$2, day=$3, start_time=$4, end_time=$5, location=$6,
		    staff=nullif($7,''), note=nullif($8,''), updated_at=now()
		where id=$1
	`, sess.ID, sess.TeamID, sess.Day, sess.StartTime, sess.EndTime, sess.Location, sess.Staff, sess.Note)
	if err != nil {
		return mapWriteError(err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff == 0 {
		return club.ErrNotFound
	}
	return nil
}

func (s *planningStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from planning_sessions where id=$1`, id)
	if err != nil {
		return mapWriteError(err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff == 0 {
		return club.ErrNotFound
	}
	return nil
}
