package pg

import (
	"context"
	"database/sql"
	"errors"

	"clubdesk.org/internal/club"
)

type teamStore struct{ db *sql.DB }

const teamColumns = `id, name, category, pole, gender, coalesce(coach_id,''), created_at, updated_at`

func scanTeam(row interface{ Scan(...any) error }) (*club.Team, error) {
	var t club.Team
	err := row.Scan(&t.ID, &t.Name, &t.Category, &t.Pole, &t.Gender, &t.CoachID, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, club.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *teamStore) Create(ctx context.Context, t *club.Team) error {
	row := s.db.QueryRowContext(ctx, `
		insert into teams (id, name, category, pole, gender, coach_id)
		values ($1, $2, $3, $4, $5, nullif($6,''))
		returning created_at, updated_at
	`, t.ID, t.Name, t.Category, string(t.Pole), t.Gender, t.CoachID)
	if err := row.Scan(&t.CreatedAt, &t.UpdatedAt); err != nil {
		return mapWriteError(err)
	}
	return nil
}

func (s *teamStore) Find(ctx context.Context, id string) (*club.Team, error) {
	row := s.db.QueryRowContext(ctx, `select `+teamColumns+` from teams where id=$1`, id)
	return scanTeam(row)
}

func (s *teamStore) List(ctx context.Context, scope club.TeamSet) ([]*club.Team, error) {
	clause, args := scopeClause("id", scope, 1)
	query := `select ` + teamColumns + ` from teams ` + clause + ` order by name`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTeams(rows)
}

func (s *teamStore) ListByPole(ctx context.Context, pole club.Pole) ([]*club.Team, error) {
	rows, err := s.db.QueryContext(ctx, `select `+teamColumns+` from teams where pole=$1 order by name`, string(pole))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTeams(rows)
}

func (s *teamStore) ListByCoach(ctx context.Context, coachID string) ([]*club.Team, error) {
	rows, err := s.db.QueryContext(ctx, `select `+teamColumns+` from teams where coach_id=$1 order by name`, coachID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTeams(rows)
}

func collectTeams(rows *sql.Rows) ([]*club.Team, error) {
	var result []*club.Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

func (s *teamStore) Update(ctx context.Context, t *club.Team) error {
	res, err := s.db.ExecContext(ctx, `
		update teams
		set name=$2, category=$3, pole=$4, gender=$5, coach_id=nullif($6,''), updated_at=now()
		where id=$1
	`, t.ID, t.Name, t.Category, string(t.Pole), t.Gender, t.CoachID)
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

func (s *teamStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from teams where id=$1`, id)
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
