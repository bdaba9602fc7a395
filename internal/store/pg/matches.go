package pg

import (
	"context"
	"database/sql"
	"errors"

	"clubdesk.org/internal/club"
)

type matchStore struct{ db *sql.DB }

const matchColumns = `id, team_id, opponent, kickoff, coalesce(location,''), home, score_for, score_against, created_at, updated_at`

func scanMatch(row interface{ Scan(...any) error }) (*club.Match, error) {
	var m club.Match
	err := row.Scan(&m.ID, &m.TeamID, &m.Opponent, &m.Kickoff, &m.Location, &m.Home, &m.ScoreFor, &m.ScoreAgainst, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, club.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *matchStore) Create(ctx context.Context, m *club.Match) error {
	row := s.db.QueryRowContext(ctx, `
		insert into matches (id, team_id, opponent, kickoff, location, home, score_for, score_against)
		values ($1, $2, $3, $4, nullif($5,''), $6, $7, $8)
		returning created_at, updated_at
	`, m.ID, m.TeamID, m.Opponent, m.Kickoff, m.Location, m.Home, m.ScoreFor, m.ScoreAgainst)
	if err := row.Scan(&m.CreatedAt, &m.UpdatedAt); err != nil {
		return mapWriteError(err)
	}
	return nil
}

func (s *matchStore) Find(ctx context.Context, id string) (*club.Match, error) {
	row := s.db.QueryRowContext(ctx, `select `+matchColumns+` from matches where id=$1`, id)
	return scanMatch(row)
}

func (s *matchStore) List(ctx context.Context, scope club.TeamSet) ([]*club.Match, error) {
	clause, args := scopeClause("team_id", scope, 1)
	query := `select ` + matchColumns + ` from matches ` + clause + ` order by kickoff`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*club.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func (s *matchStore) Update(ctx context.Context, m *club.Match) error {
	res, err := s.db.ExecContext(ctx, `
		update matches
		set team_id=$2, opponent=$3, kickoff=$4, location=nullif($5,''), home=$6,
		    score_for=$7, score_against=$8, updated_at=now()
		where id=$1
	`, m.ID, m.TeamID, m.Opponent, m.Kickoff, m.Location, m.Home, m.ScoreFor, m.ScoreAgainst)
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

func (s *matchStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from matches where id=$1`, id)
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
