package pg

import (
	"context"
	"database/sql"
	"errors"

	"clubdesk.org/internal/club"
)

type playerStore struct{ db *sql.DB }

const playerColumns = `id, firstname, lastname, coalesce(birthdate,''), coalesce(license,''), coalesce(position,''), team_id, created_at, updated_at`

func scanPlayer(row interface{ Scan(...any) error }) (*club.Player, error) {
	var p club.Player
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.BirthDate, &p.License, &p.Position, &p.TeamID, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, club.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *playerStore) Create(ctx context.Context, p *club.Player) error {
	row := s.db.QueryRowContext(ctx, `
		insert into players (id, firstname, lastname, birthdate, license, position, team_id)
		values ($1, $2, $3, nullif($4,''), nullif($5,''), nullif($6,''), $7)
		returning created_at, updated_at
	`, p.ID, p.FirstName, p.LastName, p.BirthDate, p.License, p.Position, p.TeamID)
	if err := row.Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		return mapWriteError(err)
	}
	return nil
}

func (s *playerStore) Find(ctx context.Context, id string) (*club.Player, error) {
	row := s.db.QueryRowContext(ctx, `select `+playerColumns+` from players where id=$1`, id)
	return scanPlayer(row)
}

func (s *playerStore) List(ctx context.Context, scope club.TeamSet) ([]*club.Player, error) {
	clause, args := scopeClause("team_id", scope, 1)
	query := `select ` + playerColumns + ` from players ` + clause + ` order by lastname, firstname`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*club.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (s *playerStore) Update(ctx context.Context, p *club.Player) error {
	res, err := s.db.ExecContext(ctx, `
		update players
		set firstname=$2, lastname=$3, birthdate=nullif($4,''), license=nullif($5,''),
		    position=nullif($6,''), team_id=$7, updated_at=now()
		where id=$1
	`, p.ID, p.FirstName, p.LastName, p.BirthDate, p.License, p.Position, p.TeamID)
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

func (s *playerStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from players where id=$1`, id)
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
