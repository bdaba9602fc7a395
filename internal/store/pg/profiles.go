package pg

import (
	"context"
	"database/sql"
	"errors"

	"clubdesk.org/internal/club"
)

type profileStore struct{ db *sql.DB }

const profileColumns = `id, email, full_name, role, coalesce(pole,''), is_active, password_hash, created_at, updated_at`

func scanProfile(row interface{ Scan(...any) error }) (*club.Profile, error) {
	var p club.Profile
	err := row.Scan(&p.ID, &p.Email, &p.FullName, &p.Role, &p.Pole, &p.Active, &p.PasswordHash, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, club.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *profileStore) Find(ctx context.Context, id string) (*club.Profile, error) {
	row := s.db.QueryRowContext(ctx, `select `+profileColumns+` from profiles where id=$1`, id)
	return scanProfile(row)
}

func (s *profileStore) FindByEmail(ctx context.Context, email string) (*club.Profile, error) {
	row := s.db.QueryRowContext(ctx, `select `+profileColumns+` from profiles where lower(email)=lower($1)`, email)
	return scanProfile(row)
}

func (s *profileStore) List(ctx context.Context) ([]*club.Profile, error) {
	rows, err := s.db.QueryContext(ctx, `select `+profileColumns+` from profiles order by full_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*club.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (s *profileStore) Update(ctx context.Context, p *club.Profile) error {
	res, err := s.db.ExecContext(ctx, `
		update profiles
		set email=$2, full_name=$3, role=$4, pole=nullif($5,''), is_active=$6, updated_at=now()
		where id=$1
	`, p.ID, p.Email, p.FullName, p.Role, string(p.Pole), p.Active)
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
