package pg

import (
	"context"
	"database/sql"

	"clubdesk.org/internal/club"
)

type attendanceStore struct{ db *sql.DB }

// Set upserts by (session_id, player_id). Replaying the same record
// during approval re-application overwrites instead of duplicating.
func (s *attendanceStore) Set(ctx context.Context, a *club.Attendance) error {
	row := s.db.QueryRowContext(ctx, `
		insert into attendance (session_id, player_id, status, note, recorded_at)
		values ($1, $2, $3, nullif($4,''), now())
		on conflict (session_id, player_id) do update
		set status = excluded.status, note = excluded.note, recorded_at = now()
		returning recorded_at
	`, a.SessionID, a.PlayerID, a.Status, a.Note)
	if err := row.Scan(&a.RecordedAt); err != nil {
		return mapWriteError(err)
	}
	return nil
}

func (s *attendanceStore) ListBySession(ctx context.Context, sessionID string) ([]*club.Attendance, error) {
	rows, err := s.db.QueryContext(ctx, `
		select session_id, player_id, status, coalesce(note,''), recorded_at
		from attendance
		where session_id=$1
		order by player_id
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*club.Attendance
	for rows.Next() {
		var a club.Attendance
		if err := rows.Scan(&a.SessionID, &a.PlayerID, &a.Status, &a.Note, &a.RecordedAt); err != nil {
			return nil, err
		}
		result = append(result, &a)
	}
	return result, rows.Err()
}
