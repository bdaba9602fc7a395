package pg

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"clubdesk.org/internal/club"
)

type approvalStore struct{ db *sql.DB }

const approvalColumns = `id, requested_by, action, entity, payload, status, created_at, decided_at, coalesce(decided_by,'')`

func scanApproval(row interface{ Scan(...any) error }) (*club.ApprovalRequest, error) {
	var r club.ApprovalRequest
	var decidedAt sql.NullTime
	err := row.Scan(&r.ID, &r.RequestedBy, &r.Action, &r.Entity, &r.Payload, &r.Status, &r.CreatedAt, &decidedAt, &r.DecidedBy)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, club.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if decidedAt.Valid {
		t := decidedAt.Time
		r.DecidedAt = &t
	}
	return &r, nil
}

func (s *approvalStore) Create(ctx context.Context, r *club.ApprovalRequest) error {
	row := s.db.QueryRowContext(ctx, `
		insert into approval_requests (id, requested_by, action, entity, payload, status)
		values ($1, $2, $3, $4, $5, $6)
		returning created_at
	`, r.ID, r.RequestedBy, r.Action, r.Entity, []byte(r.Payload), r.Status)
	if err := row.Scan(&r.CreatedAt); err != nil {
		return mapWriteError(err)
	}
	return nil
}

func (s *approvalStore) Find(ctx context.Context, id string) (*club.ApprovalRequest, error) {
	row := s.db.QueryRowContext(ctx, `select `+approvalColumns+` from approval_requests where id=$1`, id)
	return scanApproval(row)
}

func (s *approvalStore) ListPending(ctx context.Context) ([]*club.ApprovalRequest, error) {
	rows, err := s.db.QueryContext(ctx, `
		select `+approvalColumns+`
		from approval_requests
		where status='pending'
		order by created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*club.ApprovalRequest
	for rows.Next() {
		r, err := scanApproval(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// Decide performs the pending -> terminal transition as one guarded
// update, so two concurrent deciders cannot both win.
func (s *approvalStore) Decide(ctx context.Context, id, status, deciderID string, decidedAt time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		update approval_requests
		set status=$2, decided_by=$3, decided_at=$4
		where id=$1 and status='pending'
	`, id, status, deciderID, decidedAt)
	if err != nil {
		return false, err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return aff == 1, nil
}
