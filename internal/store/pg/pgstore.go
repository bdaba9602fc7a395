// Package pg implements the club store on PostgreSQL.
package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"clubdesk.org/internal/club"
)

const (
	pgErrUniqueViolation     = "23505"
	pgErrForeignKeyViolation = "23503"
)

// impossibleTeamID is a ULID-shaped value no row can carry. Empty team
// scopes filter on it, so "no accessible teams" can never degrade into
// an unfiltered query.
const impossibleTeamID = "00000000000000000000000000"

type Store struct {
	db *sql.DB
}

var _ club.Store = (*Store)(nil)

func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	// Tuned pool defaults; adjust under load tests
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &Store{db: db}, nil
}

// NewStore wraps an existing connection, mainly for tests.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Profiles() club.ProfileStore      { return &profileStore{db: s.db} }
func (s *Store) Teams() club.TeamStore            { return &teamStore{db: s.db} }
func (s *Store) Players() club.PlayerStore        { return &playerStore{db: s.db} }
func (s *Store) Planning() club.PlanningStore     { return &planningStore{db: s.db} }
func (s *Store) Matches() club.MatchStore         { return &matchStore{db: s.db} }
func (s *Store) Attendance() club.AttendanceStore { return &attendanceStore{db: s.db} }
func (s *Store) Approvals() club.ApprovalStore    { return &approvalStore{db: s.db} }

var requiredTables = []string{
	"profiles", "teams", "players", "planning_sessions",
	"matches", "attendance", "approval_requests",
}

// CheckSchema verifies once, at startup, that every table the store
// touches exists. Business code never branches on caught storage
// errors to discover schema state.
func (s *Store) CheckSchema(ctx context.Context) error {
	var missing []string
	for _, table := range requiredTables {
		var reg sql.NullString
		if err := s.db.QueryRowContext(ctx, `select to_regclass($1)`, table).Scan(&reg); err != nil {
			return fmt.Errorf("schema check: %w", err)
		}
		if !reg.Valid {
			missing = append(missing, table)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("schema check: missing tables %s (run migrations)", strings.Join(missing, ", "))
	}
	return nil
}

// --- helpers ---

func maybePgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

func mapWriteError(err error) error {
	if pgErr, ok := maybePgError(err); ok {
		switch pgErr.Code {
		case pgErrUniqueViolation:
			return club.ErrConflict
		case pgErrForeignKeyViolation:
			return club.ErrNotFound
		}
	}
	return err
}

// scopeClause renders "where <column> in (...)" for a team scope, or
// nothing for ALL. Empty scopes collapse to the impossible id.
func scopeClause(column string, scope club.TeamSet, nextArg int) (string, []any) {
	if scope.All {
		return "", nil
	}
	ids := scope.IDs
	if len(ids) == 0 {
		ids = []string{impossibleTeamID}
	}
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", nextArg+i)
		args[i] = id
	}
	return fmt.Sprintf("where %s in (%s)", column, strings.Join(placeholders, ",")), args
}
