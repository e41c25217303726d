// Package postgres implements domain.Store on PostgreSQL through database/sql
// and lib/pq. Every tenant statement carries "tenant_id = $1".
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
	"github.com/aryan0dhankhar/hrportal/internal/tenancy"
)

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

// Store implements domain.Store using PostgreSQL
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ domain.Store = (*Store)(nil)

// New creates a store over an open connection pool.
func New(db *sql.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}

func (s *Store) Credentials() domain.CredentialStore {
	return &credentials{db: s.db, logger: s.logger}
}

func (s *Store) Scoped(scope tenancy.Scope) domain.TenantStore {
	return &tenantStore{q: s.db, tenantID: scope.TenantID(), logger: s.logger}
}

// WithinTx runs fn in a single transaction. The transaction is rolled back
// when fn returns an error.
func (s *Store) WithinTx(ctx context.Context, scope tenancy.Scope, fn func(domain.TenantStore) error) error {
	if !scope.Valid() {
		return tenancy.ErrNoScope
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(&tenantStore{q: tx, tenantID: scope.TenantID(), logger: s.logger}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("failed to roll back transaction",
				slog.String("tenant_id", scope.TenantID()),
				slog.String("error", rbErr.Error()),
			)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type tenantStore struct {
	q        querier
	tenantID string
	logger   *slog.Logger
}

func (t *tenantStore) tenant() (string, error) {
	if t.tenantID == "" {
		return "", tenancy.ErrNoScope
	}
	return t.tenantID, nil
}

func (t *tenantStore) Organization() domain.OrganizationRepository { return &orgRepo{t} }
func (t *tenantStore) HRAdmins() domain.HRRepository { return &hrRepo{t} }
func (t *tenantStore) Employees() domain.EmployeeRepository { return &employeeRepo{t} }
func (t *tenantStore) Departments() domain.DepartmentRepository { return &departmentRepo{t} }
func (t *tenantStore) Leaves() domain.LeaveRepository { return &leaveRepo{t} }
func (t *tenantStore) Salaries() domain.SalaryRepository { return &salaryRepo{t} }
func (t *tenantStore) Notices() domain.NoticeRepository { return &noticeRepo{t} }
func (t *tenantStore) Requests() domain.RequestRepository { return &requestRepo{t} }
func (t *tenantStore) Attendance() domain.AttendanceRepository { return &attendanceRepo{t} }
func (t *tenantStore) Schedules() domain.ScheduleRepository { return &scheduleRepo{t} }
func (t *tenantStore) Recruitments() domain.RecruitmentRepository { return &recruitmentRepo{t} }

// exec runs a tenant statement that must touch at least one row.
func (t *tenantStore) exec(ctx context.Context, op, query string, args ...any) error {
	res, err := t.q.ExecContext(ctx, query, args...)
	if err != nil {
		return t.fail(op, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// execEmailGuarded runs an UPDATE of a principal table that carries a
// NOT EXISTS guard against otherTable. When no row changed it tells a taken
// email (ErrConflict) apart from a missing row (ErrNotFound).
func (t *tenantStore) execEmailGuarded(ctx context.Context, op, otherTable, email, query string, args ...any) error {
	err := t.exec(ctx, op, query, args...)
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	var taken bool
	if err := t.q.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM `+otherTable+` WHERE email = $1)`, email).Scan(&taken); err != nil {
		return t.fail(op, err)
	}
	if taken {
		return domain.ErrConflict
	}
	return domain.ErrNotFound
}

// execMany runs a tenant statement that may touch zero rows.
func (t *tenantStore) execMany(ctx context.Context, op, query string, args ...any) error {
	if _, err := t.q.ExecContext(ctx, query, args...); err != nil {
		return t.fail(op, err)
	}
	return nil
}

// fail maps driver errors onto domain errors and logs the rest.
func (t *tenantStore) fail(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) || isInvalidText(err) {
		return domain.ErrNotFound
	}
	if isUniqueViolation(err) {
		return domain.ErrConflict
	}
	t.logger.Error("query failed",
		slog.String("op", op),
		slog.String("tenant_id", t.tenantID),
		slog.String("error", err.Error()),
	)
	return fmt.Errorf("failed to %s: %w", op, err)
}

// collect scans every row with scan.
func collect[T any](rows *sql.Rows, scan func(scanner) (*T, error)) ([]*T, error) {
	defer rows.Close()
	out := make([]*T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// isInvalidText reports a value the column type rejects, such as a path id
// that is not a UUID. No row can match it.
func isInvalidText(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "22P02"
}

func newID() string {
	return uuid.NewString()
}

func now() time.Time {
	return time.Now().UTC()
}

// nullable maps an empty id to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}
