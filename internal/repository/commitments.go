package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/petscare-dev/staff-allocator/backend/internal/domain"
)

// CreateCommitment inserts a commitment only if it conflicts with nothing on
// the staff member's calendar. The staff row is locked for the duration of
// the check-then-insert, so two racing assignments for the same staff member
// serialize and the loser sees the winner's row. The exclusion constraint on
// the table is the backstop; both paths surface as
// domain.ErrCommitmentOverlap.
func (r *Repository) CreateCommitment(ctx context.Context, commitment *domain.Commitment) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		SELECT id FROM staff_members WHERE id = $1 FOR UPDATE
	`

	var lockedID int64
	if err := tx.QueryRowContext(ctx, query, commitment.StaffID).Scan(&lockedID); err != nil {
		return err
	}

	query = `
		SELECT EXISTS (
			SELECT 1 FROM commitments
			WHERE staff_id = $1
				AND status NOT IN ('cancelled', 'completed')
				AND start_time < $3
				AND end_time > $2
		)
	`

	overlaps := false
	if err := tx.QueryRowContext(ctx, query, commitment.StaffID, commitment.StartTime, commitment.EndTime).Scan(&overlaps); err != nil {
		return err
	}
	if overlaps {
		return domain.ErrCommitmentOverlap
	}

	query = `
		INSERT INTO commitments (reference, staff_id, location_id, service_id, customer_id, start_time, end_time, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, version
	`

	args := []any{
		commitment.Reference,
		commitment.StaffID,
		commitment.LocationID,
		commitment.ServiceID,
		commitment.CustomerID,
		commitment.StartTime,
		commitment.EndTime,
		commitment.Status,
		commitment.Notes,
	}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&commitment.ID, &commitment.CreatedAt, &commitment.Version); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == "commitments_no_overlap" {
			return domain.ErrCommitmentOverlap
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetCommitmentByID(ctx context.Context, id int64) (*domain.Commitment, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT reference, staff_id, location_id, service_id, customer_id, start_time, end_time, status, notes, created_at, version
		FROM commitments WHERE id = $1
	`

	commitment := &domain.Commitment{
		ID: id,
	}

	var customerID sql.NullInt64
	dst := []any{
		&commitment.Reference,
		&commitment.StaffID,
		&commitment.LocationID,
		&commitment.ServiceID,
		&customerID,
		&commitment.StartTime,
		&commitment.EndTime,
		&commitment.Status,
		&commitment.Notes,
		&commitment.CreatedAt,
		&commitment.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}
	if customerID.Valid {
		commitment.CustomerID = &customerID.Int64
	}

	return commitment, nil
}

func (r *Repository) GetCommitmentByReference(ctx context.Context, reference string) (*domain.Commitment, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, staff_id, location_id, service_id, customer_id, start_time, end_time, status, notes, created_at, version
		FROM commitments WHERE reference = $1
	`

	commitment := &domain.Commitment{
		Reference: reference,
	}

	var customerID sql.NullInt64
	dst := []any{
		&commitment.ID,
		&commitment.StaffID,
		&commitment.LocationID,
		&commitment.ServiceID,
		&customerID,
		&commitment.StartTime,
		&commitment.EndTime,
		&commitment.Status,
		&commitment.Notes,
		&commitment.CreatedAt,
		&commitment.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, reference).Scan(dst...); err != nil {
		return nil, err
	}
	if customerID.Valid {
		commitment.CustomerID = &customerID.Int64
	}

	return commitment, nil
}

// CommitmentsInRange returns the non-terminal commitments of a staff member
// overlapping [from, to), optionally excluding one commitment by ID.
func (r *Repository) CommitmentsInRange(ctx context.Context, staffID int64, from, to time.Time, excludeID int64) ([]*domain.Commitment, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, reference, staff_id, location_id, service_id, customer_id, start_time, end_time, status, notes, created_at, version
		FROM commitments
		WHERE staff_id = $1
			AND status NOT IN ('cancelled', 'completed')
			AND start_time < $3
			AND end_time > $2
			AND id != $4
		ORDER BY start_time
	`

	rows, err := r.dbpool.QueryContext(ctx, query, staffID, from, to, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	commitments := make([]*domain.Commitment, 0)
	for rows.Next() {
		commitment := &domain.Commitment{}
		var customerID sql.NullInt64
		dst := []any{
			&commitment.ID,
			&commitment.Reference,
			&commitment.StaffID,
			&commitment.LocationID,
			&commitment.ServiceID,
			&customerID,
			&commitment.StartTime,
			&commitment.EndTime,
			&commitment.Status,
			&commitment.Notes,
			&commitment.CreatedAt,
			&commitment.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		if customerID.Valid {
			commitment.CustomerID = &customerID.Int64
		}
		commitments = append(commitments, commitment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return commitments, nil
}

// CommittedStaffCount counts the distinct staff members holding a
// non-terminal commitment for the service at the location inside [from, to).
func (r *Repository) CommittedStaffCount(ctx context.Context, locationID, serviceID int64, from, to time.Time) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT COUNT(DISTINCT staff_id)
		FROM commitments
		WHERE location_id = $1
			AND service_id = $2
			AND status NOT IN ('cancelled', 'completed')
			AND start_time < $4
			AND end_time > $3
	`

	count := 0
	if err := r.dbpool.QueryRowContext(ctx, query, locationID, serviceID, from, to).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

func (r *Repository) UpdateCommitmentStatus(ctx context.Context, commitment *domain.Commitment, status domain.CommitmentStatus) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE commitments
		SET
			status = $1,
			version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING version
	`

	params := []any{status, commitment.ID, commitment.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&commitment.Version); err != nil {
		return err
	}
	commitment.Status = status

	return nil
}

func (r *Repository) GetCommitmentsByLocationAndRange(ctx context.Context, locationID int64, from, to time.Time) ([]*domain.Commitment, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, reference, staff_id, location_id, service_id, customer_id, start_time, end_time, status, notes, created_at, version
		FROM commitments
		WHERE location_id = $1
			AND start_time < $3
			AND end_time > $2
		ORDER BY start_time, id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, locationID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	commitments := make([]*domain.Commitment, 0)
	for rows.Next() {
		commitment := &domain.Commitment{}
		var customerID sql.NullInt64
		dst := []any{
			&commitment.ID,
			&commitment.Reference,
			&commitment.StaffID,
			&commitment.LocationID,
			&commitment.ServiceID,
			&customerID,
			&commitment.StartTime,
			&commitment.EndTime,
			&commitment.Status,
			&commitment.Notes,
			&commitment.CreatedAt,
			&commitment.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		if customerID.Valid {
			commitment.CustomerID = &customerID.Int64
		}
		commitments = append(commitments, commitment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return commitments, nil
}
