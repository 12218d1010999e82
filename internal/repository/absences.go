package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/petscare-dev/staff-allocator/backend/internal/domain"
)

func (r *Repository) CreateAbsence(ctx context.Context, absence *domain.Absence) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO absences (staff_id, type, start_date, end_date, start_time, end_time, approved, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	args := []any{
		absence.StaffID,
		absence.Type,
		absence.StartDate.Format("2006-01-02"),
		absence.EndDate.Format("2006-01-02"),
		absence.StartTime,
		absence.EndTime,
		absence.Approved,
		absence.Reason,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&absence.ID, &absence.CreatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) ApproveAbsence(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE absences SET approved = TRUE WHERE id = $1
	`

	result, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// ApprovedAbsences returns the approved absences of a staff member whose date
// range covers the given date.
func (r *Repository) ApprovedAbsences(ctx context.Context, staffID int64, day time.Time) ([]*domain.Absence, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, staff_id, type, start_date, end_date, start_time, end_time, approved, reason, created_at
		FROM absences
		WHERE staff_id = $1
			AND approved = TRUE
			AND start_date <= $2
			AND end_date >= $2
		ORDER BY id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, staffID, day.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	absences, err := scanAbsences(rows)
	if err != nil {
		return nil, err
	}

	return absences, nil
}

func (r *Repository) GetAbsencesByStaff(ctx context.Context, staffID int64) ([]*domain.Absence, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, staff_id, type, start_date, end_date, start_time, end_time, approved, reason, created_at
		FROM absences
		WHERE staff_id = $1
		ORDER BY start_date DESC, id DESC
	`

	rows, err := r.dbpool.QueryContext(ctx, query, staffID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	absences, err := scanAbsences(rows)
	if err != nil {
		return nil, err
	}

	return absences, nil
}

func (r *Repository) DeleteAbsence(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		DELETE FROM absences WHERE id = $1
	`

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}

func scanAbsences(rows *sql.Rows) ([]*domain.Absence, error) {
	absences := make([]*domain.Absence, 0)
	for rows.Next() {
		absence := &domain.Absence{}
		var startTime, endTime sql.NullString
		dst := []any{
			&absence.ID,
			&absence.StaffID,
			&absence.Type,
			&absence.StartDate,
			&absence.EndDate,
			&startTime,
			&endTime,
			&absence.Approved,
			&absence.Reason,
			&absence.CreatedAt,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		if startTime.Valid {
			absence.StartTime = &startTime.String
		}
		if endTime.Valid {
			absence.EndTime = &endTime.String
		}
		absences = append(absences, absence)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return absences, nil
}
