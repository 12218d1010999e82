package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/petscare-dev/staff-allocator/backend/internal/domain"
)

func (r *Repository) CreateEmployment(ctx context.Context, employment *domain.Employment) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO employments (staff_id, location_id, start_date, end_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	var endDate any
	if employment.EndDate != nil {
		endDate = employment.EndDate.Format("2006-01-02")
	}

	args := []any{employment.StaffID, employment.LocationID, employment.StartDate.Format("2006-01-02"), endDate}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&employment.ID, &employment.CreatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetEmploymentsByStaff(ctx context.Context, staffID int64) ([]*domain.Employment, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, staff_id, location_id, start_date, end_date, created_at
		FROM employments
		WHERE staff_id = $1
		ORDER BY start_date
	`

	rows, err := r.dbpool.QueryContext(ctx, query, staffID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employments := make([]*domain.Employment, 0)
	for rows.Next() {
		employment := &domain.Employment{}
		var endDate sql.NullTime
		dst := []any{&employment.ID, &employment.StaffID, &employment.LocationID, &employment.StartDate, &endDate, &employment.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		if endDate.Valid {
			employment.EndDate = &endDate.Time
		}
		employments = append(employments, employment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return employments, nil
}

// EndEmployment closes an open employment as of the given date.
func (r *Repository) EndEmployment(ctx context.Context, id int64, endDate time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE employments SET end_date = $1 WHERE id = $2 AND end_date IS NULL
	`

	result, err := r.dbpool.ExecContext(ctx, query, endDate.Format("2006-01-02"), id)
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
