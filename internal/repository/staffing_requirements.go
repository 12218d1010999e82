package repository

import (
	"context"
	"time"

	"github.com/petscare-dev/staff-allocator/backend/internal/domain"
)

// ReplaceStaffingRequirements swaps every headcount target of a location in
// one transaction.
func (r *Repository) ReplaceStaffingRequirements(ctx context.Context, locationID int64, requirements []domain.StaffingRequirement) error {
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
		DELETE FROM staffing_requirements WHERE location_id = $1
	`
	if _, err := tx.ExecContext(ctx, query, locationID); err != nil {
		return err
	}

	for i := range requirements {
		query = `
			INSERT INTO staffing_requirements (location_id, service_id, weekday, start_time, end_time, required_count, priority, is_active)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id
		`
		params := []any{
			locationID,
			requirements[i].ServiceID,
			requirements[i].Weekday,
			requirements[i].StartTime,
			requirements[i].EndTime,
			requirements[i].RequiredCount,
			requirements[i].Priority,
			requirements[i].IsActive,
		}
		if err := tx.QueryRowContext(ctx, query, params...).Scan(&requirements[i].ID); err != nil {
			return err
		}
		requirements[i].LocationID = locationID
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) StaffingRequirements(ctx context.Context, locationID int64, weekday time.Weekday) ([]*domain.StaffingRequirement, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, location_id, service_id, weekday, start_time, end_time, required_count, priority, is_active
		FROM staffing_requirements
		WHERE location_id = $1 AND weekday = $2
		ORDER BY priority DESC, id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, locationID, int32(weekday))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requirements := make([]*domain.StaffingRequirement, 0)
	for rows.Next() {
		req := &domain.StaffingRequirement{}
		dst := []any{&req.ID, &req.LocationID, &req.ServiceID, &req.Weekday, &req.StartTime, &req.EndTime, &req.RequiredCount, &req.Priority, &req.IsActive}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		requirements = append(requirements, req)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requirements, nil
}

func (r *Repository) AllStaffingRequirements(ctx context.Context, locationID int64) ([]*domain.StaffingRequirement, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, location_id, service_id, weekday, start_time, end_time, required_count, priority, is_active
		FROM staffing_requirements
		WHERE location_id = $1
		ORDER BY weekday, priority DESC, id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, locationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requirements := make([]*domain.StaffingRequirement, 0)
	for rows.Next() {
		req := &domain.StaffingRequirement{}
		dst := []any{&req.ID, &req.LocationID, &req.ServiceID, &req.Weekday, &req.StartTime, &req.EndTime, &req.RequiredCount, &req.Priority, &req.IsActive}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		requirements = append(requirements, req)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requirements, nil
}
