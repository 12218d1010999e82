package repository

import (
	"context"
	"time"

	"github.com/petscare-dev/staff-allocator/backend/internal/domain"
)

func (r *Repository) CreateLocation(ctx context.Context, location *domain.Location) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO locations (name, timezone)
		VALUES ($1, $2)
		RETURNING id, is_active, created_at, version
	`

	dst := []any{&location.ID, &location.IsActive, &location.CreatedAt, &location.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, location.Name, location.Timezone).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) LocationByID(ctx context.Context, id int64) (*domain.Location, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT name, timezone, is_active, created_at, version
		FROM locations WHERE id = $1
	`

	location := &domain.Location{
		ID: id,
	}

	dst := []any{&location.Name, &location.Timezone, &location.IsActive, &location.CreatedAt, &location.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return location, nil
}

func (r *Repository) GetAllLocations(ctx context.Context) ([]*domain.Location, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, name, timezone, is_active, created_at, version FROM locations ORDER BY id
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	locations := make([]*domain.Location, 0)
	for rows.Next() {
		location := &domain.Location{}
		dst := []any{&location.ID, &location.Name, &location.Timezone, &location.IsActive, &location.CreatedAt, &location.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		locations = append(locations, location)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return locations, nil
}

func (r *Repository) UpdateLocation(ctx context.Context, location *domain.Location) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE locations
		SET
			name = $1,
			timezone = $2,
			is_active = $3,
			version = version + 1
		WHERE id = $4 AND version = $5
		RETURNING created_at, version
	`

	args := []any{location.Name, location.Timezone, location.IsActive, location.ID, location.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&location.CreatedAt, &location.Version); err != nil {
		return err
	}

	return nil
}

// ReplacePatternDays swaps the whole weekly pattern of a location in one
// transaction. An empty slice leaves the location closed every day.
func (r *Repository) ReplacePatternDays(ctx context.Context, locationID int64, days []domain.PatternDay) error {
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
		DELETE FROM location_pattern_days WHERE location_id = $1
	`
	if _, err := tx.ExecContext(ctx, query, locationID); err != nil {
		return err
	}

	for i := range days {
		query = `
			INSERT INTO location_pattern_days (location_id, weekday, start_time, end_time)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`
		params := []any{locationID, days[i].Weekday, days[i].StartTime, days[i].EndTime}
		if err := tx.QueryRowContext(ctx, query, params...).Scan(&days[i].ID); err != nil {
			return err
		}
		days[i].LocationID = locationID
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) PatternDays(ctx context.Context, locationID int64, weekday time.Weekday) ([]*domain.PatternDay, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, location_id, weekday, start_time, end_time
		FROM location_pattern_days
		WHERE location_id = $1 AND weekday = $2
		ORDER BY start_time
	`

	rows, err := r.dbpool.QueryContext(ctx, query, locationID, int32(weekday))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	days := make([]*domain.PatternDay, 0)
	for rows.Next() {
		pd := &domain.PatternDay{}
		dst := []any{&pd.ID, &pd.LocationID, &pd.Weekday, &pd.StartTime, &pd.EndTime}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		days = append(days, pd)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return days, nil
}

func (r *Repository) AllPatternDays(ctx context.Context, locationID int64) ([]*domain.PatternDay, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, location_id, weekday, start_time, end_time
		FROM location_pattern_days
		WHERE location_id = $1
		ORDER BY weekday, start_time
	`

	rows, err := r.dbpool.QueryContext(ctx, query, locationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	days := make([]*domain.PatternDay, 0)
	for rows.Next() {
		pd := &domain.PatternDay{}
		dst := []any{&pd.ID, &pd.LocationID, &pd.Weekday, &pd.StartTime, &pd.EndTime}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		days = append(days, pd)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return days, nil
}
