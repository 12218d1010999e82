package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/petscare-dev/staff-allocator/backend/internal/domain"
)

func (r *Repository) CreateStaffMember(ctx context.Context, staff *domain.StaffMember) error {
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
		INSERT INTO staff_members (full_name, email, rating)
		VALUES ($1, $2, $3)
		RETURNING id, is_active, created_at, version
	`

	args := []any{staff.FullName, staff.Email, staff.Rating}
	dst := []any{&staff.ID, &staff.IsActive, &staff.CreatedAt, &staff.Version}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	for _, serviceID := range staff.ServiceIDs {
		query = `
			INSERT INTO staff_capabilities (staff_id, service_id)
			VALUES ($1, $2)
		`
		if _, err := tx.ExecContext(ctx, query, staff.ID, serviceID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetStaffMemberByID(ctx context.Context, id int64) (*domain.StaffMember, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT full_name, email, rating, is_active, created_at, version
		FROM staff_members WHERE id = $1
	`

	staff := &domain.StaffMember{
		ID: id,
	}

	var rating sql.NullFloat64
	dst := []any{&staff.FullName, &staff.Email, &rating, &staff.IsActive, &staff.CreatedAt, &staff.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}
	if rating.Valid {
		staff.Rating = &rating.Float64
	}

	serviceIDs, err := r.staffServiceIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	staff.ServiceIDs = serviceIDs

	return staff, nil
}

func (r *Repository) GetAllStaffMembers(ctx context.Context) ([]*domain.StaffMember, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			sm.id,
			sm.full_name,
			sm.email,
			sm.rating,
			sm.is_active,
			sm.created_at,
			sm.version,
			sc.service_id
		FROM staff_members sm
		LEFT JOIN staff_capabilities sc ON sc.staff_id = sm.id
		ORDER BY sm.id, sc.service_id
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	staffMap := make(map[int64]*domain.StaffMember)
	order := make([]int64, 0)

	for rows.Next() {
		var row struct {
			ID        int64
			FullName  string
			Email     string
			Rating    sql.NullFloat64
			IsActive  bool
			CreatedAt time.Time
			Version   int32

			ServiceID sql.NullInt64
		}

		dst := []any{&row.ID, &row.FullName, &row.Email, &row.Rating, &row.IsActive, &row.CreatedAt, &row.Version, &row.ServiceID}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		staff, exists := staffMap[row.ID]
		if !exists {
			staff = &domain.StaffMember{
				ID:         row.ID,
				FullName:   row.FullName,
				Email:      row.Email,
				IsActive:   row.IsActive,
				ServiceIDs: make([]int64, 0),
				CreatedAt:  row.CreatedAt,
				Version:    row.Version,
			}
			if row.Rating.Valid {
				staff.Rating = &row.Rating.Float64
			}
			staffMap[row.ID] = staff
			order = append(order, row.ID)
		}

		if row.ServiceID.Valid {
			staff.ServiceIDs = append(staff.ServiceIDs, row.ServiceID.Int64)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	staffMembers := make([]*domain.StaffMember, 0, len(order))
	for _, id := range order {
		staffMembers = append(staffMembers, staffMap[id])
	}

	return staffMembers, nil
}

// UpdateStaffMember rewrites the profile and the capability set together so a
// concurrent reader never sees half of the change.
func (r *Repository) UpdateStaffMember(ctx context.Context, staff *domain.StaffMember) error {
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
		UPDATE staff_members
		SET
			full_name = $1,
			email = $2,
			rating = $3,
			is_active = $4,
			version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING version
	`

	args := []any{staff.FullName, staff.Email, staff.Rating, staff.IsActive, staff.ID, staff.Version}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&staff.Version); err != nil {
		return err
	}

	query = `
		DELETE FROM staff_capabilities WHERE staff_id = $1
	`
	if _, err := tx.ExecContext(ctx, query, staff.ID); err != nil {
		return err
	}

	for _, serviceID := range staff.ServiceIDs {
		query = `
			INSERT INTO staff_capabilities (staff_id, service_id)
			VALUES ($1, $2)
		`
		if _, err := tx.ExecContext(ctx, query, staff.ID, serviceID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

// DeactivateStaffMember takes a staff member out of every candidate pool
// without touching their commitment history.
func (r *Repository) DeactivateStaffMember(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE staff_members SET is_active = FALSE, version = version + 1 WHERE id = $1
	`

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}

// CandidateStaff returns the active staff members capable of the service and
// employed at the location on the given date.
func (r *Repository) CandidateStaff(ctx context.Context, locationID, serviceID int64, day time.Time) ([]*domain.StaffMember, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT DISTINCT sm.id, sm.full_name, sm.email, sm.rating, sm.is_active, sm.created_at, sm.version
		FROM staff_members sm
		JOIN staff_capabilities sc ON sc.staff_id = sm.id
		JOIN employments e ON e.staff_id = sm.id
		WHERE sm.is_active = TRUE
			AND sc.service_id = $2
			AND e.location_id = $1
			AND e.start_date <= $3
			AND (e.end_date IS NULL OR e.end_date >= $3)
		ORDER BY sm.id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, locationID, serviceID, day.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	staffMembers := make([]*domain.StaffMember, 0)
	for rows.Next() {
		staff := &domain.StaffMember{}
		var rating sql.NullFloat64
		dst := []any{&staff.ID, &staff.FullName, &staff.Email, &rating, &staff.IsActive, &staff.CreatedAt, &staff.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		if rating.Valid {
			staff.Rating = &rating.Float64
		}
		staffMembers = append(staffMembers, staff)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return staffMembers, nil
}

func (r *Repository) staffServiceIDs(ctx context.Context, staffID int64) ([]int64, error) {
	query := `
		SELECT service_id FROM staff_capabilities WHERE staff_id = $1 ORDER BY service_id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, staffID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	serviceIDs := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		serviceIDs = append(serviceIDs, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return serviceIDs, nil
}
