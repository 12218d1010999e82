package repository

import (
	"context"
	"time"

	"github.com/petscare-dev/staff-allocator/backend/internal/domain"
)

func (r *Repository) CreateService(ctx context.Context, service *domain.Service) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO services (name, description)
		VALUES ($1, $2)
		RETURNING id, created_at, version
	`

	if err := r.dbpool.QueryRowContext(ctx, query, service.Name, service.Description).Scan(&service.ID, &service.CreatedAt, &service.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetServiceByID(ctx context.Context, id int64) (*domain.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT name, description, created_at, version
		FROM services WHERE id = $1
	`

	service := &domain.Service{
		ID: id,
	}

	dst := []any{&service.Name, &service.Description, &service.CreatedAt, &service.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return service, nil
}

func (r *Repository) GetAllServices(ctx context.Context) ([]*domain.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, name, description, created_at, version FROM services ORDER BY id
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	services := make([]*domain.Service, 0)
	for rows.Next() {
		service := &domain.Service{}
		dst := []any{&service.ID, &service.Name, &service.Description, &service.CreatedAt, &service.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		services = append(services, service)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return services, nil
}

func (r *Repository) UpdateService(ctx context.Context, service *domain.Service) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE services
		SET
			name = $1,
			description = $2,
			version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING version
	`

	params := []any{service.Name, service.Description, service.ID, service.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&service.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteService(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		DELETE FROM services WHERE id = $1
	`

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
