package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tekanya/plumbing-bookings/internal/domain"
)

type ServiceRepository interface {
	Create(ctx context.Context, req *domain.ServiceCreateReq) (*domain.Service, error)
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	FindByName(ctx context.Context, name string) (*domain.Service, error)
	List(ctx context.Context) ([]domain.Service, error)
	ListActive(ctx context.Context) ([]domain.Service, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Service, error)
	Update(ctx context.Context, id int64, patch domain.ServicePatch) (*domain.Service, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type serviceRepository struct {
	pool *pgxpool.Pool
}

func NewServiceRepository(pool *pgxpool.Pool) ServiceRepository {
	return &serviceRepository{pool: pool}
}

const serviceCols = `id, name, description, price, duration, category, is_active, created_at, updated_at`

func scanService(row bookingRow) (*domain.Service, error) {
	var (
		s        domain.Service
		duration *string
		category *string
	)
	err := row.Scan(
		&s.ID, &s.Name, &s.Description, &s.Price, &duration, &category, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if duration != nil {
		s.Duration = *duration
	}
	if category != nil {
		s.Category = *category
	}
	return &s, nil
}

func (r *serviceRepository) Create(ctx context.Context, req *domain.ServiceCreateReq) (*domain.Service, error) {
	const q = `
		INSERT INTO services (name, description, price, duration, category, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + serviceCols

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	s, err := scanService(r.pool.QueryRow(ctx, q,
		req.Name, req.Description, req.Price, nullable(req.Duration), nullable(req.Category), active,
	))
	if isUniqueViolation(err) {
		return nil, domain.ErrDuplicateName
	}
	return s, err
}

func (r *serviceRepository) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	const q = `SELECT ` + serviceCols + ` FROM services WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	s, err := scanService(r.pool.QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return s, err
}

func (r *serviceRepository) FindByName(ctx context.Context, name string) (*domain.Service, error) {
	const q = `SELECT ` + serviceCols + ` FROM services WHERE name = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	s, err := scanService(r.pool.QueryRow(ctx, q, name))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return s, err
}

func (r *serviceRepository) List(ctx context.Context) ([]domain.Service, error) {
	const q = `SELECT ` + serviceCols + ` FROM services ORDER BY id ASC`
	return r.queryServices(ctx, q)
}

func (r *serviceRepository) ListActive(ctx context.Context) ([]domain.Service, error) {
	const q = `SELECT ` + serviceCols + ` FROM services WHERE is_active = true ORDER BY id ASC`
	return r.queryServices(ctx, q)
}

func (r *serviceRepository) ListByCategory(ctx context.Context, category string) ([]domain.Service, error) {
	const q = `SELECT ` + serviceCols + ` FROM services WHERE category = $1 ORDER BY id ASC`
	return r.queryServices(ctx, q, category)
}

func (r *serviceRepository) queryServices(ctx context.Context, q string, args ...any) ([]domain.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []domain.Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		services = append(services, *s)
	}
	return services, rows.Err()
}

func (r *serviceRepository) Update(ctx context.Context, id int64, patch domain.ServicePatch) (*domain.Service, error) {
	const q = `
		UPDATE services
		SET
			name        = COALESCE($2, name),
			description = COALESCE($3, description),
			price       = COALESCE($4, price),
			duration    = COALESCE($5, duration),
			category    = COALESCE($6, category),
			is_active   = COALESCE($7, is_active),
			updated_at  = now()
		WHERE id = $1
		RETURNING ` + serviceCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	s, err := scanService(r.pool.QueryRow(ctx, q,
		id, patch.Name, patch.Description, patch.Price, patch.Duration, patch.Category, patch.IsActive,
	))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return s, err
}

func (r *serviceRepository) Delete(ctx context.Context, id int64) (bool, error) {
	const q = `DELETE FROM services WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}
