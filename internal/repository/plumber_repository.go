package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tekanya/plumbing-bookings/internal/domain"
)

type PlumberRepository interface {
	Create(ctx context.Context, req *domain.PlumberCreateReq) (*domain.Plumber, error)
	GetByID(ctx context.Context, id string) (*domain.Plumber, error)
	FindByEmail(ctx context.Context, email string) (*domain.Plumber, error)
	List(ctx context.Context) ([]domain.Plumber, error)
	ListAvailable(ctx context.Context) ([]domain.Plumber, error)
	Update(ctx context.Context, id string, patch domain.PlumberPatch) (*domain.Plumber, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type plumberRepository struct {
	pool *pgxpool.Pool
}

func NewPlumberRepository(pool *pgxpool.Pool) PlumberRepository {
	return &plumberRepository{pool: pool}
}

const plumberCols = `id, name, phone, email, specialization, experience, location, available, rating, description, created_at, updated_at`

func scanPlumber(row bookingRow) (*domain.Plumber, error) {
	var (
		p                    domain.Plumber
		spec, exp, loc, desc *string
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Phone, &p.Email, &spec, &exp, &loc, &p.Available, &p.Rating, &desc, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if spec != nil {
		p.Specialization = *spec
	}
	if exp != nil {
		p.Experience = *exp
	}
	if loc != nil {
		p.Location = *loc
	}
	if desc != nil {
		p.Description = *desc
	}
	return &p, nil
}

func (r *plumberRepository) Create(ctx context.Context, req *domain.PlumberCreateReq) (*domain.Plumber, error) {
	const q = `
		INSERT INTO plumbers (id, name, phone, email, specialization, experience, location, available, rating, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + plumberCols

	available := true
	if req.Available != nil {
		available = *req.Available
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	p, err := scanPlumber(r.pool.QueryRow(ctx, q,
		uuid.NewString(), req.Name, req.Phone, req.Email,
		nullable(req.Specialization), nullable(req.Experience), nullable(req.Location),
		available, req.Rating, nullable(req.Description),
	))
	if isUniqueViolation(err) {
		return nil, domain.ErrDuplicateEmail
	}
	return p, err
}

func (r *plumberRepository) GetByID(ctx context.Context, id string) (*domain.Plumber, error) {
	const q = `SELECT ` + plumberCols + ` FROM plumbers WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	p, err := scanPlumber(r.pool.QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func (r *plumberRepository) FindByEmail(ctx context.Context, email string) (*domain.Plumber, error) {
	const q = `SELECT ` + plumberCols + ` FROM plumbers WHERE email = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	p, err := scanPlumber(r.pool.QueryRow(ctx, q, email))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func (r *plumberRepository) List(ctx context.Context) ([]domain.Plumber, error) {
	const q = `SELECT ` + plumberCols + ` FROM plumbers ORDER BY created_at DESC`
	return r.queryPlumbers(ctx, q)
}

func (r *plumberRepository) ListAvailable(ctx context.Context) ([]domain.Plumber, error) {
	const q = `SELECT ` + plumberCols + ` FROM plumbers WHERE available = true ORDER BY rating DESC NULLS LAST`
	return r.queryPlumbers(ctx, q)
}

func (r *plumberRepository) queryPlumbers(ctx context.Context, q string, args ...any) ([]domain.Plumber, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plumbers []domain.Plumber
	for rows.Next() {
		p, err := scanPlumber(rows)
		if err != nil {
			return nil, err
		}
		plumbers = append(plumbers, *p)
	}
	return plumbers, rows.Err()
}

func (r *plumberRepository) Update(ctx context.Context, id string, patch domain.PlumberPatch) (*domain.Plumber, error) {
	const q = `
		UPDATE plumbers
		SET
			name           = COALESCE($2, name),
			phone          = COALESCE($3, phone),
			email          = COALESCE($4, email),
			specialization = COALESCE($5, specialization),
			experience     = COALESCE($6, experience),
			location       = COALESCE($7, location),
			available      = COALESCE($8, available),
			rating         = COALESCE($9, rating),
			description    = COALESCE($10, description),
			updated_at     = now()
		WHERE id = $1
		RETURNING ` + plumberCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	p, err := scanPlumber(r.pool.QueryRow(ctx, q,
		id, patch.Name, patch.Phone, patch.Email, patch.Specialization,
		patch.Experience, patch.Location, patch.Available, patch.Rating, patch.Description,
	))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func (r *plumberRepository) Delete(ctx context.Context, id string) (bool, error) {
	const q = `DELETE FROM plumbers WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}
