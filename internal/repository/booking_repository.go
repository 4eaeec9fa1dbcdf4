package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tekanya/plumbing-bookings/internal/domain"
)

type BookingRepository interface {
	Create(ctx context.Context, customerID string, req *domain.BookingCreateReq, priority domain.BookingPriority) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	List(ctx context.Context) ([]domain.Booking, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Booking, error)
	ListByStatus(ctx context.Context, status domain.BookingStatus) ([]domain.Booking, error)
	Update(ctx context.Context, id int64, patch domain.BookingPatch) (*domain.Booking, error)
	AssignPlumber(ctx context.Context, id int64, plumberID string) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type bookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) BookingRepository {
	return &bookingRepository{pool: pool}
}

// Reads join the customer, service, and plumber so responses carry the
// related records the way the API returns them.
const bookingSelect = `
	SELECT
		b.id, b.customer_id, b.service_id, b.plumber_id,
		b.scheduled_date, b.address, b.description, b.status,
		b.estimated_price, b.final_price, b.priority, b.admin_notes,
		b.created_at, b.updated_at,
		u.id, u.email, u.role,
		s.id, s.name, s.description, s.price, s.duration, s.category, s.is_active, s.created_at, s.updated_at,
		p.id, p.name, p.phone, p.email, p.specialization, p.experience, p.location, p.available, p.rating, p.description, p.created_at, p.updated_at
	FROM bookings b
	JOIN users u ON u.id = b.customer_id
	JOIN services s ON s.id = b.service_id
	LEFT JOIN plumbers p ON p.id = b.plumber_id`

type bookingRow interface {
	Scan(dest ...any) error
}

func scanBooking(row bookingRow) (*domain.Booking, error) {
	var (
		b        domain.Booking
		desc     *string
		notes    *string
		customer domain.UserInfo
		svc      domain.Service
		svcDur   *string
		svcCat   *string

		pID, pName, pPhone, pEmail, pSpec, pExp, pLoc, pDesc *string
		pAvail                                               *bool
		pRating                                              *float64
		pCreated, pUpdated                                   *time.Time
	)

	err := row.Scan(
		&b.ID, &b.CustomerID, &b.ServiceID, &b.PlumberID,
		&b.ScheduledDate, &b.Address, &desc, &b.Status,
		&b.EstimatedPrice, &b.FinalPrice, &b.Priority, &notes,
		&b.CreatedAt, &b.UpdatedAt,
		&customer.ID, &customer.Email, &customer.Role,
		&svc.ID, &svc.Name, &svc.Description, &svc.Price, &svcDur, &svcCat, &svc.IsActive, &svc.CreatedAt, &svc.UpdatedAt,
		&pID, &pName, &pPhone, &pEmail, &pSpec, &pExp, &pLoc, &pAvail, &pRating, &pDesc, &pCreated, &pUpdated,
	)
	if err != nil {
		return nil, err
	}

	if desc != nil {
		b.Description = *desc
	}
	if notes != nil {
		b.AdminNotes = *notes
	}
	if svcDur != nil {
		svc.Duration = *svcDur
	}
	if svcCat != nil {
		svc.Category = *svcCat
	}
	b.Customer = &customer
	b.Service = &svc

	if pID != nil {
		plumber := domain.Plumber{
			ID:        *pID,
			Name:      *pName,
			Phone:     *pPhone,
			Email:     *pEmail,
			Available: *pAvail,
			Rating:    pRating,
			CreatedAt: *pCreated,
			UpdatedAt: *pUpdated,
		}
		if pSpec != nil {
			plumber.Specialization = *pSpec
		}
		if pExp != nil {
			plumber.Experience = *pExp
		}
		if pLoc != nil {
			plumber.Location = *pLoc
		}
		if pDesc != nil {
			plumber.Description = *pDesc
		}
		b.Plumber = &plumber
	}

	return &b, nil
}

func (r *bookingRepository) Create(ctx context.Context, customerID string, req *domain.BookingCreateReq, priority domain.BookingPriority) (*domain.Booking, error) {
	const q = `
		INSERT INTO bookings (customer_id, service_id, scheduled_date, address, description, priority, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending')
		RETURNING id`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var id int64
	err := r.pool.QueryRow(ctx, q,
		customerID, req.ServiceID, req.ScheduledDate, req.Address, nullable(req.Description), priority,
	).Scan(&id)
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	const q = bookingSelect + ` WHERE b.id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	b, err := scanBooking(r.pool.QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return b, err
}

func (r *bookingRepository) List(ctx context.Context) ([]domain.Booking, error) {
	const q = bookingSelect + ` ORDER BY b.created_at DESC`
	return r.queryBookings(ctx, q)
}

func (r *bookingRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.Booking, error) {
	const q = bookingSelect + ` WHERE b.customer_id = $1 ORDER BY b.created_at DESC`
	return r.queryBookings(ctx, q, customerID)
}

func (r *bookingRepository) ListByStatus(ctx context.Context, status domain.BookingStatus) ([]domain.Booking, error) {
	const q = bookingSelect + ` WHERE b.status = $1 ORDER BY b.created_at DESC`
	return r.queryBookings(ctx, q, status)
}

func (r *bookingRepository) queryBookings(ctx context.Context, q string, args ...any) ([]domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *bookingRepository) Update(ctx context.Context, id int64, patch domain.BookingPatch) (*domain.Booking, error) {
	const q = `
		UPDATE bookings
		SET
			plumber_id      = COALESCE($2, plumber_id),
			status          = COALESCE($3, status),
			estimated_price = COALESCE($4, estimated_price),
			final_price     = COALESCE($5, final_price),
			admin_notes     = COALESCE($6, admin_notes),
			scheduled_date  = COALESCE($7, scheduled_date),
			updated_at      = now()
		WHERE id = $1
		RETURNING id`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var updated int64
	err := r.pool.QueryRow(ctx, q,
		id,
		patch.PlumberID,
		patch.Status,
		patch.EstimatedPrice,
		patch.FinalPrice,
		patch.AdminNotes,
		patch.ScheduledDate,
	).Scan(&updated)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, updated)
}

func (r *bookingRepository) AssignPlumber(ctx context.Context, id int64, plumberID string) (*domain.Booking, error) {
	const q = `
		UPDATE bookings
		SET plumber_id = $2, status = 'confirmed', updated_at = now()
		WHERE id = $1
		RETURNING id`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var updated int64
	err := r.pool.QueryRow(ctx, q, id, plumberID).Scan(&updated)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, updated)
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	const q = `
		UPDATE bookings
		SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING id`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var updated int64
	err := r.pool.QueryRow(ctx, q, id, status).Scan(&updated)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, updated)
}

func (r *bookingRepository) Delete(ctx context.Context, id int64) (bool, error) {
	const q = `DELETE FROM bookings WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
