package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookable/service-booking-backend/internal/availability"
)

type Repository interface {
	// CreateReserving reserves the slot and inserts the booking row in one
	// transaction. Two concurrent calls against the same slot cannot both
	// succeed: the conditional slot update arbitrates, and the loser gets
	// ErrSlotUnavailable.
	CreateReserving(ctx context.Context, b *Booking) error

	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)

	// Update persists status, timestamps, contact fields and notes. When
	// releaseSlot is set the slot's is_booked flag is cleared in the same
	// transaction, so a cancelled booking can never pin its slot.
	Update(ctx context.Context, b *Booking, releaseSlot bool) error
}

type pgxRepository struct {
	pool     *pgxpool.Pool
	slotRepo availability.Repository
}

func NewPgxRepository(pool *pgxpool.Pool, slotRepo availability.Repository) Repository {
	return &pgxRepository{
		pool:     pool,
		slotRepo: slotRepo,
	}
}

func (r *pgxRepository) CreateReserving(ctx context.Context, b *Booking) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create booking failed: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := r.slotRepo.Reserve(ctx, tx, b.SlotID); err != nil {
		switch {
		case errors.Is(err, availability.ErrNotFound):
			return ErrSlotNotFound
		case errors.Is(err, availability.ErrSlotUnavailable):
			return ErrSlotUnavailable
		default:
			return err
		}
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.bookings").
		Columns(
			"service_id", "slot_id", "user_id", "status",
			"duration_hours", "total_price",
			"contact_name", "contact_email", "contact_phone", "notes",
		).
		Values(
			b.ServiceID, b.SlotID, b.UserID, b.Status,
			b.DurationHours, b.TotalPrice,
			b.ContactName, b.ContactEmail, b.ContactPhone, b.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return fmt.Errorf("create booking failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create booking failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(bookingColumns()...).
		From("public.bookings b").
		Join("public.services s ON b.service_id = s.id").
		Join("public.availability_slots a ON b.slot_id = a.id").
		Join("public.users u ON b.user_id = u.id").
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	var b Booking
	if err := scanBooking(r.pool.QueryRow(ctx, query, args...), &b, nil); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return &b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	columns := append(bookingColumns(), "count(*) OVER() as total_count")
	query := psql.Select(columns...).
		From("public.bookings b").
		Join("public.services s ON b.service_id = s.id").
		Join("public.availability_slots a ON b.slot_id = a.id").
		Join("public.users u ON b.user_id = u.id")

	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"b.user_id": filter.UserID})
	}
	if filter.ServiceID != "" {
		query = query.Where(squirrel.Eq{"b.service_id": filter.ServiceID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"b.status": filter.Status})
	}

	query = query.OrderBy("b.created_at DESC")

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	var total int

	for rows.Next() {
		var b Booking
		if err := scanBooking(rows, &b, &total); err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, &b)
	}

	return bookings, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, b *Booking, releaseSlot bool) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update booking failed: %w", err)
	}
	defer tx.Rollback(ctx)

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("status", b.Status).
		Set("contact_name", b.ContactName).
		Set("contact_email", b.ContactEmail).
		Set("contact_phone", b.ContactPhone).
		Set("notes", b.Notes).
		Set("confirmed_at", b.ConfirmedAt).
		Set("cancelled_at", b.CancelledAt).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": b.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking query failed: %w", err)
	}

	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}

	if releaseSlot {
		if err := r.slotRepo.Release(ctx, tx, b.SlotID); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit update booking failed: %w", err)
	}
	return nil
}

func bookingColumns() []string {
	return []string{
		"b.id", "b.service_id", "s.name", "s.owner_id",
		"b.slot_id", "a.date", "b.user_id", "u.display_name",
		"b.status", "b.duration_hours", "b.total_price",
		"b.contact_name", "b.contact_email", "b.contact_phone", "b.notes",
		"b.confirmed_at", "b.cancelled_at", "b.created_at", "b.updated_at",
	}
}

func scanBooking(row pgx.Row, b *Booking, total *int) error {
	dest := []any{
		&b.ID, &b.ServiceID, &b.ServiceName, &b.OwnerID,
		&b.SlotID, &b.SlotDate, &b.UserID, &b.UserName,
		&b.Status, &b.DurationHours, &b.TotalPrice,
		&b.ContactName, &b.ContactEmail, &b.ContactPhone, &b.Notes,
		&b.ConfirmedAt, &b.CancelledAt, &b.CreatedAt, &b.UpdatedAt,
	}
	if total != nil {
		dest = append(dest, total)
	}
	return row.Scan(dest...)
}
