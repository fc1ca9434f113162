package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx so the reserve and
// release statements can run standalone or inside another module's
// transaction (the booking create/cancel paths).
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repository interface {
	// ReplaceRange regenerates the slot set for a service inside one
	// transaction: slots without an active booking are deleted, the new
	// range is inserted, and days still covered by a preserved booked slot
	// are skipped. Calling it twice with the same range is idempotent.
	ReplaceRange(ctx context.Context, serviceID string, slots []*Slot) ([]*Slot, error)

	GetByID(ctx context.Context, id string) (*Slot, error)
	ListByService(ctx context.Context, serviceID string, from, to *time.Time) ([]*Slot, error)

	// Reserve atomically flips is_booked on an available, unbooked slot.
	// Zero affected rows means the slot is missing, withdrawn, or the race
	// was lost; the caller gets ErrSlotUnavailable (or ErrNotFound when the
	// row does not exist at all).
	Reserve(ctx context.Context, q DBTX, id string) error

	// Release clears is_booked. Safe to repeat.
	Release(ctx context.Context, q DBTX, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) ReplaceRange(ctx context.Context, serviceID string, slots []*Slot) ([]*Slot, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin replace range failed: %w", err)
	}
	defer tx.Rollback(ctx)

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	// Booked slots survive regeneration so an active booking is never
	// orphaned by a range edit.
	delQuery, delArgs, err := psql.Delete("public.availability_slots").
		Where(squirrel.Eq{"service_id": serviceID}).
		Where(squirrel.Eq{"is_booked": false}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build delete slots query failed: %w", err)
	}
	if _, err := tx.Exec(ctx, delQuery, delArgs...); err != nil {
		return nil, fmt.Errorf("delete slots failed: %w", err)
	}

	insert := psql.Insert("public.availability_slots").
		Columns("service_id", "date", "start_time", "end_time", "is_available")
	for _, s := range slots {
		insert = insert.Values(s.ServiceID, s.Date, s.StartTime, s.EndTime, true)
	}
	// (service_id, date) is unique; a day held by a preserved booked slot
	// keeps its existing row.
	insQuery, insArgs, err := insert.
		Suffix("ON CONFLICT (service_id, date) DO NOTHING").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert slots query failed: %w", err)
	}
	if _, err := tx.Exec(ctx, insQuery, insArgs...); err != nil {
		return nil, fmt.Errorf("insert slots failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit replace range failed: %w", err)
	}

	return r.ListByService(ctx, serviceID, nil, nil)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Slot, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"id", "service_id", "date", "start_time", "end_time",
		"is_available", "is_booked", "created_at",
	).
		From("public.availability_slots").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get slot query failed: %w", err)
	}

	var s Slot
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&s.ID, &s.ServiceID, &s.Date, &s.StartTime, &s.EndTime,
		&s.IsAvailable, &s.IsBooked, &s.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get slot failed: %w", err)
	}
	return &s, nil
}

func (r *pgxRepository) ListByService(ctx context.Context, serviceID string, from, to *time.Time) ([]*Slot, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "service_id", "date", "start_time", "end_time",
		"is_available", "is_booked", "created_at",
	).
		From("public.availability_slots").
		Where(squirrel.Eq{"service_id": serviceID}).
		OrderBy("date ASC")

	if from != nil {
		query = query.Where(squirrel.GtOrEq{"date": *from})
	}
	if to != nil {
		query = query.Where(squirrel.LtOrEq{"date": *to})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list slots query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list slots failed: %w", err)
	}
	defer rows.Close()

	var slots []*Slot
	for rows.Next() {
		var s Slot
		if err := rows.Scan(
			&s.ID, &s.ServiceID, &s.Date, &s.StartTime, &s.EndTime,
			&s.IsAvailable, &s.IsBooked, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan slot failed: %w", err)
		}
		slots = append(slots, &s)
	}

	return slots, nil
}

func (r *pgxRepository) Reserve(ctx context.Context, q DBTX, id string) error {
	if q == nil {
		q = r.pool
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.availability_slots").
		Set("is_booked", true).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"is_available": true}).
		Where(squirrel.Eq{"is_booked": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build reserve slot query failed: %w", err)
	}

	ct, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("reserve slot failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		// Distinguish a missing slot from a lost race
		if _, err := r.slotExists(ctx, q, id); err != nil {
			return err
		}
		return ErrSlotUnavailable
	}
	return nil
}

func (r *pgxRepository) Release(ctx context.Context, q DBTX, id string) error {
	if q == nil {
		q = r.pool
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.availability_slots").
		Set("is_booked", false).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build release slot query failed: %w", err)
	}

	if _, err := q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("release slot failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) slotExists(ctx context.Context, q DBTX, id string) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM public.availability_slots WHERE id = $1)", id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check slot exists failed: %w", err)
	}
	if !exists {
		return false, ErrNotFound
	}
	return true, nil
}
