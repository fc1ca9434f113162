package schedulerequest

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, r *ScheduleRequest) error
	GetByID(ctx context.Context, id string) (*ScheduleRequest, error)
	List(ctx context.Context, filter Filter) ([]*ScheduleRequest, int, error)

	// UpdateStatus transitions a request out of pending. The WHERE clause
	// re-checks the pending status so two concurrent responses cannot both
	// apply; the loser sees ErrNotPending.
	UpdateStatus(ctx context.Context, r *ScheduleRequest) error

	// HasAccepted reports whether the user has an accepted request for the
	// service.
	HasAccepted(ctx context.Context, serviceID, userID string) (bool, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, sr *ScheduleRequest) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.schedule_requests").
		Columns("service_id", "user_id", "status", "start_date", "end_date", "message").
		Values(sr.ServiceID, sr.UserID, sr.Status, sr.StartDate, sr.EndDate, sr.Message).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create schedule request query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).
		Scan(&sr.ID, &sr.CreatedAt, &sr.UpdatedAt)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*ScheduleRequest, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(requestColumns()...).
		From("public.schedule_requests r").
		Join("public.services s ON r.service_id = s.id").
		Join("public.users u ON r.user_id = u.id").
		Where(squirrel.Eq{"r.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get schedule request query failed: %w", err)
	}

	var sr ScheduleRequest
	if err := scanRequest(r.pool.QueryRow(ctx, query, args...), &sr, nil); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get schedule request failed: %w", err)
	}
	return &sr, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*ScheduleRequest, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	columns := append(requestColumns(), "count(*) OVER() as total_count")
	query := psql.Select(columns...).
		From("public.schedule_requests r").
		Join("public.services s ON r.service_id = s.id").
		Join("public.users u ON r.user_id = u.id")

	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"r.user_id": filter.UserID})
	}
	if filter.ServiceID != "" {
		query = query.Where(squirrel.Eq{"r.service_id": filter.ServiceID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"r.status": filter.Status})
	}

	query = query.OrderBy("r.created_at DESC")

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
		return nil, 0, fmt.Errorf("build list schedule requests query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list schedule requests failed: %w", err)
	}
	defer rows.Close()

	var requests []*ScheduleRequest
	var total int

	for rows.Next() {
		var sr ScheduleRequest
		if err := scanRequest(rows, &sr, &total); err != nil {
			return nil, 0, fmt.Errorf("scan schedule request failed: %w", err)
		}
		requests = append(requests, &sr)
	}

	return requests, total, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, sr *ScheduleRequest) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.schedule_requests").
		Set("status", sr.Status).
		Set("message", sr.Message).
		Set("responded_at", sr.RespondedAt).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": sr.ID}).
		Where(squirrel.Eq{"status": StatusPending}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update schedule request query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update schedule request failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotPending
	}
	return nil
}

func (r *pgxRepository) HasAccepted(ctx context.Context, serviceID, userID string) (bool, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sub, args, err := psql.Select("1").
		From("public.schedule_requests").
		Where(squirrel.Eq{"service_id": serviceID}).
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Eq{"status": StatusAccepted}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build has accepted query failed: %w", err)
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, "SELECT EXISTS ("+sub+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check accepted request failed: %w", err)
	}
	return exists, nil
}

func requestColumns() []string {
	return []string{
		"r.id", "r.service_id", "s.name", "s.owner_id",
		"r.user_id", "u.display_name",
		"r.status", "r.start_date", "r.end_date", "r.message",
		"r.responded_at", "r.created_at", "r.updated_at",
	}
}

func scanRequest(row pgx.Row, sr *ScheduleRequest, total *int) error {
	dest := []any{
		&sr.ID, &sr.ServiceID, &sr.ServiceName, &sr.OwnerID,
		&sr.UserID, &sr.UserName,
		&sr.Status, &sr.StartDate, &sr.EndDate, &sr.Message,
		&sr.RespondedAt, &sr.CreatedAt, &sr.UpdatedAt,
	}
	if total != nil {
		dest = append(dest, total)
	}
	return row.Scan(dest...)
}
