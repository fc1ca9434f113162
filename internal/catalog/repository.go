package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, svc *Service) error
	GetByID(ctx context.Context, id string) (*Service, error)
	List(ctx context.Context, filter Filter) ([]*Service, int, error)
	Update(ctx context.Context, svc *Service) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, svc *Service) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.services").
		Columns("owner_id", "name", "description", "hourly_price").
		Values(svc.OwnerID, svc.Name, svc.Description, svc.HourlyPrice).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create service query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).
		Scan(&svc.ID, &svc.CreatedAt, &svc.UpdatedAt)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Service, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"s.id", "s.owner_id", "u.display_name", "s.name", "s.description",
		"s.hourly_price", "s.created_at", "s.updated_at",
	).
		From("public.services s").
		Join("public.users u ON s.owner_id = u.id").
		Where(squirrel.Eq{"s.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get service query failed: %w", err)
	}

	var svc Service
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&svc.ID, &svc.OwnerID, &svc.OwnerName, &svc.Name, &svc.Description,
		&svc.HourlyPrice, &svc.CreatedAt, &svc.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get service failed: %w", err)
	}
	return &svc, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Service, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"s.id", "s.owner_id", "u.display_name", "s.name", "s.description",
		"s.hourly_price", "s.created_at", "s.updated_at",
		"count(*) OVER() as total_count",
	).
		From("public.services s").
		Join("public.users u ON s.owner_id = u.id")

	if filter.OwnerID != "" {
		query = query.Where(squirrel.Eq{"s.owner_id": filter.OwnerID})
	}
	if filter.Name != "" {
		query = query.Where(squirrel.ILike{"s.name": "%" + filter.Name + "%"})
	}

	query = query.OrderBy("s.created_at DESC")

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
		return nil, 0, fmt.Errorf("build list services query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list services failed: %w", err)
	}
	defer rows.Close()

	var services []*Service
	var total int

	for rows.Next() {
		var svc Service
		if err := rows.Scan(
			&svc.ID, &svc.OwnerID, &svc.OwnerName, &svc.Name, &svc.Description,
			&svc.HourlyPrice, &svc.CreatedAt, &svc.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan service failed: %w", err)
		}
		services = append(services, &svc)
	}

	return services, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, svc *Service) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.services").
		Set("name", svc.Name).
		Set("description", svc.Description).
		Set("hourly_price", svc.HourlyPrice).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": svc.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update service query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update service failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.services").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete service query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete service failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
