package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/chakulahub/chakula-api/internal/api"
)

// Category is one entry of the storefront's browse grid.
type Category struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	NameSW          string `json:"name_sw"`
	Description     string `json:"description"`
	ImageURL        string `json:"image_url"`
	RestaurantCount int    `json:"restaurant_count"`
}

var _ CategoryRepo = (*PostgresCategoryRepo)(nil)

type CategoryRepo interface {
	// ListCategories returns every category in display order.
	ListCategories(ctx context.Context) ([]Category, error)
}

type PostgresCategoryRepo struct {
	logger *slog.Logger
	pgpool api.DBPool
}

func NewPostgresCategoryRepo(pgpool api.DBPool, logger *slog.Logger) *PostgresCategoryRepo {
	return &PostgresCategoryRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *PostgresCategoryRepo) ListCategories(ctx context.Context) ([]Category, error) {
	ctx, span := otel.Tracer("CategoryRepo").Start(ctx, "ListCategories", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "categories"),
	))
	defer span.End()

	query := `
        SELECT id, name, name_sw, description, image_url, restaurant_count
        FROM categories
        ORDER BY id`

	rows, err := r.pgpool.Query(ctx, query)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query categories", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error listing categories: %w", err)
	}

	categories, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Category, error) {
		var c Category
		err := row.Scan(&c.ID, &c.Name, &c.NameSW, &c.Description, &c.ImageURL, &c.RestaurantCount)
		return c, err
	})
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to scan categories", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Row scan failed")
		return nil, fmt.Errorf("database error scanning categories: %w", err)
	}

	span.SetAttributes(attribute.Int("db.rows", len(categories)))
	span.SetStatus(codes.Ok, "Categories listed")
	return categories, nil
}
