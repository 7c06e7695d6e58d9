package leads

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var storeTracer = otel.Tracer("lodge.internal.leads.store")

// pgxQuerier is satisfied by *pgxpool.Pool and pgxmock pools.
type pgxQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore stores leads in the relational database.
type PostgresStore struct {
	db pgxQuerier
}

// NewPostgresStore initializes a store backed by pgxpool.
func NewPostgresStore(db pgxQuerier) *PostgresStore {
	if db == nil {
		panic("leads: pgx pool required")
	}
	return &PostgresStore{db: db}
}

const insertLeadSQL = `
	INSERT INTO leads (
		source, page_path, name, email, phone, lead_type, message,
		areas, towns, price_min, price_max, beds, baths,
		property_type, timeline, financing, booked
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	RETURNING id, created_at
`

// Insert writes one row; the database assigns id and created_at.
func (s *PostgresStore) Insert(ctx context.Context, lead *Lead) error {
	ctx, span := storeTracer.Start(ctx, "leads.store.insert", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("db.system", "postgresql"))

	if err := s.db.QueryRow(ctx, insertLeadSQL, insertArgs(lead)...).Scan(&lead.ID, &lead.CreatedAt); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return fmt.Errorf("leads: insert failed: %w", err)
	}
	return nil
}

func insertArgs(lead *Lead) []any {
	return []any{
		lead.Source,
		lead.PagePath,
		lead.Name,
		lead.Email,
		lead.Phone,
		lead.LeadType,
		lead.Message,
		lead.Areas,
		lead.Towns,
		lead.PriceMin,
		lead.PriceMax,
		lead.Beds,
		lead.Baths,
		lead.PropertyType,
		lead.Timeline,
		lead.Financing,
		lead.Booked,
	}
}
