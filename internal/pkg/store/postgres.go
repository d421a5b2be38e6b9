// Package store persists run output to Postgres. It is a thin consumer of
// the aggregate read interface; the pipeline itself never depends on it.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"go.uber.org/zap"

	"github.com/piyushpill-ai/banking-tracker/internal/pkg/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS products (
    source_id       text        NOT NULL,
    product_id      text        NOT NULL,
    run_id          uuid        NOT NULL,
    name            text        NOT NULL DEFAULT '',
    category        text        NOT NULL DEFAULT '',
    description     text        NOT NULL DEFAULT '',
    purpose         text        NOT NULL DEFAULT 'unspecified',
    repayment       text        NOT NULL DEFAULT 'unspecified',
    rates           jsonb       NOT NULL DEFAULT '[]',
    fees            jsonb       NOT NULL DEFAULT '[]',
    features        jsonb       NOT NULL DEFAULT '{}',
    repayments      jsonb,
    min_principal   numeric,
    max_principal   numeric,
    application_url text        NOT NULL DEFAULT '',
    last_updated    date,
    retrieved_at    timestamptz NOT NULL,
    partial_data    boolean     NOT NULL DEFAULT false,
    PRIMARY KEY (source_id, product_id)
);

CREATE TABLE IF NOT EXISTS fetch_outcomes (
    run_id             uuid        NOT NULL,
    source_id          text        NOT NULL,
    success            boolean     NOT NULL,
    class              text        NOT NULL,
    negotiated_version text        NOT NULL DEFAULT '',
    products_attempted int         NOT NULL,
    products_succeeded int         NOT NULL,
    partial_products   int         NOT NULL,
    duration_ms        bigint      NOT NULL,
    attempts           jsonb       NOT NULL DEFAULT '[]',
    recorded_at        timestamptz NOT NULL DEFAULT now(),
    PRIMARY KEY (run_id, source_id)
);
`

type Postgres struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) *Postgres {
	return &Postgres{pool: pool, logger: logger}
}

func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.Connect(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return pool, nil
}

// EnsureSchema creates the tables when they do not exist yet.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// SaveRun writes the whole run in one transaction: product rows are
// upserted on (source_id, product_id), outcome rows are keyed by run.
func (s *Postgres) SaveRun(ctx context.Context, runID uuid.UUID, records []model.ProductRecord, outcomes []model.FetchOutcome) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, rec := range records {
		if err := upsertProduct(ctx, tx, runID, rec); err != nil {
			return fmt.Errorf("failed to upsert product %s: %w", rec.Key(), err)
		}
	}
	for _, o := range outcomes {
		if err := insertOutcome(ctx, tx, runID, o); err != nil {
			return fmt.Errorf("failed to insert outcome for %s: %w", o.SourceID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	s.logger.Info("run saved",
		zap.String("run", runID.String()),
		zap.Int("products", len(records)),
		zap.Int("outcomes", len(outcomes)))
	return nil
}

func upsertProduct(ctx context.Context, tx pgx.Tx, runID uuid.UUID, rec model.ProductRecord) error {
	rates, _ := json.Marshal(rec.Rates)
	fees, _ := json.Marshal(rec.Fees)
	features, _ := json.Marshal(rec.Features)
	var repayments []byte
	if rec.Repayments != nil {
		repayments, _ = json.Marshal(rec.Repayments)
	}

	var lastUpdated interface{}
	if rec.LastUpdated.IsValid() {
		lastUpdated = rec.LastUpdated.String()
	}

	_, err := tx.Exec(ctx, `
		INSERT INTO products (
			source_id, product_id, run_id, name, category, description,
			purpose, repayment, rates, fees, features, repayments,
			min_principal, max_principal, application_url, last_updated,
			retrieved_at, partial_data
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
		ON CONFLICT (source_id, product_id) DO UPDATE SET
			run_id = EXCLUDED.run_id,
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			description = EXCLUDED.description,
			purpose = EXCLUDED.purpose,
			repayment = EXCLUDED.repayment,
			rates = EXCLUDED.rates,
			fees = EXCLUDED.fees,
			features = EXCLUDED.features,
			repayments = EXCLUDED.repayments,
			min_principal = EXCLUDED.min_principal,
			max_principal = EXCLUDED.max_principal,
			application_url = EXCLUDED.application_url,
			last_updated = EXCLUDED.last_updated,
			retrieved_at = EXCLUDED.retrieved_at,
			partial_data = EXCLUDED.partial_data`,
		rec.SourceID, rec.ProductID, runID, rec.Name, rec.Category, rec.Description,
		string(rec.Purpose), string(rec.Repayment), rates, fees, features, repayments,
		rec.MinPrincipal, rec.MaxPrincipal, rec.ApplicationURL, lastUpdated,
		rec.RetrievedAt, rec.PartialData)
	return err
}

func insertOutcome(ctx context.Context, tx pgx.Tx, runID uuid.UUID, o model.FetchOutcome) error {
	attempts, _ := json.Marshal(o.Attempts)
	_, err := tx.Exec(ctx, `
		INSERT INTO fetch_outcomes (
			run_id, source_id, success, class, negotiated_version,
			products_attempted, products_succeeded, partial_products,
			duration_ms, attempts
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		runID, o.SourceID, o.Success, string(o.Class), o.NegotiatedVersion,
		o.ProductsAttempted, o.ProductsSucceeded, o.PartialProducts,
		o.Duration.Milliseconds(), attempts)
	return err
}
