// Package postgres implements chartstore.Store on PostgreSQL via pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ha1tch/bubblechart/pkg/chartfile"
	"github.com/ha1tch/bubblechart/pkg/chartstore"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS charts (
    id         UUID PRIMARY KEY,
    name       TEXT NOT NULL DEFAULT '',
    node_count INTEGER NOT NULL DEFAULT 0,
    arc_count  INTEGER NOT NULL DEFAULT 0,
    data       JSONB NOT NULL,
    layout     TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_charts_updated ON charts(updated_at DESC);
`

// PGStore implements chartstore.Store. The model is kept as JSONB and the
// geometry as the layout.toml text of a .chart archive.
type PGStore struct {
	db *pgxpool.Pool
}

var _ chartstore.Store = (*PGStore)(nil)

// New creates a PGStore backed by the given pgx connection pool.
func New(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

// Connect opens a pool for dsn and checks that the server answers.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("chartstore: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("chartstore: ping: %w", err)
	}
	return pool, nil
}

// CreateSchema creates the charts table if it doesn't exist.
func (s *PGStore) CreateSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, schemaSQL)
	return err
}

// DropSchema drops the charts table.
func (s *PGStore) DropSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DROP TABLE IF EXISTS charts;`)
	return err
}

// Put inserts or replaces a chart.
func (s *PGStore) Put(ctx context.Context, doc *chartfile.Document) error {
	data, err := chartfile.ToJSON(doc, false)
	if err != nil {
		return err
	}
	layout, err := chartfile.GenerateLayout(doc)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `
INSERT INTO charts (id, name, node_count, arc_count, data, layout)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    node_count = EXCLUDED.node_count,
    arc_count = EXCLUDED.arc_count,
    data = EXCLUDED.data,
    layout = EXCLUDED.layout,
    updated_at = NOW()`,
		doc.ID, doc.Name, len(doc.Nodes), len(doc.Arcs), data, string(layout),
	)
	if err != nil {
		return fmt.Errorf("chartstore: put %s: %w", doc.ID, err)
	}
	return nil
}

// Get fetches a chart by ID.
func (s *PGStore) Get(ctx context.Context, id uuid.UUID) (*chartfile.Document, error) {
	var data []byte
	var layout string
	err := s.db.QueryRow(ctx,
		`SELECT data, layout FROM charts WHERE id = $1`, id,
	).Scan(&data, &layout)
	if err != nil {
		if isNoRows(err) {
			return nil, chartstore.ErrChartNotFound
		}
		return nil, fmt.Errorf("chartstore: get %s: %w", id, err)
	}

	doc, err := chartfile.ParseJSON(data)
	if err != nil {
		return nil, err
	}
	if layout != "" {
		l, err := chartfile.ParseLayout([]byte(layout))
		if err != nil {
			return nil, err
		}
		l.Apply(doc)
	}
	return doc, nil
}

// Delete removes a chart.
func (s *PGStore) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := s.db.Exec(ctx, `DELETE FROM charts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("chartstore: delete %s: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return chartstore.ErrChartNotFound
	}
	return nil
}

// List returns all chart summaries, most recently updated first.
// Returns an empty slice (not nil) if none found.
func (s *PGStore) List(ctx context.Context) ([]chartstore.Summary, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, node_count, arc_count, updated_at FROM charts ORDER BY updated_at DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("chartstore: list: %w", err)
	}
	defer rows.Close()

	out := []chartstore.Summary{}
	for rows.Next() {
		var sum chartstore.Summary
		if err := rows.Scan(&sum.ID, &sum.Name, &sum.Nodes, &sum.Arcs, &sum.UpdatedAt); err != nil {
			return nil, fmt.Errorf("chartstore: scan summary: %w", err)
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("chartstore: rows: %w", err)
	}
	return out, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
