package warehouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"kpidash/pkg/constants"
)

const schema = `
CREATE TABLE IF NOT EXISTS metric_values (
	metric_key  TEXT NOT NULL,
	value       REAL NOT NULL,
	recorded_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_metric_values_key ON metric_values (metric_key, recorded_at);
`

// SQLSource reads the latest recorded value per metric key from a SQLite
// warehouse extract. Every query is bounded by the configured timeout.
type SQLSource struct {
	db      *sql.DB
	timeout time.Duration
	logger  *zap.Logger
}

// Open opens the warehouse database at path. A zero timeout selects the
// default query timeout.
func Open(path string, timeout time.Duration, logger *zap.Logger) (*SQLSource, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout == 0 {
		timeout = constants.DefaultWarehouseQueryTimeout
	}

	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?cache=shared", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open warehouse database: %w", err)
	}
	return &SQLSource{db: db, timeout: timeout, logger: logger}, nil
}

// EnsureSchema creates the metric_values table when missing.
func (s *SQLSource) EnsureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure warehouse schema: %w", err)
	}
	return nil
}

// Record inserts a metric observation, timestamped now.
func (s *SQLSource) Record(ctx context.Context, key string, value float64) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO metric_values (metric_key, value, recorded_at) VALUES (?, ?, ?)`,
		key, value, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to record metric %s: %w", key, err)
	}
	return nil
}

// Fetch returns the latest value per requested key. Keys without any
// recorded value are omitted from the batch.
func (s *SQLSource) Fetch(ctx context.Context, keys []string) (Batch, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	values := make(map[string]float64, len(keys))
	for _, key := range keys {
		var v float64
		err := s.db.QueryRowContext(ctx,
			`SELECT value FROM metric_values WHERE metric_key = ? ORDER BY recorded_at DESC, rowid DESC LIMIT 1`,
			key,
		).Scan(&v)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return Batch{}, fmt.Errorf("failed to fetch metric %s: %w", key, err)
		}
		values[key] = v
	}

	s.logger.Debug("fetched warehouse metrics",
		zap.String("op", "warehouse.Fetch"),
		zap.Int("requested", len(keys)),
		zap.Int("found", len(values)),
	)
	return Batch{Values: values}, nil
}

// Close releases the database handle.
func (s *SQLSource) Close() error {
	return s.db.Close()
}
