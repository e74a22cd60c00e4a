package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Sink persists metric batches. Implementations must not keep the slices
// after returning.
type Sink interface {
	WriteHTTP(ctx context.Context, batch []HTTPMetric) error
	WriteBusiness(ctx context.Context, batch []BusinessMetric) error
	WriteInfra(ctx context.Context, batch []InfraMetric) error
}

// PostgresSink bulk-loads batches with COPY into the metrics tables created
// by the postgres store.
type PostgresSink struct {
	pool *pgxpool.Pool
}

func NewPostgresSink(pool *pgxpool.Pool) *PostgresSink {
	return &PostgresSink{pool: pool}
}

func (s *PostgresSink) WriteHTTP(ctx context.Context, batch []HTTPMetric) error {
	rows := make([][]any, len(batch))
	for i, m := range batch {
		rows[i] = []any{m.Time, m.Method, m.Path, m.StatusCode, m.DurationMs, m.ClientIP, m.RequestID, m.Error}
	}
	return s.copy(ctx, "http_metrics",
		[]string{"time", "method", "path", "status_code", "duration_ms", "client_ip", "request_id", "error"},
		rows)
}

func (s *PostgresSink) WriteBusiness(ctx context.Context, batch []BusinessMetric) error {
	rows := make([][]any, len(batch))
	for i, m := range batch {
		labels, err := json.Marshal(m.Labels)
		if err != nil {
			return fmt.Errorf("failed to encode labels of %s: %w", m.MetricName, err)
		}
		rows[i] = []any{m.Time, m.MetricName, m.Value, labels}
	}
	return s.copy(ctx, "business_metrics",
		[]string{"time", "metric_name", "value", "labels"},
		rows)
}

func (s *PostgresSink) WriteInfra(ctx context.Context, batch []InfraMetric) error {
	rows := make([][]any, len(batch))
	for i, m := range batch {
		rows[i] = []any{
			m.Time, m.PoolAcquired, m.PoolIdle, m.PoolTotal, m.PoolMax, m.Goroutines, m.HeapAllocMB,
		}
	}
	return s.copy(ctx, "infra_metrics",
		[]string{"time", "pool_acquired", "pool_idle", "pool_total", "pool_max", "goroutines", "heap_alloc_mb"},
		rows)
}

func (s *PostgresSink) copy(ctx context.Context, table string, columns []string, rows [][]any) error {
	_, err := s.pool.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("failed to copy into %s: %w", table, err)
	}
	return nil
}

// LogSink summarises each batch as a single log line. It serves backends
// without metrics tables.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) WriteHTTP(ctx context.Context, batch []HTTPMetric) error {
	var serverErrors int
	var total float64
	for _, m := range batch {
		total += m.DurationMs
		if m.StatusCode >= 500 {
			serverErrors++
		}
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "http metrics",
		slog.Int("requests", len(batch)),
		slog.Int("server_errors", serverErrors),
		slog.Float64("avg_duration_ms", total/float64(max(1, len(batch)))))
	return nil
}

func (s *LogSink) WriteBusiness(ctx context.Context, batch []BusinessMetric) error {
	totals := make(map[string]float64)
	for _, m := range batch {
		totals[m.MetricName] += m.Value
	}

	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Strings(names)

	attrs := make([]slog.Attr, 0, len(names))
	for _, name := range names {
		attrs = append(attrs, slog.Float64(name, totals[name]))
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "business metrics", attrs...)
	return nil
}

func (s *LogSink) WriteInfra(ctx context.Context, batch []InfraMetric) error {
	if len(batch) == 0 {
		return nil
	}
	last := batch[len(batch)-1]
	s.logger.LogAttrs(ctx, slog.LevelInfo, "infra metrics",
		slog.Int("goroutines", last.Goroutines),
		slog.Float64("heap_alloc_mb", last.HeapAllocMB),
		slog.Int("pool_acquired", last.PoolAcquired),
		slog.Int("pool_idle", last.PoolIdle),
		slog.Int("pool_total", last.PoolTotal),
		slog.Int("pool_max", last.PoolMax))
	return nil
}
