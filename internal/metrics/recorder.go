package metrics

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"shortlink/internal/config"
)

const drainTimeout = 5 * time.Second

// Recorder buffers metrics in memory and flushes them to a Sink in batches.
// Recording never blocks; metrics are dropped when a buffer is full.
type Recorder struct {
	sink         Sink
	logger       *slog.Logger
	cfg          *config.MetricsConfig
	httpCh       chan HTTPMetric
	businessCh   chan BusinessMetric
	infraCh      chan InfraMetric
	wg           sync.WaitGroup
	shutdownOnce sync.Once
	shutdownCh   chan struct{}
}

func NewRecorder(sink Sink, cfg *config.MetricsConfig, logger *slog.Logger) *Recorder {
	return &Recorder{
		sink:       sink,
		logger:     logger,
		cfg:        cfg,
		httpCh:     make(chan HTTPMetric, cfg.BufferSize),
		businessCh: make(chan BusinessMetric, cfg.BufferSize),
		infraCh:    make(chan InfraMetric, cfg.BufferSize),
		shutdownCh: make(chan struct{}),
	}
}

func (r *Recorder) RecordHTTP(m HTTPMetric) {
	if !r.cfg.Enabled {
		return
	}
	enqueue(r, r.httpCh, m, "http")
}

func (r *Recorder) RecordBusiness(name string, value float64, labels map[string]string) {
	if !r.cfg.Enabled {
		return
	}
	enqueue(r, r.businessCh, BusinessMetric{
		Time:       time.Now().UTC(),
		MetricName: name,
		Value:      value,
		Labels:     labels,
	}, "business")
}

func (r *Recorder) RecordInfra(m InfraMetric) {
	if !r.cfg.Enabled {
		return
	}
	enqueue(r, r.infraCh, m, "infra")
}

func (r *Recorder) Start(ctx context.Context) {
	if !r.cfg.Enabled {
		r.logger.Info("metrics recording disabled")
		return
	}

	interval := time.Duration(r.cfg.FlushInterval) * time.Millisecond

	r.wg.Add(3)
	go flushLoop(ctx, r, r.httpCh, r.sink.WriteHTTP, interval, "http")
	go flushLoop(ctx, r, r.businessCh, r.sink.WriteBusiness, interval, "business")
	go flushLoop(ctx, r, r.infraCh, r.sink.WriteInfra, interval, "infra")

	r.logger.Info("metrics recorder started",
		slog.Int("buffer_size", r.cfg.BufferSize),
		slog.Int("flush_interval_ms", r.cfg.FlushInterval))
}

// Close flushes everything still buffered and waits for the flushers.
func (r *Recorder) Close() {
	r.shutdownOnce.Do(func() {
		close(r.shutdownCh)
		r.wg.Wait()
	})
}

// CollectInfra samples runtime and pool usage every interval until ctx is
// done. stats may be nil.
func (r *Recorder) CollectInfra(ctx context.Context, interval time.Duration, stats PoolStatter) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.RecordInfra(sampleInfra(stats))
		}
	}
}

func sampleInfra(stats PoolStatter) InfraMetric {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	m := InfraMetric{
		Time:        time.Now().UTC(),
		Goroutines:  runtime.NumGoroutine(),
		HeapAllocMB: float64(memStats.HeapAlloc) / 1024 / 1024,
	}
	if stats != nil {
		pool := stats.PoolStat()
		m.PoolAcquired = pool.Acquired
		m.PoolIdle = pool.Idle
		m.PoolTotal = pool.Total
		m.PoolMax = pool.Max
	}
	return m
}

func enqueue[T any](r *Recorder, ch chan T, m T, kind string) {
	select {
	case ch <- m:
	default:
		r.logger.Warn("metrics buffer full, dropping metric", slog.String("kind", kind))
	}
}

func flushLoop[T any](
	ctx context.Context,
	r *Recorder,
	ch chan T,
	write func(context.Context, []T) error,
	interval time.Duration,
	kind string,
) {
	defer r.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	batch := make([]T, 0, r.cfg.FlushThreshold)
	flush := func(ctx context.Context) {
		if len(batch) == 0 {
			return
		}
		if err := write(ctx, batch); err != nil {
			r.logger.Error("failed to write metrics batch",
				slog.String("kind", kind),
				slog.Int("size", len(batch)),
				slog.String("error", err.Error()))
		}
		batch = batch[:0]
	}

	for {
		select {
		case <-ctx.Done():
			drain(ch, &batch)
			drainCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
			flush(drainCtx)
			cancel()
			return
		case <-r.shutdownCh:
			drain(ch, &batch)
			drainCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
			flush(drainCtx)
			cancel()
			return
		case m := <-ch:
			batch = append(batch, m)
			if len(batch) >= r.cfg.FlushThreshold {
				flush(ctx)
			}
		case <-ticker.C:
			flush(ctx)
		}
	}
}

func drain[T any](ch chan T, batch *[]T) {
	for {
		select {
		case m := <-ch:
			*batch = append(*batch, m)
		default:
			return
		}
	}
}
