package metrics

import "time"

type HTTPMetric struct {
	Time       time.Time
	Method     string
	Path       string
	StatusCode int
	DurationMs float64
	ClientIP   string
	RequestID  string
	Error      string
}

type BusinessMetric struct {
	Time       time.Time
	MetricName string
	Value      float64
	Labels     map[string]string
}

type InfraMetric struct {
	Time         time.Time
	PoolAcquired int
	PoolIdle     int
	PoolTotal    int
	PoolMax      int
	Goroutines   int
	HeapAllocMB  float64
}

// PoolStat is a snapshot of a store connection pool.
type PoolStat struct {
	Acquired int
	Idle     int
	Total    int
	Max      int
}

// PoolStatter is implemented by stores that keep a connection pool.
type PoolStatter interface {
	PoolStat() PoolStat
}
