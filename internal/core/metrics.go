package database

import (
	"github.com/prometheus/client_golang/prometheus"
)

// RegisterPoolMetrics exposes pool counters as Prometheus gauges.
// Values are read from Status on every scrape.
func RegisterPoolMetrics(reg prometheus.Registerer, pool *Pool) error {
	gauges := []struct {
		name  string
		help  string
		value func(PoolStatus) float64
	}{
		{"db_pool_total_connections", "Number of open connections in the pool", func(s PoolStatus) float64 { return float64(s.TotalCount) }},
		{"db_pool_idle_connections", "Number of idle connections in the pool", func(s PoolStatus) float64 { return float64(s.IdleCount) }},
		{"db_pool_acquired_connections", "Number of connections currently in use", func(s PoolStatus) float64 { return float64(s.AcquiredCount) }},
		{"db_pool_max_connections", "Configured maximum pool size", func(s PoolStatus) float64 { return float64(s.MaxConns) }},
	}

	for _, g := range gauges {
		value := g.value
		collector := prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{Name: g.name, Help: g.help},
			func() float64 { return value(pool.Status()) },
		)
		if err := reg.Register(collector); err != nil {
			return err
		}
	}

	waits := prometheus.NewCounterFunc(
		prometheus.CounterOpts{
			Name: "db_pool_empty_acquire_total",
			Help: "Acquires that had to wait for a connection because none was idle",
		},
		func() float64 { return float64(pool.Status().EmptyAcquireCount) },
	)
	return reg.Register(waits)
}
