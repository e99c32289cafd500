package repository

import (
	"context"

	"ripple/internal/observability"
)

// dbMetrics bundles per-table query latency metrics with structured
// repository logging.
type dbMetrics struct {
	table   string
	metrics *observability.DatabaseMetrics
	log     *observability.RepoLogger
}

func newDBMetrics(table string) *dbMetrics {
	return &dbMetrics{
		table:   table,
		metrics: observability.NewDatabaseMetrics(),
		log:     observability.NewRepoLogger(table),
	}
}

func (m *dbMetrics) track(operation string) func() {
	return m.metrics.TrackQuery(operation, m.table)
}

// op logs a completed mutation.
func (m *dbMetrics) op(ctx context.Context, operation string, fields map[string]interface{}) {
	m.log.LogOp(ctx, operation, fields)
}

// fail logs a failed operation.
func (m *dbMetrics) fail(ctx context.Context, err error, operation string) {
	m.log.LogError(ctx, err, operation)
}
