package audit

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRecorder appends audit rows outside the redemption transaction.
// Auditing never blocks or rolls back a redemption: a failed insert is
// logged and dropped.
type PostgresRecorder struct {
	pool *pgxpool.Pool
}

func NewPostgresRecorder(pool *pgxpool.Pool) *PostgresRecorder {
	return &PostgresRecorder{pool: pool}
}

func (r *PostgresRecorder) Record(ctx context.Context, actor, action, subject, outcome string) {
	const query = `
		INSERT INTO audit_logs (actor, action, subject, outcome)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := r.pool.Exec(ctx, query, actor, action, subject, outcome); err != nil {
		slog.WarnContext(ctx, "failed to record audit entry",
			"actor", actor,
			"action", action,
			"subject", subject,
			"outcome", outcome,
			"error", err,
		)
	}
}
