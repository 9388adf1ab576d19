package observability

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/emilythestrangee/stackit/backend/internal/models"
)

const pgUniqueViolation = "23505"

// pgErrorClasses names the SQLSTATEs worth their own label. Anything else
// is reported as pg_<code>.
var pgErrorClasses = map[string]string{
	pgUniqueViolation: "unique_violation",
	"23503":           "foreign_key_violation",
	"22P02":           "invalid_text",
	"40001":           "serialization_failure",
	"40P01":           "deadlock",
	"57014":           "query_canceled",
}

// ObserveDB runs fn as store operation op, recording its latency and, on
// failure, its error class. Safe on a nil *Prom.
func (p *Prom) ObserveDB(op string, fn func() error) error {
	if p == nil {
		return fn()
	}

	start := time.Now()
	err := fn()
	elapsed := time.Since(start).Seconds()

	if err != nil {
		p.DbErrorsTotal.WithLabelValues(op, classifyDBErr(err)).Inc()
		p.DbQueryDuration.WithLabelValues(op, "error").Observe(elapsed)
		return err
	}
	p.DbQueryDuration.WithLabelValues(op, "ok").Observe(elapsed)
	return nil
}

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// classifyDBErr buckets err for the errors_total label. Domain outcomes the
// store reports (missing rows, repeat votes) are kept apart from real faults.
func classifyDBErr(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if class, ok := pgErrorClasses[pgErr.Code]; ok {
			return class
		}
		return "pg_" + pgErr.Code
	}

	var netErr net.Error
	switch {
	case errors.Is(err, models.ErrNotFound):
		return "not_found"
	case errors.Is(err, models.ErrAlreadyVoted), errors.Is(err, models.ErrEmailTaken):
		return "conflict"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.As(err, &netErr):
		if netErr.Timeout() {
			return "timeout"
		}
		return "connection"
	default:
		return "unknown"
	}
}
