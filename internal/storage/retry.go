package storage

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes on which a whole import transaction can simply run again.
const (
	sqlstateSerializationFailure = "40001"
	sqlstateDeadlockDetected     = "40P01"
)

// importRetry bounds how often ImportFirm reruns its transaction.
type importRetry struct {
	attempts  int           // total tries, including the first
	baseDelay time.Duration // doubled after each retry, plus up to as much jitter
}

var defaultImportRetry = importRetry{attempts: 4, baseDelay: 25 * time.Millisecond}

// retryableImportError reports whether a failed import can be rerun from
// scratch: a serializable conflict with a concurrent import, a deadlock, or
// a connection error raised before anything reached the server.
func retryableImportError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == sqlstateSerializationFailure || pgErr.Code == sqlstateDeadlockDetected
	}
	return pgconn.SafeToRetry(err)
}

// run calls fn until it succeeds, fails for a reason a rerun cannot fix,
// runs out of attempts, or ctx is done. fn must open its own transaction.
func (p importRetry) run(ctx context.Context, logger *slog.Logger, firm string, fn func() error) error {
	delay := p.baseDelay
	var err error
	for attempt := 1; ; attempt++ {
		err = fn()
		if !retryableImportError(err) || attempt >= p.attempts {
			return err
		}
		logger.Warn("import firm: retrying transaction",
			"firm", firm, "attempt", attempt, "error", err)

		wait := delay
		if delay > 0 {
			wait += time.Duration(rand.Int64N(int64(delay))) //nolint:gosec // jitter doesn't need crypto-strength randomness
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		delay *= 2
	}
}
