package observability

import (
	"time"

	"go.uber.org/zap"
)

// Track starts timing operation. The returned func logs the elapsed time and
// records it; pass it the operation's error, usually through a deferred call:
//
//	defer observability.Track(logger, metrics, "logout")(&err)
func Track(logger *zap.Logger, metrics *Metrics, operation string) func(*error) {
	start := time.Now()
	return func(errp *error) {
		elapsed := time.Since(start)
		outcome := "ok"
		if errp != nil && *errp != nil {
			outcome = "error"
		}
		metrics.ObserveOperation(operation, outcome, elapsed)
		if logger != nil {
			logger.Debug("operation finished",
				zap.String("operation", operation),
				zap.String("outcome", outcome),
				zap.Duration("elapsed", elapsed))
		}
	}
}
