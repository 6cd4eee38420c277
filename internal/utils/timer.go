package utils

import (
	"time"

	"github.com/rs/zerolog"
)

// OperationTimer returns a func that logs the time elapsed since the call.
// Operations slower than slow are logged as warnings.
//
// Usage:
//
//	defer utils.OperationTimer("render_png", time.Second, log)()
func OperationTimer(operation string, slow time.Duration, log zerolog.Logger) func() {
	start := time.Now()

	return func() {
		duration := time.Since(start)
		if slow > 0 && duration > slow {
			log.Warn().
				Str("operation", operation).
				Dur("duration", duration).
				Msg("Slow operation detected")
			return
		}
		log.Debug().
			Str("operation", operation).
			Dur("duration_ms", duration).
			Msg("Operation completed")
	}
}
