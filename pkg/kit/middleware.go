package kit

import (
	"context"
	"log/slog"
	"time"
)

// Logging returns a Middleware that records every call to the wrapped
// endpoint with its duration and outcome. The name identifies the endpoint
// in log output since Endpoint values are anonymous.
func Logging(logger *slog.Logger, name string) Middleware {
	return func(next Endpoint) Endpoint {
		return func(ctx context.Context, request any) (any, error) {
			start := time.Now()
			resp, err := next(ctx, request)
			if err != nil {
				logger.Warn("endpoint failed",
					"endpoint", name, "duration", time.Since(start), "error", err)
				return resp, err
			}
			logger.Debug("endpoint served",
				"endpoint", name, "duration", time.Since(start))
			return resp, nil
		}
	}
}
