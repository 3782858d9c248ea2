package ktransform

import (
	"context"
	"log/slog"
	"time"

	"github.com/birdayz/kchain/krecord"
)

// Handler is the processing step an Interceptor wraps.
type Handler func(ctx context.Context, rec krecord.Record, out Collector) error

// Interceptor wraps transformation execution with custom logic, in the style
// of gRPC interceptors: (ctx, req, handler) -> error.
type Interceptor func(ctx context.Context, rec krecord.Record, out Collector, next Handler) error

// Intercept wraps t so that every Process call runs through interceptors.
// Interceptors execute outer-to-inner: the first one wraps all others.
func Intercept(t Transformation, interceptors ...Interceptor) Transformation {
	handler := Handler(t.Process)
	for i := len(interceptors) - 1; i >= 0; i-- {
		interceptor := interceptors[i]
		next := handler
		handler = func(ctx context.Context, rec krecord.Record, out Collector) error {
			return interceptor(ctx, rec, out, next)
		}
	}
	return &intercepted{Transformation: t, handler: handler}
}

type intercepted struct {
	Transformation
	handler Handler
}

func (i *intercepted) Process(ctx context.Context, rec krecord.Record, out Collector) error {
	return i.handler(ctx, rec, out)
}

// Cancel keeps the forced teardown of the wrapped transformation reachable.
func (i *intercepted) Cancel() error {
	if c, ok := i.Transformation.(Canceler); ok {
		return c.Cancel()
	}
	return i.Transformation.Close()
}

// LoggingInterceptor logs every record at debug level and failures at error
// level.
func LoggingInterceptor(logger *slog.Logger) Interceptor {
	return func(ctx context.Context, rec krecord.Record, out Collector, next Handler) error {
		logger.DebugContext(ctx, "Processing record", "bytes", krecord.Length(rec))

		err := next(ctx, rec, out)
		if err != nil {
			logger.ErrorContext(ctx, "Processing failed", "error", err)
		}
		return err
	}
}

// TimingInterceptor reports the wall time spent in every Process call,
// including the time spent in downstream stages.
func TimingInterceptor(observe func(time.Duration)) Interceptor {
	return func(ctx context.Context, rec krecord.Record, out Collector, next Handler) error {
		start := time.Now()
		err := next(ctx, rec, out)
		observe(time.Since(start))
		return err
	}
}
