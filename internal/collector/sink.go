package collector

import (
	"context"

	"go.uber.org/zap"
)

// DiagnosticSink receives raw response bodies from the debug endpoint.
type DiagnosticSink interface {
	Show(ctx context.Context, body string)
}

// LogSink writes diagnostics to a zap logger.
type LogSink struct {
	Log *zap.Logger
}

// Show logs body at info level.
func (s LogSink) Show(_ context.Context, body string) {
	if s.Log == nil {
		return
	}
	s.Log.Info("collect debug response", zap.String("body", body))
}

// SinkFunc adapts a function to DiagnosticSink.
type SinkFunc func(ctx context.Context, body string)

// Show calls f.
func (f SinkFunc) Show(ctx context.Context, body string) { f(ctx, body) }
