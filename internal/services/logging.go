package services

import (
	"context"
	"log/slog"
	"time"
)

// ServiceLogger provides structured logging for session operations
type ServiceLogger struct {
	logger *slog.Logger
}

func NewServiceLogger(logger *slog.Logger, component string) *ServiceLogger {
	return &ServiceLogger{
		logger: logger.With("service", "quizbot", "component", component),
	}
}

// LogOperation records one completed session operation with its outcome.
// Expected failures (invalid request, phase conflict, missing session) log
// at warn; anything else that errored logs at error.
func (l *ServiceLogger) LogOperation(ctx context.Context, operation, sessionID string, duration time.Duration, err error) {
	level := slog.LevelInfo
	status := "success"

	if err != nil {
		switch {
		case IsInvalidRequest(err):
			level = slog.LevelWarn
			status = "invalid_request"
		case IsConflict(err):
			level = slog.LevelWarn
			status = "phase_conflict"
		case IsNotFound(err):
			level = slog.LevelWarn
			status = "not_found"
		default:
			level = slog.LevelError
			status = "error"
		}
	}

	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.String("session_id", sessionID),
		slog.String("status", status),
		slog.Duration("duration", duration),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}

	l.logger.LogAttrs(ctx, level, "Session operation "+status, attrs...)
}

// ContextualLogger times one operation from start to LogResult
type ContextualLogger struct {
	logger    *ServiceLogger
	operation string
	sessionID string
	startTime time.Time
	ctx       context.Context
}

func (l *ServiceLogger) WithOperation(ctx context.Context, operation, sessionID string) *ContextualLogger {
	return &ContextualLogger{
		logger:    l,
		operation: operation,
		sessionID: sessionID,
		startTime: time.Now(),
		ctx:       ctx,
	}
}

func (cl *ContextualLogger) LogResult(err error) {
	cl.logger.LogOperation(cl.ctx, cl.operation, cl.sessionID, time.Since(cl.startTime), err)
}
