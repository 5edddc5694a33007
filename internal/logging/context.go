package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldJobID is the standardized structured logging key for job identifiers.
	FieldJobID = "job_id"
	// FieldJobName is the standardized structured logging key for job kind names.
	FieldJobName = "job_name"
	// FieldLocationID is the standardized structured logging key for location identifiers.
	FieldLocationID = "location_id"
	// FieldStep is the standardized structured logging key for 1-based step numbers.
	FieldStep = "step"
)

type contextKey int

const (
	jobIDKey contextKey = iota
	jobNameKey
	locationIDKey
)

// WithJob stores job identity on the context for downstream log enrichment.
func WithJob(ctx context.Context, jobID, jobName string) context.Context {
	ctx = context.WithValue(ctx, jobIDKey, jobID)
	return context.WithValue(ctx, jobNameKey, jobName)
}

// WithLocation stores the location id on the context.
func WithLocation(ctx context.Context, locationID int64) context.Context {
	return context.WithValue(ctx, locationIDKey, locationID)
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := ctx.Value(jobIDKey).(string); ok && id != "" {
		fields = append(fields, slog.String(FieldJobID, id))
	}
	if name, ok := ctx.Value(jobNameKey).(string); ok && name != "" {
		fields = append(fields, slog.String(FieldJobName, name))
	}
	if locationID, ok := ctx.Value(locationIDKey).(int64); ok {
		fields = append(fields, slog.Int64(FieldLocationID, locationID))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
