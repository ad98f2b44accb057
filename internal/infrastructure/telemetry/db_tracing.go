package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig controls SQL spans
type DBTracingConfig struct {
	Enabled bool
	// DBName is reported as db.name on every span
	DBName string
	// WithVariables puts bound parameters into db.statement. Development only.
	WithVariables bool
	SlowQuery     time.Duration
}

type startKey struct{}

// RegisterDBTracing installs otelgorm and a pair of callbacks that tag slow and failed statements
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		return nil
	}
	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBName)}
	if !cfg.WithVariables {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	cb := db.Callback()
	end := tagSpan(cfg.SlowQuery)
	// the end hook must run before otelgorm closes its span
	hooks := []struct {
		callback registrar
		name     string
		fn       func(*gorm.DB)
	}{
		{cb.Create().Before("gorm:create"), "start_create", markStart},
		{cb.Create().After("gorm:create").Before("otel:after:create"), "end_create", end},
		{cb.Query().Before("gorm:query"), "start_query", markStart},
		{cb.Query().After("gorm:query").Before("otel:after:query"), "end_query", end},
		{cb.Update().Before("gorm:update"), "start_update", markStart},
		{cb.Update().After("gorm:update").Before("otel:after:update"), "end_update", end},
		{cb.Delete().Before("gorm:delete"), "start_delete", markStart},
		{cb.Delete().After("gorm:delete").Before("otel:after:delete"), "end_delete", end},
		{cb.Row().Before("gorm:row"), "start_row", markStart},
		{cb.Row().After("gorm:row").Before("otel:after:row"), "end_row", end},
		{cb.Raw().Before("gorm:raw"), "start_raw", markStart},
		{cb.Raw().After("gorm:raw").Before("otel:after:raw"), "end_raw", end},
	}
	for _, h := range hooks {
		if err := h.callback.Register("storefront:trace_"+h.name, h.fn); err != nil {
			return err
		}
	}
	logger.Info("Database tracing enabled",
		zap.String("db_name", cfg.DBName),
		zap.Duration("slow_query", cfg.SlowQuery))
	return nil
}

type registrar interface {
	Register(name string, fn func(*gorm.DB)) error
}

func markStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, startKey{}, time.Now())
	}
}

func tagSpan(slow time.Duration) func(*gorm.DB) {
	return func(db *gorm.DB) {
		ctx := db.Statement.Context
		if ctx == nil {
			return
		}
		span := trace.SpanFromContext(ctx)
		if !span.IsRecording() {
			return
		}
		if db.Statement.Table != "" {
			span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
		}
		if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
			span.RecordError(db.Error)
			span.SetStatus(codes.Error, db.Error.Error())
		}
		start, ok := ctx.Value(startKey{}).(time.Time)
		if !ok || slow <= 0 {
			return
		}
		if elapsed := time.Since(start); elapsed > slow {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
		}
	}
}
