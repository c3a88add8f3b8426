package services

import (
	"context"
	"time"

	"github.com/bive/backend/internal/models"
	"github.com/bive/backend/internal/store"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/bive/backend/internal/services"

// Coordinator runs ledger operations as atomic units on the configured store. It never
// retries: a failed unit is reported to the caller as is.
type Coordinator struct {
	store   store.Store
	logger  *zap.Logger
	tracer  trace.Tracer
	timeout time.Duration
}

func NewCoordinator(s store.Store, logger *zap.Logger) *Coordinator {
	return &Coordinator{
		store:  s,
		logger: logger,
		tracer: otel.Tracer(tracerName),
	}
}

// WithTimeout bounds every unit by d. Zero leaves units bounded only by the caller.
func (c *Coordinator) WithTimeout(d time.Duration) *Coordinator {
	c.timeout = d
	return c
}

// Reader exposes the store's non-transactional reads.
func (c *Coordinator) Reader() store.Reader {
	return c.store
}

func (c *Coordinator) RunAtomic(ctx context.Context, operation string, work store.Work) error {
	ctx, span := c.tracer.Start(ctx, "ledger."+operation, trace.WithAttributes(
		attribute.String("ledger.operation", operation),
	))
	defer span.End()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	err := c.store.RunAtomic(ctx, work)
	elapsed := time.Since(start)

	if err == nil {
		span.SetStatus(codes.Ok, "")
		c.logger.Debug("[LEDGER] atomic unit committed",
			zap.String("operation", operation), zap.Duration("elapsed", elapsed))
		return nil
	}

	if de, ok := models.AsDomainError(err); ok {
		span.SetAttributes(attribute.String("ledger.rejection", de.Code))
		c.logger.Info("[LEDGER] atomic unit rejected",
			zap.String("operation", operation), zap.String("code", de.Code), zap.Duration("elapsed", elapsed))
		return err
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, "atomic unit failed")
	c.logger.Error("[LEDGER] atomic unit failed",
		zap.String("operation", operation),
		zap.Bool("transaction_error", store.IsTransactionError(err)),
		zap.Duration("elapsed", elapsed),
		zap.Error(err))
	return err
}
