package compression

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/fyrsmithlabs/diffpress/internal/compression"
const meterName = "compression"

// Service wraps a Strategy with logging, tracing, and metrics. The
// strategy stays pure; the service owns the observability surface.
type Service struct {
	strategy Strategy
	name     string
	log      *zap.Logger

	tracer trace.Tracer
	meter  metric.Meter

	runCounter       metric.Int64Counter
	runDuration      metric.Float64Histogram
	compressionRatio metric.Float64Histogram
	runErrors        metric.Int64Counter
}

// NewService builds the named strategy and wires up its instruments.
func NewService(name string, cfg Config, deps Deps) (*Service, error) {
	strategy, err := New(name, cfg, deps)
	if err != nil {
		return nil, err
	}

	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	s := &Service{
		strategy: strategy,
		name:     name,
		log:      log,
		tracer:   otel.Tracer(tracerName),
		meter:    otel.Meter(meterName),
	}
	if err := s.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}
	return s, nil
}

// Compress runs one compression end-to-end under a span, tagging logs and
// trace attributes with a fresh run ID.
func (s *Service) Compress(ctx context.Context, key ReviewKey, files []FileChange) (*Result, error) {
	runID := uuid.NewString()

	ctx, span := s.tracer.Start(ctx, "compression.compress",
		trace.WithAttributes(
			attribute.String("run_id", runID),
			attribute.String("strategy", s.name),
			attribute.String("repo", key.Repo),
			attribute.Int("pr_number", key.PRNumber),
			attribute.Int("file_count", len(files)),
		),
	)
	defer span.End()

	start := time.Now()

	result, err := s.strategy.Compress(ctx, key, files)
	if err != nil {
		span.RecordError(err)
		s.runErrors.Add(ctx, 1,
			metric.WithAttributes(attribute.String("strategy", s.name)))
		return nil, fmt.Errorf("compression failed: %w", err)
	}

	elapsed := time.Since(start)

	s.runCounter.Add(ctx, 1,
		metric.WithAttributes(attribute.String("strategy", s.name)))
	s.runDuration.Record(ctx, elapsed.Seconds(),
		metric.WithAttributes(attribute.String("strategy", s.name)))
	s.compressionRatio.Record(ctx, result.CompressionRatio,
		metric.WithAttributes(attribute.String("strategy", s.name)))

	span.SetAttributes(
		attribute.Int("original_tokens", result.OriginalTokens),
		attribute.Int("compressed_tokens", result.CompressedTokens),
		attribute.Float64("compression_ratio", result.CompressionRatio),
		attribute.Int("included_full", len(result.IncludedFull)),
		attribute.Int("included_summary", len(result.IncludedSummary)),
		attribute.Int("included_listed", len(result.IncludedListed)),
	)

	s.log.Info("compressed pull request",
		zap.String("run_id", runID),
		zap.String("repo", key.Repo),
		zap.Int("pr_number", key.PRNumber),
		zap.String("head_sha", key.HeadSHA),
		zap.Int("files_in", len(files)),
		zap.Int("full", len(result.IncludedFull)),
		zap.Int("summary", len(result.IncludedSummary)),
		zap.Int("listed", len(result.IncludedListed)),
		zap.Int("compressed_tokens", result.CompressedTokens),
		zap.Float64("ratio", result.CompressionRatio),
		zap.Duration("elapsed", elapsed),
	)

	return result, nil
}

func (s *Service) initMetrics() error {
	var err error

	s.runCounter, err = s.meter.Int64Counter(
		"compression.runs_total",
		metric.WithDescription("Total number of compression runs"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create run counter: %w", err)
	}

	s.runDuration, err = s.meter.Float64Histogram(
		"compression.duration_seconds",
		metric.WithDescription("Time spent on compression runs"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0),
	)
	if err != nil {
		return fmt.Errorf("failed to create duration histogram: %w", err)
	}

	s.compressionRatio, err = s.meter.Float64Histogram(
		"compression.ratio",
		metric.WithDescription("Compressed-to-original token ratios"),
		metric.WithUnit("1"),
		metric.WithExplicitBucketBoundaries(0.05, 0.1, 0.25, 0.5, 0.75, 1.0),
	)
	if err != nil {
		return fmt.Errorf("failed to create ratio histogram: %w", err)
	}

	s.runErrors, err = s.meter.Int64Counter(
		"compression.errors_total",
		metric.WithDescription("Total number of failed compression runs"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create error counter: %w", err)
	}

	return nil
}
