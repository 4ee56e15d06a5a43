package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/kbouqdir/jobtrack/internal/track"
)

// Metrics provides methods for recording pipeline metrics. The zero
// value is a no-op recorder, so callers never need nil checks.
type Metrics struct {
	messagesFetched    metric.Int64Counter
	messagesExcluded   metric.Int64Counter
	messagesClassified metric.Int64Counter
	cacheHits          metric.Int64Counter
	runDuration        metric.Float64Histogram
}

// NewMetrics creates a Metrics instance with all instruments
// initialized on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	m.messagesFetched, err = meter.Int64Counter(
		"jobtrack_messages_fetched_total",
		metric.WithDescription("Total number of messages fetched from Gmail"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create messages_fetched counter: %w", err)
	}

	m.messagesExcluded, err = meter.Int64Counter(
		"jobtrack_messages_excluded_total",
		metric.WithDescription("Total number of messages dropped by the sender filter"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create messages_excluded counter: %w", err)
	}

	m.messagesClassified, err = meter.Int64Counter(
		"jobtrack_messages_classified_total",
		metric.WithDescription("Total number of messages classified, by status"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create messages_classified counter: %w", err)
	}

	m.cacheHits, err = meter.Int64Counter(
		"jobtrack_cache_hits_total",
		metric.WithDescription("Total number of messages served from the local store"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache_hits counter: %w", err)
	}

	m.runDuration, err = meter.Float64Histogram(
		"jobtrack_run_duration_seconds",
		metric.WithDescription("Pipeline run duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(1, 5, 15, 30, 60, 120, 300, 600),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run_duration histogram: %w", err)
	}

	return m, nil
}

// MessagesFetched records n messages entering the pipeline.
func (m *Metrics) MessagesFetched(ctx context.Context, n int) {
	if m.messagesFetched == nil {
		return
	}
	m.messagesFetched.Add(ctx, int64(n))
}

// MessageExcluded records one message dropped by the sender filter.
func (m *Metrics) MessageExcluded(ctx context.Context) {
	if m.messagesExcluded == nil {
		return
	}
	m.messagesExcluded.Add(ctx, 1)
}

// MessageClassified records one classification outcome.
func (m *Metrics) MessageClassified(ctx context.Context, status track.Status) {
	if m.messagesClassified == nil {
		return
	}
	m.messagesClassified.Add(ctx, 1, metric.WithAttributes(statusAttr(string(status))))
}

// CacheHit records one message served from the local store.
func (m *Metrics) CacheHit(ctx context.Context) {
	if m.cacheHits == nil {
		return
	}
	m.cacheHits.Add(ctx, 1)
}

// RunCompleted records the duration of a finished pipeline run.
func (m *Metrics) RunCompleted(ctx context.Context, d time.Duration) {
	if m.runDuration == nil {
		return
	}
	m.runDuration.Record(ctx, d.Seconds())
}
