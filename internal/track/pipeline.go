package track

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Fetcher produces the raw messages for a run. The Gmail client and the
// message cache both satisfy it; tests use in-memory fixtures.
type Fetcher interface {
	Fetch(ctx context.Context, since time.Time) ([]RawMessage, error)
}

// Recorder receives pipeline counters. The instrumentation package
// provides the OpenTelemetry implementation; a nil Recorder disables
// recording.
type Recorder interface {
	MessagesFetched(ctx context.Context, n int)
	MessageExcluded(ctx context.Context)
	MessageClassified(ctx context.Context, status Status)
}

// Pipeline runs the batch flow: fetch, filter, classify, extract,
// aggregate. All phases are sequential; there is no shared mutable
// state and nothing to cancel beyond the fetcher's context.
type Pipeline struct {
	fetcher    Fetcher
	filter     *SenderFilter
	classifier *Classifier
	extractor  *Extractor
	logger     *slog.Logger
	recorder   Recorder
	tracer     trace.Tracer
}

// NewPipeline wires a pipeline. logger must be non-nil; recorder and
// tracer may be nil.
func NewPipeline(fetcher Fetcher, filter *SenderFilter, classifier *Classifier, extractor *Extractor, logger *slog.Logger, recorder Recorder, tracer trace.Tracer) *Pipeline {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("track")
	}
	return &Pipeline{
		fetcher:    fetcher,
		filter:     filter,
		classifier: classifier,
		extractor:  extractor,
		logger:     logger,
		recorder:   recorder,
		tracer:     tracer,
	}
}

// Run executes one batch over messages received after since and returns
// the surviving records together with their aggregate report. Every
// message kept by the filter yields exactly one record.
func (p *Pipeline) Run(ctx context.Context, since time.Time) ([]Record, Report, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.run")
	defer span.End()

	msgs, err := p.fetchPhase(ctx, since)
	if err != nil {
		return nil, Report{}, fmt.Errorf("fetch messages: %w", err)
	}

	kept := p.filterPhase(ctx, msgs)
	records := p.classifyPhase(ctx, kept)

	_, aggSpan := p.tracer.Start(ctx, "pipeline.aggregate")
	report := Aggregate(records)
	aggSpan.End()

	p.logger.Info("pipeline complete",
		slog.Int("fetched", len(msgs)),
		slog.Int("excluded", len(msgs)-len(kept)),
		slog.Int("records", len(records)))

	return records, report, nil
}

func (p *Pipeline) fetchPhase(ctx context.Context, since time.Time) ([]RawMessage, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.fetch")
	defer span.End()

	msgs, err := p.fetcher.Fetch(ctx, since)
	if err != nil {
		return nil, err
	}
	if p.recorder != nil {
		p.recorder.MessagesFetched(ctx, len(msgs))
	}
	return msgs, nil
}

func (p *Pipeline) filterPhase(ctx context.Context, msgs []RawMessage) []RawMessage {
	ctx, span := p.tracer.Start(ctx, "pipeline.filter")
	defer span.End()

	kept := p.filter.Apply(msgs)
	if p.recorder != nil {
		for i := len(kept); i < len(msgs); i++ {
			p.recorder.MessageExcluded(ctx)
		}
	}
	return kept
}

func (p *Pipeline) classifyPhase(ctx context.Context, msgs []RawMessage) []Record {
	ctx, span := p.tracer.Start(ctx, "pipeline.classify")
	defer span.End()

	records := make([]Record, 0, len(msgs))
	for _, m := range msgs {
		status := p.classifier.Classify(m)
		rec := Record{
			Company:   p.extractor.Company(m),
			Role:      p.extractor.Role(m),
			Status:    status,
			Received:  m.Received,
			MessageID: m.ID,
		}
		records = append(records, rec)
		if p.recorder != nil {
			p.recorder.MessageClassified(ctx, status)
		}
	}
	return records
}
