package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"
	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/nasr-etl/internal/decode"
	"github.com/couchcryptid/nasr-etl/internal/distribution"
	"github.com/couchcryptid/nasr-etl/internal/domain"
	"github.com/couchcryptid/nasr-etl/internal/families"
	"github.com/couchcryptid/nasr-etl/internal/observability"
)

// ErrTooManyLineErrors aborts a family once its line-error budget is spent.
var ErrTooManyLineErrors = errors.New("too many line errors")

// BatchLoader writes multiple output events to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, events []domain.OutputEvent) error
}

// Options tune a pipeline run.
type Options struct {
	// Families to decode; empty means every family in the distribution.
	Families []string
	// BatchSize is the number of rows handed to the loader at once.
	BatchSize int
	// MaxLineErrors is the per-family number of failed lines tolerated
	// before the family is aborted. Negative means unlimited.
	MaxLineErrors int
	// Concurrency bounds how many families are decoded at the same time.
	Concurrency int
	// ProgressEvery logs progress every N lines. Zero disables it.
	ProgressEvery int
}

// Pipeline decodes every record family of a distribution and loads the rows.
type Pipeline struct {
	dist    distribution.Distribution
	loader  BatchLoader
	logger  *slog.Logger
	metrics *observability.Metrics
	opts    Options
	ready   atomic.Bool

	mu        sync.Mutex
	summaries map[string]FamilySummary
}

// New creates a Pipeline reading from dist and writing to loader.
func New(dist distribution.Distribution, loader BatchLoader, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Pipeline {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 1
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return &Pipeline{
		dist:      dist,
		loader:    loader,
		logger:    logger,
		metrics:   metrics,
		opts:      opts,
		summaries: make(map[string]FamilySummary),
	}
}

// CheckReadiness returns nil once at least one family has been fully loaded,
// or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not completed any record family yet")
	}
	return nil
}

// Summaries returns the finished family summaries, sorted by family.
func (p *Pipeline) Summaries() []FamilySummary {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]FamilySummary, 0, len(p.summaries))
	for _, s := range p.summaries {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Family < out[j].Family })
	return out
}

// Run decodes the selected families, at most Options.Concurrency at a time.
// A failing family does not stop the others; Run returns every family
// failure joined together, or nil when all families completed.
func (p *Pipeline) Run(ctx context.Context) error {
	names := p.opts.Families
	if len(names) == 0 {
		var err error
		if names, err = p.dist.Families(ctx); err != nil {
			return err
		}
	}

	p.logger.Info("pipeline started",
		"families", len(names),
		"batch_size", p.opts.BatchSize,
		"concurrency", p.opts.Concurrency,
	)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	g.SetLimit(p.opts.Concurrency)

	for _, family := range names {
		g.Go(func() error {
			if err := p.runFamily(ctx, family); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("family %s: %w", family, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if ctx.Err() != nil {
		p.logger.Info("pipeline stopping", "reason", ctx.Err())
	}
	p.logger.Info("pipeline finished", "families", len(names), "failed", len(errs))
	return errors.Join(errs...)
}

func (p *Pipeline) runFamily(ctx context.Context, family string) (err error) {
	start := time.Now()
	sum := newSummary(family)
	logger := p.logger.With("family", family)

	p.metrics.FamiliesRunning.Inc()
	defer func() {
		p.metrics.FamiliesRunning.Dec()
		sum.Duration = time.Since(start)
		p.metrics.FamilyDuration.WithLabelValues(family).Observe(sum.Duration.Seconds())
		if err != nil {
			sum.Error = err.Error()
			logger.Error("family aborted", "error", err, "lines", sum.Lines, "line_errors", sum.LineErrors)
		} else {
			p.ready.Store(true)
			logger.Info("family complete", "lines", sum.Lines, "rows", sum.Rows, "line_errors", sum.LineErrors)
		}
		p.mu.Lock()
		p.summaries[family] = *sum
		p.mu.Unlock()
	}()

	l, err := distribution.LoadLayout(ctx, p.dist, family)
	if err != nil {
		p.metrics.LayoutLoadErrors.WithLabelValues(family).Inc()
		return fmt.Errorf("load layout: %w", err)
	}
	dispatcher, err := families.Dispatcher(l)
	if err != nil {
		return err
	}

	data, err := distribution.OpenData(ctx, p.dist, family)
	if err != nil {
		return err
	}
	defer data.Close()

	linesConsumed := p.metrics.LinesConsumed.WithLabelValues(family)
	onLineError := p.lineErrorHandler(logger, sum)
	dec := decode.NewDecoder(family, dispatcher,
		decode.WithErrorHandler(onLineError),
		decode.WithProgress(func(lines int) {
			sum.Lines = lines
			linesConsumed.Inc()
			if p.opts.ProgressEvery > 0 && lines%p.opts.ProgressEvery == 0 {
				logger.Debug("progress", "lines", lines, "bytes", data.BytesRead())
			}
		}),
	)

	batch := make([]domain.OutputEvent, 0, p.opts.BatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := p.load(ctx, family, batch); err != nil {
			return err
		}
		sum.Loaded += len(batch)
		batch = make([]domain.OutputEvent, 0, p.opts.BatchSize)
		return nil
	}

	decodeErr := dec.Decode(ctx, data, func(rec decode.Record) error {
		out, err := Encode(rec)
		if err != nil {
			return onLineError(&domain.LineError{Family: family, Line: rec.Line, Err: err})
		}
		sum.Rows++
		p.metrics.RowsDecoded.WithLabelValues(family, rec.Variant.Name).Inc()

		batch = append(batch, out)
		if len(batch) >= p.opts.BatchSize {
			return flush()
		}
		return nil
	})
	if err := ctx.Err(); err != nil {
		if decodeErr != nil {
			return decodeErr
		}
		return err
	}
	// Rows decoded before an abort are still delivered.
	if err := flush(); err != nil {
		return errors.Join(decodeErr, err)
	}
	return decodeErr
}

// lineErrorHandler counts and logs a failed line, and aborts the family once
// the configured budget is exceeded.
func (p *Pipeline) lineErrorHandler(logger *slog.Logger, sum *FamilySummary) decode.ErrorHandler {
	return func(lineErr *domain.LineError) error {
		kind := domain.Classify(lineErr)
		sum.LineErrors++
		sum.ErrorsByKind[kind]++
		p.metrics.LineErrors.WithLabelValues(lineErr.Family, kind).Inc()

		logger.Warn("line decode failed, skipping line",
			"line", lineErr.Line,
			"kind", kind,
			"error", lineErr.Err,
		)

		if p.opts.MaxLineErrors >= 0 && sum.LineErrors > p.opts.MaxLineErrors {
			return fmt.Errorf("%w (%d): %w", ErrTooManyLineErrors, sum.LineErrors, lineErr)
		}
		return nil
	}
}

// load writes one batch, retrying with exponential backoff until it
// succeeds or ctx is cancelled.
func (p *Pipeline) load(ctx context.Context, family string, batch []domain.OutputEvent) error {
	start := time.Now()

	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for {
		err := p.loader.LoadBatch(ctx, batch)
		if err == nil {
			break
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p.logger.Error("load batch failed", "family", family, "error", err, "batch_size", len(batch), "retry_in", backoff)
		if !retry.SleepWithContext(ctx, backoff) {
			return ctx.Err()
		}
		backoff = retry.NextBackoff(backoff, maxBackoff)
	}

	p.metrics.BatchSize.Observe(float64(len(batch)))
	p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
	p.metrics.RowsProduced.WithLabelValues(family).Add(float64(len(batch)))
	return nil
}
