/*
Package workers runs the chunks of a plan concurrently, one goroutine per chunk.

Chunks of a plan never share an index, so each goroutine may write to its own part of a shared
output without locking.
*/
package workers

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/sky-uk/chunks/chunk"
	"github.com/sky-uk/chunks/util"
	"golang.org/x/sync/errgroup"
)

const defaultJob = "default"

// Func processes the indices of chunk i.
type Func func(ctx context.Context, i int, r chunk.Range) error

// ChunkError is the failure of a single chunk.
type ChunkError struct {
	Index int
	Range chunk.Range
	Err   error
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("chunk %d (%v): %v", e.Index, e.Range, e.Err)
}

func (e *ChunkError) Unwrap() error {
	return e.Err
}

type config struct {
	limit int
	job   string
}

// Option configures Run and Map.
type Option func(*config)

// WithLimit bounds the number of chunks processed at the same time. Zero or less means no bound.
func WithLimit(limit int) Option {
	return func(c *config) {
		c.limit = limit
	}
}

// WithJob names the work in logs and metrics.
func WithJob(job string) Option {
	return func(c *config) {
		c.job = job
	}
}

// Run calls fn for every chunk of plan, each in its own goroutine, and waits for all of them.
// The first failure cancels the context given to chunks still running, and chunks not yet
// started are skipped. Every failure is returned as a *ChunkError inside a *multierror.Error,
// ordered by chunk. If no chunk failed, the error of ctx is returned.
func Run(ctx context.Context, plan chunk.Plan, fn Func, opts ...Option) error {
	conf := config{job: defaultJob}
	for _, opt := range opts {
		opt(&conf)
	}
	initMetrics()

	logger := log.WithFields(log.Fields{"job": conf.job, "chunks": plan.Len()})
	logger.Debugf("Processing %v", plan)

	group, groupCtx := errgroup.WithContext(ctx)
	if conf.limit > 0 {
		group.SetLimit(conf.limit)
	}

	var errs util.SafeErrors
	start := time.Now()
	for i, r := range plan.Enumerate() {
		group.Go(func() error {
			if groupCtx.Err() != nil {
				logger.WithField("chunk", i).Debug("Skipping chunk after cancellation")
				return nil
			}
			if err := runChunk(groupCtx, conf, i, r, fn); err != nil {
				errs.Append(&ChunkError{Index: i, Range: r, Err: err})
				return err
			}
			return nil
		})
	}
	_ = group.Wait()

	if failures := errs.Get(); failures != nil {
		sort.SliceStable(failures.Errors, func(a, b int) bool {
			return failures.Errors[a].(*ChunkError).Index < failures.Errors[b].(*ChunkError).Index
		})
		logger.Errorf("%d chunk(s) failed", len(failures.Errors))
		return failures
	}

	logger.WithField("took", time.Since(start)).Debug("Processed all chunks")
	return ctx.Err()
}

func runChunk(ctx context.Context, conf config, i int, r chunk.Range, fn Func) (err error) {
	chunksStarted.WithLabelValues(conf.job).Inc()
	inFlight := chunksInFlight.WithLabelValues(conf.job)
	inFlight.Inc()
	timer := prometheus.NewTimer(chunkDuration.WithLabelValues(conf.job))

	fields := log.Fields{"job": conf.job, "chunk": i, "range": r.String(), "size": r.Len()}
	log.WithFields(fields).Debug("Processing chunk")

	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("panic: %v", recovered)
		}
		timer.ObserveDuration()
		inFlight.Dec()
		if err != nil {
			chunksFailed.WithLabelValues(conf.job).Inc()
			log.WithFields(fields).WithField("err", err).Error("Unable to process chunk")
		}
	}()

	return fn(ctx, i, r)
}

// Map calls fn for every chunk of plan like Run, storing each result at its chunk's position.
// Results of failed or skipped chunks are left as the zero value.
func Map[T any](ctx context.Context, plan chunk.Plan, fn func(ctx context.Context, i int, r chunk.Range) (T, error), opts ...Option) ([]T, error) {
	results := make([]T, plan.Len())
	err := Run(ctx, plan, func(ctx context.Context, i int, r chunk.Range) error {
		result, err := fn(ctx, i, r)
		if err != nil {
			return err
		}
		results[i] = result
		return nil
	}, opts...)
	return results, err
}

// Errors returns the chunk failures held in err, if any.
func Errors(err error) []*ChunkError {
	merr, ok := err.(*multierror.Error)
	if !ok {
		return nil
	}
	var chunkErrs []*ChunkError
	for _, e := range merr.Errors {
		if chunkErr, ok := e.(*ChunkError); ok {
			chunkErrs = append(chunkErrs, chunkErr)
		}
	}
	return chunkErrs
}
