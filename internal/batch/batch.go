// Package batch fans hemisphere extraction out across a bounded worker pool
// and aggregates per-subject outcomes.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"lgdhemis/internal/hemis"
	"lgdhemis/internal/logging"
	"lgdhemis/internal/pathmap"
)

// ErrSubjectsFailed is returned by Summary.Err when at least one subject failed.
var ErrSubjectsFailed = errors.New("one or more subjects failed")

// Processor handles a single subject and reports its outcome.
type Processor interface {
	Process(ctx context.Context, pair pathmap.Pair) hemis.Result
}

// Orchestrator runs a Processor over every discovered pair.
type Orchestrator struct {
	processor Processor
	workers   int
	logger    *slog.Logger
}

// New returns an Orchestrator. workers <= 0 selects one worker per CPU
// available to the process.
func New(processor Processor, workers int, logger *slog.Logger) *Orchestrator {
	if workers <= 0 {
		workers = AvailableCPUs()
	}
	return &Orchestrator{
		processor: processor,
		workers:   workers,
		logger:    logging.NewComponentLogger(logger, "batch"),
	}
}

// Workers reports the pool size.
func (o *Orchestrator) Workers() int {
	return o.workers
}

// AvailableCPUs is the number of CPUs the process may run on. On Linux this
// honours the scheduler affinity mask.
func AvailableCPUs() int {
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return 1
}

// Run processes every pair and returns once all of them have finished.
// Subjects are independent: a failure never cancels its siblings.
func (o *Orchestrator) Run(ctx context.Context, pairs []pathmap.Pair) Summary {
	summary := Summary{
		RunID:   uuid.NewString(),
		Workers: o.workers,
		Started: time.Now().UTC(),
		Results: make([]hemis.Result, len(pairs)),
	}
	ctx = logging.WithRunID(ctx, summary.RunID)
	logger := logging.WithContext(ctx, o.logger)
	logger.Debug(fmt.Sprintf("Using %d threads", o.workers), logging.Int("subjects", len(pairs)))

	var g errgroup.Group
	g.SetLimit(o.workers)
	for i, pair := range pairs {
		g.Go(func() error {
			summary.Results[i] = o.processor.Process(ctx, pair)
			return nil
		})
	}
	_ = g.Wait()

	summary.Finished = time.Now().UTC()
	logger.Info("batch finished",
		logging.Int("subjects", len(pairs)),
		logging.Int("succeeded", summary.Succeeded()),
		logging.Int("failed", summary.Failed()),
		logging.Duration("elapsed", summary.Finished.Sub(summary.Started)),
	)
	return summary
}

// Summary collects the outcome of one batch run. Results are in the order
// the pairs were supplied.
type Summary struct {
	RunID    string
	Workers  int
	Started  time.Time
	Finished time.Time
	Results  []hemis.Result
}

// Succeeded counts subjects that produced both hemisphere masks.
func (s Summary) Succeeded() int {
	n := 0
	for _, r := range s.Results {
		if r.OK() {
			n++
		}
	}
	return n
}

// Failed counts subjects that did not succeed.
func (s Summary) Failed() int {
	return len(s.Results) - s.Succeeded()
}

// OK reports whether every subject succeeded.
func (s Summary) OK() bool {
	return s.Failed() == 0
}

// Err returns ErrSubjectsFailed when any subject failed.
func (s Summary) Err() error {
	if s.OK() {
		return nil
	}
	return fmt.Errorf("%w: %d of %d", ErrSubjectsFailed, s.Failed(), len(s.Results))
}
