// Package runner fans subject processing out over a bounded worker pool.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"runtime/debug"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hpungsan/metbands/internal/errors"
	"github.com/hpungsan/metbands/internal/subject"
)

// ProcessFunc produces one subject's summary.
type ProcessFunc func(ctx context.Context, subjectID string) (*subject.Summary, error)

// Options configures a run.
type Options struct {
	Workers int // <= 0 means runtime.NumCPU()
	Logger  *slog.Logger
}

// Failure records a subject that produced no summary.
type Failure struct {
	SubjectID string
	Err       error
}

// Outcome is the result of a run. Summaries are in completion order.
type Outcome struct {
	Summaries []subject.Summary
	Failures  []Failure
}

type slot struct {
	id      string
	summary *subject.Summary
	err     error
	done    time.Time
}

// Run processes every ID and waits for all of them. A failing subject never
// stops its siblings; a panic inside process becomes that subject's failure.
// Cancellation is observed before each subject starts.
func Run(ctx context.Context, ids []string, opts Options, process ProcessFunc) *Outcome {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	slots := make([]slot, len(ids))
	var g errgroup.Group
	g.SetLimit(workers)

	for i, id := range ids {
		g.Go(func() error {
			s := &slots[i]
			s.id = id
			start := time.Now()
			s.summary, s.err = runOne(ctx, id, process)
			s.done = time.Now()
			elapsed := s.done.Sub(start)
			if s.err != nil {
				logger.Warn("subject failed",
					"subject_id", id,
					"error_code", errors.CodeOf(s.err),
					"elapsed", elapsed,
					"error", s.err)
			} else {
				logger.Debug("subject processed",
					"subject_id", id,
					"rows", s.summary.Rows,
					"unresolved", s.summary.Unresolved,
					"elapsed", elapsed)
			}
			return nil
		})
	}
	_ = g.Wait()

	return collect(slots)
}

func runOne(ctx context.Context, id string, process ProcessFunc) (summary *subject.Summary, err error) {
	if ctx.Err() != nil {
		return nil, errors.NewCancelled(fmt.Sprintf("subject %s", id))
	}
	defer func() {
		if r := recover(); r != nil {
			summary = nil
			err = errors.NewSubjectLoadFailed(id, fmt.Errorf("panic: %v\n%s", r, debug.Stack()))
		}
	}()

	summary, err = process(ctx, id)
	if err == nil && summary == nil {
		err = errors.NewInternal(fmt.Errorf("subject %s: no summary produced", id))
	}
	return summary, err
}

// collect orders slots by completion time.
func collect(slots []slot) *Outcome {
	order := make([]int, len(slots))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return slots[a].done.Compare(slots[b].done)
	})

	out := &Outcome{}
	for _, i := range order {
		s := slots[i]
		if s.err != nil {
			out.Failures = append(out.Failures, Failure{SubjectID: s.id, Err: s.err})
			continue
		}
		out.Summaries = append(out.Summaries, *s.summary)
	}
	return out
}
