package runlog

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Job is one runlog to rewrite.
type Job struct {
	Input     string
	Output    string
	Overrides Overrides
}

// Outcome pairs a job's result with its error.
type Outcome struct {
	Result Result
	Err    error
}

// RewriteAll runs each job as an independent Rewrite, at most workers at a
// time. Outcomes are returned in job order; one failing file does not stop
// the others.
func RewriteAll(ctx context.Context, jobs []Job, workers int, opts Options) []Outcome {
	outcomes := make([]Outcome, len(jobs))
	if workers < 1 {
		workers = 1
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				outcomes[i] = Outcome{Result: Result{Input: job.Input, Output: job.Output}, Err: err}
				return nil
			}
			res, err := Rewrite(ctx, job.Input, job.Output, job.Overrides, opts)
			outcomes[i] = Outcome{Result: res, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}
